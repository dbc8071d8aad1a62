package paymentmethod

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
)

var (
	ErrMethodNotFound = errors.New("payment method not found")
	ErrNameTaken      = errors.New("payment method name already exists")
	ErrConfigNotFound = errors.New("community payment method not found")
	// ErrConfigExists guards the one-config-per-method rule inside a
	// community.
	ErrConfigExists = errors.New("payment method is already configured for this community")
	ErrMethodInUse  = errors.New("payment method is configured by at least one community")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Catalog returns every global payment method, for platform admin screens
// and the community configuration picker.
func (s *Service) Catalog(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// CreateCatalogEntry adds a method to the global catalog. Platform admin only.
func (s *Service) CreateCatalogEntry(ctx context.Context, name string) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{ID: tool.GenerateUUIDV7(), Name: name}
	err := s.db.WithContext(ctx).Create(method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("payment method created", "payment_method_id", method.ID, "name", name)
	return method, nil
}

// DeleteCatalogEntry removes a method that no community references.
func (s *Service) DeleteCatalogEntry(ctx context.Context, methodID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.CommunityPaymentMethod{}).
			Where("payment_method_id = ?", methodID).Count(&inUse).Error; err != nil {
			return fmt.Errorf("failed to check references: %w", err)
		}
		if inUse > 0 {
			return ErrMethodInUse
		}

		res := tx.Delete(&models.PaymentMethod{}, "id = ?", methodID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete payment method: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrMethodNotFound
		}
		return nil
	})
}

type ConfigRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	Instructions    string `json:"instructions"`
	ImageURL        string `json:"image_url"`
	Enabled         *bool  `json:"enabled"`
}

// Configure attaches a catalog method to a community with its instructions
// and optional QR image.
func (s *Service) Configure(ctx context.Context, communityID string, req *ConfigRequest) (*models.CommunityPaymentMethod, error) {
	var method models.PaymentMethod
	err := s.db.WithContext(ctx).First(&method, "id = ?", req.PaymentMethodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment method: %w", err)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	cfg := &models.CommunityPaymentMethod{
		ID:              tool.GenerateUUIDV7(),
		CommunityID:     communityID,
		PaymentMethodID: method.ID,
		Instructions:    req.Instructions,
		ImageURL:        req.ImageURL,
		Enabled:         enabled,
	}
	if err := s.db.WithContext(ctx).Create(cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConfigExists
		}
		return nil, fmt.Errorf("failed to configure payment method: %w", err)
	}
	cfg.PaymentMethod = &method
	return cfg, nil
}

type ConfigUpdateRequest struct {
	Instructions *string `json:"instructions"`
	ImageURL     *string `json:"image_url"`
	Enabled      *bool   `json:"enabled"`
}

func (s *Service) UpdateConfig(ctx context.Context, communityID, configID string, req *ConfigUpdateRequest) (*models.CommunityPaymentMethod, error) {
	updates := map[string]any{}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.CommunityPaymentMethod{}).
			Where("id = ? AND community_id = ?", configID, communityID).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update config: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrConfigNotFound
		}
	}

	var cfg models.CommunityPaymentMethod
	err := s.db.WithContext(ctx).Preload("PaymentMethod").
		First(&cfg, "id = ? AND community_id = ?", configID, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	return &cfg, nil
}

func (s *Service) RemoveConfig(ctx context.Context, communityID, configID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND community_id = ?", configID, communityID).
		Delete(&models.CommunityPaymentMethod{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete config: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// Configs lists every configured method of a community, for admin settings.
func (s *Service) Configs(ctx context.Context, communityID string) ([]models.CommunityPaymentMethod, error) {
	var configs []models.CommunityPaymentMethod
	err := s.db.WithContext(ctx).Preload("PaymentMethod").
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}
	return configs, nil
}

// EnabledForCommunity lists the methods offered in the paid-join flow.
func (s *Service) EnabledForCommunity(ctx context.Context, communityID string) ([]models.CommunityPaymentMethod, error) {
	var configs []models.CommunityPaymentMethod
	err := s.db.WithContext(ctx).Preload("PaymentMethod").
		Where("community_id = ? AND enabled = true", communityID).
		Order("created_at ASC").
		Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled methods: %w", err)
	}
	return configs, nil
}
