package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/comunidadhq/backend/pkg/config"
	"github.com/comunidadhq/backend/pkg/tool"
)

// Store persists uploaded assets (community banners, logos, payment QR
// images) and returns a public URL to put on the owning row.
type Store interface {
	Save(name string, r io.Reader) (publicURL string, err error)
}

// Local writes uploads to a directory served statically by the HTTP server.
type Local struct {
	dir        string
	publicPath string
	baseURL    string
	log        *zap.SugaredLogger
}

func NewLocal(log *zap.SugaredLogger, cfg *cfgpkg.Config) (*Local, error) {
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{
		dir:        cfg.Storage.Dir,
		publicPath: cfg.Storage.PublicPath,
		baseURL:    strings.TrimRight(cfg.Server.BaseURL, "/"),
		log:        log,
	}, nil
}

// Save writes the file under a fresh UUID name, keeping the original
// extension so content type negotiation keeps working.
func (l *Local) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fileName := tool.GenerateUUIDV7() + ext
	dst := filepath.Join(l.dir, fileName)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	url := fmt.Sprintf("%s%s/%s", l.baseURL, l.publicPath, fileName)
	l.log.Infow("stored upload", "file", fileName)
	return url, nil
}

var Module = fx.Options(
	fx.Provide(NewLocal),
	fx.Provide(func(l *Local) Store { return l }),
)
