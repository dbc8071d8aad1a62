package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/comunidadhq/backend/internal/app/api/server"
	"github.com/comunidadhq/backend/internal/app/service/access"
	"github.com/comunidadhq/backend/internal/app/service/auth"
	"github.com/comunidadhq/backend/internal/app/service/classroom"
	"github.com/comunidadhq/backend/internal/app/service/community"
	"github.com/comunidadhq/backend/internal/app/service/content"
	"github.com/comunidadhq/backend/internal/app/service/events"
	"github.com/comunidadhq/backend/internal/app/service/membership"
	"github.com/comunidadhq/backend/internal/app/service/paymentmethod"
	"github.com/comunidadhq/backend/internal/app/service/reports"
	"github.com/comunidadhq/backend/internal/app/service/subscription"
	"github.com/comunidadhq/backend/internal/platform/db"
	"github.com/comunidadhq/backend/internal/platform/mail"
	"github.com/comunidadhq/backend/internal/platform/redisstore"
	"github.com/comunidadhq/backend/internal/platform/storage"
	"github.com/comunidadhq/backend/pkg/config"
	"github.com/comunidadhq/backend/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	redisstore.Module,
	mail.Module,
	storage.Module,
	server.Module,
	access.Module,
	auth.Module,
	community.Module,
	membership.Module,
	subscription.Module,
	content.Module,
	classroom.Module,
	events.Module,
	paymentmethod.Module,
	reports.Module,
)
