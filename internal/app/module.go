package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/innercompass/payments/internal/app/api/server"
	"github.com/innercompass/payments/internal/app/service/checkout"
	"github.com/innercompass/payments/internal/app/service/eventlog"
	"github.com/innercompass/payments/internal/app/service/installment"
	"github.com/innercompass/payments/internal/app/service/portal"
	"github.com/innercompass/payments/internal/app/service/setupintent"
	"github.com/innercompass/payments/internal/platform/db"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/config"
	"github.com/innercompass/payments/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	stripepay.Module,
	server.Module,
	checkout.Module,
	setupintent.Module,
	portal.Module,
	eventlog.Module,
	installment.Module,
)
