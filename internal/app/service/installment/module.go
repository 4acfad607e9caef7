package installment

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/app/service/eventlog"
	"github.com/innercompass/payments/internal/platform/stripepay"
)

func newHandler(sc stripepay.Client, events *eventlog.Service, log *zap.SugaredLogger) (*Handler, error) {
	return NewHandler(sc, events, log)
}

// Module exposes the installment webhook handler via Fx.
var Module = fx.Options(
	fx.Provide(newHandler),
)
