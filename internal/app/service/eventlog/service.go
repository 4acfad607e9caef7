package eventlog

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/innercompass/payments/internal/models"
	"github.com/innercompass/payments/pkg/logctx"
	"github.com/innercompass/payments/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Save asynchronously persists a webhook event log. Best-effort: failures are
// logged and never surface to the webhook response, which must acknowledge
// receipt regardless. Nil input is ignored.
func (s *Service) Save(ctx context.Context, rec *models.WebhookEventLog) {
	go func() {
		if rec == nil {
			return
		}
		if rec.ID == "" {
			rec.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(rec).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}
