package setupintent

import (
	"context"

	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/logctx"
)

type CreateRequest struct {
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

type CreateResult struct {
	ClientSecret  string `json:"client_secret"`
	SetupIntentID string `json:"setup_intent_id"`
}

type Service struct {
	stripe stripepay.Client
	log    *zap.SugaredLogger
}

func NewService(sc stripepay.Client, log *zap.SugaredLogger) *Service {
	return &Service{stripe: sc, log: log}
}

// Create builds a zero-amount card authorization for later off-session
// charging. Caller metadata is merged with the fixed booking tags; the fixed
// tags win on key collision.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	params := &stripe.SetupIntentParams{
		Usage:              stripe.String("off_session"),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Metadata = lo.Assign(req.Metadata, map[string]string{
		"booking_type":   "single_session",
		"customer_email": req.CustomerEmail,
	})

	si, err := s.stripe.CreateSetupIntent(ctx, params)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("setup_intent_create_failed", "error", err.Error())
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("setup_intent_created", "setup_intent_id", si.ID)
	return &CreateResult{ClientSecret: si.ClientSecret, SetupIntentID: si.ID}, nil
}
