package portal

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/platform/stripepay"
	cfgpkg "github.com/innercompass/payments/pkg/config"
	"github.com/innercompass/payments/pkg/logctx"
)

var ErrMissingCustomerID = errors.New("customer_id is required")

type CreateRequest struct {
	CustomerID string `json:"customer_id"`
	ReturnURL  string `json:"return_url"`
}

type CreateResult struct {
	URL string `json:"url"`
}

type Service struct {
	stripe stripepay.Client
	cfg    *cfgpkg.Config
	log    *zap.SugaredLogger
}

func NewService(sc stripepay.Client, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{stripe: sc, cfg: cfg, log: log}
}

// Create builds a billing-portal session for self-service subscription
// management. An absent return_url falls back to the configured confirmation
// page.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.cfg.Stripe.PortalReturnURL
	}

	sess, err := s.stripe.CreatePortalSession(ctx, &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("portal_session_create_failed", "customer_id", req.CustomerID, "error", err.Error())
		return nil, err
	}
	return &CreateResult{URL: sess.URL}, nil
}
