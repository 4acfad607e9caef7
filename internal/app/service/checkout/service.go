package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/platform/stripepay"
	cfgpkg "github.com/innercompass/payments/pkg/config"
	"github.com/innercompass/payments/pkg/logctx"
)

const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

var (
	ErrInvalidMode         = errors.New("mode must be \"payment\" or \"subscription\"")
	ErrNoLineItems         = errors.New("at least one line item is required")
	ErrMissingRedirectURL  = errors.New("success_url and cancel_url are required")
	ErrInvalidPlanMetadata = errors.New("subscription metadata must carry numeric weekly_amount and installment_weeks")

	// ErrAmountBelowMinimum guards the processor's one-dollar floor before any
	// remote call; Stripe's own rejection at checkout-initiation time is far
	// less actionable for the booking front end.
	ErrAmountBelowMinimum = errors.New("Subscription amounts under $1 CAD are not supported by Stripe. Please use the one-time payment option.")
)

// IsValidationErr reports whether err is a pre-dispatch validation failure,
// as opposed to a remote provider failure.
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrNoLineItems) ||
		errors.Is(err, ErrMissingRedirectURL) ||
		errors.Is(err, ErrInvalidPlanMetadata) ||
		errors.Is(err, ErrAmountBelowMinimum)
}

// PriceData describes an inline price for a line item, mirroring Stripe's
// price_data shape so the front end can send custom amounts.
type PriceData struct {
	Currency    string `json:"currency"`
	UnitAmount  int64  `json:"unit_amount"`
	ProductName string `json:"product_name"`
	Interval    string `json:"interval,omitempty"`
}

type LineItem struct {
	Price     string     `json:"price,omitempty"`
	PriceData *PriceData `json:"price_data,omitempty"`
	Quantity  int64      `json:"quantity"`
}

type CreateSessionRequest struct {
	Mode       string            `json:"mode"`
	LineItems  []*LineItem       `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type CreateSessionResult struct {
	ID  string `json:"id"`
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

// CreateSession validates the request, composes the checkout-session params
// and dispatches them to Stripe. Validation failures never reach the remote.
func (s *Service) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResult, error) {
	params, err := s.buildSessionParams(req)
	if err != nil {
		return nil, err
	}

	sess, err := s.stripe.CreateCheckoutSession(ctx, params)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("checkout_session_create_failed", "mode", req.Mode, "error", err.Error())
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("checkout_session_created", "session_id", sess.ID, "mode", req.Mode)
	return &CreateSessionResult{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Service) buildSessionParams(req *CreateSessionRequest) (*stripe.CheckoutSessionParams, error) {
	if req.Mode != ModePayment && req.Mode != ModeSubscription {
		return nil, ErrInvalidMode
	}
	if len(req.LineItems) == 0 {
		return nil, ErrNoLineItems
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return nil, ErrMissingRedirectURL
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(req.Mode),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                buildLineItems(req.LineItems),
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{s.cfg.Stripe.AllowedCountry}),
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Metadata = req.Metadata

	switch req.Mode {
	case ModePayment:
		// Create a customer record even for one-off payments so repeat
		// customers stay identifiable without prior account linkage.
		params.CustomerCreation = stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways))
	case ModeSubscription:
		subData, err := buildInstallmentPlan(req.Metadata)
		if err != nil {
			return nil, err
		}
		params.SubscriptionData = subData
	}
	return params, nil
}

// buildInstallmentPlan seeds the subscription metadata that drives the
// webhook auto-cancellation policy. The metadata bag is the sole durable
// state of the plan; Stripe round-trips it on every invoice event.
func buildInstallmentPlan(metadata map[string]string) (*stripe.CheckoutSessionSubscriptionDataParams, error) {
	weeklyAmount, err := strconv.ParseFloat(metadata["weekly_amount"], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: weekly_amount %q", ErrInvalidPlanMetadata, metadata["weekly_amount"])
	}
	installmentWeeks, err := strconv.Atoi(metadata["installment_weeks"])
	if err != nil {
		return nil, fmt.Errorf("%w: installment_weeks %q", ErrInvalidPlanMetadata, metadata["installment_weeks"])
	}
	if weeklyAmount < 1 {
		return nil, ErrAmountBelowMinimum
	}
	return &stripe.CheckoutSessionSubscriptionDataParams{
		Metadata: map[string]string{
			"total_installments": strconv.Itoa(installmentWeeks),
			"installment_number": "1",
			"total_amount":       metadata["final_total"],
			"auto_cancel_after":  strconv.Itoa(installmentWeeks),
		},
	}, nil
}

func buildLineItems(items []*LineItem) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		li := &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
		}
		if item.Price != "" {
			li.Price = stripe.String(item.Price)
		}
		if item.PriceData != nil {
			pd := &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.PriceData.Currency),
				UnitAmount: stripe.Int64(item.PriceData.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.PriceData.ProductName),
				},
			}
			if item.PriceData.Interval != "" {
				pd.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String(item.PriceData.Interval),
				}
			}
			li.PriceData = pd
		}
		out = append(out, li)
	}
	return out
}

// GetSession retrieves the full session record for the confirmation page.
func (s *Service) GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	sess, err := s.stripe.GetCheckoutSession(ctx, id)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("checkout_session_get_failed", "session_id", id, "error", err.Error())
		return nil, err
	}
	return sess, nil
}
