package stripepay

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/client"
	"github.com/stripe/stripe-go/v83/webhook"
)

// Client is the facade the services depend on. Everything the system does
// remotely goes through here, so tests can swap in counting fakes and no
// handler ever touches stripe-go package-level state.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
	CreateSetupIntent(ctx context.Context, params *stripe.SetupIntentParams) (*stripe.SetupIntent, error)
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type apiClient struct {
	sc            *client.API
	webhookSecret string
}

// NewClient builds a Client backed by a per-instance stripe client.API, so
// the secret key is injected rather than set on the global stripe.Key.
func NewClient(secretKey, webhookSecret string) Client {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &apiClient{sc: sc, webhookSecret: webhookSecret}
}

func (a *apiClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return a.sc.CheckoutSessions.New(params)
}

func (a *apiClient) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return a.sc.CheckoutSessions.Get(id, params)
}

func (a *apiClient) CreateSetupIntent(ctx context.Context, params *stripe.SetupIntentParams) (*stripe.SetupIntent, error) {
	params.Context = ctx
	return a.sc.SetupIntents.New(params)
}

func (a *apiClient) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	return a.sc.Subscriptions.Get(id, params)
}

func (a *apiClient) UpdateSubscription(ctx context.Context, id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	params.Context = ctx
	return a.sc.Subscriptions.Update(id, params)
}

func (a *apiClient) CancelSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	return a.sc.Subscriptions.Cancel(id, params)
}

func (a *apiClient) CreatePortalSession(ctx context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	params.Context = ctx
	return a.sc.BillingPortalSessions.New(params)
}

// ConstructEvent verifies the webhook signature against the configured
// signing secret and parses the event. API version mismatches are tolerated:
// signature verification still holds, and event payloads are decoded
// defensively by the consumer.
func (a *apiClient) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, a.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// ErrorMessage unwraps a stripe error to its human-readable message. The
// front end shows these to a trusted operator, matching what the dashboard
// would say, instead of the SDK's JSON-ish Error() string.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return sErr.Msg
	}
	return err.Error()
}
