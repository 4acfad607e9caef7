package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/platform/stripepay"
	cfgpkg "github.com/innercompass/payments/pkg/config"
)

type fakeStripe struct {
	stripepay.Client

	calls  int
	params *stripe.BillingPortalSessionParams
}

func (f *fakeStripe) CreatePortalSession(_ context.Context, params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	f.calls++
	f.params = params
	return &stripe.BillingPortalSession{URL: "https://billing.stripe.com/session/xyz"}, nil
}

func newTestService(fake *fakeStripe) *Service {
	cfg := &cfgpkg.Config{}
	cfg.Stripe.PortalReturnURL = "https://example.com/custom_package_stripe.html"
	return NewService(fake, cfg, zap.NewNop().Sugar())
}

func TestCreate_RequiresCustomerID(t *testing.T) {
	fake := &fakeStripe{}
	svc := newTestService(fake)

	_, err := svc.Create(context.Background(), &CreateRequest{})
	require.ErrorIs(t, err, ErrMissingCustomerID)
	require.Zero(t, fake.calls)
}

func TestCreate_DefaultsReturnURL(t *testing.T) {
	fake := &fakeStripe{}
	svc := newTestService(fake)

	res, err := svc.Create(context.Background(), &CreateRequest{CustomerID: "cus_1"})
	require.NoError(t, err)
	require.Equal(t, "https://billing.stripe.com/session/xyz", res.URL)
	require.Equal(t, "cus_1", *fake.params.Customer)
	require.Equal(t, "https://example.com/custom_package_stripe.html", *fake.params.ReturnURL)
}

func TestCreate_ExplicitReturnURLWins(t *testing.T) {
	fake := &fakeStripe{}
	svc := newTestService(fake)

	_, err := svc.Create(context.Background(), &CreateRequest{CustomerID: "cus_1", ReturnURL: "https://example.com/other"})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/other", *fake.params.ReturnURL)
}
