package setupintent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/platform/stripepay"
)

type fakeStripe struct {
	stripepay.Client

	params *stripe.SetupIntentParams
}

func (f *fakeStripe) CreateSetupIntent(_ context.Context, params *stripe.SetupIntentParams) (*stripe.SetupIntent, error) {
	f.params = params
	return &stripe.SetupIntent{ID: "seti_1", ClientSecret: "seti_1_secret_abc"}, nil
}

func TestCreate_MergesBookingTags(t *testing.T) {
	fake := &fakeStripe{}
	svc := NewService(fake, zap.NewNop().Sugar())

	res, err := svc.Create(context.Background(), &CreateRequest{
		CustomerEmail: "parent@example.com",
		Metadata: map[string]string{
			"session_date": "2025-09-01",
			"booking_type": "should_be_overridden",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "seti_1", res.SetupIntentID)
	require.Equal(t, "seti_1_secret_abc", res.ClientSecret)

	require.Equal(t, "off_session", *fake.params.Usage)
	require.Equal(t, []*string{stripe.String("card")}, fake.params.PaymentMethodTypes)
	require.Equal(t, "single_session", fake.params.Metadata["booking_type"])
	require.Equal(t, "parent@example.com", fake.params.Metadata["customer_email"])
	require.Equal(t, "2025-09-01", fake.params.Metadata["session_date"])
}

func TestCreate_EmptyEmailStaysEmptyString(t *testing.T) {
	fake := &fakeStripe{}
	svc := NewService(fake, zap.NewNop().Sugar())

	_, err := svc.Create(context.Background(), &CreateRequest{})
	require.NoError(t, err)

	v, ok := fake.params.Metadata["customer_email"]
	require.True(t, ok)
	require.Empty(t, v)
}
