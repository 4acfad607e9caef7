package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/innercompass/payments/internal/app/service/checkout"
	"github.com/innercompass/payments/internal/platform/stripepay"
	cfgpkg "github.com/innercompass/payments/pkg/config"
)

type stubCheckoutStripe struct {
	stripepay.Client

	createCalls int
	getCalls    int
	getID       string
	getErr      error
}

func (s *stubCheckoutStripe) CreateCheckoutSession(_ context.Context, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.createCalls++
	return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil
}

func (s *stubCheckoutStripe) GetCheckoutSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	s.getCalls++
	s.getID = id
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &stripe.CheckoutSession{ID: id}, nil
}

func newCheckoutRouter(sc stripepay.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{}
	cfg.Stripe.AllowedCountry = "CA"
	svc := checkout.NewService(sc, cfg, zap.NewNop().Sugar())
	r := gin.New()
	RegisterCheckoutRoutes(r, svc)
	return r
}

func TestApiCreateCheckoutSession_ReturnsIDAndURL(t *testing.T) {
	sc := &stubCheckoutStripe{}
	r := newCheckoutRouter(sc)

	body, _ := json.Marshal(map[string]any{
		"mode":        "payment",
		"line_items":  []map[string]any{{"price": "price_1", "quantity": 1}},
		"success_url": "https://example.com/ok",
		"cancel_url":  "https://example.com/no",
	})
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":"cs_1","url":"https://checkout.stripe.com/c/pay/cs_1"}`, w.Body.String())
}

func TestApiCreateCheckoutSession_SubMinimumAmountIs400(t *testing.T) {
	sc := &stubCheckoutStripe{}
	r := newCheckoutRouter(sc)

	body, _ := json.Marshal(map[string]any{
		"mode":        "subscription",
		"line_items":  []map[string]any{{"price": "price_1", "quantity": 1}},
		"success_url": "https://example.com/ok",
		"cancel_url":  "https://example.com/no",
		"metadata": map[string]string{
			"weekly_amount":     "0.50",
			"installment_weeks": "8",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "not supported by Stripe")
	require.Zero(t, sc.createCalls)
}

func TestApiGetCheckoutSession_RequiresIdentifier(t *testing.T) {
	sc := &stubCheckoutStripe{}
	r := newCheckoutRouter(sc)

	for _, path := range []string{
		"/checkout-session",
		"/.netlify/functions/checkout-session/",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
		require.Contains(t, w.Body.String(), "Session ID is required")
	}
	require.Zero(t, sc.getCalls)
}

func TestApiGetCheckoutSession_SuffixRouteExtractsLastSegment(t *testing.T) {
	sc := &stubCheckoutStripe{}
	r := newCheckoutRouter(sc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.netlify/functions/checkout-session/cs_xyz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "cs_xyz", sc.getID)
}

func TestApiGetCheckoutSession_RemoteFailureSurfacesProviderMessage(t *testing.T) {
	sc := &stubCheckoutStripe{getErr: &stripe.Error{Msg: "No such checkout.session: cs_missing"}}
	r := newCheckoutRouter(sc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout-session/cs_missing", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"No such checkout.session: cs_missing"}`, w.Body.String())
}
