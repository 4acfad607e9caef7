package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innercompass/payments/internal/app/service/installment"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/logctx"
	"github.com/innercompass/payments/pkg/response"
)

// maxWebhookBody caps event payloads well above anything Stripe sends.
const maxWebhookBody = 1 << 20

// @Summary      Stripe webhook
// @Description  Verifies the event signature and applies the installment auto-cancellation policy. Always acknowledges once the signature checks out.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  response.ErrorBody
// @Router       /webhook [post]
func ApiStripeWebhook(sc stripepay.Client, h *installment.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The raw body must reach signature verification untouched; gin's
		// JSON binding would consume and re-encode it.
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "failed to read request body")
			return
		}

		event, err := sc.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			logctx.FromGin(c, h.Logger).Warnw("webhook_signature_invalid", "error", err.Error())
			response.Error(c, http.StatusBadRequest, "Webhook Error: "+err.Error())
			return
		}

		if err := h.HandleEvent(c.Request.Context(), event); err != nil {
			// Policy failures stay server-side: Stripe only needs the ack,
			// and a non-2xx would trigger a redelivery storm.
			logctx.FromGin(c, h.Logger).Errorw("webhook_handle_error", "event_id", event.ID, "error", err.Error())
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, sc stripepay.Client, h *installment.Handler) {
	r.POST("/webhook", ApiStripeWebhook(sc, h))
}
