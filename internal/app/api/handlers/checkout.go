package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/innercompass/payments/internal/app/service/checkout"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/response"
)

// checkoutSessionRouteName is what the last path segment degenerates to when
// a caller hits the lookup route without an identifier.
const checkoutSessionRouteName = "checkout-session"

// @Summary      Create checkout session
// @Description  Creates a Stripe-hosted checkout session for a one-time payment or an installment subscription
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.CreateSessionRequest true "Checkout session request"
// @Success      200  {object}  checkout.CreateSessionResult
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /create-checkout-session [post]
func ApiCreateCheckoutSession(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.CreateSession(c.Request.Context(), &req)
		if err != nil {
			if checkout.IsValidationErr(err) {
				response.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, stripepay.ErrorMessage(err))
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary      Retrieve checkout session
// @Description  Returns the full session record for the confirmation page
// @Tags         Checkout
// @Produce      json
// @Param        sessionId path string true "Checkout session ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /checkout-session/{sessionId} [get]
func ApiGetCheckoutSession(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		if sessionID == "" {
			// Suffix-variant routes carry the id as the last path segment.
			parts := strings.Split(strings.TrimSuffix(c.Request.URL.Path, "/"), "/")
			sessionID = parts[len(parts)-1]
		}
		sessionID = strings.Trim(sessionID, "/")
		if sessionID == "" || sessionID == checkoutSessionRouteName {
			response.Error(c, http.StatusBadRequest, "Session ID is required")
			return
		}

		sess, err := svc.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, stripepay.ErrorMessage(err))
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func RegisterCheckoutRoutes(r gin.IRouter, svc *checkout.Service) {
	r.POST("/create-checkout-session", ApiCreateCheckoutSession(svc))
	r.GET("/checkout-session/:sessionId", ApiGetCheckoutSession(svc))
	r.GET("/checkout-session", ApiGetCheckoutSession(svc))
	// Serverless-style suffix route kept for front-end pages deployed against
	// the function path.
	r.GET("/.netlify/functions/checkout-session/*rest", ApiGetCheckoutSession(svc))
}
