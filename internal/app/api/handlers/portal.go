package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innercompass/payments/internal/app/service/portal"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/response"
)

// @Summary      Create billing portal session
// @Description  Returns a Stripe-hosted self-service billing management URL for an existing customer
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body portal.CreateRequest true "Portal session request"
// @Success      200  {object}  portal.CreateResult
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /create-portal-session [post]
func ApiCreatePortalSession(svc *portal.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req portal.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, portal.ErrMissingCustomerID) {
				response.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, stripepay.ErrorMessage(err))
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func RegisterPortalRoutes(r gin.IRouter, svc *portal.Service) {
	r.POST("/create-portal-session", ApiCreatePortalSession(svc))
}
