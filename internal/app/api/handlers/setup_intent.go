package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innercompass/payments/internal/app/service/setupintent"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/response"
)

// @Summary      Create setup intent
// @Description  Creates a zero-amount card authorization for a single-session booking, charged off-session later
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body setupintent.CreateRequest true "Setup intent request"
// @Success      200  {object}  setupintent.CreateResult
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /create-setup-intent [post]
func ApiCreateSetupIntent(svc *setupintent.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setupintent.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, stripepay.ErrorMessage(err))
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func RegisterSetupIntentRoutes(r gin.IRouter, svc *setupintent.Service) {
	r.POST("/create-setup-intent", ApiCreateSetupIntent(svc))
}
