package controllers

import (
	"errors"
	"net/http"

	"shaghaf-backend/billing"
	"shaghaf-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondBillingError maps the billing error taxonomy onto HTTP statuses.
func respondBillingError(c *gin.Context, err error) {
	var verr *billing.ValidationError
	var perr *billing.PreconditionError
	var nferr *billing.NotFoundError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithError(c, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &perr):
		utils.RespondWithError(c, http.StatusConflict, perr.Reason)
	case errors.As(err, &nferr):
		utils.RespondWithError(c, http.StatusNotFound, nferr.Reason)
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Unexpected billing error")
	}
}
