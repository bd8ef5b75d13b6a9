package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
)

// respondError maps service errors onto HTTP statuses. Anything
// unrecognized is treated as an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, common.ErrHasChildren):
		common.ErrorResponse(c, http.StatusBadRequest, "menu has child menus", nil)
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrExpiredToken):
		common.ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, common.ErrPageNotFound),
		errors.Is(err, common.ErrMenuNotFound),
		errors.Is(err, common.ErrParentNotFound),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, common.ErrSlugTaken),
		errors.Is(err, common.ErrCyclicMove),
		errors.Is(err, common.ErrBadReorder):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "internal server error", err)
	}
}
