package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/pkg/errcode"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
	"github.com/xxxsen/brandbot/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, errs.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, errs.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, errs.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrDuplicateEmail):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, errs.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, errs.ErrAIUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai unavailable")
	case errors.Is(err, errs.ErrNotImplemented):
		response.Error(c, errcode.ErrNotImplemented, "not supported by this backend")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
