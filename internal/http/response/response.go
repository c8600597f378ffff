package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/apierr"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// Fail classifies err against the service sentinels and writes the matching
// status. An explicit *apierr.Error anywhere in the chain wins.
func Fail(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status, envelope{Success: false, Code: ae.Code, Error: ae.Error()})
		return
	}

	status, code := Classify(err)
	c.JSON(status, envelope{Success: false, Code: code, Error: err.Error()})
}

// Classify maps a service error to its HTTP status and machine code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return http.StatusUnprocessableEntity, "invalid_argument"
	case errors.Is(err, pkgerrors.ErrUnresolvableAddress):
		return http.StatusUnprocessableEntity, "unresolvable_address"
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, pkgerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, pkgerrors.ErrUpstream):
		return http.StatusBadGateway, "upstream_failure"
	case errors.Is(err, pkgerrors.ErrStorage):
		return http.StatusBadGateway, "storage_failure"
	case errors.Is(err, pkgerrors.ErrPersistence):
		return http.StatusInternalServerError, "persistence_failure"
	case errors.Is(err, pkgerrors.ErrConsistency):
		return http.StatusInternalServerError, "consistency_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
