package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/placeshare-backend/internal/platform/apierr"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestParseIDParamRejectsMalformedID(t *testing.T) {
	c, _ := testContext(t)
	c.Params = gin.Params{{Key: "pid", Value: "not-a-uuid"}}

	_, err := parseIDParam(c, "pid")
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("parseIDParam: want *apierr.Error, got %v", err)
	}
	if ae.Status != http.StatusBadRequest || ae.Code != "invalid_id" {
		t.Fatalf("parseIDParam error = (%d, %q)", ae.Status, ae.Code)
	}
}

func TestGetPlaceByMalformedIDReturnsBadRequest(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	h := NewPlaceHandler(log, nil)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "pid", Value: "not-a-uuid"}}
	h.GetByID(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
