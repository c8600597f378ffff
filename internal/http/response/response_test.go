package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/apierr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid argument", fmt.Errorf("title is required: %w", pkgerrors.ErrInvalidArgument), http.StatusUnprocessableEntity, "invalid_argument"},
		{"unresolvable address", pkgerrors.ErrUnresolvableAddress, http.StatusUnprocessableEntity, "unresolvable_address"},
		{"unauthorized", pkgerrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", fmt.Errorf("not owned: %w", pkgerrors.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"not found", pkgerrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"upstream", pkgerrors.ErrUpstream, http.StatusBadGateway, "upstream_failure"},
		{"storage", pkgerrors.ErrStorage, http.StatusBadGateway, "storage_failure"},
		{"persistence", pkgerrors.ErrPersistence, http.StatusInternalServerError, "persistence_failure"},
		{"consistency", pkgerrors.ErrConsistency, http.StatusInternalServerError, "consistency_failure"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("Classify(%v) = (%d, %q), want (%d, %q)", tc.err, status, code, tc.wantStatus, tc.wantCode)
			}
		})
	}
}

func TestFailPrefersExplicitAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// An apierr anywhere in the chain wins over sentinel classification.
	err := fmt.Errorf("upload rejected: %w",
		apierr.New(http.StatusRequestEntityTooLarge, "image_too_large", fmt.Errorf("image exceeds limit")))
	Fail(c, err)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
	if body := w.Body.String(); !strings.Contains(body, "image_too_large") {
		t.Fatalf("body %q missing code", body)
	}
}

func TestFailFallsBackToSentinelClassification(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, fmt.Errorf("nope: %w", pkgerrors.ErrForbidden))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if body := w.Body.String(); !strings.Contains(body, "forbidden") {
		t.Fatalf("body %q missing code", body)
	}
}
