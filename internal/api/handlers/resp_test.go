package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/apperr"
)

func failWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	fail(c, err)
	return w
}

func TestFailMapsErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validationf("bad input"), http.StatusBadRequest},
		{apperr.InvalidStatef("wrong state"), http.StatusBadRequest},
		{apperr.NotFoundf("missing"), http.StatusNotFound},
		{apperr.Conflictf("taken"), http.StatusConflict},
	}
	for _, tc := range cases {
		w := failWith(t, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.status)
		}
		if !strings.Contains(w.Body.String(), tc.err.Error()) {
			t.Fatalf("%v: body %s missing message", tc.err, w.Body)
		}
	}
}

func TestFailHidesInternalErrorDetails(t *testing.T) {
	w := failWith(t, errors.New(`pq: relation "invoices" does not exist`))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "pq:") || strings.Contains(body, "invoices") {
		t.Fatalf("driver error leaked to client: %s", body)
	}
	if !strings.Contains(body, "internal error") {
		t.Fatalf("body = %s, want generic message", body)
	}
}
