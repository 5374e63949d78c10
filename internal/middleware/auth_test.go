package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// staticVerifier accepts tokens of the form "user-<id>".
type staticVerifier struct{}

func (staticVerifier) Identity(token string) (int64, error) {
	if len(token) > 5 && token[:5] == "user-" {
		return strconv.ParseInt(token[5:], 10, 64)
	}
	return 0, errors.New("bad token")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, ok := GetUserFromContext(r)
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(strconv.FormatInt(id, 10)))
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		enforce    bool
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", true, "Bearer user-42", http.StatusOK, "42"},
		{"lowercase scheme", true, "bearer user-42", http.StatusOK, "42"},
		{"missing header enforced", true, "", http.StatusUnauthorized, ""},
		{"missing header demo", false, "", http.StatusOK, "7"},
		{"invalid token enforced", true, "Bearer nope", http.StatusUnauthorized, ""},
		{"invalid token demo", false, "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong scheme", false, "Basic dXNlcg==", http.StatusUnauthorized, ""},
		{"no token part", true, "Bearer", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Auth(staticVerifier{}, AuthOptions{Enforce: tt.enforce, DemoUserID: 7})(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/api/waste/bins", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"message"`)
			}
		})
	}
}

func TestGetUserFromContextMissing(t *testing.T) {
	_, ok := GetUserFromContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
