package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-connect/common/ctxdata"
	"campus-connect/common/errorx"
	"campus-connect/common/utils/jwt"
)

const testSecret = "test-secret"

func signed(t *testing.T, uid string, issued time.Time) string {
	t.Helper()
	token, err := jwt.GenerateToken(jwt.AuthConfig{Secret: testSecret, Expire: 600},
		jwt.Claims{UserID: uid, Name: "Grace", Picture: "https://img/g.png"}, issued)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	var called bool
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name     string
		optional bool
		header   string
		wantCall bool
		wantCode int
	}{
		{"required missing header", false, "", false, errorx.CodeLoginRequired},
		{"optional missing header", true, "", true, 0},
		{"malformed header", false, "Token abc", false, errorx.CodeTokenInvalid},
		{"bad token", true, "Bearer abc", false, errorx.CodeTokenInvalid},
		{"expired token", false, "Bearer " + signed(t, "u1", time.Now().Add(-time.Hour)), false, errorx.CodeTokenExpired},
		{"valid token", false, "Bearer " + signed(t, "u1", time.Now()), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			m := NewAuthMiddleware(testSecret)
			if tt.optional {
				m = NewOptionalAuthMiddleware(testSecret)
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Handle(next)(rec, req)

			if called != tt.wantCall {
				t.Fatalf("next called = %v, want %v", called, tt.wantCall)
			}
			if !tt.wantCall {
				if code := decodeCode(t, rec); code != tt.wantCode {
					t.Fatalf("code = %d, want %d", code, tt.wantCode)
				}
			}
		})
	}
}

func TestAuthMiddlewareInjectsUser(t *testing.T) {
	var seen ctxdata.UserInfo
	h := NewAuthMiddleware(testSecret).Handle(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ctxdata.GetUserFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "u42", time.Now()))
	h(httptest.NewRecorder(), req)

	if seen.UserID != "u42" || seen.Name != "Grace" || seen.PhotoURL != "https://img/g.png" {
		t.Fatalf("unexpected user %+v", seen)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("request id should be generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("request id = %q, want abc", got)
	}
}
