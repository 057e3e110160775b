package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkarpovich/authkeeper/internal/common"
	"github.com/mkarpovich/authkeeper/internal/logging"
	"github.com/mkarpovich/authkeeper/internal/server/services"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeAuth struct {
	createToken string
	createErr   error

	loginGrant *services.TokenGrant
	loginErr   error

	logoutErr error
}

func (f *fakeAuth) CreateAccount(ctx context.Context, p services.CreateAccountParams) (string, error) {
	return f.createToken, f.createErr
}
func (f *fakeAuth) Login(ctx context.Context, username, password string) (*services.TokenGrant, error) {
	return f.loginGrant, f.loginErr
}
func (f *fakeAuth) Logout(ctx context.Context, userID int64, token string) error {
	return f.logoutErr
}

// ---- helpers ----

func newTestServer(a AuthService) http.Handler {
	return NewServer("127.0.0.1:0", nopLogger{}, a).routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return out
}

// ---- tests ----

func TestCreateUser_OK(t *testing.T) {
	h := newTestServer(&fakeAuth{createToken: "tok-abc"})

	rec := doJSON(t, h, http.MethodPost, "/create/user",
		`{"username":"alice","first_name":"Alice","last_name":"Doe","email":"alice@example.com","password":"s3cret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	if out["token"] != "tok-abc" {
		t.Fatalf("unexpected body: %v", out)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	h := newTestServer(&fakeAuth{createErr: common.ErrDuplicateUsername})

	rec := doJSON(t, h, http.MethodPost, "/create/user",
		`{"username":"alice","email":"alice@example.com","password":"p"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	if out["error"] != "username" {
		t.Fatalf("unexpected error field: %v", out)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	h := newTestServer(&fakeAuth{createErr: common.ErrDuplicateEmail})

	rec := doJSON(t, h, http.MethodPost, "/create/user",
		`{"username":"alice","email":"alice@example.com","password":"p"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	if out["error"] != "email" {
		t.Fatalf("unexpected error field: %v", out)
	}
}

func TestCreateUser_BadBody(t *testing.T) {
	h := newTestServer(&fakeAuth{})

	rec := doJSON(t, h, http.MethodPost, "/create/user", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	h := newTestServer(&fakeAuth{loginGrant: &services.TokenGrant{Token: "tok-abc", Uses: 49}})

	rec := doJSON(t, h, http.MethodPost, "/login", `{"username":"alice","password":"s3cret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	if out["token"] != "tok-abc" || out["uses"] != float64(49) {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
	}{
		{"unknown user", common.ErrUserNotFound, "username"},
		{"inactive account", common.ErrAccountInactive, "status"},
		{"wrong password", common.ErrIncorrectPassword, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeAuth{loginErr: tt.err})

			rec := doJSON(t, h, http.MethodPost, "/login", `{"username":"alice","password":"p"}`)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			out := decodeResponse(t, rec)
			if out["error"] != tt.wantField {
				t.Fatalf("want error field %q, got %v", tt.wantField, out)
			}
		})
	}
}

func TestLogin_InternalError(t *testing.T) {
	h := newTestServer(&fakeAuth{loginErr: common.ErrorInternal})

	rec := doJSON(t, h, http.MethodPost, "/login", `{"username":"alice","password":"p"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestLogout_OK(t *testing.T) {
	h := newTestServer(&fakeAuth{})

	rec := doJSON(t, h, http.MethodPost, "/logout", `{"id_user":1,"token":"tok-abc"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	if out["detail"] != "Logout successful" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestLogout_NotFound(t *testing.T) {
	h := newTestServer(&fakeAuth{logoutErr: common.ErrTokenNotFound})

	rec := doJSON(t, h, http.MethodPost, "/logout", `{"id_user":1,"token":"bogus"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	out := decodeResponse(t, rec)
	fields, ok := out["error"].([]any)
	if !ok || len(fields) != 2 || fields[0] != "id_user" || fields[1] != "token" {
		t.Fatalf("unexpected error fields: %v", out)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&fakeAuth{})

	rec := doJSON(t, h, http.MethodGet, "/login", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
