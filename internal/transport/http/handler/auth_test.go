package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/handler"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register           func(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterResult, error)
	login              func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	verifyTwoFactor    func(ctx context.Context, userID, code string) (*domain.LoginResult, error)
	verifyEmail        func(ctx context.Context, raw string) (*domain.User, bool, error)
	resendVerification func(ctx context.Context, email string) error
}

func (f *fakeAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterResult, error) {
	return f.register(ctx, in)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) VerifyTwoFactor(ctx context.Context, userID, code string) (*domain.LoginResult, error) {
	return f.verifyTwoFactor(ctx, userID, code)
}

func (f *fakeAuthUsecase) EnableTwoFactor(context.Context, *domain.User, string) (*domain.User, bool, error) {
	return nil, false, errors.New("not used")
}

func (f *fakeAuthUsecase) DisableTwoFactor(context.Context, *domain.User, string) (*domain.User, bool, error) {
	return nil, false, errors.New("not used")
}

func (f *fakeAuthUsecase) VerifyEmail(ctx context.Context, raw string) (*domain.User, bool, error) {
	return f.verifyEmail(ctx, raw)
}

func (f *fakeAuthUsecase) ResendVerification(ctx context.Context, email string) error {
	return f.resendVerification(ctx, email)
}

var alice = &domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleStudent}

func newTestEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/verify-2fa", h.VerifyTwoFactor)
	r.GET("/auth/verify-email", h.VerifyEmail)
	r.POST("/auth/resend-verification", h.ResendVerification)
	return r
}

func post(t *testing.T, uc *fakeAuthUsecase, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)
	return w, decode(t, w)
}

func get(t *testing.T, uc *fakeAuthUsecase, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	newTestEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w, decode(t, w)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w, _ := post(t, &fakeAuthUsecase{}, "/auth/register", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MissingEmail_Returns400WithFieldMessage(t *testing.T) {
	w, body := post(t, &fakeAuthUsecase{}, "/auth/register", `{"name":"Alice","password":"pw123456"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "email") {
		t.Errorf("message = %q, want mention of email", msg)
	}
}

func TestRegister_DuplicateEmail_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{register: func(context.Context, usecase.RegisterInput) (*usecase.RegisterResult, error) {
		return nil, fmt.Errorf("create user: %w", domain.ErrDuplicateEmail)
	}}
	w, body := post(t, uc, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body["message"] != "Email already registered" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestRegister_Success_Returns201WithTokenAndUser(t *testing.T) {
	uc := &fakeAuthUsecase{register: func(_ context.Context, in usecase.RegisterInput) (*usecase.RegisterResult, error) {
		if in.Email != "alice@example.com" {
			t.Errorf("email = %q", in.Email)
		}
		return &usecase.RegisterResult{User: alice, Token: "jwt"}, nil
	}}
	w, body := post(t, uc, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if body["token"] != "jwt" {
		t.Errorf("token = %v", body["token"])
	}
	user, _ := body["user"].(map[string]any)
	if user["id"] != "u-1" || user["role"] != "Student" {
		t.Errorf("user = %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestRegister_VerificationRequired_OmitsToken(t *testing.T) {
	uc := &fakeAuthUsecase{register: func(context.Context, usecase.RegisterInput) (*usecase.RegisterResult, error) {
		return &usecase.RegisterResult{User: alice}, nil
	}}
	w, body := post(t, uc, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if _, ok := body["token"]; ok {
		t.Error("token must be omitted until the email is verified")
	}
}

// ---- Login ----

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{login: func(context.Context, string, string) (*domain.LoginResult, error) {
		return nil, domain.ErrInvalidCredentials
	}}
	w, body := post(t, uc, "/auth/login", `{"email":"alice@example.com","password":"nope"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body["message"] != "Invalid email or password" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestLogin_EmailNotVerified_Returns403(t *testing.T) {
	uc := &fakeAuthUsecase{login: func(context.Context, string, string) (*domain.LoginResult, error) {
		return nil, domain.ErrEmailNotVerified
	}}
	w, _ := post(t, uc, "/auth/login", `{"email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLogin_TwoFactorPending_ReturnsUserIDWithoutToken(t *testing.T) {
	uc := &fakeAuthUsecase{login: func(context.Context, string, string) (*domain.LoginResult, error) {
		return &domain.LoginResult{User: alice, TwoFactorRequired: true}, nil
	}}
	w, body := post(t, uc, "/auth/login", `{"email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["two_factor_enabled"] != true || body["user_id"] != "u-1" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["token"]; ok {
		t.Error("token must not be issued before the second factor")
	}
}

func TestLogin_Success_ReturnsToken(t *testing.T) {
	uc := &fakeAuthUsecase{login: func(context.Context, string, string) (*domain.LoginResult, error) {
		return &domain.LoginResult{User: alice, Token: "jwt"}, nil
	}}
	w, body := post(t, uc, "/auth/login", `{"email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["token"] != "jwt" {
		t.Errorf("token = %v", body["token"])
	}
}

func TestLogin_InternalError_Returns500WithoutDetail(t *testing.T) {
	uc := &fakeAuthUsecase{login: func(context.Context, string, string) (*domain.LoginResult, error) {
		return nil, errors.New("pq: connection refused")
	}}
	w, body := post(t, uc, "/auth/login", `{"email":"alice@example.com","password":"pw123456"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if body["message"] != "Internal server error" {
		t.Errorf("message = %v", body["message"])
	}
}

// ---- VerifyTwoFactor ----

func TestVerifyTwoFactor_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNoChallengeFound, http.StatusBadRequest},
		{domain.ErrChallengeExpired, http.StatusBadRequest},
		{domain.ErrCodeMismatch, http.StatusUnauthorized},
		{domain.ErrTwoFactorNotEnabled, http.StatusBadRequest},
		{domain.NewValidationError("User ID and 2FA code are required"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		uc := &fakeAuthUsecase{verifyTwoFactor: func(context.Context, string, string) (*domain.LoginResult, error) {
			return nil, fmt.Errorf("verify challenge: %w", tc.err)
		}}
		w, _ := post(t, uc, "/auth/verify-2fa", `{"user_id":"u-1","code":"123456"}`)
		if w.Code != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestVerifyTwoFactor_MissingCode_Returns400(t *testing.T) {
	w, _ := post(t, &fakeAuthUsecase{}, "/auth/verify-2fa", `{"user_id":"u-1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVerifyTwoFactor_Success_ReturnsToken(t *testing.T) {
	uc := &fakeAuthUsecase{verifyTwoFactor: func(_ context.Context, userID, code string) (*domain.LoginResult, error) {
		if userID != "u-1" || code != "123456" {
			t.Errorf("got (%q, %q)", userID, code)
		}
		return &domain.LoginResult{User: alice, Token: "jwt"}, nil
	}}
	w, body := post(t, uc, "/auth/verify-2fa", `{"user_id":"u-1","code":"123456"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body["token"] != "jwt" {
		t.Errorf("token = %v", body["token"])
	}
}

// ---- VerifyEmail ----

func TestVerifyEmail_ExpiredToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{verifyEmail: func(context.Context, string) (*domain.User, bool, error) {
		return nil, false, domain.ErrTokenExpired
	}}
	w, body := get(t, uc, "/auth/verify-email?token=old")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if body["message"] != "Token has expired" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestVerifyEmail_SecondUse_IsIdempotent(t *testing.T) {
	uc := &fakeAuthUsecase{verifyEmail: func(context.Context, string) (*domain.User, bool, error) {
		return alice, true, nil
	}}
	w, body := get(t, uc, "/auth/verify-email?token=tok")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body["message"] != "Email already verified" {
		t.Errorf("message = %v", body["message"])
	}
}

// ---- ResendVerification ----

func TestResendVerification_UsecaseError_StillReturns200(t *testing.T) {
	uc := &fakeAuthUsecase{resendVerification: func(context.Context, string) error {
		return errors.New("internal failure")
	}}
	w, _ := post(t, uc, "/auth/resend-verification", `{"email":"test@example.com"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (must not reveal errors)", w.Code)
	}
}
