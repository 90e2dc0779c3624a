package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

func newService(t *testing.T, opts ...token.Option) *token.Service {
	t.Helper()
	s, err := token.NewService([]byte(testKey), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestNewService_EmptyKey_ReturnsConfigError(t *testing.T) {
	_, err := token.NewService(nil)
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	s := newService(t)

	raw, err := s.Issue("user-1", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := s.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want Admin", claims.Role)
	}
	if claims.Purpose != token.PurposeAccess {
		t.Errorf("Purpose = %q, want access", claims.Purpose)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatal("iat/exp missing")
	}
}

func TestVerify_NegativeTTL_Expired(t *testing.T) {
	s := newService(t)

	raw, err := s.Issue("user-1", domain.RoleStudent, -1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_ZeroTTL_Expired(t *testing.T) {
	s := newService(t)

	raw, _ := s.Issue("user-1", domain.RoleStudent, 0)
	if _, err := s.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_AfterTTL_Expired(t *testing.T) {
	now := time.Now()
	s := newService(t, token.WithClock(func() time.Time { return now }))

	raw, _ := s.Issue("user-1", domain.RoleStudent, time.Hour)

	now = now.Add(time.Hour + time.Second)
	if _, err := s.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongKey_Invalid(t *testing.T) {
	other, _ := token.NewService([]byte("another-secret-that-is-32-chars!!"))
	raw, _ := other.Issue("user-1", domain.RoleStudent, time.Hour)

	if _, err := newService(t).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Garbage_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not.a.jwt", "a.b", "header.payload.signature"} {
		if _, err := newService(t).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestVerify_NoneAlgorithm_Invalid(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1",
		"purpose": "access",
		"iss":     "project-tracker",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := newService(t).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_RejectsVerificationToken(t *testing.T) {
	s := newService(t)
	raw, _ := s.IssueVerification("user-1", token.DefaultVerificationTTL)

	if _, err := s.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyVerification_RejectsAccessToken(t *testing.T) {
	s := newService(t)
	raw, _ := s.Issue("user-1", domain.RoleStudent, time.Hour)

	if _, err := s.VerifyVerification(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyVerification_ReturnsUserID(t *testing.T) {
	s := newService(t)
	raw, _ := s.IssueVerification("user-42", token.DefaultVerificationTTL)

	id, err := s.VerifyVerification(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != "user-42" {
		t.Errorf("id = %q, want user-42", id)
	}
}

func TestVerifyVerification_Expired(t *testing.T) {
	now := time.Now()
	s := newService(t, token.WithClock(func() time.Time { return now }))
	raw, _ := s.IssueVerification("user-1", token.DefaultVerificationTTL)

	now = now.Add(25 * time.Hour)
	if _, err := s.VerifyVerification(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}
