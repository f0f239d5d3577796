package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

// stubSessionStore returns a fixed session or error.
type stubSessionStore struct {
	session *domain.Session
	err     error
}

func (s *stubSessionStore) Create(context.Context, *domain.Session) error { return nil }
func (s *stubSessionStore) Deactivate(context.Context, string) error      { return nil }

func (s *stubSessionStore) FindByID(context.Context, string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.session, nil
}

func withIdentity(c echo.Context) *Access {
	user, session := testIdentity()
	acc := &Access{User: user, Session: session}
	SetAccess(c, acc)
	return acc
}

func TestValidateSession_NoSessionPassesThrough(t *testing.T) {
	c, rec := newTestContext(t, "")

	called := false
	handler := ValidateSession(&stubSessionStore{})(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("request without a session must pass through, got %d", rec.Code)
	}
}

func TestValidateSession_Active(t *testing.T) {
	c, rec := newTestContext(t, "")
	acc := withIdentity(c)

	fresh := &domain.Session{ID: acc.Session.ID, UserID: "u1", IsActive: true, ExpiresAt: time.Now().Add(time.Hour)}
	store := &stubSessionStore{session: fresh}

	handler := ValidateSession(store)(func(c echo.Context) error {
		if GetAccess(c).Session != fresh {
			t.Fatalf("access context should carry the re-checked session")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestValidateSession_InactiveRejectedRegardlessOfExpiry(t *testing.T) {
	c, rec := newTestContext(t, "")
	withIdentity(c)

	store := &stubSessionStore{session: &domain.Session{
		ID: "s1", UserID: "u1", IsActive: false, ExpiresAt: time.Now().Add(time.Hour),
	}}

	handler := ValidateSession(store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "SESSION_EXPIRED" {
		t.Fatalf("expected SESSION_EXPIRED, got %v", body["code"])
	}
}

func TestValidateSession_ExpiredRejectedEvenIfActive(t *testing.T) {
	c, rec := newTestContext(t, "")
	withIdentity(c)

	store := &stubSessionStore{session: &domain.Session{
		ID: "s1", UserID: "u1", IsActive: true, ExpiresAt: time.Now().Add(-time.Minute),
	}}

	handler := ValidateSession(store)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "SESSION_EXPIRED" {
		t.Fatalf("expected SESSION_EXPIRED, got %v", body["code"])
	}
}

func TestValidateSession_MissingRecordRejected(t *testing.T) {
	c, rec := newTestContext(t, "")
	withIdentity(c)

	handler := ValidateSession(&stubSessionStore{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "SESSION_EXPIRED" {
		t.Fatalf("expected SESSION_EXPIRED, got %v", body["code"])
	}
}

func TestValidateSession_StoreFailureIsDistinct(t *testing.T) {
	c, rec := newTestContext(t, "")
	withIdentity(c)

	store := &stubSessionStore{err: errors.New("connection refused")}

	handler := ValidateSession(store)(func(c echo.Context) error {
		t.Fatalf("store failure must never pass through")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "SESSION_VALIDATION_FAILED" {
		t.Fatalf("expected SESSION_VALIDATION_FAILED, got %v", body["code"])
	}
	if body["detail"] != "connection refused" {
		t.Fatalf("expected underlying detail, got %v", body["detail"])
	}
}
