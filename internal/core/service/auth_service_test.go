package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = "u" + strconv.Itoa(r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, department string) ([]*domain.User, error) {
	var users []*domain.User
	for _, u := range r.users {
		if department == "" || u.Department == department {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubSessionRepo struct {
	sessions  map[string]*domain.Session
	createErr error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := r.sessions[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) Deactivate(_ context.Context, id string) error {
	if s, ok := r.sessions[id]; ok {
		s.IsActive = false
	}
	return nil
}

func registerAndLogin(t *testing.T, svc *AuthService) (string, *domain.User, *domain.Session) {
	t.Helper()
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:      "alice@example.com",
		Password:   "correct-horse",
		Role:       domain.RoleEmployee,
		Department: "engineering",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, session, err := svc.Login(context.Background(), ports.LoginInput{
		Email:    "alice@example.com",
		Password: "correct-horse",
		IP:       "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	return token, user, session
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "alice@example.com",
		Password: "pass12345",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleEmployee {
		t.Fatalf("expected default role employee, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "pass"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bob@example.com", Password: "pass12345", Role: domain.Role("superuser"),
	}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Login_CreatesSession(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := NewAuthService(newStubUserRepo(), sessions, nil, "secret", time.Hour)

	token, user, session := registerAndLogin(t, svc)
	if token == "" {
		t.Fatalf("expected a signed token")
	}
	if session.UserID != user.ID {
		t.Fatalf("session should belong to the user")
	}
	if !session.IsActive {
		t.Fatalf("new session should be active")
	}
	if stored, err := sessions.FindByID(context.Background(), session.ID); err != nil || !stored.IsActive {
		t.Fatalf("session should be persisted and active, got %v / %v", stored, err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims["sub"] != user.ID || claims["sid"] != session.ID {
		t.Fatalf("token should name user and session, got %v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)
	registerAndLogin(t, svc)

	_, _, _, err := svc.Login(context.Background(), ports.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_VerifyToken_RoundTrip(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)
	token, user, session := registerAndLogin(t, svc)

	gotUser, gotSession, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if gotUser.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, gotUser.ID)
	}
	if gotSession.ID != session.ID {
		t.Fatalf("expected session %s, got %s", session.ID, gotSession.ID)
	}
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)
	token, _, _ := registerAndLogin(t, svc)

	other := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "different", time.Hour)
	if _, _, err := other.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_VerifyToken_Garbage(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubSessionRepo(), nil, "secret", time.Hour)

	if _, _, err := svc.VerifyToken(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Logout_DeactivatesSession(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := NewAuthService(newStubUserRepo(), sessions, nil, "secret", time.Hour)
	_, _, session := registerAndLogin(t, svc)

	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	stored, err := sessions.FindByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("session should still exist: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("session should be deactivated")
	}
	if stored.Valid(time.Now()) {
		t.Fatalf("deactivated session must never be valid again")
	}
}
