package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// AuthService implements registration, login, logout, and token verification.
// Every login creates a session record; the issued JWT names that session so
// it can be revoked independently of the token's own expiry.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	audit      ports.AuditRecorder
	jwtSecret  string
	sessionTTL time.Duration
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, audit ports.AuditRecorder, jwtSecret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		audit:      audit,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		Department:   in.Department,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, *domain.Session, error) {
	if in.Email == "" || in.Password == "" {
		return "", nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, Detail: in.Email, IP: in.IP, UserAgent: in.UserAgent})
		return "", nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.record(domain.AuditEvent{UserID: user.ID, Action: domain.AuditLoginFailed, IP: in.IP, UserAgent: in.UserAgent})
		return "", nil, nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        newID(16),
		UserID:    user.ID,
		IsActive:  true,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.generateToken(user, session)
	if err != nil {
		return "", nil, nil, err
	}

	s.record(domain.AuditEvent{UserID: user.ID, Action: domain.AuditLogin, IP: in.IP, UserAgent: in.UserAgent})
	return token, user, session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Deactivate(ctx, sessionID); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	s.record(domain.AuditEvent{Action: domain.AuditLogout, Detail: sessionID})
	return nil
}

// VerifyToken validates signature and expiry, then resolves the user and
// session named by the claims. Liveness of the session is deliberately not
// checked here; the session-validation middleware re-checks it per request.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, nil, domain.ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)
	if userID == "" || sessionID == "" {
		return nil, nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	return user, session, nil
}

func (s *AuthService) generateToken(user *domain.User, session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"sid":        session.ID,
		"role":       string(user.Role),
		"department": user.Department,
		"exp":        session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.CreatedAt = time.Now().UTC()
	s.audit.Record(event)
}
