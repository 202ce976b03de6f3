package service

import (
	"context"
	"strings"
	"time"

	"todo-api/internal/core/auth"
	"todo-api/internal/domain"
	"todo-api/pkg/utils"
)

type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	now   func() time.Time
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwter: jwter, now: systemNow}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if err := domain.Validate(domain.Registration{Email: email, Password: password, FullName: fullName}); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if exists {
		return nil, domain.EmailTaken()
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	// 并发注册同一邮箱时由唯一索引兜底（repo 返回 EmailTaken）
	if err := s.users.Create(ctx, u); err != nil {
		if domain.KindOf(err) == domain.KindEmailTaken {
			return nil, err
		}
		return nil, domain.Internal("create user failed", err)
	}
	return s.issue(u)
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := domain.Validate(domain.Credentials{Email: email, Password: password}); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.InvalidCredentials()
	}
	return s.issue(u)
}

// Resolve token -> userId
func (s *AuthService) Resolve(token string) (string, error) {
	c, err := s.jwter.Parse(token)
	if err != nil {
		return "", domain.InvalidToken(err)
	}
	return c.Subject, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, domain.NotFound("User", "id", userID)
	}
	return u, nil
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}
