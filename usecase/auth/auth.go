package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/internal/validation"
	"github.com/fastygo/taskwise/repository"
)

// Partitions removes the task partition of an identity.
type Partitions interface {
	Forget(ctx context.Context, identity domain.Identity) error
}

type Options struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
	Logger     *zap.Logger
}

// Claims are carried by every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type PasswordChange struct {
	Current string `json:"current_password" validate:"required"`
	Next    string `json:"new_password" validate:"required,min=8"`
	Confirm string `json:"confirm_password" validate:"required,eqfield=Next"`
}

type UseCase struct {
	users      repository.UserRepository
	partitions Partitions
	opts       Options
	logger     *zap.Logger
}

func New(users repository.UserRepository, partitions Partitions, opts Options) *UseCase {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &UseCase{
		users:      users,
		partitions: partitions,
		opts:       opts,
		logger:     opts.Logger,
	}
}

// Register creates an account. The email is stored trimmed and lowercased.
func (uc *UseCase) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = normalizeEmail(reg.Email)
	if err := validation.Struct(reg); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), uc.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CreatedAt:    uc.opts.Now().UTC(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("account registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords report the same error.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	session, err := uc.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// IssueToken signs an HS256 token for user.
func (uc *UseCase) IssueToken(user *domain.User) (*domain.Session, error) {
	now := uc.opts.Now()
	expires := now.Add(uc.opts.TokenTTL)
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.opts.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.opts.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}

// Verify parses a token and returns the identity it was issued to.
func (uc *UseCase) Verify(token string) (domain.Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(uc.opts.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.GuestIdentity, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if uc.opts.Issuer != "" && claims.Issuer != uc.opts.Issuer {
		return domain.GuestIdentity, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return domain.GuestIdentity, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", errors.New("missing user_id claim"))
	}
	return domain.Identity(claims.UserID), nil
}

// Authenticate verifies token and checks the account it names still exists,
// so tokens of deleted accounts stop working before they expire.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	identity, err := uc.Verify(token)
	if err != nil {
		return domain.GuestIdentity, err
	}
	if _, err := uc.users.GetByID(ctx, string(identity)); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.GuestIdentity, domain.WrapError(domain.ErrCodeUnauthorized, "account no longer exists", err)
		}
		return domain.GuestIdentity, err
	}
	return identity, nil
}

func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := domain.NewValidationError()
		verr.Add("name", "is required")
		return nil, verr
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (uc *UseCase) ChangePassword(ctx context.Context, userID string, change PasswordChange) error {
	if err := validation.Struct(change); err != nil {
		return err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(change.Current)) != nil {
		verr := domain.NewValidationError()
		verr.Add("current_password", "is incorrect")
		return verr
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(change.Next), uc.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	uc.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// DeleteAccount removes the user and their task partition.
func (uc *UseCase) DeleteAccount(ctx context.Context, userID string) error {
	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}
	if uc.partitions != nil {
		if err := uc.partitions.Forget(ctx, domain.Identity(userID)); err != nil {
			uc.logger.Error("failed to drop task partition", zap.String("user_id", userID), zap.Error(err))
			return err
		}
	}
	uc.logger.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
