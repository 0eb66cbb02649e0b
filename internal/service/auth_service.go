package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"synthesized/web/internal/domain"
	mailer "synthesized/web/internal/mail"
	"synthesized/web/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidEmail    = errors.New("not a valid email address")
	ErrInvalidToken    = errors.New("invalid or expired sign-in link")
	ErrTokenGeneration = errors.New("failed to generate authentication token")
	ErrMailDelivery    = errors.New("failed to send sign-in email")
)

// AuthService is the identity-provider capability: passwordless sign-in,
// token verification, session resolution and account removal. Handlers only
// depend on this interface; the concrete implementation below is backed by
// the local store, a JWT session token and an outgoing mail sender.
type AuthService interface {
	// SignInWithOtp registers the email if needed and sends a magic link.
	SignInWithOtp(ctx context.Context, email string) error
	// VerifyOtp exchanges a magic-link token for a session token.
	VerifyOtp(ctx context.Context, tokenHash string) (sessionToken string, user *domain.User, err error)
	// GetUserBySession resolves the user behind a session cookie value.
	GetUserBySession(ctx context.Context, sessionToken string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo      repository.UserRepository
	tokenRepo     repository.LoginTokenRepository
	sender        mailer.Sender
	baseURL       string
	jwtSecret     string
	jwtExpiration time.Duration
	otpExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.LoginTokenRepository,
	sender mailer.Sender,
	baseURL string,
	jwtSecret string,
	jwtExpiration time.Duration,
	otpExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	if otpExpiration <= 0 {
		otpExpiration = 15 * time.Minute
	}
	return &authService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		sender:        sender,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		otpExpiration: otpExpiration,
	}
}

// SignInWithOtp handles a magic-link request. Signing in registers on first
// use, so the user row is upserted before the token is issued. Only the
// bcrypt hash of the token is stored.
func (s *authService) SignInWithOtp(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	user, err := s.userRepo.UpsertByEmail(ctx, email)
	if err != nil {
		return err
	}

	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return ErrTokenGeneration
	}

	token := &domain.LoginToken{
		UserID:    user.ID,
		TokenHash: string(hash),
		ExpiresAt: time.Now().Add(s.otpExpiration),
	}
	id, err := s.tokenRepo.Create(ctx, token)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/login-confirm?token_hash=%d.%s", s.baseURL, id, secret)
	body := fmt.Sprintf("Follow this link to sign in to Synthesized:\n\n%s\n\nThe link expires in %s and can be used once.", link, s.otpExpiration)
	if err := s.sender.Send(ctx, email, "Your sign-in link", body); err != nil {
		return ErrMailDelivery
	}
	return nil
}

// VerifyOtp validates a "<id>.<secret>" token from a magic link, consumes
// it and returns a signed session token.
func (s *authService) VerifyOtp(ctx context.Context, tokenHash string) (string, *domain.User, error) {
	idPart, secret, ok := strings.Cut(tokenHash, ".")
	if !ok {
		return "", nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return "", nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidToken
		}
		return "", nil, err
	}
	if !token.Usable(time.Now()) {
		return "", nil, ErrInvalidToken
	}
	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)) != nil {
		return "", nil, ErrInvalidToken
	}

	// Consume before issuing the session; a raced second verification loses.
	if err := s.tokenRepo.Consume(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidToken
		}
		return "", nil, err
	}

	if err := s.userRepo.TouchLastSignIn(ctx, token.UserID); err != nil {
		return "", nil, err
	}
	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return "", nil, err
	}

	sessionToken, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return sessionToken, user, nil
}

// GetUserBySession parses and validates the session JWT and loads the user.
func (s *authService) GetUserBySession(ctx context.Context, sessionToken string) (*domain.User, error) {
	if sessionToken == "" {
		return nil, ErrInvalidToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(sessionToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted account with a still-valid cookie.
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account; owned rows cascade at the storage layer.
func (s *authService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

// --- JWT Helper ---

// sessionClaims defines the structure of the session JWT payload.
type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &sessionClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "synthesized",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
