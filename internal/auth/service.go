package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"botbridge-backend/internal/logger"
	"botbridge-backend/internal/store"
	"botbridge-backend/internal/types"
)

const (
	tokenTTL         = time.Hour
	refreshTokenSize = 32
	defaultRole      = "user"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// login probe can't distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of user persistence the auth service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*store.User, error)
	Create(ctx context.Context, user *store.User) error
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	users    UserStore
	log      *logger.Logger
	secret   []byte
	issuer   string
	audience string
}

func NewService(users UserStore, log *logger.Logger, secret []byte, issuer, audience string) *Service {
	return &Service{
		users:    users,
		log:      log.With("service", "auth"),
		secret:   secret,
		issuer:   issuer,
		audience: audience,
	}
}

// Register creates a user with a bcrypt-hashed password. A duplicate email is
// reported through the AuthResult, not as an error; the error return is for
// store failures only.
func (s *Service) Register(ctx context.Context, email, password, role string) (types.AuthResult, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return types.AuthResult{}, err
	}
	if existing != nil {
		return types.AuthResult{Result: false, Message: "User already exists with this email."}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}
	if role == "" {
		role = defaultRole
	}
	user := &store.User{
		Email:     email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return types.AuthResult{}, err
	}
	return types.AuthResult{Result: true, Message: "User registered successfully"}, nil
}

// Login verifies credentials and issues a bearer token plus a refresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Warnw("invalid password", "email", email)
		return nil, ErrInvalidCredentials
	}

	expiration := time.Now().Add(tokenTTL)
	token, err := s.generateToken(user, expiration)
	if err != nil {
		s.log.Errorw("token generation failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &types.LoginResponse{
		Token:        token,
		Expiration:   expiration.UTC(),
		RefreshToken: refresh,
	}, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Service) generateToken(user *store.User, expiration time.Time) (string, error) {
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
