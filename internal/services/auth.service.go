package services

import (
	"errors"
	"strconv"
	"time"

	"housemanagement/config"
	"housemanagement/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "housemanagement"

var ErrInvalidToken = errors.New("invalid token")

type AuthService struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	log         logger.Logger
}

func NewAuthService(cfg config.Config) *AuthService {
	return &AuthService{
		secret:      []byte(cfg.JWTSecret),
		ttl:         time.Duration(cfg.JWTTTLHours) * time.Hour,
		rememberTTL: time.Duration(cfg.JWTRememberTTLHours) * time.Hour,
		log:         logger.New("AuthService"),
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 token; remember selects the long-lived TTL.
func (s *AuthService) IssueToken(user *models.User, remember bool) (string, time.Time, error) {
	ttl := s.ttl
	if remember {
		ttl = s.rememberTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, s.log.Function("IssueToken").Err("failed to sign token", err, "userID", user.ID)
	}
	return signed, expiresAt, nil
}

// ParseToken returns the user ID of a valid, unexpired token.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
