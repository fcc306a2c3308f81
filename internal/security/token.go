package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rentaride-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// PartyClaims carries the authenticated party identity issued by the
// external identity service. The booking core only validates; it never
// issues tokens in production (GenerateToken exists for tests and tooling).
type PartyClaims struct {
	PartyID int32            `json:"party_id"`
	Kind    domain.PartyKind `json:"kind"`
	Email   string           `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateToken(partyID int32, kind domain.PartyKind, email string) (string, error)
	ValidateToken(tokenString string) (*PartyClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret)}
}

func (m *tokenManager) GenerateToken(partyID int32, kind domain.PartyKind, email string) (string, error) {
	claims := PartyClaims{
		PartyID: partyID,
		Kind:    kind,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(partyID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "identity-service",
			Audience:  jwt.ClaimStrings{"api-access"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*PartyClaims, error) {
	claims := &PartyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
