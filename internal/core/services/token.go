package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

type TokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		issuer:    "linkup-backend",
		ttl:       24 * time.Hour,
	}
}

func (s *TokenService) Generate(identity domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":      identity.UserID.String(),
		"username": identity.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.ttl).Unix(),
		"iss":      s.issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify parses and validates the JWT string and extracts the identity.
// Called once per connection at handshake time; the result is cached for the
// connection's lifetime.
func (s *TokenService) Verify(tokenStr string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	username, _ := claims["username"].(string)
	return domain.Identity{UserID: userID, Username: username}, nil
}
