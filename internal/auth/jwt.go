// Package auth содержит выпуск и проверку JWT-токенов и HTTP middleware авторизации.
package auth

import (
	"errors"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken возвращается при недействительном или просроченном токене.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims - полезная нагрузка токена доступа.
type Claims struct {
	UserID         string                `json:"userId"`
	BidderCategory models.BidderCategory `json:"bidderCategory"`
	jwt.RegisteredClaims
}

// Auth выпускает и проверяет токены доступа.
type Auth struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewAuth создаёт новый экземпляр Auth с указанным секретом и временем жизни токена.
func NewAuth(secret string, tokenTTL time.Duration) *Auth {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Auth{secret: []byte(secret), tokenTTL: tokenTTL}
}

// GenerateToken выпускает подписанный токен для пользователя.
func (a *Auth) GenerateToken(userID string, category models.BidderCategory) (string, error) {
	if userID == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := Claims{
		UserID:         userID,
		BidderCategory: category,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken проверяет подпись токена и возвращает его полезную нагрузку.
func (a *Auth) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
