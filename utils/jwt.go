package utils

import (
	"errors"
	"time"

	"jasaku/config"
	"jasaku/models"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "JASAKU_DEV"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given actor. The role travels in
// the token so the request boundary can resolve it without a session lookup.
func GenerateToken(actor models.Actor, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  actor.ID,
		"role": string(actor.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractActorFromToken resolves a validated token into a closed Actor value.
// RoleGateway is never minted for tokens; webhook requests authenticate with
// the shared callback secret instead.
func ExtractActorFromToken(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}

	roleClaim, _ := claims["role"].(string)
	switch models.Role(roleClaim) {
	case models.RoleCustomer, models.RoleProvider, models.RoleAdmin:
		return models.Actor{ID: sub, Role: models.Role(roleClaim)}, nil
	default:
		return models.Actor{}, errors.New("token does not carry a recognized role")
	}
}
