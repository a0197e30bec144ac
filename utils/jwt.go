package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Default untuk development; produksi wajib set JWT_SECRET.
		secret = "CleanTrackDevSecret2024"
	}
	jwtSecret = []byte(secret)
}

type CustomClaims struct {
	ActorID      string `json:"actor_id"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	jwt.RegisteredClaims
}

func GenerateToken(actorID, role, departmentID, name string) (string, error) {
	claims := &CustomClaims{
		ActorID:      actorID,
		Role:         role,
		DepartmentID: departmentID,
		Name:         name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "CleanTrack",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
