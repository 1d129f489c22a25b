package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

const issuer = "appointment-desk"

// SessionClaims описывает данные сессии, хранящиеся в токене.
type SessionClaims struct {
	Name                 string      `json:"name"`
	Email                string      `json:"email"`
	Role                 models.Role `json:"role"`
	Approved             bool        `json:"approved"`
	jwt.RegisteredClaims             // Subject — ID пользователя
}

// Matches сообщает, совпадают ли claims со снимком сессии.
func (c *SessionClaims) Matches(s models.Session) bool {
	return c.Subject == s.ID &&
		c.Email == s.Email &&
		c.Name == s.Name &&
		c.Role == s.Role &&
		c.Approved == s.Approved
}

// GenerateToken подписывает снимок сессии секретным ключом.
// При нулевом TTL токен выпускается без срока действия.
func (j *MakerImpl) GenerateToken(session models.Session) (string, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	claims := SessionClaims{
		Name:     session.Name,
		Email:    session.Email,
		Role:     session.Role,
		Approved: session.Approved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  session.ID,
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.tokenTTL != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenTTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит токен, проверяет подпись, издателя и срок действия.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
