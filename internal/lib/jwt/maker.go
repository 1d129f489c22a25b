// Package jwt подписывает и проверяет токены сессии.
//
// Токен сохраняется вместе со снимком сессии и позволяет при восстановлении
// отличить сессию, выданную этим экземпляром приложения, от подделанной
// или устаревшей записи в хранилище.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

// Maker описывает интерфейс для выпуска и проверки токенов сессии.
type Maker interface {
	// GenerateToken подписывает снимок сессии.
	GenerateToken(session models.Session) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на HMAC‑SHA256 с общим секретом.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена, 0 — без срока действия.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
