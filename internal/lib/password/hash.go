// Package password реализует детерминированное хэширование паролей.
//
// Hash кодирует соль приложения вместе с паролем, так что одинаковые пароли
// всегда дают одинаковый результат и сравниваются простым равенством строк.
// Это не криптографическая защита: формат совместим с данными, которые
// уже лежат в хранилище.
package password

import (
	"crypto/subtle"
	"encoding/base64"
)

// DefaultSalt — соль приложения по умолчанию.
const DefaultSalt = "appointment_system_"

// Hasher хэширует пароли с фиксированной солью.
type Hasher struct {
	Salt string
}

// New создаёт Hasher с указанной солью. Пустая соль заменяется DefaultSalt.
func New(salt string) Hasher {
	if salt == "" {
		salt = DefaultSalt
	}
	return Hasher{Salt: salt}
}

// Hash возвращает хранимое представление пароля.
// Пустой пароль отображается в пустую строку.
func (h Hasher) Hash(secret string) string {
	if secret == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(h.Salt + secret))
}

// Compare сообщает, соответствует ли пароль сохранённому хэшу.
// Пустой пароль не соответствует никакому хэшу.
func (h Hasher) Compare(hash, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(h.Hash(secret))) == 1
}
