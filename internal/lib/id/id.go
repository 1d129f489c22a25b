// Package id генерирует непрозрачные строковые идентификаторы записей.
package id

import "github.com/google/uuid"

// New возвращает новый идентификатор на основе UUIDv7. Старшие биты содержат
// миллисекундную метку времени (монотонную в пределах процесса), остальные
// случайны. Проверки коллизий нет.
func New() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}
