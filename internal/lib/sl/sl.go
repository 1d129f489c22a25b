// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразно формировать структурированные поля лога:
// ошибку, имя операции и идентификатор пользователя.
package sl

import (
	"io"
	"log/slog"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращается пустая строка, чтобы логирование не паниковало.
//
// Пример:
//
//	log.Error("failed to save users", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает атрибут с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}

// UserID возвращает атрибут с идентификатором пользователя.
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// Окружения, влияющие на формат и уровень логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// New создаёт логгер для окружения env. В local пишет текст с уровнем debug,
// в остальных окружениях JSON; debug включён только для dev.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
