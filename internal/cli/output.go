package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
)

// Response — ответ об ошибке команды.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// ErrorResponse строит ответ для ошибки. Для ошибок формы в ответ
// попадает только причина, без цепочки операций.
func ErrorResponse(err error) Response {
	var vErr *auth.ValidationError
	if errors.As(err, &vErr) {
		return Response{Status: StatusError, Error: vErr.Reason}
	}
	for _, known := range []error{
		auth.ErrInvalidCredentials,
		auth.ErrPendingApproval,
		auth.ErrNotAuthenticated,
		auth.ErrTooManyAttempts,
	} {
		if errors.Is(err, known) {
			return Response{Status: StatusError, Error: known.Error()}
		}
	}
	return Response{Status: StatusError, Error: err.Error()}
}

// PrintError печатает ErrorResponse в w.
func PrintError(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(ErrorResponse(err))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// publicUser скрывает хэш пароля при выводе.
func publicUser(u models.User) models.User {
	u.Password = ""
	return u
}

func publicUsers(users []models.User) []models.User {
	res := make([]models.User, 0, len(users))
	for _, u := range users {
		res = append(res, publicUser(u))
	}
	return res
}

type statusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}
