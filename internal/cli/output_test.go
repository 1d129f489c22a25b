package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation reason only",
			err:  fmt.Errorf("services.auth.Register: %w", &auth.ValidationError{Reason: auth.ReasonPasswordMismatch}),
			want: auth.ReasonPasswordMismatch,
		},
		{
			name: "known sentinel without op chain",
			err:  fmt.Errorf("services.auth.Login: %w", auth.ErrInvalidCredentials),
			want: auth.ErrInvalidCredentials.Error(),
		},
		{
			name: "other errors as is",
			err:  fmt.Errorf("user 42: %w", ErrNotFound),
			want: "user 42: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ErrorResponse(tt.err)
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	assert.JSONEq(t, `{"status":"Error","error":"boom"}`, buf.String())
}
