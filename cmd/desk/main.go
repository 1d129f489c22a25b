// Package main содержит точку входа консольного дашборда записи на консультации.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/appointment-desk/internal/cli"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cli.Options{}, os.Args[1:]); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode различает ошибки пользователя и сбои хранилища.
func exitCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrValidation),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrPendingApproval),
		errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, auth.ErrTooManyAttempts),
		errors.Is(err, cli.ErrForbidden),
		errors.Is(err, cli.ErrConfirmationRequired),
		errors.Is(err, cli.ErrNotFound):
		return 2
	default:
		return 1
	}
}
