// Package cli реализует консольный интерфейс дашборда на cobra.
//
// Каждый запуск команды соответствует загрузке страницы: приложение собирается
// заново, сохранённая сессия восстанавливается, а по завершении хранилище
// закрывается. Ответы печатаются в stdout в формате JSON.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/app/desk"
	"github.com/magabrotheeeer/appointment-desk/internal/config"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/sl"
	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
)

var (
	// ErrForbidden возвращается, если роль текущего пользователя не позволяет выполнить команду.
	ErrForbidden = errors.New("permission denied")
	// ErrConfirmationRequired возвращается разрушающими командами без флага --yes.
	ErrConfirmationRequired = errors.New("confirmation required: pass --yes")
	// ErrNotFound возвращается, если запись с указанным идентификатором не найдена.
	ErrNotFound = errors.New("not found")
)

// Opener собирает приложение по конфигу.
type Opener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*desk.App, error)

// Options задаёт зависимости корневой команды.
// Без Logger логгер строится по cfg.Env.
type Options struct {
	Logger     *slog.Logger
	Open       Opener
	LoadConfig func(path string) (*config.Config, error)
}

type runtime struct {
	opts Options
	app  *desk.App
}

// NewRootCommand создаёт корневую команду со всеми подкомандами.
func NewRootCommand(opts Options) *cobra.Command {
	cmd, _ := newRootCommand(opts)
	return cmd
}

func newRootCommand(opts Options) (*cobra.Command, *runtime) {
	if opts.Open == nil {
		opts.Open = desk.New
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	rt := &runtime{opts: opts}

	var configPath string
	cmd := &cobra.Command{
		Use:           "desk",
		Short:         "Appointment desk for students, teachers and administrators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rt.opts.LoadConfig(configPath)
			if err != nil {
				return err
			}
			logger := rt.opts.Logger
			if logger == nil {
				logger = sl.New(cfg.Env, cmd.ErrOrStderr())
			}
			app, err := rt.opts.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			rt.app = app
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return rt.close()
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the YAML config")

	cmd.AddCommand(
		seedCmd(rt),
		registerCmd(rt),
		loginCmd(rt),
		logoutCmd(rt),
		whoamiCmd(rt),
		passwdCmd(rt),
		resetAdminCmd(rt),
		statsCmd(rt),
		usersCmd(rt),
		appointmentsCmd(rt),
		messagesCmd(rt),
	)
	return cmd, rt
}

// Execute запускает корневую команду. Хранилище закрывается и при ошибке команды.
func Execute(ctx context.Context, opts Options, args []string) error {
	cmd, rt := newRootCommand(opts)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	return err
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	app := rt.app
	rt.app = nil
	return app.Close()
}

// requireRole проверяет, что пользователь вошёл и имеет одну из ролей.
// Без ролей достаточно любой активной сессии.
func (rt *runtime) requireRole(roles ...models.Role) (models.Session, error) {
	session, ok := rt.app.Auth.CurrentUser()
	if !ok {
		return models.Session{}, auth.ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return session, nil
	}
	for _, r := range roles {
		if session.Role == r {
			return session, nil
		}
	}
	return models.Session{}, fmt.Errorf("%w: requires role %v", ErrForbidden, roles)
}

func confirmed(cmd *cobra.Command) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return ErrConfirmationRequired
	}
	return nil
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("yes", false, "confirm the destructive operation")
}
