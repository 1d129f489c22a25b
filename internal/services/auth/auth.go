// Package auth управляет сессией пользователя дашборда: вход, регистрация
// студентов, выход и восстановление сессии при запуске.
//
// AuthService — явный объект сессии. Состояния: анонимный и
// аутентифицированный. Снимок сессии сохраняется в хранилище, чтобы
// следующий запуск мог восстановить вход.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/appointment-desk/internal/lib/jwt"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/password"
	"github.com/magabrotheeeer/appointment-desk/internal/lib/sl"
	"github.com/magabrotheeeer/appointment-desk/internal/metrics"
	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/repository"
)

// UserRepository описывает операции хранилища пользователей, нужные сессии.
type UserRepository interface {
	GetUserByID(ctx context.Context, userID string) (models.User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, bool, error)
	AddUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (models.User, bool, error)
}

// SessionRepository сохраняет снимок сессии между запусками.
type SessionRepository interface {
	Load(ctx context.Context) (models.Session, bool, error)
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// Recorder получает события для метрик. Реализуется *metrics.Metrics.
type Recorder interface {
	LoginAttempt(outcome string)
	Registration()
}

// AuthService хранит текущую сессию и выполняет переходы между состояниями.
type AuthService struct {
	log      *slog.Logger
	users    UserRepository
	sessions SessionRepository
	hasher   password.Hasher
	validate *validator.Validate

	jwtMaker   jwt.Maker     // nil — снимок сессии не подписывается
	throttle   *loginThrottle // nil — без ограничения частоты входа
	latency    time.Duration // искусственная задержка входа
	recorder   Recorder
	revalidate bool

	mu      sync.RWMutex
	current *models.Session
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithTokenMaker включает подпись сохраняемой сессии.
func WithTokenMaker(m jwt.Maker) Option {
	return func(s *AuthService) { s.jwtMaker = m }
}

// WithLoginLimit ограничивает частоту попыток входа. История попыток
// хранится в backend, поэтому лимит общий для всех процессов над одним
// хранилищем. r <= 0 отключает ограничение.
func WithLoginLimit(backend storage.Backend, r float64, burst int) Option {
	return func(s *AuthService) {
		s.throttle = newLoginThrottle(backend, r, burst)
	}
}

// WithSimulatedLatency добавляет задержку перед проверкой учётных данных.
func WithSimulatedLatency(d time.Duration) Option {
	return func(s *AuthService) { s.latency = d }
}

// WithRecorder подключает счётчики метрик.
func WithRecorder(r Recorder) Option {
	return func(s *AuthService) { s.recorder = r }
}

// WithRestoreRevalidation заставляет RestoreSession сверять снимок
// с текущей записью пользователя.
func WithRestoreRevalidation(enabled bool) Option {
	return func(s *AuthService) { s.revalidate = enabled }
}

// NewAuthService создаёт сервис в анонимном состоянии.
func NewAuthService(log *slog.Logger, users UserRepository, sessions SessionRepository, hasher password.Hasher, opts ...Option) *AuthService {
	s := &AuthService{
		log:      log,
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login проверяет учётные данные и открывает сессию.
// Неизвестная почта и неверный пароль неразличимы (ErrInvalidCredentials).
// Если сохранить сессию не удалось, состояние не меняется.
func (s *AuthService) Login(ctx context.Context, email, plain string) (models.Session, error) {
	const op = "services.auth.Login"
	log := s.log.With(sl.Op(op))

	if s.throttle != nil {
		allowed, err := s.throttle.allow(ctx)
		if err != nil {
			s.record(metrics.OutcomeError)
			return models.Session{}, fmt.Errorf("%s: %w", op, err)
		}
		if !allowed {
			s.record(metrics.OutcomeRateLimited)
			log.Info("login rejected: too many attempts")
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrTooManyAttempts)
		}
	}

	if err := s.wait(ctx); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	email = strings.TrimSpace(email)
	if email == "" || plain == "" {
		s.record(metrics.OutcomeInvalidCredentials)
		log.Info("login rejected: empty credentials")
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, found, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.record(metrics.OutcomeError)
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found || !s.hasher.Compare(user.Password, plain) {
		s.record(metrics.OutcomeInvalidCredentials)
		log.Info("login rejected: invalid credentials")
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if user.Role == models.RoleStudent && !user.Approved {
		s.record(metrics.OutcomePendingApproval)
		log.Info("login rejected: pending approval", sl.UserID(user.ID))
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrPendingApproval)
	}

	session, err := s.newSession(user)
	if err != nil {
		s.record(metrics.OutcomeError)
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.record(metrics.OutcomeError)
		log.Error("failed to persist session", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.setCurrent(&session)
	s.record(metrics.OutcomeSuccess)
	log.Info("user logged in", sl.UserID(user.ID), slog.String("role", string(user.Role)))
	return session, nil
}

// Register создаёт учётную запись студента, ожидающую подтверждения.
// Текущая сессия не меняется. Ошибки формы возвращаются как *ValidationError.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	const op = "services.auth.Register"
	log := s.log.With(sl.Op(op))

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Department = strings.TrimSpace(req.Department)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateRegistration(s.validate, req); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	_, exists, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return models.User{}, fmt.Errorf("%s: %w", op,
			&ValidationError{Reason: ReasonEmailTaken, Err: storage.ErrDuplicateEmail})
	}

	user, err := s.users.AddUser(ctx, models.User{
		Role:       models.RoleStudent,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		StudentID:  req.StudentID,
	})
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return models.User{}, fmt.Errorf("%s: %w", op, &ValidationError{Reason: ReasonEmailTaken, Err: err})
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.recorder != nil {
		s.recorder.Registration()
	}
	log.Info("student registered", sl.UserID(user.ID))
	return user, nil
}

// Logout закрывает сессию. Состояние в памяти сбрасывается всегда,
// даже если удалить сохранённую сессию не удалось. Повторный вызов безопасен.
func (s *AuthService) Logout(ctx context.Context) error {
	const op = "services.auth.Logout"
	s.setCurrent(nil)
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RestoreSession загружает сохранённую сессию при запуске.
// По умолчанию снимку доверяют без сверки с хранилищем пользователей.
// При включённой подписи сессия без действительного токена отбрасывается.
func (s *AuthService) RestoreSession(ctx context.Context) (bool, error) {
	const op = "services.auth.RestoreSession"
	log := s.log.With(sl.Op(op))

	session, found, err := s.sessions.Load(ctx)
	if errors.Is(err, repository.ErrMalformedSession) {
		log.Warn("discarding malformed session", sl.Err(err))
		return false, s.discard(ctx, op)
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return false, nil
	}

	if s.jwtMaker != nil {
		if session.Token == "" {
			log.Warn("discarding unsigned session")
			return false, s.discard(ctx, op)
		}
		claims, err := s.jwtMaker.ParseToken(session.Token)
		if err != nil || !claims.Matches(session) {
			log.Warn("discarding session with invalid token", sl.Err(err))
			return false, s.discard(ctx, op)
		}
	}

	if s.revalidate {
		user, found, err := s.users.GetUserByID(ctx, session.ID)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if !found || (user.Role == models.RoleStudent && !user.Approved) {
			log.Info("discarding session of removed or unapproved user", sl.UserID(session.ID))
			return false, s.discard(ctx, op)
		}
		if fresh := models.NewSession(user); !sameSnapshot(fresh, session) {
			session, err = s.newSession(user)
			if err != nil {
				return false, fmt.Errorf("%s: %w", op, err)
			}
			if err := s.sessions.Save(ctx, session); err != nil {
				return false, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	s.setCurrent(&session)
	log.Debug("session restored", sl.UserID(session.ID))
	return true, nil
}

// ChangePassword меняет пароль текущего пользователя.
func (s *AuthService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	const op = "services.auth.ChangePassword"

	session, ok := s.CurrentUser()
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}
	user, found, err := s.users.GetUserByID(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || !s.hasher.Compare(user.Password, current) {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := CheckPassword(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if next != confirm {
		return fmt.Errorf("%s: %w", op, &ValidationError{Reason: ReasonPasswordMismatch})
	}

	if _, _, err := s.users.UpdateUser(ctx, user.ID, models.UserPatch{Password: &next}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("password changed", sl.Op(op), sl.UserID(user.ID))
	return nil
}

// IsAuthenticated сообщает, есть ли активная сессия.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// HasRole сообщает, аутентифицирован ли пользователь с указанной ролью.
func (s *AuthService) HasRole(role models.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == role
}

// CurrentUser возвращает снимок текущей сессии.
func (s *AuthService) CurrentUser() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

func (s *AuthService) setCurrent(session *models.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

func (s *AuthService) newSession(user models.User) (models.Session, error) {
	session := models.NewSession(user)
	if s.jwtMaker == nil {
		return session, nil
	}
	token, err := s.jwtMaker.GenerateToken(session)
	if err != nil {
		return models.Session{}, err
	}
	session.Token = token
	return session, nil
}

func (s *AuthService) discard(ctx context.Context, op string) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// wait выдерживает искусственную задержку, прерываясь по ctx.
func (s *AuthService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *AuthService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.LoginAttempt(outcome)
	}
}

func sameSnapshot(a, b models.Session) bool {
	a.Token, b.Token = "", ""
	return a == b
}
