package admin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/appointment-desk/internal/lib/password"
	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/services/admin"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/memory"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/repository"
)

func newService(t *testing.T) (*admin.Service, *repository.Storage) {
	t.Helper()
	store := repository.New(memory.New(), password.New(""))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return admin.NewService(log, store), store
}

func TestApproveAndReject(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	alice, err := store.AddUser(ctx, models.User{Role: models.RoleStudent, Email: "alice@uni.edu"})
	require.NoError(t, err)
	bob, err := store.AddUser(ctx, models.User{Role: models.RoleStudent, Email: "bob@uni.edu"})
	require.NoError(t, err)
	teacher, err := store.AddUser(ctx, models.User{Role: models.RoleTeacher, Email: "t@uni.edu"})
	require.NoError(t, err)

	pending, err := svc.PendingStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	u, found, err := svc.ApproveUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, u.Approved)

	_, found, err = svc.ApproveUser(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = svc.RejectStudent(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.RejectStudent(ctx, teacher.ID)
	assert.True(t, found)
	assert.ErrorIs(t, err, admin.ErrNotPending)

	found, err = svc.RejectStudent(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	pending, err = svc.PendingStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	users, err := store.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStats(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	seeded, err := store.Seed(ctx, repository.DefaultSeedData())
	require.NoError(t, err)
	require.True(t, seeded)
	_, err = store.AddUser(ctx, models.User{Role: models.RoleStudent, Email: "new@uni.edu"})
	require.NoError(t, err)

	a, err := store.AddAppointment(ctx, models.Appointment{StudentID: "s", TeacherID: "t"})
	require.NoError(t, err)
	_, err = store.AddAppointment(ctx, models.Appointment{StudentID: "s", TeacherID: "t"})
	require.NoError(t, err)
	approved := models.AppointmentApproved
	_, _, err = store.UpdateAppointment(ctx, a.ID, models.AppointmentPatch{Status: &approved})
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, models.Message{SenderID: "s", RecipientID: "t", Body: "hi"})
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Teachers)
	assert.Equal(t, 2, st.Students)
	assert.Equal(t, 1, st.PendingApprovals)
	assert.Equal(t, 1, st.Appointments[models.AppointmentPending])
	assert.Equal(t, 1, st.Appointments[models.AppointmentApproved])
	assert.Equal(t, 0, st.Appointments[models.AppointmentCompleted])
	assert.Equal(t, 1, st.UnreadMessages)
}

// Мок для Repository
type RepoMock struct {
	mock.Mock
	admin.Repository
}

func (m *RepoMock) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func TestStats_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUsers", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := admin.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
	_, err := svc.Stats(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	repo.AssertExpectations(t)
}
