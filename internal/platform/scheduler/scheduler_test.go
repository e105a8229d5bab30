package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAddJob_Validation(t *testing.T) {
	s, err := New(discardLogger())
	require.NoError(t, err)
	defer s.Stop()

	_, err = s.AddJob("", "* * * * *", func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = s.AddJob("job", " ", func() {})
	assert.ErrorIs(t, err, ErrEmptyCronExpr)

	_, err = s.AddJob("job", "not a cron", func() {})
	assert.Error(t, err)

	job, err := s.AddJob("job", "*/15 * * * *", func() {})
	require.NoError(t, err)
	assert.Equal(t, "job", job.Name())
}

func TestRegisterCompletionSweep(t *testing.T) {
	s, err := New(discardLogger())
	require.NoError(t, err)
	defer s.Stop()

	assert.NoError(t, RegisterCompletionSweep(s, &MockCompleter{}, "*/15 * * * *"))
	assert.Error(t, RegisterCompletionSweep(s, &MockCompleter{}, ""))
}

func TestCompletionTask(t *testing.T) {
	fixed := time.Date(2024, time.June, 10, 21, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	t.Run("passes the clock through", func(t *testing.T) {
		m := &MockCompleter{}
		m.On("CompletePast", mock.Anything, fixed).Return(int64(3), nil).Once()

		completionTask(m, discardLogger(), clock)()
		m.AssertExpectations(t)
	})

	t.Run("logs failures", func(t *testing.T) {
		var buf bytes.Buffer
		m := &MockCompleter{}
		m.On("CompletePast", mock.Anything, fixed).Return(int64(0), errors.New("db down")).Once()

		completionTask(m, slog.New(slog.NewJSONHandler(&buf, nil)), clock)()
		m.AssertExpectations(t)
		assert.Contains(t, buf.String(), "Completion sweep failed")
		assert.Contains(t, buf.String(), "db down")
	})
}
