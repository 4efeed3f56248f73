package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCalculator struct {
	mock.Mock
}

func (m *mockCalculator) Compute(ctx context.Context, r domain.DateRange) ([]domain.OutputRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutputRow), args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(ctx context.Context, rows []domain.OutputRow) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *mockSink) Close() error {
	return m.Called().Error(0)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestNewRunner_Validation(t *testing.T) {
	_, err := NewRunner(nil, new(mockSink), "duckdb")
	assert.Error(t, err)

	_, err = NewRunner(new(mockCalculator), nil, "duckdb")
	assert.Error(t, err)
}

func TestRunner_Run(t *testing.T) {
	r := domain.DefaultDateRange()
	rows := []domain.OutputRow{{WeekStart: r.Start, WeekEnd: r.Start.AddDate(0, 0, 6), StartMonth: time.December, Percentage: domain.FullWeek}}

	t.Run("success", func(t *testing.T) {
		calc := new(mockCalculator)
		calc.On("Compute", mock.Anything, r).Return(rows, nil)
		s := new(mockSink)
		s.On("Write", mock.Anything, rows).Return(nil)

		runner, err := NewRunner(calc, s, "duckdb")
		require.NoError(t, err)
		result, err := runner.Run(testContext(t), r)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Rows)
		assert.Equal(t, "duckdb", result.Platform)
		assert.Equal(t, r, result.Range)
		calc.AssertExpectations(t)
		s.AssertExpectations(t)
	})

	t.Run("compute failure skips the sink", func(t *testing.T) {
		calc := new(mockCalculator)
		calc.On("Compute", mock.Anything, r).Return(nil, &allocation.InvalidRangeError{Start: r.End, End: r.Start})
		s := new(mockSink)

		runner, err := NewRunner(calc, s, "duckdb")
		require.NoError(t, err)
		_, err = runner.Run(testContext(t), r)

		var rangeErr *allocation.InvalidRangeError
		assert.True(t, errors.As(err, &rangeErr))
		s.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("sink failure", func(t *testing.T) {
		calc := new(mockCalculator)
		calc.On("Compute", mock.Anything, r).Return(rows, nil)
		s := new(mockSink)
		s.On("Write", mock.Anything, rows).Return(errors.New("warehouse offline"))

		runner, err := NewRunner(calc, s, "databricks")
		require.NoError(t, err)
		_, err = runner.Run(testContext(t), r)
		assert.EqualError(t, err, "publish allocations to databricks: warehouse offline")
	})

	t.Run("end to end with the engine", func(t *testing.T) {
		s := new(mockSink)
		s.On("Write", mock.Anything, mock.MatchedBy(func(out []domain.OutputRow) bool {
			return len(out) > 0 && out[0].WeekStart.Equal(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC))
		})).Return(nil)

		runner, err := NewRunner(allocation.NewEngine(), s, "duckdb")
		require.NoError(t, err)
		result, err := runner.Run(testContext(t), r)
		require.NoError(t, err)
		assert.Greater(t, result.Rows, 313)
		s.AssertExpectations(t)
	})
}
