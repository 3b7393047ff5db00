package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ryuqq/authhub/internal/audit/domain"
)

type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Record(ctx context.Context, record *auditDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAuditUseCase) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Record), args.Error(1)
}

func (m *mockAuditUseCase) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunCleanAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	days := 30
	retention := time.Duration(days) * 24 * time.Hour

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		mockUseCase.On("Purge", ctx, retention).Return(int64(100), nil)

		var out bytes.Buffer
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &out, days, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 100 audit log(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		mockUseCase.On("Purge", ctx, retention).Return(int64(50), nil)

		var out bytes.Buffer
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &out, days, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 50`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-days", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &bytes.Buffer{}, -1, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
	})
}
