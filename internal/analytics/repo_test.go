package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"feedback-tool/internal/storage"
	customErrors "feedback-tool/internal/types/errors"
)

func setupTestRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening a stub database connection: %s", err)
	}

	repo := NewRepository(sqlx.NewDb(db, "sqlmock"), zaptest.NewLogger(t).Sugar())

	return repo, mock, func() { db.Close() }
}

func TestRepository_Record(t *testing.T) {
	repo, mock, teardown := setupTestRepo(t)
	defer teardown()

	tests := []struct {
		name     string
		delta    DailyActivity
		mockFunc func()
		wantErr  error
	}{
		{
			name:  "success",
			delta: DailyActivity{Day: "2024-05-01", Created: 1, Words: 12},
			mockFunc: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO feedback_activity (day, created, deleted, words)")).
					WithArgs("2024-05-01", 1, 0, 12).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantErr: nil,
		},
		{
			name:  "db error",
			delta: DailyActivity{Day: "2024-05-01", Deleted: 1},
			mockFunc: func() {
				mock.ExpectExec("INSERT INTO feedback_activity").
					WillReturnError(errors.New("db error"))
			},
			wantErr: customErrors.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockFunc()
			err := repo.Record(context.Background(), tt.delta)

			assert.Equal(t, tt.wantErr, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Recent(t *testing.T) {
	repo, mock, teardown := setupTestRepo(t)
	defer teardown()

	tests := []struct {
		name     string
		mockFunc func()
		want     []DailyActivity
		wantErr  error
	}{
		{
			name: "success",
			mockFunc: func() {
				rows := sqlmock.NewRows([]string{"day", "created", "deleted", "words"}).
					AddRow("2024-05-02", 3, 1, 40).
					AddRow("2024-05-01", 1, 0, 5)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT day, created, deleted, words")).
					WithArgs(2).
					WillReturnRows(rows)
			},
			want: []DailyActivity{
				{Day: "2024-05-02", Created: 3, Deleted: 1, Words: 40},
				{Day: "2024-05-01", Created: 1, Deleted: 0, Words: 5},
			},
			wantErr: nil,
		},
		{
			name: "db error",
			mockFunc: func() {
				mock.ExpectQuery("SELECT day").
					WithArgs(2).
					WillReturnError(errors.New("boom"))
			},
			want:    nil,
			wantErr: customErrors.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockFunc()
			got, err := repo.Recent(context.Background(), 2)

			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_SQLiteUpsert(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	st, err := storage.Open(context.Background(), storage.Options{
		Driver:       storage.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "feedback.db"),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Init(context.Background()))

	repo := NewRepository(st.DB, logger)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, DailyActivity{Day: "2024-05-01", Created: 1, Words: 10}))
	require.NoError(t, repo.Record(ctx, DailyActivity{Day: "2024-05-01", Created: 1, Words: 5}))
	require.NoError(t, repo.Record(ctx, DailyActivity{Day: "2024-05-01", Deleted: 1}))
	require.NoError(t, repo.Record(ctx, DailyActivity{Day: "2024-05-02", Created: 1, Words: 1}))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []DailyActivity{
		{Day: "2024-05-02", Created: 1, Words: 1},
		{Day: "2024-05-01", Created: 2, Deleted: 1, Words: 15},
	}, got)

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
