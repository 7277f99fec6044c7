package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmissionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAdmissionRepositoryNextSequence(t *testing.T) {
	db, mock, cleanup := newAdmissionRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery("INSERT INTO admission_counters").
		WithArgs(2025, 999).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))

	seq, err := repo.NextSequence(context.Background(), 2025, 999)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmissionRepositoryNextSequenceExhausted(t *testing.T) {
	db, mock, cleanup := newAdmissionRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	// The conditional upsert matches no row once seq reaches the cap.
	mock.ExpectQuery("INSERT INTO admission_counters").
		WithArgs(2025, 999).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.NextSequence(context.Background(), 2025, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAdmissionRepositoryCurrentSequence(t *testing.T) {
	db, mock, cleanup := newAdmissionRepoMock(t)
	defer cleanup()
	repo := NewAdmissionRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(seq\), 0\) FROM admission_counters WHERE year = \$1`).
		WithArgs(2024).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(57))

	seq, err := repo.CurrentSequence(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 57, seq)
}
