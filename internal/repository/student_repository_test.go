package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dis-school/registry-api/internal/models"
)

func newStudentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "admission_number", "first_name", "middle_name", "last_name", "gender", "date_of_birth",
		"nationality", "state_of_origin", "lga", "home_address", "religion", "phone", "class_level",
		"section", "session", "term", "previous_school", "date_of_admission", "passport", "deleted",
		"created_at", "updated_at",
	})
}

func addStudentRow(rows *sqlmock.Rows, id, admission, first, last, class string, deleted bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, admission, first, "", last, "Female", "2015-02-10",
		"", "", "", "", "Christianity", "", class,
		"", "2025/2026", "First Term", "", "2025-09-01", nil, deleted,
		now, now)
}

func TestStudentRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := addStudentRow(studentRows(), "s1", "DIS/2025/001", "Ada", "Obi", "Basic 1", false)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM students WHERE deleted = \$1 ORDER BY created_at ASC`).
		WithArgs(false).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.StudentFilter{Deleted: false})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "DIS/2025/001", list[0].AdmissionNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM students WHERE deleted = \$1 AND class_level = \$2 AND \(LOWER\(first_name\) LIKE \$3 ESCAPE '\\' OR LOWER\(last_name\) LIKE \$3 ESCAPE '\\' OR LOWER\(admission_number\) LIKE \$3 ESCAPE '\\'\) ORDER BY created_at ASC`).
		WithArgs(false, "Basic 1", "%ada%").
		WillReturnRows(studentRows())

	list, err := repo.List(context.Background(), models.StudentFilter{ClassLevel: "Basic 1", Search: "Ada"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEscapesSearchWildcards(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	// a literal % or _ in the search text must not act as a wildcard
	mock.ExpectQuery(`(?s)SELECT (.+) FROM students WHERE deleted = \$1 AND \(LOWER\(first_name\) LIKE \$2 ESCAPE '\\'`).
		WithArgs(false, `%100\%\_a\\b%`).
		WillReturnRows(studentRows())

	list, err := repo.List(context.Background(), models.StudentFilter{Search: `100%_a\b`})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDIgnoresDeletedFlag(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := addStudentRow(studentRows(), "s2", "DIS/2025/002", "Bola", "Ade", "JSS 1", true)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM students WHERE id = \$1`).
		WithArgs("s2").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "s2")
	require.NoError(t, err)
	assert.True(t, student.Deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`(?s)SELECT (.+) FROM students WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{AdmissionNumber: "DIS/2025/003", FirstName: "Chi", LastName: "Eze", Gender: "Male", ClassLevel: "SSS 2"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositorySetDeleted(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET deleted").
		WithArgs("s1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetDeleted(context.Background(), "s1", true))

	mock.ExpectExec("UPDATE students SET deleted").
		WithArgs("ghost", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetDeleted(context.Background(), "ghost", false)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("DELETE FROM students").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE deleted = \$1`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByDeleted(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	mock.ExpectQuery(`SELECT class_level, COUNT\(\*\) AS count FROM students`).
		WillReturnRows(sqlmock.NewRows([]string{"class_level", "count"}).
			AddRow("Basic 1", 12).
			AddRow("JSS 1", 30))

	counts, err := repo.CountPerClassLevel(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "JSS 1", counts[1].ClassLevel)
	assert.Equal(t, 30, counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}
