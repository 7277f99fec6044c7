package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dis-school/registry-api/internal/dto"
	"github.com/dis-school/registry-api/internal/models"
)

const studentColumns = `id, admission_number, first_name, middle_name, last_name, gender, date_of_birth,
        nationality, state_of_origin, lga, home_address, religion, phone, class_level, section, session,
        term, previous_school, date_of_admission, passport, deleted, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the filter in insertion order.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"deleted = $1"}
	args := []interface{}{filter.Deleted}

	if filter.ClassLevel != "" {
		conditions = append(conditions, fmt.Sprintf("class_level = $%d", len(args)+1))
		args = append(args, filter.ClassLevel)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(first_name) LIKE $%d ESCAPE '\' OR LOWER(last_name) LIKE $%d ESCAPE '\' OR LOWER(admission_number) LIKE $%d ESCAPE '\')`, idx, idx, idx))
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Search))+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY created_at ASC",
		studentColumns, strings.Join(conditions, " AND "))

	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID regardless of its deleted flag.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, admission_number, first_name, middle_name, last_name, gender,
        date_of_birth, nationality, state_of_origin, lga, home_address, religion, phone, class_level,
        section, session, term, previous_school, date_of_admission, passport, deleted, created_at, updated_at)
        VALUES (:id, :admission_number, :first_name, :middle_name, :last_name, :gender, :date_of_birth,
        :nationality, :state_of_origin, :lga, :home_address, :religion, :phone, :class_level, :section,
        :session, :term, :previous_school, :date_of_admission, :passport, :deleted, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites an existing student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, middle_name = :middle_name,
        last_name = :last_name, gender = :gender, date_of_birth = :date_of_birth, nationality = :nationality,
        state_of_origin = :state_of_origin, lga = :lga, home_address = :home_address, religion = :religion,
        phone = :phone, class_level = :class_level, section = :section, session = :session, term = :term,
        previous_school = :previous_school, date_of_admission = :date_of_admission, passport = :passport,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// SetDeleted flips the soft-delete flag. sql.ErrNoRows when the id is absent.
func (r *StudentRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	const query = `UPDATE students SET deleted = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, deleted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set deleted flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set deleted flag: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student row permanently. sql.ErrNoRows when the id is absent.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByDeleted returns the number of records with the given flag.
func (r *StudentRepository) CountByDeleted(ctx context.Context, deleted bool) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE deleted = $1`, deleted); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// CountPerClassLevel returns active headcounts grouped by class level.
func (r *StudentRepository) CountPerClassLevel(ctx context.Context) ([]dto.ClassCount, error) {
	const query = `SELECT class_level, COUNT(*) AS count FROM students
        WHERE deleted = false GROUP BY class_level ORDER BY class_level`
	counts := make([]dto.ClassCount, 0)
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count per class level: %w", err)
	}
	return counts, nil
}

// escapeLike neutralizes LIKE metacharacters in user supplied search text so
// a literal % or _ only matches itself.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IsUniqueViolation reports whether the error is a PostgreSQL unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
