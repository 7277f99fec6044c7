package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AdmissionRepository owns the per-year admission sequence counters.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs an AdmissionRepository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// NextSequence atomically claims the next sequence number for the year. The
// increment happens inside the database so concurrent registrations can never
// observe the same value. Once the yearly cap is reached the conditional
// update matches no row and sql.ErrNoRows surfaces to the caller.
func (r *AdmissionRepository) NextSequence(ctx context.Context, year, cap int) (int, error) {
	const query = `INSERT INTO admission_counters AS c (year, seq) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET seq = c.seq + 1 WHERE c.seq < $2
        RETURNING seq`
	var seq int
	if err := r.db.GetContext(ctx, &seq, query, year, cap); err != nil {
		return 0, err
	}
	if seq > cap {
		return 0, fmt.Errorf("admission counter for %d overflowed cap %d", year, cap)
	}
	return seq, nil
}

// CurrentSequence reads the last claimed sequence for a year, zero when the
// year has no registrations yet.
func (r *AdmissionRepository) CurrentSequence(ctx context.Context, year int) (int, error) {
	var seq int
	err := r.db.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) FROM admission_counters WHERE year = $1`, year)
	if err != nil {
		return 0, fmt.Errorf("read admission counter: %w", err)
	}
	return seq, nil
}
