package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

// MaxYearlySequence caps admissions per enrollment year. The 999th
// registration succeeds; the next one fails with a quota error.
const MaxYearlySequence = 999

type admissionSequencer interface {
	NextSequence(ctx context.Context, year, cap int) (int, error)
	CurrentSequence(ctx context.Context, year int) (int, error)
}

// AdmissionService issues sequential admission numbers scoped to the current
// year. The increment itself lives in the storage layer so two concurrent
// registrations can never be handed the same number.
type AdmissionService struct {
	repo   admissionSequencer
	prefix string
	now    func() time.Time
}

// NewAdmissionService constructs the service. An empty prefix falls back to
// the school default.
func NewAdmissionService(repo admissionSequencer, prefix string) *AdmissionService {
	if prefix == "" {
		prefix = "DIS"
	}
	return &AdmissionService{repo: repo, prefix: prefix, now: time.Now}
}

// Next claims the next admission number for the current year.
func (s *AdmissionService) Next(ctx context.Context) (string, error) {
	year := s.now().Year()
	seq, err := s.repo.NextSequence(ctx, year, MaxYearlySequence)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrQuotaExceeded,
				fmt.Sprintf("maximum number of students reached for %d", year))
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim admission sequence")
	}
	return FormatAdmissionNumber(s.prefix, year, seq), nil
}

// UsedThisYear reports how many admission numbers the current year has
// consumed, zero when no one registered yet.
func (s *AdmissionService) UsedThisYear(ctx context.Context) (int, error) {
	seq, err := s.repo.CurrentSequence(ctx, s.now().Year())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read admission counter")
	}
	return seq, nil
}

// FormatAdmissionNumber renders PREFIX/YEAR/SEQ with the sequence zero padded
// to three digits.
func FormatAdmissionNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s/%d/%03d", prefix, year, seq)
}
