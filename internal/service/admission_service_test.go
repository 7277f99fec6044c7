package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

type fakeSequencer struct {
	seq      int
	err      error
	lastYear int
	lastCap  int
}

func (f *fakeSequencer) NextSequence(_ context.Context, year, cap int) (int, error) {
	f.lastYear = year
	f.lastCap = cap
	if f.err != nil {
		return 0, f.err
	}
	f.seq++
	return f.seq, nil
}

func (f *fakeSequencer) CurrentSequence(_ context.Context, year int) (int, error) {
	f.lastYear = year
	if f.err != nil {
		return 0, f.err
	}
	return f.seq, nil
}

func TestAdmissionServiceNextFormatsNumber(t *testing.T) {
	seq := &fakeSequencer{}
	svc := NewAdmissionService(seq, "DIS")
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }

	number, err := svc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DIS/2025/001", number)
	assert.Equal(t, 2025, seq.lastYear)
	assert.Equal(t, MaxYearlySequence, seq.lastCap)

	number, err = svc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DIS/2025/002", number)
}

func TestAdmissionServiceDefaultPrefix(t *testing.T) {
	svc := NewAdmissionService(&fakeSequencer{}, "")
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) }

	number, err := svc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DIS/2026/001", number)
}

func TestAdmissionServiceQuotaExhausted(t *testing.T) {
	svc := NewAdmissionService(&fakeSequencer{err: sql.ErrNoRows}, "DIS")
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	_, err := svc.Next(context.Background())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrQuotaExceeded.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2025")
}

func TestAdmissionServiceRepoFailure(t *testing.T) {
	svc := NewAdmissionService(&fakeSequencer{err: errors.New("connection reset")}, "DIS")

	_, err := svc.Next(context.Background())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestFormatAdmissionNumberPadding(t *testing.T) {
	assert.Equal(t, "DIS/2025/007", FormatAdmissionNumber("DIS", 2025, 7))
	assert.Equal(t, "DIS/2025/042", FormatAdmissionNumber("DIS", 2025, 42))
	assert.Equal(t, "DIS/2025/999", FormatAdmissionNumber("DIS", 2025, 999))
}

func TestAdmissionServiceUsedThisYear(t *testing.T) {
	seq := &fakeSequencer{seq: 57}
	svc := NewAdmissionService(seq, "DIS")
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) }

	used, err := svc.UsedThisYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 57, used)
	assert.Equal(t, 2025, seq.lastYear)
}

func TestAdmissionServiceUsedThisYearFailure(t *testing.T) {
	svc := NewAdmissionService(&fakeSequencer{err: errors.New("connection reset")}, "DIS")

	_, err := svc.UsedThisYear(context.Background())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
