package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dis-school/registry-api/internal/models"
)

type memAuditStore struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (m *memAuditStore) Create(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memAuditStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func TestAuditServicePersistsEntries(t *testing.T) {
	store := &memAuditStore{}
	svc := NewAuditService(store, nil, AuditServiceConfig{Workers: 1})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(context.Background(), AuditEntry{
		Action:     models.AuditActionStudentRegister,
		ResourceID: "id-1",
		Details:    map[string]interface{}{"admissionNumber": "DIS/2025/001"},
	})

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 10*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	entry := store.logs[0]
	assert.Equal(t, models.AuditActionStudentRegister, entry.Action)
	assert.Equal(t, "student", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "id-1", *entry.ResourceID)
	assert.Contains(t, string(entry.NewValues), "DIS/2025/001")
	assert.Equal(t, "system", entry.IPAddress)
}

func TestAuditServiceIgnoresEmptyAction(t *testing.T) {
	store := &memAuditStore{}
	svc := NewAuditService(store, nil, AuditServiceConfig{Workers: 1})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(context.Background(), AuditEntry{})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, store.count())
}
