package models

import "time"

// AuditAction constants represent lifecycle actions to be logged.
const (
	AuditActionStudentRegister = "STUDENT_REGISTER"
	AuditActionStudentUpdate   = "STUDENT_UPDATE"
	AuditActionStudentRecycle  = "STUDENT_RECYCLE"
	AuditActionStudentRestore  = "STUDENT_RESTORE"
	AuditActionStudentPurge    = "STUDENT_PURGE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
