package port

import "context"

// AuditEntry represents a single auditable generation or classification event.
type AuditEntry struct {
	Tool       string
	Dataset    string
	PrimaryKey string
	Fields     int
	Artifacts  []string
	DurationMS int64
	Err        error
}

// RunAuditor records generation-run audit events.
type RunAuditor interface {
	Record(ctx context.Context, entry AuditEntry)
	Close() error
}
