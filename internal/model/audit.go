package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditActionUploaded tags the creation entry. Workflow actions tag their
// entries with the lowercase action name.
const AuditActionUploaded = "uploaded"

// AuditEntry is one append-only line in a report's history. Entries are never
// updated or removed once written.
type AuditEntry struct {
	Action    string     `json:"action"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	ActorRole string     `json:"actor_role,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
