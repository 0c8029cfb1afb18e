package models

// AuditEntry records a mutation for the best-effort audit trail. It is
// appended to the event log and published to Kafka after the primary
// operation succeeds; failures here never fail the primary operation.
type AuditEntry struct {
	Collection string `json:"collection"`
	EntityID   string `json:"entity_id"`
	Action     string `json:"action"` // created, updated, deleted, linked, unlinked, promoted
	Actor      string `json:"actor"`
	Detail     string `json:"detail"`
	OccurredAt string `json:"occurred_at"`
}
