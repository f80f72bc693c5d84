package models

import "time"

// Audit holds the fields every persisted entity carries. Repositories fill
// them on the write path; nothing populates them implicitly.
type Audit struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
	LastModifiedBy string
}

// Touch stamps a write by principal at now. CreatedAt/CreatedBy are only
// set on the first write.
func (a *Audit) Touch(principal string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = principal
	}
	a.UpdatedAt = now
	a.LastModifiedBy = principal
}

// Audit event types
const (
	AuditEventMemberCreated    = "member_created"
	AuditEventMemberDeleted    = "member_deleted"
	AuditEventMemberTeamChange = "member_team_change"
	AuditEventMemberBulkAge    = "member_bulk_age"
	AuditEventTeamCreated      = "team_created"
	AuditEventItemCreated      = "item_created"
	AuditEventOrderPlaced      = "order_placed"
	AuditEventOrderCancelled   = "order_cancelled"
)
