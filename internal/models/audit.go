package models

import "time"

// Audit actions recorded by the API. Middleware-driven entries use
// dotted action names ("moderation.decide"); these constants cover the
// service-level events logged directly.
const (
	AuditActionLogin               = "LOGIN"
	AuditActionLogout              = "LOGOUT"
	AuditActionContributionApprove = "CONTRIBUTION_APPROVE"
	AuditActionContributionReject  = "CONTRIBUTION_REJECT"
	AuditActionRankingRefresh      = "RANKING_REFRESH"
	AuditActionExportRequest       = "EXPORT_REQUEST"
)

// AuditLog is one row of the audit trail. OldValues and NewValues hold
// raw JSON snapshots and stay nil when the action carries no payload.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
