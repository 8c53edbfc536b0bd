package models

import "time"

// NotificationAction enumerates the events that produce notifications.
type NotificationAction string

const (
	NotifyContributionSubmitted NotificationAction = "contribution_submitted"
	NotifyContributionApproved  NotificationAction = "contribution_approved"
	NotifyContributionRejected  NotificationAction = "contribution_rejected"
	NotifyLinkRequestReceived   NotificationAction = "link_request_received"
	NotifyLinkRequestApproved   NotificationAction = "link_request_approved"
	NotifyLinkRequestRejected   NotificationAction = "link_request_rejected"
)

// Notification is a per-user event record consumed by polling clients.
type Notification struct {
	ID             string             `db:"id" json:"id"`
	RecipientID    string             `db:"recipient_id" json:"recipient_id"`
	ActorID        *string            `db:"actor_id" json:"actor_id,omitempty"`
	ActionType     NotificationAction `db:"action_type" json:"action_type"`
	NotifiableType string             `db:"notifiable_type" json:"notifiable_type"`
	NotifiableID   string             `db:"notifiable_id" json:"notifiable_id"`
	Message        string             `db:"message" json:"message"`
	ReadAt         *time.Time         `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
}
