package models

import "time"

// NotificationStatus is the outcome the service recorded for a send attempt.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Context labels attached to notification log entries.
const (
	ContextCustomerBill = "Customer Bill"
	ContextManual       = "Manual"
	ContextDailySummary = "Daily Summary"
)

// NotificationLogEntry is an append-only record of an outbound message attempt.
type NotificationLogEntry struct {
	ID      int64              `json:"id"`
	To      string             `json:"to"`
	Message string             `json:"message"`
	Context string             `json:"context"`
	Date    time.Time          `json:"date"`
	Status  NotificationStatus `json:"status"`
	Error   string             `json:"error,omitempty"`

	// MessageID is the provider id of a delivered message.
	MessageID string `json:"messageId,omitempty"`
	// Link is the click-to-chat URL when no API channel is configured.
	Link string `json:"link,omitempty"`
}
