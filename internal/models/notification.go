package models

import "time"

// NotificationEvent enumerates every mail-worthy workflow transition.
type NotificationEvent string

const (
	EventAssignedToCheck   NotificationEvent = "assignedToCheck"
	EventAssignedToApprove NotificationEvent = "assignedToApprove"
	EventAssignedToReceive NotificationEvent = "assignedToReceive"
	EventPrfChecked        NotificationEvent = "prfChecked"
	EventPrfApproved       NotificationEvent = "prfApproved"
	EventPrfReceived       NotificationEvent = "prfReceived"
	EventPrfRejected       NotificationEvent = "prfRejected"
	EventPrfDelivered      NotificationEvent = "prfDelivered"

	// Stock-availability follow-ups from the CGS checker flow.
	EventStockAvailable    NotificationEvent = "stockAvailable"
	EventStockNotAvailable NotificationEvent = "stockNotAvailable"
)

// Recipient is one mail destination. A recipient with an empty email is
// skipped silently by the dispatcher.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NotificationData is the template payload shared by all mail templates.
type NotificationData struct {
	PrfID            string
	PrfNo            string
	PrfDate          time.Time
	PreparedBy       string
	DepartmentCharge string
	Company          string
	AppURL           string

	CheckedBy  string
	ApprovedBy string
	ReceivedBy string

	RejectedBy      string
	RejectionReason string

	StockName string
}

// Notification is one composed dispatch unit: an event aimed at a recipient.
type Notification struct {
	Event NotificationEvent
	To    Recipient
	Data  NotificationData
}
