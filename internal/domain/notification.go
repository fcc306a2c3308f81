package domain

import "time"

type NotificationCategory string

const (
	NotificationCategoryBooking  NotificationCategory = "BOOKING"
	NotificationCategoryPayment  NotificationCategory = "PAYMENT"
	NotificationCategoryReminder NotificationCategory = "REMINDER"
	NotificationCategoryRefund   NotificationCategory = "REFUND"
	NotificationCategoryChat     NotificationCategory = "CHAT"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityNormal NotificationPriority = "NORMAL"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type Notification struct {
	ID         int32                `json:"id"`
	Recipient  Recipient            `json:"recipient"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Category   NotificationCategory `json:"category"`
	Priority   NotificationPriority `json:"priority"`
	IsRead     bool                 `json:"is_read"`
	Attributes map[string]string    `json:"attributes,omitempty"`
	CreatedOn  time.Time            `json:"created_on"`
}
