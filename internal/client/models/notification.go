package models

// Notification is one entry of GET /notifications.
type Notification struct {
	NotificationID int64  `json:"notification_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Type           string `json:"type,omitempty"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Record is a loosely typed list item (bookings, favorites) whose shape is
// owned by the server.
type Record map[string]any
