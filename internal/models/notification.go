package models

import "time"

type NotificationType string

const (
	NotificationReport       NotificationType = "report"
	NotificationVerification NotificationType = "verification"
	NotificationAchievement  NotificationType = "achievement"
	NotificationReward       NotificationType = "reward"
	NotificationHealth       NotificationType = "health"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId,omitempty"` // empty means broadcast
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
