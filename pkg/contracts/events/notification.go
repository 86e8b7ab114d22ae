package events

import "encoding/json"

// Tipos de notificação enviados aos usuários via WebSocket
const (
	NotificationCreditDecided      = "credit_transaction_decided"
	NotificationPredictionResolved = "prediction_resolved"
)

// UserNotification trafega no canal Redis Pub/Sub "user_notifications"
type UserNotification struct {
	UserID  string          `json:"userId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
