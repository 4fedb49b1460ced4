package domain

import "time"

// LoginRecord is one successful login, kept for device and IP heuristics.
type LoginRecord struct {
	AccountID string    `json:"account_id"`
	DeviceID  string    `json:"device_id"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
