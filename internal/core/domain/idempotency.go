package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog stores the result of a committed ledger call so a retried
// request with the same key returns it instead of applying twice.
type IdempotencyLog struct {
	Key           string    `json:"key"` // Format: "account_id:operation:caller_key"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildIdempotencyKey scopes a caller key to an account and operation so
// the same caller key cannot replay across operations.
func BuildIdempotencyKey(accountID string, op TransactionType, callerKey string) string {
	return accountID + ":" + string(op) + ":" + callerKey
}
