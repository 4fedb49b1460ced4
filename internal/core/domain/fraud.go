package domain

import "time"

// Fraud signal reasons.
const (
	ReasonRapidTransactions = "Rapid successive transactions detected"
	ReasonUnusualAmount     = "Unusual transaction amount detected"
	ReasonMultipleDevices   = "Multiple device logins detected"
	ReasonGeoAnomaly        = "Geographic anomaly detected"
)

// FraudSignal is an advisory flag computed from recent activity.
type FraudSignal struct {
	IsSuspicious bool   `json:"is_suspicious"`
	Reason       string `json:"reason,omitempty"`
}

// Suspicious builds a positive signal.
func Suspicious(reason string) FraudSignal {
	return FraudSignal{IsSuspicious: true, Reason: reason}
}

// ActivityKind names the action being evaluated.
type ActivityKind string

const (
	ActivityEarn   ActivityKind = "earn"
	ActivityRedeem ActivityKind = "redeem"
	ActivityLogin  ActivityKind = "login"
)

// ActivityContext is the closed set of payloads the fraud heuristics accept.
// Only types in this package implement it.
type ActivityContext interface {
	Kind() ActivityKind
	// OccurredAt is the instant the activity is evaluated at; zero means now.
	OccurredAt() time.Time
	activityContext()
}

// EarnContext describes a pending credit.
type EarnContext struct {
	Amount int64
	Source string
	At     time.Time
}

// RedeemContext describes a pending debit.
type RedeemContext struct {
	Amount   int64
	RewardID string
	At       time.Time
}

// LoginContext describes a login attempt.
type LoginContext struct {
	DeviceID  string
	IPAddress string
	At        time.Time
}

func (EarnContext) Kind() ActivityKind   { return ActivityEarn }
func (RedeemContext) Kind() ActivityKind { return ActivityRedeem }
func (LoginContext) Kind() ActivityKind  { return ActivityLogin }

func (c EarnContext) OccurredAt() time.Time   { return c.At }
func (c RedeemContext) OccurredAt() time.Time { return c.At }
func (c LoginContext) OccurredAt() time.Time  { return c.At }

func (EarnContext) activityContext()   {}
func (RedeemContext) activityContext() {}
func (LoginContext) activityContext()  {}
