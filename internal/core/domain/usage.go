package domain

import "time"

// UsageCounter tracks per-account usage within the current day and month.
type UsageCounter struct {
	AccountID       string    `json:"account_id"`
	DailyEarned     int64     `json:"daily_earned"`
	DailyRedeemed   int64     `json:"daily_redeemed"`
	MonthlyRedeemed int64     `json:"monthly_redeemed"`
	PeriodAnchor    time.Time `json:"period_anchor"` // Time of the last write
}

// RolledOver returns the counter as seen at now in loc: daily counters are
// zero when the anchor falls on another calendar day, the monthly counter
// when it falls in another month. The receiver is not modified.
func (u UsageCounter) RolledOver(now time.Time, loc *time.Location) UsageCounter {
	if u.PeriodAnchor.IsZero() {
		return UsageCounter{AccountID: u.AccountID}
	}
	anchor := u.PeriodAnchor.In(loc)
	current := now.In(loc)

	out := u
	ay, am, ad := anchor.Date()
	cy, cm, cd := current.Date()
	if ay != cy || am != cm {
		out.MonthlyRedeemed = 0
	}
	if ay != cy || am != cm || ad != cd {
		out.DailyEarned = 0
		out.DailyRedeemed = 0
	}
	return out
}

// Add returns the counter with the deltas applied and the anchor moved to now.
func (u UsageCounter) Add(earnDelta, redeemDelta int64, now time.Time) UsageCounter {
	u.DailyEarned += earnDelta
	u.DailyRedeemed += redeemDelta
	u.MonthlyRedeemed += redeemDelta
	u.PeriodAnchor = now
	return u
}
