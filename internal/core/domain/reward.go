package domain

// Reward is a read-only catalog item redeemable for HealCoins.
type Reward struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     int64  `json:"cost"`
	Stock    *int64 `json:"stock,omitempty"` // nil means unlimited
	IsActive bool   `json:"is_active"`
}

// InStock returns true if at least one unit can be redeemed.
func (r *Reward) InStock() bool {
	return r.Stock == nil || *r.Stock > 0
}
