package usage

import "time"

// Usage is a user's consumption against the daily tailoring quota.
// The window is a UTC calendar day; ResetsAt is the start of the next one.
type Usage struct {
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining never goes below zero even if the limit was lowered mid-day.
func (u Usage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}
