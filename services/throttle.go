package services

import "time"

// Kind selects an independent cooldown window.
type Kind string

const (
	KindDiscussion Kind = "discussion"
	KindPost       Kind = "post"
)

// Throttle allows one new item of a kind per actor per Cooldown minutes.
// The check and the insert are not serialized, so two simultaneous requests from
// the same actor can both pass; the cost is one extra item.
type Throttle struct {
	Enabled  bool
	Cooldown int // minutes
}

// Check compares the actor's previous item of the same kind against now.
// last is nil when the actor has none. Elapsed time is counted in whole minutes.
func (t Throttle) Check(kind Kind, last *time.Time, now time.Time) error {
	if !t.Enabled || t.Cooldown <= 0 || last == nil {
		return nil
	}
	elapsed := int(now.Sub(*last) / time.Minute)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed < t.Cooldown {
		return &RateLimitError{Kind: kind, Cooldown: t.Cooldown, Remaining: t.Cooldown - elapsed}
	}
	return nil
}
