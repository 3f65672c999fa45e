package model

import "time"

// TickSeconds is how many real seconds correspond to one ingame
// minute-unit; 150s of real time equals one ingame hour.
const TickSeconds = 150

// ServerTime is the singleton in-game clock.
type ServerTime struct {
	StartedAt     time.Time
	IngameHour    int32
	IngameMinute  int32
}

// Compute derives (hour, minute) from elapsed real time since StartedAt.
func (s ServerTime) Compute(now time.Time) (hour, minute int32) {
	elapsedUnits := int64(now.Sub(s.StartedAt).Seconds()) / TickSeconds
	totalMinutes := elapsedUnits % (24 * 60)
	return int32(totalMinutes / 60), int32(totalMinutes % 60)
}
