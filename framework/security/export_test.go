package security

import "time"

// SetClock replaces the time source used to issue and check tokens.
func (j *JWT) SetClock(now func() time.Time) { j.now = now }
