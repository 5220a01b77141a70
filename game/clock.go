package game

import "time"

// Clock is the wall clock the countdown and scheduler run on.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
