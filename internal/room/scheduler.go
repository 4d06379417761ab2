package room

import "time"

type CancelFunc func()

// Scheduler - a cancellable delayed-callback source, injectable so tests can
// fire computer-seat turns deterministically.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

type timerScheduler struct{}

func NewScheduler() Scheduler {
	return &timerScheduler{}
}

func (that *timerScheduler) After(d time.Duration, fn func()) CancelFunc {
	timer := time.AfterFunc(d, fn)

	return func() {
		timer.Stop()
	}
}
