package attempt

import (
	"sync"
	"time"
)

// Countdown runs the per-second timer for one attempt. It stops on its own
// when the attempt leaves InProgress and can be cancelled earlier with Stop,
// so a torn-down session never receives a stray tick.
type Countdown struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartCountdown begins ticking a at the given interval. onTick runs on the
// timer goroutine after every consumed tick; it may be nil.
func StartCountdown(a *Attempt, interval time.Duration, onTick func(remaining int, expired bool)) *Countdown {
	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if a.State() != StateInProgress {
					return
				}
				remaining, expired := a.Tick()
				if onTick != nil {
					onTick(remaining, expired)
				}
				if expired {
					return
				}
			}
		}
	}()
	return c
}

// Stop cancels the countdown and waits for the timer goroutine to exit.
// No onTick callback fires after Stop returns.
func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}
