package retryio

import (
	"context"
	"math/rand"
	"time"

	log "log/slog"
)

// Now is the clock used by budget accounting. Tests may swap it for a
// deterministic source; production code leaves it alone.
var Now = time.Now

// jitterRNG is the random source used for sleep jitter. It is seeded once at init time.
var jitterRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

// SetJitterRNG overrides the RNG used for sleep jitter. Useful for deterministic tests.
func SetJitterRNG(r *rand.Rand) {
	if r != nil {
		jitterRNG = r
	}
}

// TimedOut returns a non-nil error if the context is done or if the elapsed
// time since startTime exceeds maxTime. Either way the result is an
// ErrTimeout; the context error, when present, is wrapped so errors.Is
// still distinguishes cancellation from a plain elapsed-time timeout.
func TimedOut(ctx context.Context, name string, startTime time.Time, maxTime time.Duration) error {
	if err := ctx.Err(); err != nil {
		return ErrTimeout{Name: name, MaxTime: maxTime, Err: err}
	}
	if Now().Sub(startTime) > maxTime {
		return ErrTimeout{Name: name, MaxTime: maxTime}
	}
	return nil
}

// RandomSleepWithUnit sleeps for a random multiple (1..4) of the provided unit duration.
// Useful to jitter contending retriers and reduce contention on a shared path.
func RandomSleepWithUnit(ctx context.Context, unit time.Duration) {
	sleepTime := time.Duration(jitterRNG.Intn(5))
	if sleepTime == 0 {
		sleepTime = 1
	}
	st := sleepTime * unit
	log.Debug("sleep jitter", "multiplier", sleepTime, "unit", unit, "duration", st)
	Sleep(ctx, st)
}

// RandomSleep sleeps for a random duration between 20ms and 80ms to stagger retries.
func RandomSleep(ctx context.Context) {
	RandomSleepWithUnit(ctx, 20*time.Millisecond)
}

// Sleep blocks for the specified duration or until the context is done, whichever happens first.
func Sleep(ctx context.Context, sleepTime time.Duration) {
	if sleepTime <= 0 {
		return
	}
	sleep, cancel := context.WithTimeout(ctx, sleepTime)
	defer cancel()
	<-sleep.Done()
}
