package fetch

// backoff tracks the retry and pacing state for a sequence of upstream
// requests: attempts is per fetch call, requestCount spans the
// fetcher's lifetime so sustained bursts across many calls still
// trigger a cooldown.
type backoff struct {
	attempts     int
	requestCount int
}

// outcome is the terminal classification of one attempt.
type outcome int

const (
	outcomeRetry outcome = iota
	outcomeSucceeded
	outcomeExhausted
	outcomeFatal
)

func (b *backoff) begin() {
	b.attempts = 0
}

// needsCooldown reports whether the lifetime request counter has
// exceeded threshold and the next request must wait out a cooldown.
func (b *backoff) needsCooldown(threshold int) bool {
	return b.requestCount > threshold
}

func (b *backoff) resetCount() {
	b.requestCount = 0
}

func (b *backoff) onSuccess() outcome {
	b.requestCount++
	return outcomeSucceeded
}

// onRateLimited consumes one attempt and resets the burst counter. It
// returns outcomeExhausted once maxAttempts attempts have been spent.
func (b *backoff) onRateLimited(maxAttempts int) outcome {
	b.attempts++
	b.resetCount()
	if b.attempts >= maxAttempts {
		return outcomeExhausted
	}
	return outcomeRetry
}

func (b *backoff) onFatalError() outcome {
	return outcomeFatal
}
