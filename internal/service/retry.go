package service

import (
	"time"
)

// retryWithBackoff runs fn up to attempts times, sleeping
// base × 2^(attempt−1) between failures. The last error is returned once
// the attempts are exhausted.
func retryWithBackoff(attempts int, base time.Duration, sleep func(time.Duration), fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < attempts {
			sleep(base * (1 << (attempt - 1)))
		}
	}
	return err
}
