package repository

import "time"

// DynamoOption applies a configuration option to the DynamoStore.
type DynamoOption func(*DynamoStore)

// WithBatchRetries sets how many times unprocessed batch items are resubmitted.
func WithBatchRetries(n int) DynamoOption {
	return func(s *DynamoStore) {
		if n >= 0 {
			s.batchRetries = n
		}
	}
}

// WithRetryBackoff sets the base delay between batch resubmissions.
func WithRetryBackoff(d time.Duration) DynamoOption {
	return func(s *DynamoStore) {
		if d >= 0 {
			s.retryBackoff = d
		}
	}
}
