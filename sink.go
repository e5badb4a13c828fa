package tmplcore

import (
	"context"
	"io"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryingSink wraps an io.Writer so a transient WriteError (spec.md §7)
// is retried with exponential backoff before it aborts the render,
// grounded on github.com/sethvargo/go-retry, a direct teacher dependency
// (SPEC_FULL.md DOMAIN STACK). Write failures that IsRetryable rejects
// propagate on the first attempt, same as a plain io.Writer would.
type RetryingSink struct {
	w           io.Writer
	maxRetries  uint64
	base        time.Duration
	IsRetryable func(error) bool
}

// NewRetryingSink wraps w with up to maxRetries retries of exponential
// backoff starting at base. IsRetryable defaults to "always retryable"
// if left unset after construction.
func NewRetryingSink(w io.Writer, maxRetries uint64, base time.Duration) *RetryingSink {
	return &RetryingSink{w: w, maxRetries: maxRetries, base: base}
}

// Write implements io.Writer, the sink contract Walk's output path uses
// (spec.md C4 Text/Action handling). Partial writes already flushed to
// the underlying writer before a failing attempt are not rolled back,
// consistent with spec.md §7 ("no partial output is rolled back").
func (s *RetryingSink) Write(p []byte) (int, error) {
	backoff, err := retry.NewExponential(s.base)
	if err != nil {
		return 0, err
	}
	backoff = retry.WithMaxRetries(s.maxRetries, backoff)

	var n int
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		written, werr := s.w.Write(p)
		n = written
		if werr == nil {
			return nil
		}
		if s.IsRetryable == nil || s.IsRetryable(werr) {
			return retry.RetryableError(werr)
		}
		return werr
	})
	return n, err
}
