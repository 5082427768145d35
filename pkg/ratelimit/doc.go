// Package ratelimit provides pacing for the Telegram scraper's search
// queries.
//
// The platform imposes its own rate policy server-side; exceeding it turns
// into transient search failures, so the scraper spaces its queries rather
// than racing the backend.
//
// Available Implementations:
//
// Interval:
//   - Fixed minimum spacing between consecutive requests
//   - Default pacing used by the enumeration scheduler (2s spacing)
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Used when a requests-per-minute budget is configured
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait(ctx) error - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	limiter := ratelimit.NewInterval(2 * time.Second)
//
//	for _, prefix := range patterns {
//	    search(prefix)
//	    if err := limiter.Wait(ctx); err != nil {
//	        return err
//	    }
//	}
package ratelimit
