package cache

import "fmt"

// ResultKey caches a pipeline result by the SHA-256 hash of its raw input.
func ResultKey(textHash string) string {
	return fmt.Sprintf("ticket:result:%s", textHash)
}

// RateLimitKey counts requests per API key prefix within the limiter window.
func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
