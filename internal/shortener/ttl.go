package shortener

import (
	"math"
	"time"
)

// maxTTLSeconds is the largest whole number of seconds a time.Duration can hold.
const maxTTLSeconds = int64(math.MaxInt64 / time.Second)

// TTLFromSeconds converts a caller-supplied second count into a Duration.
// Counts beyond what a Duration can hold saturate instead of wrapping, and
// non-positive counts become zero.
func TTLFromSeconds(secs int64) time.Duration {
	switch {
	case secs <= 0:
		return 0
	case secs > maxTTLSeconds:
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(secs) * time.Second
}
