package web

import (
	"golang.org/x/time/rate"
)

// DownloadLimiter wraps a token bucket shared by all dataset downloads.
type DownloadLimiter struct {
	limiter *rate.Limiter
}

// NewDownloadLimiter allows rps downloads per second with the given burst.
func NewDownloadLimiter(rps float64, burst int) *DownloadLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DownloadLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Allow reports whether a download may start now. A nil limiter allows
// everything.
func (dl *DownloadLimiter) Allow() bool {
	if dl == nil {
		return true
	}
	return dl.limiter.Allow()
}
