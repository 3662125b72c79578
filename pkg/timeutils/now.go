package timeutils

import "time"

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}

// FixedTimeProvider always returns the same instant, for tests that need
// deterministic record times.
type FixedTimeProvider struct {
	Time time.Time
}

func (f *FixedTimeProvider) Now() time.Time {
	return f.Time
}

func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{Time: t}
}
