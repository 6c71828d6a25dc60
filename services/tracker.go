package services

import "context"

// Tracker records analytics events without blocking or failing the caller
type Tracker struct {
	analytics *AnalyticsService
	bg        *Background
}

func NewTracker(analytics *AnalyticsService, bg *Background) *Tracker {
	return &Tracker{analytics: analytics, bg: bg}
}

// Track queues event for recording. A nil Tracker drops the event.
func (t *Tracker) Track(event EventInput) {
	if t == nil {
		return
	}
	t.bg.Go("track "+string(event.Type), func(ctx context.Context) error {
		_, err := t.analytics.Record(ctx, event)
		return err
	})
}
