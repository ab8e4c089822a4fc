package logic

// AutoOff shuts an unattended completed session down after a dwell limit.
type AutoOff struct {
	limit int
}

// NewAutoOff derives the tick limit from t.AutoOffAfter and t.TickPeriod.
func NewAutoOff(t Tuning) AutoOff {
	return AutoOff{limit: t.ticksFor(t.AutoOffAfter)}
}

// Limit returns the dwell limit in ticks.
func (a AutoOff) Limit() int {
	return a.limit
}

// Observe advances the completion counter by one tick and reports whether
// the limit has been exceeded.
func (a AutoOff) Observe(counter int) (int, bool) {
	counter++
	return counter, counter > a.limit
}
