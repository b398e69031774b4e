package engine

// Timer gates the whole-second tick stream that paces a presentation
// session. It owns no goroutine and no clock: the host schedules the actual
// ticks (a Bubble Tea tea.Tick, a time.Ticker, or a test loop) and tags
// each one with the epoch the timer was armed with.
//
// Every arm and every disarm bumps the epoch, so a tick scheduled for an
// item that has since closed carries a stale epoch and is discarded instead
// of advancing state it no longer owns.
type Timer struct {
	epoch int
	armed bool
}

// Arm starts a new tick run and returns its epoch.
func (t *Timer) Arm() int {
	t.epoch++
	t.armed = true
	return t.epoch
}

// Disarm cancels the current run. Any tick still in flight becomes stale.
func (t *Timer) Disarm() {
	t.epoch++
	t.armed = false
}

// Live reports whether a tick carrying the given epoch is still valid.
func (t *Timer) Live(epoch int) bool {
	return t.armed && epoch == t.epoch
}
