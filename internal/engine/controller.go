// Package engine implements the timed content presentation state machine:
// one interstitial item on screen at a time, each gated by a mandatory
// viewing duration, each auto-closing when its total duration elapses.
//
// The Controller is advanced purely by events (StartSession, Tick, Dismiss,
// Teardown), so it needs neither a wall clock nor a display to be tested.
// The host supplies one tick per second while the returned epoch stays
// live; see Timer for how stale ticks are fenced off.
package engine

import (
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/session"
)

// State is the presentation phase the controller is in.
type State int

const (
	// StateIdle: no session active. Entered at startup, after the queue is
	// exhausted, and on teardown. Terminal for the page load.
	StateIdle State = iota
	// StateScheduled: a session exists and the next item is counting down
	// its pre-display delay.
	StateScheduled
	// StateShowingMandatory: the item is on screen and cannot be dismissed
	// yet.
	StateShowingMandatory
	// StateShowingSkippable: the item is on screen and the dismiss
	// affordance is available. It still auto-closes at its total duration.
	StateShowingSkippable
	// StateClosing: the item has closed; a short pause runs before the next
	// item is scheduled or the session ends.
	StateClosing
)

// String returns the state name for logs and test failures.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateShowingMandatory:
		return "showing-mandatory"
	case StateShowingSkippable:
		return "showing-skippable"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

const (
	// firstItemDelaySeconds runs before the very first item so the hosting
	// page has settled before content appears.
	firstItemDelaySeconds = 3
	// betweenItemsDelaySeconds runs before every subsequent item.
	betweenItemsDelaySeconds = 1
	// closingPauseSeconds runs after an item closes, before the next one is
	// scheduled.
	closingPauseSeconds = 1
)

// Config wires the controller's outward signals.
type Config struct {
	// OnShow fires exactly once per item per session, the moment the item
	// first becomes visible. Hosts use it to issue the fire-and-forget view
	// registration.
	OnShow func(content.Item)
	// OnSessionEnd fires when the queue is exhausted and the controller
	// returns to idle. Not fired on Teardown.
	OnSessionEnd func()
	// FirstItemDelay and BetweenItemsDelay override the default pre-display
	// delays when positive. Whole seconds.
	FirstItemDelay    int
	BetweenItemsDelay int
}

func (cfg Config) firstItemDelay() int {
	if cfg.FirstItemDelay > 0 {
		return cfg.FirstItemDelay
	}
	return firstItemDelaySeconds
}

func (cfg Config) betweenItemsDelay() int {
	if cfg.BetweenItemsDelay > 0 {
		return cfg.BetweenItemsDelay
	}
	return betweenItemsDelaySeconds
}

// Controller is the presentation state machine. Not safe for concurrent
// use: it belongs to the host's event loop, which is the only caller.
type Controller struct {
	cfg   Config
	timer Timer
	coord *Coordinator
	seq   *session.Sequencer
	state State

	elapsed int // seconds the current item has been shown
	delay   int // seconds remaining in Scheduled/Closing pauses
	viewed  map[string]bool
}

// New creates an idle Controller.
func New(cfg Config) *Controller {
	return &Controller{
		cfg:    cfg,
		coord:  NewCoordinator(),
		seq:    session.New(nil),
		viewed: make(map[string]bool),
	}
}

// StartSession freezes the given queue snapshot and schedules the first
// item. It returns the tick epoch the host must drive, with ok=false when
// the queue is empty and the controller stays idle.
//
// Items are expected to be pre-normalized (active only, durations clamped);
// StartSession normalizes again defensively since the invariant is cheap to
// restore and expensive to violate mid-playback.
func (c *Controller) StartSession(items []content.Item) (epoch int, ok bool) {
	c.timer.Disarm()
	c.seq = session.New(content.Normalize(items))
	c.viewed = make(map[string]bool)
	c.elapsed = 0

	if c.seq.Len() == 0 {
		c.state = StateIdle
		return 0, false
	}

	c.state = StateScheduled
	c.delay = c.cfg.firstItemDelay()
	return c.timer.Arm(), true
}

// Tick advances the machine by one second. The host calls it for every tick
// it scheduled, passing the epoch that tick was armed with; stale ticks are
// ignored. It returns the epoch for the next tick, with cont=false when no
// further ticks are needed (session over or tick stale).
func (c *Controller) Tick(epoch int) (next int, cont bool) {
	if !c.timer.Live(epoch) {
		return 0, false
	}

	switch c.state {
	case StateScheduled:
		c.delay--
		if c.delay <= 0 {
			c.show()
		}

	case StateShowingMandatory, StateShowingSkippable:
		item, ok := c.seq.Current()
		if !ok {
			// Queue mutated out from under us is impossible by
			// construction; treat as session end.
			c.finish()
			return 0, false
		}
		c.elapsed++
		if c.elapsed >= item.TotalSeconds {
			c.close()
		} else if c.state == StateShowingMandatory && c.elapsed >= item.MandatorySeconds {
			// Affordance unlock only; no visual interruption.
			c.state = StateShowingSkippable
		}

	case StateClosing:
		c.delay--
		if c.delay <= 0 {
			if _, ok := c.seq.Current(); !ok {
				c.finish()
				return 0, false
			}
			c.state = StateScheduled
			c.delay = c.cfg.betweenItemsDelay()
		}

	default:
		return 0, false
	}

	if c.state == StateIdle {
		return 0, false
	}
	return epoch, true
}

// Dismiss handles a viewer dismissal request. Accepted only while the
// current item is skippable; in every other state it is a defensive no-op.
// On acceptance the old tick run is cancelled and a fresh epoch returned.
func (c *Controller) Dismiss() (epoch int, ok bool) {
	if c.state != StateShowingSkippable {
		return 0, false
	}
	c.close()
	return c.timer.Arm(), true
}

// Teardown stops the session immediately: the timer is disarmed so no
// in-flight tick lands, and the controller returns to idle. Used when the
// viewer navigates away from the hosting page.
func (c *Controller) Teardown() {
	c.timer.Disarm()
	c.state = StateIdle
}

// show puts the item under the cursor on screen.
func (c *Controller) show() {
	item, ok := c.seq.Current()
	if !ok {
		c.finish()
		return
	}
	c.elapsed = 0
	if item.MandatorySeconds <= 0 {
		c.state = StateShowingSkippable
	} else {
		c.state = StateShowingMandatory
	}

	// The interstitial owns the screen; anything else playing stops.
	c.coord.Exclusive(nil)

	// View registration is per item per session, never per second.
	if !c.viewed[item.ID] {
		c.viewed[item.ID] = true
		if c.cfg.OnShow != nil {
			c.cfg.OnShow(item)
		}
	}

	// A zero-length item registers its view and closes at once, so elapsed
	// never exceeds the item's total duration.
	if item.TotalSeconds <= 0 {
		c.close()
	}
}

// close ends the current item's display and starts the closing pause. The
// cursor advances here, so the queue invariant (never decreasing) holds no
// matter which path closed the item.
func (c *Controller) close() {
	c.seq.Advance()
	c.state = StateClosing
	c.delay = closingPauseSeconds
}

// finish ends the session.
func (c *Controller) finish() {
	c.timer.Disarm()
	c.state = StateIdle
	if c.cfg.OnSessionEnd != nil {
		c.cfg.OnSessionEnd()
	}
}

// Resources exposes the playback-exclusivity registry. Hosts register any
// background media here so it is paused whenever an item takes the screen.
func (c *Controller) Resources() *Coordinator {
	return c.coord
}

// State returns the current presentation phase.
func (c *Controller) State() State {
	return c.state
}

// Current returns the item on screen (or about to be shown), if any.
func (c *Controller) Current() (content.Item, bool) {
	return c.seq.Current()
}

// Showing reports whether an item is visibly on screen.
func (c *Controller) Showing() bool {
	return c.state == StateShowingMandatory || c.state == StateShowingSkippable
}

// Elapsed returns how many seconds the current item has been on screen.
func (c *Controller) Elapsed() int {
	return c.elapsed
}

// Dismissible reports whether a dismissal request would be accepted.
func (c *Controller) Dismissible() bool {
	return c.state == StateShowingSkippable
}

// MandatoryRemaining returns the seconds left until the current item can be
// dismissed, zero once dismissible.
func (c *Controller) MandatoryRemaining() int {
	item, ok := c.seq.Current()
	if !ok || !c.Showing() {
		return 0
	}
	if r := item.MandatorySeconds - c.elapsed; r > 0 {
		return r
	}
	return 0
}

// TotalRemaining returns the seconds left until the current item closes on
// its own.
func (c *Controller) TotalRemaining() int {
	item, ok := c.seq.Current()
	if !ok || !c.Showing() {
		return 0
	}
	if r := item.TotalSeconds - c.elapsed; r > 0 {
		return r
	}
	return 0
}

// DelayRemaining returns the seconds left in the Scheduled or Closing
// pause, zero in other states.
func (c *Controller) DelayRemaining() int {
	if c.state != StateScheduled && c.state != StateClosing {
		return 0
	}
	return c.delay
}

// Cursor returns the queue cursor, for display as "2 of 5".
func (c *Controller) Cursor() int {
	return c.seq.Cursor()
}

// QueueLen returns the session's queue length.
func (c *Controller) QueueLen() int {
	return c.seq.Len()
}
