package pagination

import "github.com/rs/zerolog"

// Host is everything the controller consumes from the surrounding editor
// shell: coordinate lookups, container metrics, trigger notifications, a
// per-frame scheduler and the decoration sink. All callbacks run on the
// host's single event-loop goroutine; the controller is not safe for use
// from multiple goroutines.
type Host interface {
	CoordinateProvider

	// ContainerSize reports the current layout size of the editing surface.
	// A zero size means the view is not mounted or not visible yet.
	ContainerSize() (width, height float64)

	// OnChange registers a callback fired after every document content
	// mutation. The returned func detaches it.
	OnChange(fn func()) (remove func())

	// OnResize registers a callback fired on container size changes.
	OnResize(fn func()) (remove func())

	// RequestFrame schedules fn to run on the next rendering frame, after
	// the current layout pass has settled. The returned func cancels the
	// request if it has not fired yet.
	RequestFrame(fn func()) (cancel func())

	// ApplyDecorations replaces the installed spacer decorations in one
	// step; readers never observe a partially applied set.
	ApplyDecorations(decos []Decoration)
}

// Controller owns the authoritative spacer ledger and decoration state for
// one paginated view. It coalesces change/resize triggers into at most one
// recomputation per frame, and commits a new break set only when it differs
// element-wise from the previous one.
type Controller struct {
	host   Host
	engine Engine
	log    zerolog.Logger

	ledger *Ledger
	breaks []int

	cancelFrame  func()
	removeChange func()
	removeResize func()
	installed    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a zerolog logger; the controller emits one debug event
// per pass. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController builds a controller bound to host with the given geometry.
// Nothing is scheduled until Install is called.
func NewController(host Host, geo Geometry, opts ...Option) *Controller {
	c := &Controller{
		host:   host,
		engine: NewEngine(geo),
		log:    zerolog.Nop(),
		ledger: NewLedger(geo.VisualSpacerHeight()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Install attaches the change/resize hooks and schedules the initial pass.
// Installing an installed controller is a no-op.
func (c *Controller) Install() {
	if c.installed {
		return
	}
	c.installed = true
	c.removeChange = c.host.OnChange(c.schedule)
	c.removeResize = c.host.OnResize(c.schedule)
	c.schedule()
}

// Teardown cancels any pending frame and detaches the hooks, so no callback
// fires against a removed container. The committed ledger and decorations
// are left as-is; clearing them is the host's concern.
func (c *Controller) Teardown() {
	if !c.installed {
		return
	}
	c.installed = false
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
	if c.removeChange != nil {
		c.removeChange()
		c.removeChange = nil
	}
	if c.removeResize != nil {
		c.removeResize()
		c.removeResize = nil
	}
}

// Breaks returns a copy of the last committed break set.
func (c *Controller) Breaks() []int {
	if len(c.breaks) == 0 {
		return nil
	}
	return append([]int(nil), c.breaks...)
}

// Ledger returns the authoritative spacer ledger committed by the last pass.
func (c *Controller) Ledger() *Ledger {
	return c.ledger
}

// schedule coalesces triggers by cancel-and-reschedule: at most one
// recomputation is ever in flight.
func (c *Controller) schedule() {
	if !c.installed {
		return
	}
	if c.cancelFrame != nil {
		c.cancelFrame()
	}
	c.cancelFrame = c.host.RequestFrame(c.recompute)
}

// recompute runs one full pass: measure, diff, and commit on change.
func (c *Controller) recompute() {
	c.cancelFrame = nil

	if w, h := c.host.ContainerSize(); w <= 0 || h <= 0 {
		// Hidden or not yet mounted. Expected steady state, not an error.
		c.log.Debug().Msg("pagination: container has no layout size, pass skipped")
		return
	}

	breaks := c.engine.ComputeBreakPositions(c.host, c.ledger)
	if equalBreaks(breaks, c.breaks) {
		c.log.Debug().Int("count", len(breaks)).Msg("pagination: break set unchanged")
		return
	}

	// Commit: ledger and decorations replaced together, then one follow-up
	// pass verifies the new layout converges to the same set.
	spacer := c.engine.Geometry.VisualSpacerHeight()
	c.breaks = breaks
	c.ledger = NewLedger(spacer, breaks...)
	c.host.ApplyDecorations(MaterializeDecorations(breaks, spacer))
	c.log.Debug().Ints("positions", breaks).Msg("pagination: break set committed")
	c.schedule()
}

// equalBreaks compares two break sets element-wise; length first, then every
// position. This comparison is the convergence guard that lets the system
// settle after a commit perturbs layout below the change point.
func equalBreaks(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
