package steering

import (
	"github.com/pthm-cable/autonomy/components"
)

// AgentHandle is a non-owning reference to an Agent, resolved through an
// Env each tick. The zero value never refers to a live agent — it is the
// "absent" handle a SteeringContext's target uses before a target is
// assigned. A destroyed agent's handle keeps its value but resolves the
// same way (not at all) once AgentSystem finishes draining its removal.
//
// Handles are never recycled (AgentSystem hands out a strictly
// increasing ID per registration), so a stale handle simply fails to
// resolve rather than risking resolving to the wrong, later agent.
type AgentHandle uint64

const drag = 2 // velocity decays by (1 - drag*dt) per tick

// Agent is one steered entity: a transform to read and write, and an
// ordered set of (behavior, parameters) contexts whose forces sum each
// tick. The active/pending-add/pending-remove split keeps live iteration
// over `active` from ever mutating it mid-summation.
type Agent struct {
	handle AgentHandle

	Transform components.Transform
	// Collider is this agent's own shape, used by obstacle avoidance to
	// derive its safety margin. Nil falls back to the default margin.
	Collider *components.Collider

	Speed    float32 // default 200
	MaxForce float32 // default 1000
	Drag     float32 // default 2

	LastDesiredVelocity components.Vec2

	active       []*SteeringContext
	pendingAdd   []*SteeringContext
	pendingRemove []*SteeringContext

	started bool
}

// NewAgent creates an agent bound to the given transform, with the
// standard default speed/force/drag.
func NewAgent(transform components.Transform) *Agent {
	return &Agent{
		Transform: transform,
		Speed:     200,
		MaxForce:  1000,
		Drag:      drag,
	}
}

// Handle returns this agent's identity, valid once it has been
// registered with an AgentSystem (zero beforehand).
func (a *Agent) Handle() AgentHandle { return a.handle }

// AddContext queues a context for attachment; it joins `active` at the
// head of this agent's next Tick, after any already-pending additions. A
// context added during another context's Execute this tick therefore
// does not participate until next tick.
func (a *Agent) AddContext(ctx *SteeringContext) {
	ctx.self = a.handle
	a.pendingAdd = append(a.pendingAdd, ctx)
}

// RemoveContext queues a context for detachment. A context removed
// during this tick's summation still contributes for the remainder of
// the tick — removal only takes effect at the head of the next Tick.
func (a *Agent) RemoveContext(ctx *SteeringContext) {
	a.pendingRemove = append(a.pendingRemove, ctx)
}

// GetContext returns the first active context with the given
// identifier, for diagnostics.
func (a *Agent) GetContext(identifier string) (*SteeringContext, bool) {
	for _, ctx := range a.active {
		if ctx.Identifier == identifier {
			return ctx, true
		}
	}
	return nil, false
}

// Contexts returns the agent's currently active contexts. Callers must
// not mutate the returned slice.
func (a *Agent) Contexts() []*SteeringContext { return a.active }

// Forward returns the agent's facing direction: its velocity direction
// when moving fast enough to have one, otherwise the transform's
// supplied facing.
func (a *Agent) Forward() components.Vec2 {
	vel := a.Transform.Velocity()
	if vel.Length() >= 1e-2 {
		return vel.Normalized()
	}
	return a.Transform.Forward()
}

// Tick advances this agent by dt seconds: it drains its pending context
// buffers, sums every active behavior's force, clamps to MaxForce, and
// integrates velocity and position with linear drag.
func (a *Agent) Tick(dt float32, env Env) {
	// 1. Drain pending adds, preserving order.
	if len(a.pendingAdd) > 0 {
		a.active = append(a.active, a.pendingAdd...)
		a.pendingAdd = a.pendingAdd[:0]
	}

	// 2. Drain pending removes: remove the first matching element.
	for _, rm := range a.pendingRemove {
		for i, ctx := range a.active {
			if ctx == rm {
				a.active = append(a.active[:i], a.active[i+1:]...)
				break
			}
		}
	}
	a.pendingRemove = a.pendingRemove[:0]

	// 3. Sum forces from active, gated contexts.
	var steering components.Vec2
	for _, ctx := range a.active {
		if !ctx.Active {
			continue
		}
		steering = steering.Add(Execute(ctx, a, env))
	}
	a.started = true

	// 4. Clamp to max_force.
	maxForce := a.MaxForce
	if maxForce <= 0 {
		maxForce = 1000
	}
	steering = steering.ClampLength(maxForce)

	// 5. Integrate velocity.
	vel := a.Transform.Velocity().Add(steering.Scale(dt))

	// 6. Apply drag.
	dragRate := a.Drag
	if dragRate == 0 {
		dragRate = drag
	}
	dampening := float32(1) - dragRate*dt
	if dampening < 0 {
		dampening = 0
	}
	vel = vel.Scale(dampening)
	a.Transform.SetVelocity(vel)

	// 7. Integrate position.
	pos := a.Transform.Position().Add(vel.Scale(dt))
	a.Transform.SetPosition(pos)

	a.LastDesiredVelocity = vel
}

// FirstTick reports whether this call to Tick will be this agent's
// first — wander uses it to seed WanderTarget on the circle instead of
// leaving it at the origin for one frame.
func (a *Agent) FirstTick() bool {
	return !a.started
}
