package steering

import (
	"sync/atomic"

	"github.com/pthm-cable/autonomy/components"
)

var wanderSeedCounter uint32

// BehaviorKind selects which force function a SteeringContext drives.
type BehaviorKind uint8

const (
	Seek BehaviorKind = iota
	Flee
	Arrival
	Pursuit
	Evade
	Wander
	Separation
	Alignment
	Cohesion
	AvoidObstacles
	FollowPath
)

func (k BehaviorKind) String() string {
	switch k {
	case Seek:
		return "seek"
	case Flee:
		return "flee"
	case Arrival:
		return "arrival"
	case Pursuit:
		return "pursuit"
	case Evade:
		return "evade"
	case Wander:
		return "wander"
	case Separation:
		return "separation"
	case Alignment:
		return "alignment"
	case Cohesion:
		return "cohesion"
	case AvoidObstacles:
		return "avoid_obstacles"
	case FollowPath:
		return "follow_path"
	default:
		return "unknown"
	}
}

// SteeringContext is the parameter record one attached behavior carries.
// A single Agent may hold many contexts at once (e.g. separation +
// cohesion + alignment, summed as flocking); PresetFactory builds these
// with sensible defaults per behavior kind rather than requiring callers
// to fill in every field.
type SteeringContext struct {
	Kind BehaviorKind

	// Identifier names this context for GetContext lookups.
	// It need not be unique; the first match wins.
	Identifier string

	// Active gates whether this context contributes to the tick sum at
	// all, without detaching it (toggled far more cheaply than
	// add/remove churn).
	Active bool

	// Weight scales this context's force before it's summed with the
	// agent's other active contexts.
	Weight float32

	// Target names the agent this context steers toward/away
	// from/around, for Seek, Flee, Arrival, Pursuit, Evade. The zero
	// handle means "no target" and the behavior contributes nothing.
	Target AgentHandle

	// Radius is the activation radius of the targeted behaviors (seek,
	// flee, arrival, pursuit, evade): outside it they contribute nothing.
	// The flocking behaviors use their own radii below instead.
	Radius float32

	// ViewAngle, in degrees, gates the targeted behaviors (seek, flee,
	// arrival, pursuit, evade) to what's ahead of the agent. A negative or zero value
	// disables the gate (treated as omnidirectional).
	ViewAngle float32

	SeparationRadius float32
	AlignmentRadius  float32
	CohesionRadius   float32

	SlowingRadius    float32 // Arrival: distance at which deceleration begins
	ArrivalTolerance float32 // Arrival: distance within which the agent is "arrived"

	WanderRadius   float32
	WanderDistance float32
	WanderJitter   float32
	// WanderTarget is this context's private point on the wander circle,
	// mutated every tick by the wander behavior. It persists across
	// ticks so the wander path stays continuous rather than resetting.
	WanderTarget components.Vec2

	MaxPrediction float32 // Pursuit/Evade: cap on the look-ahead time used to predict target position

	AvoidanceDistance       float32 // AvoidObstacles: how far ahead to project the detection ray
	AvoidanceForce          float32 // AvoidObstacles: magnitude of the corrective lateral force
	IgnoreAgentsInAvoidance bool    // AvoidObstacles: when true, only static colliders are tested, not agent-carrying ones

	PathRadius        float32 // FollowPath: distance within which a waypoint counts as reached
	PathAheadDistance float32 // FollowPath: how far along the path to look for the next target point

	// PathTarget is the destination FollowPath queries the World for a
	// route to. Changing it invalidates the cached route.
	PathTarget components.Vec2

	self AgentHandle // set by Agent.AddContext; not meant to be set directly

	wanderRand uint32 // per-context PRNG state for wander jitter, seeded on first use
	seeded     bool

	cachedPath      []components.Vec2
	cachedPathGoal  components.Vec2
	cachedPathValid bool
	pathCursor      int
}

// Self returns the handle of the agent this context is attached to
// (zero until AddContext has run).
func (c *SteeringContext) Self() AgentHandle { return c.self }

// nextRand advances this context's wander PRNG (xorshift32) and returns
// a float in [-1, 1]. Each context gets its own stream, seeded on first
// use from a shared atomic counter, so two wander contexts never lock step.
func (c *SteeringContext) nextRand() float32 {
	if !c.seeded {
		c.wanderRand = atomic.AddUint32(&wanderSeedCounter, 2654435769) | 1
		c.seeded = true
	}
	x := c.wanderRand
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	c.wanderRand = x
	return (float32(x%20001) / 10000) - 1
}
