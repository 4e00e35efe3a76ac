package steering

import "github.com/pthm-cable/autonomy/components"

// PresetFactory builds a SteeringContext through a chain of With*
// setters terminated by Build. Each preset constructor seeds the fields
// that behavior actually reads with workable defaults, so callers only
// override what they care about.
type PresetFactory struct {
	ctx *SteeringContext
}

func newPreset(kind BehaviorKind, identifier string) *PresetFactory {
	return &PresetFactory{ctx: &SteeringContext{
		Kind:       kind,
		Identifier: identifier,
		Active:     true,
		Weight:     1,
	}}
}

// NewSeek builds a Seek preset: steers directly toward the target.
func NewSeek(identifier string, target AgentHandle) *PresetFactory {
	p := newPreset(Seek, identifier)
	p.ctx.Target = target
	return p
}

// NewFlee builds a Flee preset: steers directly away from the target.
func NewFlee(identifier string, target AgentHandle) *PresetFactory {
	p := newPreset(Flee, identifier)
	p.ctx.Target = target
	p.ctx.Radius = 200
	return p
}

// NewArrival builds an Arrival preset: seeks the target but decelerates
// within SlowingRadius and stops within ArrivalTolerance.
func NewArrival(identifier string, target AgentHandle) *PresetFactory {
	p := newPreset(Arrival, identifier)
	p.ctx.Target = target
	p.ctx.SlowingRadius = 100
	p.ctx.ArrivalTolerance = 4
	return p
}

// NewPursuit builds a Pursuit preset: seeks the target's predicted
// future position rather than its current one.
func NewPursuit(identifier string, target AgentHandle) *PresetFactory {
	p := newPreset(Pursuit, identifier)
	p.ctx.Target = target
	p.ctx.MaxPrediction = 1
	return p
}

// NewEvade builds an Evade preset: flees the target's predicted future
// position rather than its current one.
func NewEvade(identifier string, target AgentHandle) *PresetFactory {
	p := newPreset(Evade, identifier)
	p.ctx.Target = target
	p.ctx.Radius = 200
	p.ctx.MaxPrediction = 1
	return p
}

// NewWander builds a Wander preset: a slowly-drifting random heading.
func NewWander(identifier string) *PresetFactory {
	p := newPreset(Wander, identifier)
	p.ctx.WanderRadius = 40
	p.ctx.WanderDistance = 80
	p.ctx.WanderJitter = 20
	return p
}

// NewSeparation builds a Separation preset: steers away from nearby
// agents, weighted toward the closest.
func NewSeparation(identifier string) *PresetFactory {
	p := newPreset(Separation, identifier)
	p.ctx.SeparationRadius = 40
	return p
}

// NewAlignment builds an Alignment preset: matches nearby agents'
// average heading.
func NewAlignment(identifier string) *PresetFactory {
	p := newPreset(Alignment, identifier)
	p.ctx.AlignmentRadius = 80
	return p
}

// NewCohesion builds a Cohesion preset: steers toward nearby agents'
// average position.
func NewCohesion(identifier string) *PresetFactory {
	p := newPreset(Cohesion, identifier)
	p.ctx.CohesionRadius = 80
	return p
}

// NewAvoidObstacles builds an AvoidObstacles preset: projects a
// detection ray ahead and steers laterally around anything it clips.
func NewAvoidObstacles(identifier string) *PresetFactory {
	p := newPreset(AvoidObstacles, identifier)
	p.ctx.AvoidanceDistance = 80
	p.ctx.AvoidanceForce = 600
	return p
}

// NewFollowPath builds a FollowPath preset: queries the world for a
// route to target and steers along it, waypoint by waypoint.
func NewFollowPath(identifier string, target components.Vec2) *PresetFactory {
	p := newPreset(FollowPath, identifier)
	p.ctx.PathTarget = target
	p.ctx.PathRadius = 8
	p.ctx.PathAheadDistance = 16
	return p
}

func (p *PresetFactory) WithWeight(w float32) *PresetFactory {
	p.ctx.Weight = w
	return p
}

func (p *PresetFactory) WithRadius(r float32) *PresetFactory {
	p.ctx.Radius = r
	return p
}

func (p *PresetFactory) WithViewAngle(degrees float32) *PresetFactory {
	p.ctx.ViewAngle = degrees
	return p
}

func (p *PresetFactory) WithSlowingRadius(r float32) *PresetFactory {
	p.ctx.SlowingRadius = r
	return p
}

func (p *PresetFactory) WithArrivalTolerance(r float32) *PresetFactory {
	p.ctx.ArrivalTolerance = r
	return p
}

func (p *PresetFactory) WithMaxPrediction(seconds float32) *PresetFactory {
	p.ctx.MaxPrediction = seconds
	return p
}

func (p *PresetFactory) WithWanderParams(radius, distance, jitter float32) *PresetFactory {
	p.ctx.WanderRadius = radius
	p.ctx.WanderDistance = distance
	p.ctx.WanderJitter = jitter
	return p
}

func (p *PresetFactory) WithSeparationRadius(r float32) *PresetFactory {
	p.ctx.SeparationRadius = r
	return p
}

func (p *PresetFactory) WithAlignmentRadius(r float32) *PresetFactory {
	p.ctx.AlignmentRadius = r
	return p
}

func (p *PresetFactory) WithCohesionRadius(r float32) *PresetFactory {
	p.ctx.CohesionRadius = r
	return p
}

// WithAvoidanceDistance sets how far ahead the avoidance ray projects.
// Split from WithAvoidanceForce (rather than one combined setter) so
// callers can tune detection range and push strength independently.
func (p *PresetFactory) WithAvoidanceDistance(d float32) *PresetFactory {
	p.ctx.AvoidanceDistance = d
	return p
}

func (p *PresetFactory) WithAvoidanceForce(f float32) *PresetFactory {
	p.ctx.AvoidanceForce = f
	return p
}

// WithIgnoreAgentsInAvoidance sets whether avoidance only tests static
// colliders, skipping any collider whose owner carries an agent.
func (p *PresetFactory) WithIgnoreAgentsInAvoidance(ignore bool) *PresetFactory {
	p.ctx.IgnoreAgentsInAvoidance = ignore
	return p
}

func (p *PresetFactory) WithPathRadius(r float32) *PresetFactory {
	p.ctx.PathRadius = r
	return p
}

func (p *PresetFactory) WithPathAheadDistance(d float32) *PresetFactory {
	p.ctx.PathAheadDistance = d
	return p
}

func (p *PresetFactory) WithActive(active bool) *PresetFactory {
	p.ctx.Active = active
	return p
}

// Build finalizes the context. It is safe to call more than once; each
// call returns the same underlying context.
func (p *PresetFactory) Build() *SteeringContext {
	return p.ctx
}
