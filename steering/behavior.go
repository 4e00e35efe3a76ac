package steering

import (
	"math"

	"github.com/pthm-cable/autonomy/components"
)

const defaultAvoidanceMargin = 10

// Execute dispatches a context to its force function and scales the
// result by the context's weight. A nil or unresolved target/world
// collapses to a zero force rather than panicking — a missing
// collaborator is always treated as "nothing to react to".
func Execute(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	var force components.Vec2
	switch ctx.Kind {
	case Seek:
		force = seek(ctx, self, env)
	case Flee:
		force = flee(ctx, self, env)
	case Arrival:
		force = arrival(ctx, self, env)
	case Pursuit:
		force = pursuit(ctx, self, env)
	case Evade:
		force = evade(ctx, self, env)
	case Wander:
		force = wander(ctx, self)
	case Separation:
		force = separation(ctx, self, env)
	case Alignment:
		force = alignment(ctx, self, env)
	case Cohesion:
		force = cohesion(ctx, self, env)
	case AvoidObstacles:
		force = avoidObstacles(ctx, self, env)
	case FollowPath:
		force = followPath(ctx, self, env)
	}
	return force.Scale(ctx.Weight)
}

// withinRadius reports whether distance d passes this context's radius
// gate. A non-positive Radius means "unbounded" (always passes).
func withinRadius(radius, d float32) bool {
	return radius <= 0 || d <= radius
}

// withinViewAngle reports whether direction `to` (from self, normalized
// already) lies inside this context's forward view cone. A non-positive
// ViewAngle disables the gate.
func withinViewAngle(ctx *SteeringContext, forward, to components.Vec2) bool {
	if ctx.ViewAngle <= 0 {
		return true
	}
	if to.LengthSq() < 1e-8 {
		return true
	}
	angle := components.AngleBetween(forward, to)
	limit := ctx.ViewAngle * math.Pi / 180 / 2
	return angle <= limit
}

// steerToward is the common Reynolds pattern: the caller's desired
// velocity minus current velocity, yielding the force that would correct
// the difference in one second.
func steerToward(self *Agent, desired components.Vec2) components.Vec2 {
	return desired.Sub(self.Transform.Velocity())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func targetPosition(ctx *SteeringContext, env Env) (components.Vec2, bool) {
	target, ok := env.Resolve(ctx.Target)
	if !ok {
		return components.Vec2{}, false
	}
	return target.Transform.Position(), true
}

func seek(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	pos, ok := targetPosition(ctx, env)
	if !ok {
		return components.Vec2{}
	}
	offset := pos.Sub(self.Transform.Position())
	d := offset.Length()
	if !withinRadius(ctx.Radius, d) {
		return components.Vec2{}
	}
	if !withinViewAngle(ctx, self.Forward(), offset) {
		return components.Vec2{}
	}
	desired := offset.Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

func flee(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	pos, ok := targetPosition(ctx, env)
	if !ok {
		return components.Vec2{}
	}
	toThreat := pos.Sub(self.Transform.Position())
	away := toThreat.Scale(-1)
	d := away.Length()
	if !withinRadius(ctx.Radius, d) {
		return components.Vec2{}
	}
	if !withinViewAngle(ctx, self.Forward(), toThreat) {
		return components.Vec2{}
	}
	desired := away.Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

func arrival(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	pos, ok := targetPosition(ctx, env)
	if !ok {
		return components.Vec2{}
	}
	offset := pos.Sub(self.Transform.Position())
	d := offset.Length()
	if d < ctx.ArrivalTolerance {
		return components.Vec2{}
	}
	if !withinRadius(ctx.Radius, d) {
		return components.Vec2{}
	}
	if !withinViewAngle(ctx, self.Forward(), offset) {
		return components.Vec2{}
	}

	slowingRadius := ctx.SlowingRadius
	speed := self.Speed
	if slowingRadius > 0 && d < slowingRadius {
		speed = self.Speed * (d / slowingRadius)
	}
	desired := offset.Normalized().Scale(speed)
	return steerToward(self, desired)
}

// solveInterceptTime finds the smallest positive root of the quadratic
// that describes when a mover closing at `relativeVel` on a target at
// offset `toTarget` (`distance` away) could meet it — the exact
// interception time rather than a fixed-point distance/speed
// approximation. With no positive root it falls back to
// distance/mainSpeed; with no real root it returns the closest-approach
// time, clamped at zero. matchedSpeed is the speed compared
// against relativeVel to detect the degenerate "velocities matched"
// case (self speed for pursuit, target speed for evade).
func solveInterceptTime(toTarget, relativeVel components.Vec2, distance, mainSpeed, matchedSpeed float32) float32 {
	a := relativeVel.Dot(relativeVel) - matchedSpeed*matchedSpeed
	b := 2 * toTarget.Dot(relativeVel)
	c := toTarget.Dot(toTarget)

	if abs32(a) < 0.001 {
		if mainSpeed > 1e-4 {
			return distance / mainSpeed
		}
		return 0
	}

	discriminant := b*b - 4*a*c
	if discriminant >= 0 {
		sq := sqrt32(discriminant)
		t1 := (-b - sq) / (2 * a)
		t2 := (-b + sq) / (2 * a)
		switch {
		case t1 > 0:
			return t1
		case t2 > 0:
			return t2
		default:
			if mainSpeed > 1e-4 {
				return distance / mainSpeed
			}
			return 0
		}
	}

	t := -b / (2 * a)
	if t < 0 {
		return 0
	}
	return t
}

func pursuit(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	target, ok := env.Resolve(ctx.Target)
	if !ok {
		return components.Vec2{}
	}
	targetPos := target.Transform.Position()
	selfPos := self.Transform.Position()
	toTarget := targetPos.Sub(selfPos)
	d := toTarget.Length()
	if !withinRadius(ctx.Radius, d) {
		return components.Vec2{}
	}
	if !withinViewAngle(ctx, self.Forward(), toTarget) {
		return components.Vec2{}
	}

	targetVel := target.Transform.Velocity()
	selfVel := self.Transform.Velocity()
	relativeVel := targetVel.Sub(selfVel)
	targetSpeed := targetVel.Length()

	var predictionTime float32
	if toTarget.Normalized().Dot(targetVel.Normalized()) > 0.95 {
		predictionTime = d / (self.Speed + targetSpeed)
	} else {
		predictionTime = solveInterceptTime(toTarget, relativeVel, d, self.Speed, self.Speed)
	}
	if ctx.MaxPrediction > 0 && predictionTime > ctx.MaxPrediction {
		predictionTime = ctx.MaxPrediction
	}

	predicted := targetPos
	if predictionTime >= 0.1 {
		predicted = targetPos.Add(targetVel.Scale(predictionTime))
	}

	desired := predicted.Sub(selfPos).Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

func evade(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	target, ok := env.Resolve(ctx.Target)
	if !ok {
		return components.Vec2{}
	}
	targetPos := target.Transform.Position()
	selfPos := self.Transform.Position()
	toTarget := targetPos.Sub(selfPos)
	d := toTarget.Length()
	if !withinRadius(ctx.Radius, d) {
		return components.Vec2{}
	}
	if !withinViewAngle(ctx, self.Forward(), toTarget) {
		return components.Vec2{}
	}

	targetVel := target.Transform.Velocity()
	selfVel := self.Transform.Velocity()
	relativeVel := selfVel.Sub(targetVel)
	targetSpeed := targetVel.Length()

	var predictionTime float32
	if toTarget.Normalized().Dot(targetVel.Normalized()) < -0.95 {
		predictionTime = d / (self.Speed + targetSpeed)
	} else {
		predictionTime = solveInterceptTime(toTarget.Scale(-1), relativeVel, d, targetSpeed, targetSpeed)
	}
	if ctx.MaxPrediction > 0 && predictionTime > ctx.MaxPrediction {
		predictionTime = ctx.MaxPrediction
	}

	predicted := targetPos
	if predictionTime >= 0.1 {
		predicted = targetPos.Add(targetVel.Scale(predictionTime))
	}

	urgency := float32(1)
	if d < 50 {
		urgency = 2 - d/50
	}

	desired := selfPos.Sub(predicted).Normalized().Scale(self.Speed * urgency)
	return steerToward(self, desired)
}

func wander(ctx *SteeringContext, self *Agent) components.Vec2 {
	radius := ctx.WanderRadius
	if radius <= 0 {
		radius = 1
	}
	distance := ctx.WanderDistance
	jitter := ctx.WanderJitter

	if self.FirstTick() && ctx.WanderTarget.LengthSq() < 1e-8 {
		ctx.WanderTarget = self.Forward().Scale(radius)
	}

	jitterOffset := components.Vec2{X: ctx.nextRand() * jitter, Y: ctx.nextRand() * jitter}
	ctx.WanderTarget = ctx.WanderTarget.Add(jitterOffset).Normalized().Scale(radius)

	circleCenter := self.Forward().Scale(distance)
	desiredLocal := circleCenter.Add(ctx.WanderTarget)
	worldTarget := self.Transform.Position().Add(desiredLocal)

	desired := worldTarget.Sub(self.Transform.Position()).Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

// neighbors returns every other agent within radius of self, skipping
// self. A non-positive radius means "no neighbors" (flocking behaviors
// need a finite radius to mean anything).
func neighbors(self *Agent, env Env, radius float32) []*Agent {
	if radius <= 0 {
		return nil
	}
	var out []*Agent
	pos := self.Transform.Position()
	for _, other := range env.Agents {
		if other == self {
			continue
		}
		if pos.DistanceTo(other.Transform.Position()) <= radius {
			out = append(out, other)
		}
	}
	return out
}

func separation(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	var total components.Vec2
	count := 0
	pos := self.Transform.Position()
	for _, other := range neighbors(self, env, ctx.SeparationRadius) {
		away := pos.Sub(other.Transform.Position())
		d := away.Length()
		if d < 1e-4 {
			continue
		}
		total = total.Add(away.Normalized().Div(d)) // closer neighbors push harder
		count++
	}
	if count == 0 {
		return components.Vec2{}
	}
	desired := total.Div(float32(count)).Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

func alignment(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	group := neighbors(self, env, ctx.AlignmentRadius)
	if len(group) == 0 {
		return components.Vec2{}
	}
	var avgVel components.Vec2
	for _, other := range group {
		avgVel = avgVel.Add(other.Transform.Velocity())
	}
	avgVel = avgVel.Div(float32(len(group)))
	if avgVel.LengthSq() < 1e-8 {
		return components.Vec2{}
	}
	desired := avgVel.Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

func cohesion(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	group := neighbors(self, env, ctx.CohesionRadius)
	if len(group) == 0 {
		return components.Vec2{}
	}
	var center components.Vec2
	for _, other := range group {
		center = center.Add(other.Transform.Position())
	}
	center = center.Div(float32(len(group)))

	offset := center.Sub(self.Transform.Position())
	if offset.LengthSq() < 1e-8 {
		return components.Vec2{}
	}
	desired := offset.Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}

// avoidObstacles projects a detection ray along the agent's forward
// direction and tests it against every collider in the world. The
// nearest one within range that the ray's lateral offset would clip
// produces a corrective force perpendicular to the ray, scaled by how
// close the obstacle is along the ray.
func avoidObstacles(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	if env.World == nil {
		return components.Vec2{}
	}
	distance := ctx.AvoidanceDistance
	if distance <= 0 {
		return components.Vec2{}
	}
	forward := self.Forward()
	pos := self.Transform.Position()

	margin := float32(defaultAvoidanceMargin)
	if self.Collider != nil {
		margin = self.Collider.EffectiveRadius()
	}

	var nearest components.Collider
	nearestDist := float32(math.MaxFloat32)
	found := false

	for _, c := range env.World.Colliders() {
		if c.Owner != nil {
			if !c.Owner.Active() {
				continue
			}
			if ctx.IgnoreAgentsInAvoidance && c.Owner.HasAgent() {
				continue
			}
		}

		toObstacle := c.Center.Sub(pos)
		along := toObstacle.Dot(forward)
		if along < 0 || along > distance {
			continue
		}
		lateral := toObstacle.Sub(forward.Scale(along))
		clearance := margin + c.EffectiveRadius()
		if lateral.Length() > clearance {
			continue
		}
		if along < nearestDist {
			nearestDist = along
			nearest = c
			found = true
		}
	}

	if !found {
		return components.Vec2{}
	}

	toObstacle := nearest.Center.Sub(pos)
	along := toObstacle.Dot(forward)
	lateral := toObstacle.Sub(forward.Scale(along))

	// Push away from the obstacle's lateral offset; if the agent is
	// dead-center on the obstacle, default to the agent's right side.
	var away components.Vec2
	if lateral.LengthSq() < 1e-8 {
		away = forward.Right()
	} else {
		away = lateral.Scale(-1).Normalized()
	}

	force := ctx.AvoidanceForce
	if force <= 0 {
		force = self.MaxForce
	}
	// Closer obstacles push harder.
	closeness := float32(1)
	if distance > 0 {
		closeness = 1 - (along / distance)
	}
	return away.Scale(force * closeness)
}

func followPath(ctx *SteeringContext, self *Agent, env Env) components.Vec2 {
	if env.World == nil {
		return components.Vec2{}
	}
	pos := self.Transform.Position()

	if !ctx.cachedPathValid || ctx.cachedPathGoal != ctx.PathTarget {
		ctx.cachedPath = env.World.Path(pos, ctx.PathTarget)
		ctx.cachedPathGoal = ctx.PathTarget
		ctx.cachedPathValid = true
		ctx.pathCursor = 0
	}
	path := ctx.cachedPath
	if len(path) == 0 {
		return components.Vec2{}
	}

	radius := ctx.PathRadius
	if radius <= 0 {
		radius = 1
	}
	for ctx.pathCursor < len(path)-1 && pos.DistanceTo(path[ctx.pathCursor]) <= radius {
		ctx.pathCursor++
	}

	waypoint := path[ctx.pathCursor]
	ahead := ctx.PathAheadDistance
	if ahead > 0 && ctx.pathCursor < len(path)-1 {
		remaining := ahead
		cursor := ctx.pathCursor
		point := path[cursor]
		for remaining > 0 && cursor < len(path)-1 {
			segment := path[cursor+1].Sub(path[cursor])
			segLen := segment.Length()
			if segLen >= remaining {
				point = path[cursor].Add(segment.Normalized().Scale(remaining))
				remaining = 0
				break
			}
			remaining -= segLen
			cursor++
			point = path[cursor]
		}
		waypoint = point
	}

	offset := waypoint.Sub(pos)
	if offset.LengthSq() < 1e-8 {
		return components.Vec2{}
	}
	desired := offset.Normalized().Scale(self.Speed)
	return steerToward(self, desired)
}
