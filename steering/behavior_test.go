package steering

import (
	"math"
	"testing"

	"github.com/pthm-cable/autonomy/components"
)

type fakeGameObject struct{ active, hasAgent bool }

func (o *fakeGameObject) Active() bool   { return o.active }
func (o *fakeGameObject) HasAgent() bool { return o.hasAgent }

type fakeWorld struct {
	colliders []components.Collider
	path      []components.Vec2
}

func (w *fakeWorld) Colliders() []components.Collider { return w.colliders }
func (w *fakeWorld) Path(start, end components.Vec2) []components.Vec2 { return w.path }

func envWith(agents ...*Agent) Env {
	lookup := make(map[AgentHandle]*Agent, len(agents))
	for i, a := range agents {
		a.handle = AgentHandle(i + 1)
		lookup[a.handle] = a
	}
	return Env{Agents: agents, lookup: lookup}
}

func TestSeekDrivesDirectlyTowardTarget(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	target, _ := newTestAgent(100, 0)
	env := envWith(self, target)

	ctx := NewSeek("seek", target.Handle()).Build()
	force := Execute(ctx, self, env)

	if force.X <= 0 {
		t.Errorf("expected positive X force toward target, got %v", force)
	}
	if math.Abs(float64(force.Y)) > 1e-3 {
		t.Errorf("expected no lateral force on a directly-ahead target, got %v", force)
	}
}

func TestSeekRespectsRadiusGate(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	target, _ := newTestAgent(1000, 0)
	env := envWith(self, target)

	ctx := NewSeek("seek", target.Handle()).WithRadius(50).Build()
	force := Execute(ctx, self, env)
	if force != (components.Vec2{}) {
		t.Errorf("expected zero force outside radius, got %v", force)
	}
}

func TestSeekRespectsViewAngleGate(t *testing.T) {
	self, selfTr := newTestAgent(0, 0)
	selfTr.forward = components.Vec2{X: 1, Y: 0}
	target, _ := newTestAgent(0, -100) // directly behind/to the side
	env := envWith(self, target)

	ctx := NewSeek("seek", target.Handle()).WithViewAngle(30).Build()
	force := Execute(ctx, self, env)
	if force != (components.Vec2{}) {
		t.Errorf("expected zero force for a target outside the view cone, got %v", force)
	}
}

func TestWeightScalesForceLinearly(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	target, _ := newTestAgent(100, 0)
	env := envWith(self, target)

	base := Execute(NewSeek("seek", target.Handle()).WithWeight(1).Build(), self, env)
	doubled := Execute(NewSeek("seek", target.Handle()).WithWeight(2).Build(), self, env)

	if math.Abs(float64(doubled.X-2*base.X)) > 1e-3 {
		t.Errorf("expected doubling weight to double force: base=%v doubled=%v", base, doubled)
	}
}

func TestArrivalDeceleratesMonotonicallyWithinSlowingRadius(t *testing.T) {
	target, _ := newTestAgent(0, 0)

	var speeds []float32
	for _, dist := range []float32{100, 60, 20, 5} {
		self, _ := newTestAgent(-dist, 0)
		env := envWith(self, target)
		ctx := NewArrival("arrival", target.Handle()).WithSlowingRadius(100).WithArrivalTolerance(1).Build()
		force := Execute(ctx, self, env)
		desiredSpeed := force.Length() // velocity starts at zero, so force == desired velocity
		speeds = append(speeds, desiredSpeed)
	}

	for i := 1; i < len(speeds); i++ {
		if speeds[i] > speeds[i-1]+1e-3 {
			t.Errorf("expected monotonically decreasing desired speed as distance shrinks: %v", speeds)
			break
		}
	}
}

func TestArrivalStopsWithinTolerance(t *testing.T) {
	target, _ := newTestAgent(0, 0)
	self, _ := newTestAgent(0.5, 0)
	env := envWith(self, target)

	ctx := NewArrival("arrival", target.Handle()).WithArrivalTolerance(4).Build()
	force := Execute(ctx, self, env)
	if force != (components.Vec2{}) {
		t.Errorf("expected zero force within arrival tolerance, got %v", force)
	}
}

func TestPursuitLeadsAMovingTarget(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	target, targetTr := newTestAgent(100, 0)
	targetTr.vel = components.Vec2{X: 0, Y: 50}
	env := envWith(self, target)

	ctx := NewPursuit("pursuit", target.Handle()).WithMaxPrediction(2).Build()
	force := Execute(ctx, self, env)

	seekCtx := NewSeek("seek", target.Handle()).Build()
	seekForce := Execute(seekCtx, self, env)

	if force.Y <= seekForce.Y {
		t.Errorf("expected pursuit to lead more than a direct seek: pursuit=%v seek=%v", force, seekForce)
	}
}

func TestSeparationPushesAwayFromCloseNeighbor(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	close_, _ := newTestAgent(10, 0)
	env := envWith(self, close_)

	ctx := NewSeparation("sep").WithSeparationRadius(50).Build()
	force := Execute(ctx, self, env)
	if force.X >= 0 {
		t.Errorf("expected separation to push away from neighbor on the +X side, got %v", force)
	}
}

func TestCohesionPullsTowardGroupCenter(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	a, _ := newTestAgent(100, 0)
	b, _ := newTestAgent(100, 0)
	env := envWith(self, a, b)

	ctx := NewCohesion("coh").WithCohesionRadius(200).Build()
	force := Execute(ctx, self, env)
	if force.X <= 0 {
		t.Errorf("expected cohesion to pull toward neighbors' center, got %v", force)
	}
}

func TestAlignmentMatchesNeighborHeading(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	neighbor, neighborTr := newTestAgent(10, 0)
	neighborTr.vel = components.Vec2{X: 0, Y: 100}
	env := envWith(self, neighbor)

	ctx := NewAlignment("align").WithAlignmentRadius(50).Build()
	force := Execute(ctx, self, env)
	if force.Y <= 0 {
		t.Errorf("expected alignment force to turn toward neighbor's heading, got %v", force)
	}
}

func TestAvoidObstaclesPushesLaterallyAroundColliderAhead(t *testing.T) {
	self, selfTr := newTestAgent(0, 0)
	selfTr.forward = components.Vec2{X: 1, Y: 0}
	world := &fakeWorld{colliders: []components.Collider{
		{Kind: components.ColliderCircle, Radius: 10, Center: components.Vec2{X: 40, Y: 0}, Owner: &fakeGameObject{active: true}},
	}}
	env := Env{Agents: []*Agent{self}, World: world, lookup: map[AgentHandle]*Agent{}}

	ctx := NewAvoidObstacles("avoid").WithAvoidanceDistance(80).WithAvoidanceForce(500).Build()
	force := Execute(ctx, self, env)
	if force.LengthSq() < 1e-6 {
		t.Fatal("expected a nonzero avoidance force for an obstacle directly ahead")
	}
	if math.Abs(float64(force.X)) > 1e-3 {
		t.Errorf("expected avoidance force to be lateral (Y), got %v", force)
	}
}

func TestAvoidObstaclesIgnoresAgentsWhenConfigured(t *testing.T) {
	self, selfTr := newTestAgent(0, 0)
	selfTr.forward = components.Vec2{X: 1, Y: 0}
	world := &fakeWorld{colliders: []components.Collider{
		{Kind: components.ColliderCircle, Radius: 10, Center: components.Vec2{X: 40, Y: 0}, Owner: &fakeGameObject{active: true, hasAgent: true}},
	}}
	env := Env{Agents: []*Agent{self}, World: world, lookup: map[AgentHandle]*Agent{}}

	ctx := NewAvoidObstacles("avoid").WithIgnoreAgentsInAvoidance(true).Build()
	force := Execute(ctx, self, env)
	if force != (components.Vec2{}) {
		t.Errorf("expected zero force when ignoring agent-carrying colliders, got %v", force)
	}
}

func TestFollowPathQueriesWorldAndCachesRoute(t *testing.T) {
	self, _ := newTestAgent(0, 0)
	path := []components.Vec2{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}}
	world := &fakeWorld{path: path}
	env := Env{Agents: []*Agent{self}, World: world, lookup: map[AgentHandle]*Agent{}}

	ctx := NewFollowPath("path", components.Vec2{X: 100, Y: 0}).Build()
	force := Execute(ctx, self, env)
	if force.X <= 0 {
		t.Errorf("expected forward force along the path, got %v", force)
	}
	if !ctx.cachedPathValid {
		t.Error("expected path to be cached after first query")
	}
}

func TestForceNeverExceedsMaxForceAfterClamp(t *testing.T) {
	a, _ := newTestAgent(0, 0)
	a.MaxForce = 50
	target, _ := newTestAgent(10000, 0)
	env := envWith(a, target)

	ctx := NewSeek("seek", target.Handle()).WithWeight(1000).Build()
	a.AddContext(ctx)
	a.active = []*SteeringContext{ctx}

	a.Tick(0.05, env)
	// velocity after one tick should reflect a clamped force, not the raw
	// unclamped seek magnitude (weight 1000 * speed 200).
	if a.Transform.Velocity().Length() > a.MaxForce*0.05*1.01 {
		t.Errorf("velocity implies an unclamped force was applied: %v", a.Transform.Velocity())
	}
}
