package worldadapter

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/autonomy/components"
	"github.com/pthm-cable/autonomy/nav"
)

// World wires an ark ECS entity store to the steering core's collider
// and pathfinding needs. It implements steering.World directly
// (Colliders/Path), backed by a nav.CollisionMap rebuilt on Refresh.
type World struct {
	ecsWorld *ecs.World
	grid     *nav.CollisionMap

	posMap      *ecs.Map1[Position]
	velMap      *ecs.Map1[Velocity]
	facingMap   *ecs.Map1[Facing]
	colliderMap *ecs.Map1[ColliderShape]
	agentMap    *ecs.Map1[AgentMarker]
	disabledMap *ecs.Map1[Disabled]

	colliderFilter *ecs.Filter1[ColliderShape]
}

// NewWorld creates an empty ECS-backed world with the given pathfinding
// accuracy (see nav.NewCollisionMap).
func NewWorld(accuracy float32) *World {
	ecsWorld := ecs.NewWorld()
	w := &World{
		ecsWorld:       ecsWorld,
		grid:           nav.NewCollisionMap(accuracy),
		posMap:         ecs.NewMap1[Position](ecsWorld),
		velMap:         ecs.NewMap1[Velocity](ecsWorld),
		facingMap:      ecs.NewMap1[Facing](ecsWorld),
		colliderMap:    ecs.NewMap1[ColliderShape](ecsWorld),
		agentMap:       ecs.NewMap1[AgentMarker](ecsWorld),
		disabledMap:    ecs.NewMap1[Disabled](ecsWorld),
		colliderFilter: ecs.NewFilter1[ColliderShape](ecsWorld),
	}
	w.grid.SetColliderSource(w)
	return w
}

// SpawnBody creates a static collider entity at the given position with
// no agent attached — scenery, walls, props.
func (w *World) SpawnBody(pos Position, shape ColliderShape) ecs.Entity {
	e := w.ecsWorld.NewEntity()
	w.posMap.Add(e, &pos)
	w.colliderMap.Add(e, &shape)
	w.grid.MarkDirty()
	return e
}

// SpawnAgentBody creates an entity carrying a position, velocity,
// facing, collider, and AgentMarker, ready to be wrapped as a steering
// Agent via World.Transform/World.GameObject.
func (w *World) SpawnAgentBody(pos Position, shape ColliderShape) ecs.Entity {
	e := w.ecsWorld.NewEntity()
	w.posMap.Add(e, &pos)
	w.velMap.Add(e, &Velocity{})
	w.facingMap.Add(e, &Facing{X: 1})
	w.colliderMap.Add(e, &shape)
	w.agentMap.Add(e, &AgentMarker{})
	return e
}

// Disable marks an entity inactive without removing it from the world.
func (w *World) Disable(e ecs.Entity) {
	if !w.disabledMap.Has(e) {
		w.disabledMap.Add(e, &Disabled{})
	}
	if w.colliderMap.Has(e) {
		w.grid.MarkDirty()
	}
}

// Despawn removes an entity from the world entirely.
func (w *World) Despawn(e ecs.Entity) {
	if w.colliderMap.Has(e) {
		w.grid.MarkDirty()
	}
	w.ecsWorld.RemoveEntity(e)
}

// Transform returns a components.Transform view over e's position,
// velocity, and facing. e must carry Position and Velocity components.
func (w *World) Transform(e ecs.Entity) components.Transform {
	return &entityTransform{world: w, entity: e}
}

// GameObject returns a components.GameObject view over e.
func (w *World) GameObject(e ecs.Entity) components.GameObject {
	return &entityGameObject{world: w, entity: e}
}

// Collider returns the components.Collider for e, if it carries one.
func (w *World) Collider(e ecs.Entity) (components.Collider, bool) {
	if !w.colliderMap.Has(e) {
		return components.Collider{}, false
	}
	shape := w.colliderMap.Get(e)
	pos := w.posMap.Get(e)
	c := components.Collider{
		Center: components.Vec2{X: pos.X, Y: pos.Y},
		Owner:  w.GameObject(e),
	}
	switch shape.Kind {
	case 1:
		c.Kind = components.ColliderCircle
		c.Radius = shape.Radius
	default:
		c.Kind = components.ColliderBox
		c.Width, c.Height = shape.Width, shape.Height
	}
	return c, true
}

// Colliders implements steering.World: every collider-carrying entity
// currently alive in the ECS world.
func (w *World) Colliders() []components.Collider {
	out := make([]components.Collider, 0)
	query := w.colliderFilter.Query()
	for query.Next() {
		e := query.Entity()
		if c, ok := w.Collider(e); ok {
			out = append(out, c)
		}
	}
	return out
}

// RefreshGrid rebuilds the pathfinding grid from the current collider
// set immediately. SpawnBody/Disable/Despawn already mark the grid dirty
// so Path rebuilds lazily on its own next call; call this explicitly only
// when something needs the rebuilt grid (e.g. a debug overlay) before the
// next Path query happens.
func (w *World) RefreshGrid() error {
	return w.grid.Refresh(w.Colliders())
}

// Path implements steering.World. The underlying CollisionMap rebuilds
// its grid itself, against w.Colliders, on first use or whenever marked
// dirty — this call never skips a stale grid.
func (w *World) Path(start, end components.Vec2) []components.Vec2 {
	return w.grid.Path(start, end)
}

// Grid exposes the underlying CollisionMap, e.g. to attach a DebugDraw.
func (w *World) Grid() *nav.CollisionMap { return w.grid }

type entityTransform struct {
	world  *World
	entity ecs.Entity
}

func (t *entityTransform) Position() components.Vec2 {
	p := t.world.posMap.Get(t.entity)
	return components.Vec2{X: p.X, Y: p.Y}
}

func (t *entityTransform) SetPosition(v components.Vec2) {
	p := t.world.posMap.Get(t.entity)
	p.X, p.Y = v.X, v.Y
}

func (t *entityTransform) Velocity() components.Vec2 {
	v := t.world.velMap.Get(t.entity)
	return components.Vec2{X: v.X, Y: v.Y}
}

func (t *entityTransform) SetVelocity(v components.Vec2) {
	vel := t.world.velMap.Get(t.entity)
	vel.X, vel.Y = v.X, v.Y
}

func (t *entityTransform) Forward() components.Vec2 {
	if !t.world.facingMap.Has(t.entity) {
		return components.Vec2{X: 1}
	}
	f := t.world.facingMap.Get(t.entity)
	return components.Vec2{X: f.X, Y: f.Y}
}

type entityGameObject struct {
	world  *World
	entity ecs.Entity
}

func (o *entityGameObject) Active() bool {
	if !o.world.ecsWorld.Alive(o.entity) {
		return false
	}
	return !o.world.disabledMap.Has(o.entity)
}

func (o *entityGameObject) HasAgent() bool {
	return o.world.agentMap.Has(o.entity)
}
