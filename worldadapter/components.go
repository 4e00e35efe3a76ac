// Package worldadapter backs the steering core's external contracts
// (components.Transform, components.GameObject) with an ark ECS world,
// and implements steering.World/nav.CollisionMap's collider source over
// that same world. It is the only package in this module that imports
// github.com/mlange-42/ark/ecs — the core packages (components, nav,
// steering) stay plain Go structs so they can be driven by any host
// scene representation, ECS-backed or not.
package worldadapter

// Position is the ECS-stored world-space location of an entity.
type Position struct {
	X, Y float32
}

// Velocity is the ECS-stored current velocity of an entity.
type Velocity struct {
	X, Y float32
}

// Facing is the ECS-stored fallback direction used when Velocity is too
// small to derive a heading from.
type Facing struct {
	X, Y float32
}

// ColliderShape is the ECS-stored collider data for an entity. Kind 0 is
// a box (Width/Height), kind 1 is a circle (Radius).
type ColliderShape struct {
	Kind          uint8
	Width, Height float32
	Radius        float32
}

// AgentMarker tags an entity as carrying a steering agent. Its presence
// (not its contents) is what CollisionMap and obstacle avoidance check
// via GameObject.HasAgent.
type AgentMarker struct{}

// Disabled tags an entity as temporarily inactive without removing it
// from the world — GameObject.Active reports false while present.
type Disabled struct{}
