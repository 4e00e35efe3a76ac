// Package steering implements the behavior library and the per-agent
// tick loop: a shared parameter record (SteeringContext) drives eleven
// Reynolds-style force functions, summed and integrated once per agent
// per tick.
package steering

import "github.com/pthm-cable/autonomy/components"

// World is the physics-side collaborator a behavior reaches through: the
// collider list for obstacle avoidance and the grid pathfinder's path
// query for path following. A nil World is valid — behaviors that need
// it treat a nil World the same as an empty answer.
type World interface {
	Colliders() []components.Collider
	Path(start, end components.Vec2) []components.Vec2
}

// Env is the per-tick environment every behavior executes against.
// AgentSystem builds one Env per tick and threads it through Agent.Tick
// down to each behavior, so no behavior ever reaches for ambient state
// through a global singleton.
type Env struct {
	Agents []*Agent
	World  World

	lookup map[AgentHandle]*Agent
}

// Resolve looks up the agent a handle refers to. It returns ok=false for
// the zero handle or for a handle whose agent has since been removed —
// a destroyed target is treated the same as an absent one.
func (e Env) Resolve(h AgentHandle) (*Agent, bool) {
	if h == 0 {
		return nil, false
	}
	a, ok := e.lookup[h]
	return a, ok
}
