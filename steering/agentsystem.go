package steering

// AgentSystem owns every Agent in a scene and drives their ticks in a
// fixed registration order. Registration and removal are deferred to the
// start of the next Tick, the same discipline Agent applies to its own
// contexts, so a behavior that registers or destroys an agent mid-tick
// never perturbs the set being iterated.
type AgentSystem struct {
	nextID uint64

	agents map[AgentHandle]*Agent
	order  []AgentHandle

	pendingAdd    []*Agent
	pendingRemove []AgentHandle
}

// NewAgentSystem creates an empty registry.
func NewAgentSystem() *AgentSystem {
	return &AgentSystem{agents: make(map[AgentHandle]*Agent)}
}

// Register queues a new agent for addition at the head of the next
// Tick and returns the handle it will be addressable by once added.
func (s *AgentSystem) Register(a *Agent) AgentHandle {
	s.nextID++
	h := AgentHandle(s.nextID)
	a.handle = h
	s.pendingAdd = append(s.pendingAdd, a)
	return h
}

// Remove queues an agent for removal at the head of the next Tick.
func (s *AgentSystem) Remove(h AgentHandle) {
	s.pendingRemove = append(s.pendingRemove, h)
}

// Get returns the agent behind a handle, if it is currently registered.
func (s *AgentSystem) Get(h AgentHandle) (*Agent, bool) {
	a, ok := s.agents[h]
	return a, ok
}

// Count returns the number of currently registered agents.
func (s *AgentSystem) Count() int { return len(s.order) }

// Agents returns every currently registered agent in registration order.
// Callers must not mutate the returned slice.
func (s *AgentSystem) Agents() []*Agent {
	out := make([]*Agent, len(s.order))
	for i, h := range s.order {
		out[i] = s.agents[h]
	}
	return out
}

// Tick drains pending registration changes, then advances every
// registered agent by dt against a shared Env built from the current
// roster and world.
func (s *AgentSystem) Tick(dt float32, world World) {
	s.drain()

	agents := make([]*Agent, len(s.order))
	lookup := make(map[AgentHandle]*Agent, len(s.order))
	for i, h := range s.order {
		a := s.agents[h]
		agents[i] = a
		lookup[h] = a
	}
	env := Env{Agents: agents, World: world, lookup: lookup}

	for _, a := range agents {
		a.Tick(dt, env)
	}
}

// Shutdown destroys every registered agent and clears all buffers. It
// does not mutate agent state beyond removing them from the registry —
// ownership of an agent's Transform remains with whoever created it.
func (s *AgentSystem) Shutdown() {
	s.order = nil
	s.agents = make(map[AgentHandle]*Agent)
	s.pendingAdd = nil
	s.pendingRemove = nil
}

func (s *AgentSystem) drain() {
	for _, h := range s.pendingRemove {
		if _, ok := s.agents[h]; !ok {
			continue
		}
		delete(s.agents, h)
		for i, oh := range s.order {
			if oh == h {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.pendingRemove = s.pendingRemove[:0]

	for _, a := range s.pendingAdd {
		s.agents[a.handle] = a
		s.order = append(s.order, a.handle)
	}
	s.pendingAdd = s.pendingAdd[:0]
}
