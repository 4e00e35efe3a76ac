package nav

import (
	"fmt"

	"github.com/pthm-cable/autonomy/components"
)

// DebugDraw is the optional render-subsystem collaborator: a
// visualization-only hook with no behavioral effect. A nil DebugDraw is
// always safe to call through — CollisionMap checks for nil before
// invoking it.
type DebugDraw interface {
	SetDebugPath(points []components.Vec2, gridWidth, gridHeight int, cellSize float32, originX, originY float32)
}

// ColliderSource supplies the current scene collider list on demand. It
// is what lets Path rebuild the grid itself on first use or when dirty,
// rather than requiring every caller to remember to call Refresh first.
type ColliderSource interface {
	Colliders() []components.Collider
}

// CollisionMap rasterizes the scene's static colliders into a tile grid
// and answers path queries over it. It caches the grid between calls and
// only rebuilds when marked dirty (or used for the first time) — static
// obstacles are the expected use; colliders that move without a Refresh
// or a MarkDirty call will leave the grid stale.
type CollisionMap struct {
	WorldStart, WorldEnd components.Vec2
	SmallestEntitySize   float32
	Accuracy             float32
	CellSize             float32
	GridWidth, GridHeight int

	planner *GridPathfinder
	debug   DebugDraw
	source  ColliderSource
	dirty   bool
	built   bool
}

// NewCollisionMap creates an empty CollisionMap. Accuracy scales down the
// cell size relative to the smallest collider's shorter side (accuracy=2
// means cells half that size); values below 1 are clamped up to 1.
func NewCollisionMap(accuracy float32) *CollisionMap {
	if accuracy < 1 {
		accuracy = 1
	}
	return &CollisionMap{Accuracy: accuracy, dirty: true}
}

// SetDebugDraw installs the optional debug-draw collaborator.
func (m *CollisionMap) SetDebugDraw(d DebugDraw) { m.debug = d }

// SetColliderSource installs the collaborator Path rasterizes against
// when the grid is missing or stale. Without one, Path never rebuilds
// on its own and callers must call Refresh explicitly, as before.
func (m *CollisionMap) SetColliderSource(s ColliderSource) { m.source = s }

// MarkDirty flags the grid for rebuild on the next Path call.
func (m *CollisionMap) MarkDirty() { m.dirty = true }

// Refresh rebuilds the grid from the given collider list. Colliders whose
// owning GameObject carries an agent are skipped (an agent's own body
// does not block pathfinding). Returns an error if the resulting cell
// size is non-positive, the one hard failure this subsystem raises. The
// smallest entity size is floored at 1, so this happens only when
// Accuracy has been set negative after NewCollisionMap clamped it.
func (m *CollisionMap) Refresh(colliders []components.Collider) error {
	smallest := float32(-1)
	haveAny := false
	var minX, minY, maxX, maxY float32

	for _, c := range colliders {
		if c.Owner != nil && (!c.Owner.Active() || c.Owner.HasAgent()) {
			continue
		}
		side := c.ShorterSide()
		if smallest < 0 || side < smallest {
			smallest = side
		}
	}
	if smallest < 1 {
		smallest = 1
	}
	m.SmallestEntitySize = smallest
	m.CellSize = smallest / m.Accuracy
	if m.CellSize <= 0 {
		return fmt.Errorf("nav: computed cell size %.4f is non-positive (accuracy=%.4f, smallest entity=%.4f)", m.CellSize, m.Accuracy, smallest)
	}

	// This loop needs each collider's world-space center to compute the
	// scene AABB; callers are expected to have positioned colliders
	// already (the rasterizer only reads shape + position, it never
	// moves anything).
	for _, c := range colliders {
		if c.Owner != nil && (!c.Owner.Active() || c.Owner.HasAgent()) {
			continue
		}
		lo, hi := c.AABB(c.Center)
		if !haveAny {
			minX, minY, maxX, maxY = lo.X, lo.Y, hi.X, hi.Y
			haveAny = true
			continue
		}
		if lo.X < minX {
			minX = lo.X
		}
		if lo.Y < minY {
			minY = lo.Y
		}
		if hi.X > maxX {
			maxX = hi.X
		}
		if hi.Y > maxY {
			maxY = hi.Y
		}
	}
	if !haveAny {
		minX, minY, maxX, maxY = 0, 0, m.CellSize, m.CellSize
	}

	m.WorldStart = components.Vec2{X: minX, Y: minY}
	m.WorldEnd = components.Vec2{X: maxX, Y: maxY}

	gw := int((maxX-minX)/m.CellSize) + 1
	gh := int((maxY-minY)/m.CellSize) + 1
	if gw < 1 {
		gw = 1
	}
	if gh < 1 {
		gh = 1
	}
	m.GridWidth, m.GridHeight = gw, gh

	blocked := make([]bool, gw*gh)
	weight := make([]int, gw*gh)
	for i := range weight {
		weight[i] = 1
	}

	for _, c := range colliders {
		if c.Owner != nil && (!c.Owner.Active() || c.Owner.HasAgent()) {
			continue
		}
		lo, hi := c.AABB(c.Center)
		x0, y0 := m.worldToGrid(lo.X, lo.Y)
		x1, y1 := m.worldToGrid(hi.X, hi.Y)
		x0, x1 = clampInt(x0, 0, gw-1), clampInt(x1, 0, gw-1)
		y0, y1 = clampInt(y0, 0, gh-1), clampInt(y1, 0, gh-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				blocked[y*gw+x] = true
			}
		}
	}

	m.planner = NewGridPathfinder(gw, gh, 1, 1)
	m.planner.SetTileMap(blocked, weight)
	m.dirty = false
	m.built = true
	return nil
}

func (m *CollisionMap) worldToGrid(x, y float32) (int, int) {
	gx := int((x - m.WorldStart.X) / m.CellSize)
	gy := int((y - m.WorldStart.Y) / m.CellSize)
	return gx, gy
}

func (m *CollisionMap) gridToWorld(gx, gy int) components.Vec2 {
	return components.Vec2{
		X: (float32(gx) + 0.5) * m.CellSize + m.WorldStart.X,
		Y: (float32(gy) + 0.5) * m.CellSize + m.WorldStart.Y,
	}
}

// Path finds a world-space waypoint list from start to end. On first use,
// or whenever the grid has been marked dirty, it rebuilds by rasterizing
// the installed ColliderSource before searching — matching Refresh, just
// triggered lazily instead of by an explicit caller. It returns an empty
// slice (never nil-vs-empty sensitive; callers should just check len < 2)
// when no path exists, the map still has not been built, or the goal
// resolves to a blocked tile.
func (m *CollisionMap) Path(start, end components.Vec2) []components.Vec2 {
	if (!m.built || m.dirty) && m.source != nil {
		if err := m.Refresh(m.source.Colliders()); err != nil {
			return nil
		}
	}
	if !m.built || m.planner == nil {
		return nil
	}

	sx, sy := m.worldToGrid(start.X, start.Y)
	ex, ey := m.worldToGrid(end.X, end.Y)
	sx, sy = clampInt(sx, 0, m.GridWidth-1), clampInt(sy, 0, m.GridHeight-1)
	ex, ey = clampInt(ex, 0, m.GridWidth-1), clampInt(ey, 0, m.GridHeight-1)

	cells := m.planner.NewPath(sx, sy, ex, ey)
	if len(cells) == 0 {
		return nil
	}

	path := make([]components.Vec2, len(cells))
	for i, c := range cells {
		path[i] = m.gridToWorld(c.X, c.Y)
	}

	if m.debug != nil {
		m.debug.SetDebugPath(path, m.GridWidth, m.GridHeight, m.CellSize, m.WorldStart.X, m.WorldStart.Y)
	}
	return path
}

