// Package nav implements the grid pathfinder: a collider rasterizer plus
// an A* search with diagonal movement, collinear compression, and
// Bresenham line-of-sight pruning.
package nav

import "container/heap"

// GridCell is an integer grid coordinate.
type GridCell struct {
	X, Y int
}

// AstarNode is the per-cell search state for one A* invocation. It is
// allocated fresh for every search and discarded afterward — nothing
// about it survives between calls to NewPath.
type AstarNode struct {
	X, Y     int
	G, H, F  float32
	Visited  bool
	Parent   int // index into the search's node slice, or -1
	heapIdx  int
}

// nodeHeap is a min-heap over open-set nodes, ordered by F, tie-broken by
// the lower H (the node closer to the goal by heuristic alone).
type nodeHeap struct {
	nodes *[]AstarNode
	ids   []int // indices into *nodes currently in the heap
}

func (h nodeHeap) Len() int { return len(h.ids) }
func (h nodeHeap) Less(i, j int) bool {
	a, b := (*h.nodes)[h.ids[i]], (*h.nodes)[h.ids[j]]
	if a.F != b.F {
		return a.F < b.F
	}
	return a.H < b.H
}
func (h nodeHeap) Swap(i, j int) {
	h.ids[i], h.ids[j] = h.ids[j], h.ids[i]
	(*h.nodes)[h.ids[i]].heapIdx = i
	(*h.nodes)[h.ids[j]].heapIdx = j
}
func (h *nodeHeap) Push(x any) {
	id := x.(int)
	(*h.nodes)[id].heapIdx = len(h.ids)
	h.ids = append(h.ids, id)
}
func (h *nodeHeap) Pop() any {
	old := h.ids
	n := len(old)
	id := old[n-1]
	h.ids = old[:n-1]
	(*h.nodes)[id].heapIdx = -1
	return id
}

// GridPathfinder runs A* over a rectangular tile grid with 8-connected
// movement. It holds only the static "blocked"/"weight" seed for each
// tile; all per-search state (g/h/f, visited, parent) lives in a fresh
// node slice allocated inside NewPath.
type GridPathfinder struct {
	width, height   int
	entityW, entityH int // footprint size, in tiles, of the agent this pathfinder plans for

	blocked []bool // width*height, row-major
	weight  []int  // width*height, terrain cost multiplier, >= 1

	// MaxExpandedNodes bounds the number of nodes popped from the open
	// set before giving up. Zero means "use width*height".
	MaxExpandedNodes int
}

// NewGridPathfinder creates a pathfinder over a width x height grid for
// an agent whose footprint covers entityW x entityH tiles (both >= 1).
func NewGridPathfinder(width, height, entityW, entityH int) *GridPathfinder {
	if entityW < 1 {
		entityW = 1
	}
	if entityH < 1 {
		entityH = 1
	}
	return &GridPathfinder{
		width:   width,
		height:  height,
		entityW: entityW,
		entityH: entityH,
		blocked: make([]bool, width*height),
		weight:  make([]int, width*height),
	}
}

// SetTileMap installs the static blocked/weight seed for the grid.
// blocked and weight must each have width*height elements in row-major
// order; a zero or negative weight is treated as 1.
func (g *GridPathfinder) SetTileMap(blocked []bool, weight []int) {
	g.blocked = blocked
	g.weight = make([]int, len(weight))
	for i, w := range weight {
		if w < 1 {
			w = 1
		}
		g.weight[i] = w
	}
}

func (g *GridPathfinder) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *GridPathfinder) tileBlocked(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.blocked[y*g.width+x]
}

func (g *GridPathfinder) tileWeight(x, y int) int {
	if !g.inBounds(x, y) {
		return 1
	}
	w := g.weight[y*g.width+x]
	if w < 1 {
		return 1
	}
	return w
}

// blockedFootprint reports whether the entity-sized footprint anchored at
// (x, y) is blocked: out of bounds or covering any marked tile.
func (g *GridPathfinder) blockedFootprint(x, y int) bool {
	for j := 0; j < g.entityH; j++ {
		for i := 0; i < g.entityW; i++ {
			if g.tileBlocked(x+i, y+j) {
				return true
			}
		}
	}
	return false
}

// NewPath runs A* from (sx, sy) to (ex, ey) and returns a post-processed
// waypoint list in grid coordinates. It returns nil if the tile map is
// empty, the goal is blocked, or no route exists.
//
// A blocked start tile is never rejected or relocated — the search
// simply expands from it as given. Only the goal is checked up front.
func (g *GridPathfinder) NewPath(sx, sy, ex, ey int) []GridCell {
	if g.width <= 0 || g.height <= 0 || len(g.blocked) == 0 {
		return nil
	}
	if g.blockedFootprint(ex, ey) {
		return nil
	}

	if sx == ex && sy == ey {
		return []GridCell{{sx, sy}}
	}

	n := g.width * g.height
	nodes := make([]AstarNode, n)
	id := func(x, y int) int { return y*g.width + x }

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := id(x, y)
			nodes[i] = AstarNode{X: x, Y: y, Parent: -1}
			if !g.blockedFootprint(x, y) {
				h := phyt(x, y, ex, ey)
				nodes[i].H = h
				nodes[i].F = h
			}
		}
	}

	startID, goalID := id(sx, sy), id(ex, ey)
	nodes[startID].G = 0
	nodes[startID].F = nodes[startID].H

	open := &nodeHeap{nodes: &nodes}
	heap.Init(open)
	heap.Push(open, startID)
	inOpen := make([]bool, n)
	inOpen[startID] = true

	maxExpanded := g.MaxExpandedNodes
	if maxExpanded <= 0 {
		maxExpanded = n
	}

	type delta struct{ dx, dy int }
	neighbors := [8]delta{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
		{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
	}

	expanded := 0
	found := false
	for open.Len() > 0 && expanded < maxExpanded {
		curID := heap.Pop(open).(int)
		inOpen[curID] = false
		cur := &nodes[curID]
		if cur.Visited {
			continue
		}
		cur.Visited = true
		expanded++

		if curID == goalID {
			found = true
			break
		}

		for i, d := range neighbors {
			nx, ny := cur.X+d.dx, cur.Y+d.dy
			if g.blockedFootprint(nx, ny) {
				continue
			}
			if i >= 4 {
				// Diagonal: forbid cutting the corner past a blocked
				// cardinal neighbor.
				if g.blockedFootprint(cur.X+d.dx, cur.Y) || g.blockedFootprint(cur.X, cur.Y+d.dy) {
					continue
				}
			}

			nid := id(nx, ny)
			if nodes[nid].Visited {
				continue
			}

			step := phyt(cur.X, cur.Y, nx, ny) * float32(g.tileWeight(nx, ny))
			tentativeG := cur.G + step

			if inOpen[nid] && tentativeG >= nodes[nid].G {
				continue
			}

			nodes[nid].Parent = curID
			nodes[nid].G = tentativeG
			nodes[nid].F = tentativeG + nodes[nid].H

			if inOpen[nid] {
				heap.Fix(open, nodes[nid].heapIdx)
			} else {
				heap.Push(open, nid)
				inOpen[nid] = true
			}
		}
	}

	if !found {
		return nil
	}

	raw := reconstruct(nodes, startID, goalID, g.width)
	compressed := compressCollinear(raw)
	return g.pruneLineOfSight(compressed)
}

func reconstruct(nodes []AstarNode, startID, goalID, width int) []GridCell {
	var ids []int
	cur := goalID
	for cur != startID {
		ids = append(ids, cur)
		p := nodes[cur].Parent
		if p < 0 {
			break
		}
		cur = p
	}
	ids = append(ids, startID)

	path := make([]GridCell, len(ids))
	for i, id := range ids {
		n := nodes[id]
		path[len(ids)-1-i] = GridCell{n.X, n.Y}
		_ = width
	}
	return path
}

// compressCollinear drops any intermediate point whose predecessor and
// successor make it redundant (all three lie on one line).
func compressCollinear(path []GridCell) []GridCell {
	if len(path) <= 2 {
		return path
	}
	out := make([]GridCell, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path)-1; i++ {
		a, b, c := path[i-1], path[i], path[i+1]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross != 0 {
			out = append(out, b)
		}
	}
	out = append(out, path[len(path)-1])
	return out
}

// pruneLineOfSight removes intermediate waypoints that a straight
// Bresenham line, tested against the entity-sized blocked test, could
// skip over entirely. An anchor walks forward; whenever the next point
// loses line-of-sight from the anchor, the prior point is kept and
// becomes the new anchor.
func (g *GridPathfinder) pruneLineOfSight(path []GridCell) []GridCell {
	if len(path) <= 2 {
		return path
	}
	out := make([]GridCell, 0, len(path))
	anchor := 0
	out = append(out, path[anchor])
	for i := 2; i < len(path); i++ {
		if !g.hasLineOfSight(path[anchor], path[i]) {
			out = append(out, path[i-1])
			anchor = i - 1
		}
	}
	out = append(out, path[len(path)-1])
	return out
}

// hasLineOfSight walks a Bresenham line between two grid cells and
// reports whether every cell it crosses is unblocked (entity-sized test).
func (g *GridPathfinder) hasLineOfSight(a, b GridCell) bool {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if g.blockedFootprint(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
