package nav

import (
	"math"
	"testing"
)

func clearGrid(w, h int) *GridPathfinder {
	g := NewGridPathfinder(w, h, 1, 1)
	blocked := make([]bool, w*h)
	weight := make([]int, w*h)
	for i := range weight {
		weight[i] = 1
	}
	g.SetTileMap(blocked, weight)
	return g
}

func TestNewPathStraightLine(t *testing.T) {
	g := clearGrid(10, 10)
	path := g.NewPath(0, 0, 9, 0)
	if len(path) < 2 {
		t.Fatalf("expected at least 2 waypoints, got %d", len(path))
	}
	if path[0] != (GridCell{0, 0}) {
		t.Errorf("expected path to start at (0,0), got %v", path[0])
	}
	if path[len(path)-1] != (GridCell{9, 0}) {
		t.Errorf("expected path to end at (9,0), got %v", path[len(path)-1])
	}
}

func TestNewPathSameCell(t *testing.T) {
	g := clearGrid(5, 5)
	path := g.NewPath(2, 2, 2, 2)
	if len(path) != 1 || path[0] != (GridCell{2, 2}) {
		t.Fatalf("expected single-cell path at (2,2), got %v", path)
	}
}

func TestNewPathBlockedGoalFails(t *testing.T) {
	g := clearGrid(5, 5)
	blocked := make([]bool, 25)
	blocked[2*5+2] = true
	weight := make([]int, 25)
	for i := range weight {
		weight[i] = 1
	}
	g.SetTileMap(blocked, weight)

	path := g.NewPath(0, 0, 2, 2)
	if path != nil {
		t.Fatalf("expected nil path to blocked goal, got %v", path)
	}
}

// TestNewPathAroundWall covers a 5x5 grid with a wall blocking column 2
// at rows 0-2, start (0,2) goal (4,2). The path must cross column 2
// through the gap at (2,3) or (2,4), never cross the wall, and a direct
// straight-line path must be rejected. Compression and line-of-sight
// pruning may drop the waypoint on column 2 itself, so the crossing row
// is taken from the segment that spans it.
func TestNewPathAroundWall(t *testing.T) {
	w, h := 5, 5
	blocked := make([]bool, w*h)
	for y := 0; y <= 2; y++ {
		blocked[y*w+2] = true
	}
	weight := make([]int, w*h)
	for i := range weight {
		weight[i] = 1
	}
	g := NewGridPathfinder(w, h, 1, 1)
	g.SetTileMap(blocked, weight)

	path := g.NewPath(0, 2, 4, 2)
	if len(path) == 0 {
		t.Fatal("expected a path around the wall, got none")
	}

	sawGap := false
	for _, c := range path {
		if c.X == 2 && c.Y <= 2 {
			t.Fatalf("path crosses the wall at %v", c)
		}
		if c.X == 2 && (c.Y == 3 || c.Y == 4) {
			sawGap = true
		}
	}
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if a.X == b.X || (a.X-2)*(b.X-2) > 0 {
			continue
		}
		y := float64(a.Y) + float64(2-a.X)*float64(b.Y-a.Y)/float64(b.X-a.X)
		if row := int(math.Round(y)); row == 3 || row == 4 {
			sawGap = true
		}
	}
	if !sawGap {
		t.Errorf("expected path to pass through the gap at column 2, rows 3-4: %v", path)
	}

	for i := 0; i+1 < len(path); i++ {
		if !g.hasLineOfSight(path[i], path[i+1]) {
			t.Errorf("consecutive waypoints %v -> %v lack line of sight", path[i], path[i+1])
		}
	}
}

func TestNewPathNoRouteReturnsNil(t *testing.T) {
	w, h := 5, 5
	blocked := make([]bool, w*h)
	for x := 0; x < w; x++ {
		blocked[2*w+x] = true // full wall across row 2, no gap
	}
	weight := make([]int, w*h)
	for i := range weight {
		weight[i] = 1
	}
	g := NewGridPathfinder(w, h, 1, 1)
	g.SetTileMap(blocked, weight)

	path := g.NewPath(0, 0, 0, 4)
	if path != nil {
		t.Fatalf("expected nil path across a full wall, got %v", path)
	}
}

func TestNewPathIsDeterministic(t *testing.T) {
	w, h := 12, 12
	blocked := make([]bool, w*h)
	for y := 3; y < 9; y++ {
		blocked[y*w+6] = true
	}
	weight := make([]int, w*h)
	for i := range weight {
		weight[i] = 1
	}

	run := func() []GridCell {
		g := NewGridPathfinder(w, h, 1, 1)
		g.SetTileMap(append([]bool(nil), blocked...), append([]int(nil), weight...))
		return g.NewPath(0, 0, 11, 11)
	}

	first := run()
	for i := 0; i < 5; i++ {
		next := run()
		if len(first) != len(next) {
			t.Fatalf("non-deterministic path length: %d vs %d", len(first), len(next))
		}
		for j := range first {
			if first[j] != next[j] {
				t.Fatalf("non-deterministic path at index %d: %v vs %v", j, first[j], next[j])
			}
		}
	}
}

func TestNewPathNoCollinearTriples(t *testing.T) {
	g := clearGrid(20, 20)
	path := g.NewPath(0, 0, 19, 5)
	for i := 1; i+1 < len(path); i++ {
		a, b, c := path[i-1], path[i], path[i+1]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			t.Errorf("collinear triple at index %d: %v, %v, %v", i, a, b, c)
		}
	}
}

func TestPhytHeuristic(t *testing.T) {
	cases := []struct {
		ax, ay, bx, by int
		want           float32
	}{
		{0, 0, 5, 0, 50},
		{0, 0, 0, 5, 50},
		{0, 0, 5, 5, 70},
		{0, 0, 3, 7, 3*14 + 4*10},
	}
	for _, c := range cases {
		got := phyt(c.ax, c.ay, c.bx, c.by)
		if got != c.want {
			t.Errorf("phyt(%d,%d,%d,%d) = %v, want %v", c.ax, c.ay, c.bx, c.by, got, c.want)
		}
	}
}

func TestDiagonalCornerCuttingForbidden(t *testing.T) {
	w, h := 4, 4
	blocked := make([]bool, w*h)
	// Block the two cardinal cells around a diagonal step from (0,0) to (1,1).
	blocked[0*w+1] = true // (1,0)
	blocked[1*w+0] = true // (0,1)
	weight := make([]int, w*h)
	for i := range weight {
		weight[i] = 1
	}
	g := NewGridPathfinder(w, h, 1, 1)
	g.SetTileMap(blocked, weight)

	path := g.NewPath(0, 0, 1, 1)
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if absInt(a.X-b.X) == 1 && absInt(a.Y-b.Y) == 1 {
			if (a.X == 0 && a.Y == 0 && b.X == 1 && b.Y == 1) || (a.X == 1 && a.Y == 1 && b.X == 0 && b.Y == 0) {
				t.Errorf("path cut the corner directly from %v to %v", a, b)
			}
		}
	}
}
