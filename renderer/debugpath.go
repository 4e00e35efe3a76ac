// Package renderer draws optional visual overlays over the steering
// core's state via raylib. Nothing in this package feeds back into
// agent behavior — it is a pure consumer of nav.DebugDraw and the
// worldadapter/steering state, the same one-way relationship the
// original water/flow overlays have to the simulation they visualize.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/autonomy/components"
)

// DebugPathRenderer implements nav.DebugDraw: it remembers the last
// path CollisionMap computed and the grid it was computed over, and
// draws both on request.
type DebugPathRenderer struct {
	points                []components.Vec2
	gridWidth, gridHeight int
	cellSize              float32
	originX, originY      float32

	PathColor rl.Color
	GridColor rl.Color
	ShowGrid  bool
}

// NewDebugPathRenderer creates a renderer with sensible default colors.
func NewDebugPathRenderer() *DebugPathRenderer {
	return &DebugPathRenderer{
		PathColor: rl.Yellow,
		GridColor: rl.Color{R: 80, G: 80, B: 80, A: 120},
	}
}

// SetDebugPath implements nav.DebugDraw.
func (r *DebugPathRenderer) SetDebugPath(points []components.Vec2, gridWidth, gridHeight int, cellSize float32, originX, originY float32) {
	r.points = points
	r.gridWidth, r.gridHeight = gridWidth, gridHeight
	r.cellSize = cellSize
	r.originX, r.originY = originX, originY
}

// Draw renders the last known path and, if ShowGrid is set, the
// pathfinding grid lines. Call between rl.BeginDrawing/EndDrawing.
func (r *DebugPathRenderer) Draw() {
	if r.ShowGrid && r.cellSize > 0 {
		r.drawGrid()
	}
	for i := 0; i+1 < len(r.points); i++ {
		a, b := r.points[i], r.points[i+1]
		rl.DrawLineEx(rl.Vector2{X: a.X, Y: a.Y}, rl.Vector2{X: b.X, Y: b.Y}, 2, r.PathColor)
	}
	for _, p := range r.points {
		rl.DrawCircleLines(int32(p.X), int32(p.Y), 3, r.PathColor)
	}
}

func (r *DebugPathRenderer) drawGrid() {
	for x := 0; x <= r.gridWidth; x++ {
		wx := r.originX + float32(x)*r.cellSize
		rl.DrawLine(int32(wx), int32(r.originY), int32(wx), int32(r.originY+float32(r.gridHeight)*r.cellSize), r.GridColor)
	}
	for y := 0; y <= r.gridHeight; y++ {
		wy := r.originY + float32(y)*r.cellSize
		rl.DrawLine(int32(r.originX), int32(wy), int32(r.originX+float32(r.gridWidth)*r.cellSize), int32(wy), r.GridColor)
	}
}
