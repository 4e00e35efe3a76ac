// Command demo is a small raylib harness that exercises the autonomy
// core: it spawns a flock of separating/aligning/cohering/obstacle-
// avoiding agents plus a lone wanderer around a handful of static
// obstacles, and renders the live pathfinding debug overlay for a
// follow-path agent navigating across the scene.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/autonomy/components"
	"github.com/pthm-cable/autonomy/config"
	"github.com/pthm-cable/autonomy/renderer"
	"github.com/pthm-cable/autonomy/steering"
	"github.com/pthm-cable/autonomy/telemetry"
	"github.com/pthm-cable/autonomy/worldadapter"
)

var (
	configPath   = flag.String("config", "", "Path to a YAML config overriding the embedded defaults")
	telemetryCSV = flag.String("telemetry", "", "Write per-tick agent telemetry to this CSV path (disabled if empty)")
	seed         = flag.Int64("seed", 1, "RNG seed for flock spawn positions")
	logWriter    *os.File
)

func logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

func main() {
	flag.Parse()
	config.MustInit(*configPath)
	cfg := config.Cfg()

	csvPath := *telemetryCSV
	if csvPath == "" {
		csvPath = cfg.Demo.TelemetryCSV
	}
	telem, err := telemetry.NewWriter(csvPath)
	if err != nil {
		logf("telemetry disabled: %v", err)
	}
	defer telem.Close()
	if csvPath != "" {
		if err := cfg.WriteYAML(csvPath + ".config.yaml"); err != nil {
			logf("config snapshot failed: %v", err)
		}
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "autonomy demo")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	world := worldadapter.NewWorld(float32(cfg.Nav.Accuracy))
	debugPath := renderer.NewDebugPathRenderer()
	debugPath.ShowGrid = true
	world.Grid().SetDebugDraw(debugPath)

	spawnObstacles(world, cfg)
	if err := world.RefreshGrid(); err != nil {
		logf("grid refresh failed: %v", err)
	}

	sys := steering.NewAgentSystem()
	rng := rand.New(rand.NewSource(*seed))

	leader := spawnFlockAgent(world, sys, rng, cfg)
	var avoidCtxs []*steering.SteeringContext
	for i := 0; i < cfg.Demo.AgentCount-1; i++ {
		a := spawnFlockAgent(world, sys, rng, cfg)
		a.AddContext(steering.NewSeparation("sep").WithSeparationRadius(float32(cfg.Behavior.SeparationRadius)).WithWeight(2).Build())
		a.AddContext(steering.NewAlignment("align").WithAlignmentRadius(float32(cfg.Behavior.AlignmentRadius)).Build())
		a.AddContext(steering.NewCohesion("coh").WithCohesionRadius(float32(cfg.Behavior.CohesionRadius)).WithWeight(0.5).Build())
		avoidCtx := steering.NewAvoidObstacles("avoid").
			WithAvoidanceDistance(float32(cfg.Behavior.AvoidanceDistance)).
			WithAvoidanceForce(float32(cfg.Behavior.AvoidanceForce)).
			WithWeight(3).Build()
		a.AddContext(avoidCtx)
		avoidCtxs = append(avoidCtxs, avoidCtx)
	}
	wanderCtx := steering.NewWander("wander").
		WithWanderParams(float32(cfg.Behavior.WanderRadius), float32(cfg.Behavior.WanderDistance), float32(cfg.Behavior.WanderJitter)).
		Build()
	leader.AddContext(wanderCtx)

	pathAgent := spawnFlockAgent(world, sys, rng, cfg)
	pathCtx := steering.NewFollowPath("follow", components.Vec2{X: float32(cfg.Screen.Width) - 40, Y: float32(cfg.Screen.Height) - 40}).Build()
	pathAgent.AddContext(pathCtx)

	sys.Tick(0, world) // drain initial registrations before the first real tick

	var tick int64
	showGUI := true
	maxForce := cfg.Derived.AgentMaxForce32
	wanderJitter := float32(cfg.Behavior.WanderJitter)
	avoidanceDistance := float32(cfg.Behavior.AvoidanceDistance)

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		sys.Tick(dt, world)
		tick++

		if telem != nil {
			agents := sys.Agents()
			records := make([]telemetry.TickRecord, 0, len(agents))
			for _, a := range agents {
				pos, vel := a.Transform.Position(), a.Transform.Velocity()
				records = append(records, telemetry.TickRecord{
					Tick:      tick,
					AgentID:   uint64(a.Handle()),
					PositionX: pos.X,
					PositionY: pos.Y,
					VelocityX: vel.X,
					VelocityY: vel.Y,
					Speed:     vel.Length(),
					ActiveCtx: len(a.Contexts()),
				})
			}
			if err := telem.Write(records); err != nil {
				logf("telemetry write failed: %v", err)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawObstacles(world)
		debugPath.Draw()
		drawAgents(sys)

		if showGUI {
			drawHUD(cfg, tick)
			rl.DrawText(fmt.Sprintf("max force %.0f", maxForce), 300, 10, 14, rl.Gray)
			maxForce = gui.SliderBar(rl.Rectangle{X: 300, Y: 28, Width: 160, Height: 20}, "100", "3000", maxForce, 100, 3000)
			rl.DrawText(fmt.Sprintf("wander jitter %.0f", wanderJitter), 300, 54, 14, rl.Gray)
			wanderJitter = gui.SliderBar(rl.Rectangle{X: 300, Y: 72, Width: 160, Height: 20}, "0", "100", wanderJitter, 0, 100)
			rl.DrawText(fmt.Sprintf("avoidance dist %.0f", avoidanceDistance), 300, 98, 14, rl.Gray)
			avoidanceDistance = gui.SliderBar(rl.Rectangle{X: 300, Y: 116, Width: 160, Height: 20}, "10", "300", avoidanceDistance, 10, 300)

			for _, a := range sys.Agents() {
				a.MaxForce = maxForce
			}
			wanderCtx.WanderJitter = wanderJitter
			for _, ac := range avoidCtxs {
				ac.AvoidanceDistance = avoidanceDistance
			}
		}
		if gui.Button(rl.Rectangle{X: 10, Y: float32(cfg.Screen.Height) - 36, Width: 90, Height: 26}, "toggle HUD") {
			showGUI = !showGUI
		}

		rl.EndDrawing()
	}
}

func spawnObstacles(world *worldadapter.World, cfg *config.Config) {
	centerX, centerY := float32(cfg.Screen.Width)/2, float32(cfg.Screen.Height)/2
	world.SpawnBody(worldadapter.Position{X: centerX, Y: centerY}, worldadapter.ColliderShape{Kind: 1, Radius: 60})
	world.SpawnBody(worldadapter.Position{X: centerX - 220, Y: centerY + 120}, worldadapter.ColliderShape{Kind: 0, Width: 140, Height: 40})
	world.SpawnBody(worldadapter.Position{X: centerX + 220, Y: centerY - 120}, worldadapter.ColliderShape{Kind: 0, Width: 40, Height: 160})
}

func spawnFlockAgent(world *worldadapter.World, sys *steering.AgentSystem, rng *rand.Rand, cfg *config.Config) *steering.Agent {
	cx, cy := float32(cfg.Screen.Width)/2, float32(cfg.Screen.Height)/2
	radius := float32(cfg.Demo.SpawnRadius)
	x := cx + (rng.Float32()*2-1)*radius
	y := cy + (rng.Float32()*2-1)*radius

	entity := world.SpawnAgentBody(worldadapter.Position{X: x, Y: y}, worldadapter.ColliderShape{Kind: 1, Radius: 8})
	a := steering.NewAgent(world.Transform(entity))
	a.Speed = cfg.Derived.AgentSpeed32
	a.MaxForce = cfg.Derived.AgentMaxForce32
	a.Drag = cfg.Derived.AgentDrag32
	sys.Register(a)
	return a
}

func drawObstacles(world *worldadapter.World) {
	for _, c := range world.Colliders() {
		switch c.Kind {
		case components.ColliderCircle:
			rl.DrawCircleLines(int32(c.Center.X), int32(c.Center.Y), c.Radius, rl.DarkGray)
		default:
			rl.DrawRectangleLines(int32(c.Center.X-c.Width/2), int32(c.Center.Y-c.Height/2), int32(c.Width), int32(c.Height), rl.DarkGray)
		}
	}
}

func drawAgents(sys *steering.AgentSystem) {
	for _, a := range sys.Agents() {
		pos := a.Transform.Position()
		rl.DrawCircle(int32(pos.X), int32(pos.Y), 6, rl.Blue)
		forward := a.Forward().Scale(14)
		rl.DrawLine(int32(pos.X), int32(pos.Y), int32(pos.X+forward.X), int32(pos.Y+forward.Y), rl.Red)
	}
}

func drawHUD(cfg *config.Config, tick int64) {
	rl.DrawText(fmt.Sprintf("tick %d", tick), 10, 10, 18, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("agents %d", cfg.Demo.AgentCount), 10, 30, 18, rl.DarkGray)
}
