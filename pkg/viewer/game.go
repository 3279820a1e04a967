// Package viewer draws the space flock with ebiten. It is a presentation
// collaborator: it ticks the world actor, reads the snapshots it pushes back
// and hands the camera to the world for the beam quads.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-space-flock/pkg/ui"
)

const (
	orbitSpeed = 0.02
	zoomStep   = 1.02
	panelWidth = 260
	// maxQuadsPerBatch keeps ribbon vertex indices within uint16.
	maxQuadsPerBatch = math.MaxUint16 / particles.VerticesPerRibbon
)

var background = color.RGBA{R: 5, G: 5, B: 15, A: 255}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	worldActor *simulation.WorldActor
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot

	cfg           simulation.Config
	camera        Camera
	width, height int

	paused bool

	// Tuning panel
	panel         *ui.Panel
	tuning        behavior.Tuning
	tuningDirty   bool
	bindings      []binding
	showGrid      *ui.Checkbox
	showObstacles *ui.Checkbox

	whiteImage *ebiten.Image
	vertices   []ebiten.Vertex
	indices    []uint16

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// binding ties a slider to the tuning field it edits.
type binding struct {
	slider *ui.Slider
	value  *float64
}

// NewGame spawns the world actor in system and returns a game ready for ebiten.RunGame.
func NewGame(ctx context.Context, system actor.ActorSystem, world *simulation.World, width, height int) (*Game, error) {
	// 1. Create Channels for communication
	snapshotCh := make(chan *simulation.WorldSnapshot, 10) // Buffer to avoid blocking

	// 2. Spawn World Actor
	worldActor := simulation.NewWorldActor(world, snapshotCh)
	worldPID, err := system.Spawn(ctx, "world", worldActor)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		worldActor: worldActor,
		snapshotCh: snapshotCh,
		lastState:  world.Snapshot(), // Avoid nil pointer
		cfg:        world.Config(),
		camera:     NewCamera(),
		width:      width,
		height:     height,
		tuning:     world.Tuning(),
		whiteImage: white,
	}
	g.buildPanel()
	return g, nil
}

// buildPanel lays out the tuning panel on the left of the window.
func (g *Game) buildPanel() {
	panel := ui.NewPanel(10, 10, panelWidth, float64(g.height)-40, "Flock Tuning")
	t := &g.tuning

	panel.AddSection("Steering Forces")
	g.bind(panel, "Seek", &t.Forces.Seek, 0, 100)
	g.bind(panel, "Alignment", &t.Forces.Alignment, 0, 100)
	g.bind(panel, "Separation", &t.Forces.Separation, 0, 100)
	g.bind(panel, "Collision", &t.Forces.Collision, 0, 200)
	g.bind(panel, "Cohesion", &t.Forces.Cohesion, 0, 100)
	g.bind(panel, "Wander", &t.Forces.Wander, 0, 50)

	panel.AddSection("Combat")
	g.bind(panel, "Fire Cooldown (s)", &t.FireCooldown, 0, 2)
	g.bind(panel, "Hit Chance", &t.HitChance, 0, 1).Format = "%.3f"

	panel.AddSection("Visualization")
	g.showGrid = panel.AddCheckbox("Show Grid", false)
	g.showObstacles = panel.AddCheckbox("Show Obstacles", true)
	panel.AddButton("Reset Tuning", g.resetTuning)

	g.panel = panel
}

func (g *Game) bind(panel *ui.Panel, label string, value *float64, min, max float64) *ui.Slider {
	s := panel.AddSlider(label, min, max, *value)
	s.OnChange = func(v float64) {
		*value = v
		g.tuningDirty = true
	}
	g.bindings = append(g.bindings, binding{slider: s, value: value})
	return s
}

// resetTuning goes back to the values the world was configured with.
func (g *Game) resetTuning() {
	g.tuning = g.cfg.Flock.Tuning()
	for _, b := range g.bindings {
		b.slider.Set(*b.value)
	}
	g.tuningDirty = true
}

// sendTuning forwards the panel values to the world actor once they changed.
func (g *Game) sendTuning() error {
	if !g.tuningDirty {
		return nil
	}
	msg, err := simulation.TuningMessage(g.tuning)
	if err != nil {
		return err
	}
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		return fmt.Errorf("failed to tune world: %w", err)
	}
	g.tuningDirty = false
	return nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	g.handleInput()
	g.panel.Update(ui.ReadPointer())
	if err := g.sendTuning(); err != nil {
		return err
	}

	// Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	if g.paused {
		return nil
	}

	g.worldActor.SetView(particles.NewView(g.camera.World()))
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	tick := time.Second / time.Duration(tps)
	if err := actor.Tell(g.ctx, g.worldPID, durationpb.New(tick)); err != nil {
		return fmt.Errorf("failed to tick world: %w", err)
	}
	return nil
}

func (g *Game) handleInput() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camera.Orbit(-orbitSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camera.Orbit(orbitSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camera.Orbit(0, orbitSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camera.Orbit(0, -orbitSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camera.Zoom(1 / zoomStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camera.Zoom(zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.showGrid.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.showObstacles.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Hidden = !g.panel.Hidden
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	proj := g.camera.projector(g.width, g.height)

	if g.showGrid.Value {
		g.drawGrid(screen, proj)
	}
	if g.showObstacles.Value {
		for _, o := range g.lastState.Obstacles {
			drawBox(screen, proj, o.Bounds, color.RGBA{R: 90, G: 90, B: 110, A: 255})
		}
	}
	for _, a := range g.lastState.Agents {
		drawAgent(screen, proj, a)
	}
	g.drawRibbons(screen, proj, g.lastState.Ribbons)
	drawPoints(screen, proj, g.lastState.Points)

	g.panel.Draw(screen)
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	state := "running"
	if g.paused {
		state = "paused"
	}
	msg := fmt.Sprintf("Step %d (%s)\nAgents: %d\nBeams: %d\nSparks: %d\n\nFPS: %.2f\nTPS: %.2f\nUpdate: %.2fms\nDraw:   %.2fms",
		g.lastState.Step, state,
		len(g.lastState.Agents),
		g.lastState.Ribbons.VertexCount()/particles.VerticesPerRibbon,
		g.lastState.Points.VertexCount()/particles.VerticesPerPoint,
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg)
	// Right side, clear of the panel
	ebitenutil.DebugPrintAt(screen, msg, g.width-160, 10)
	ebitenutil.DebugPrintAt(screen, "arrows: orbit  W/S: zoom  G: grid  O: obstacles  tab: panel  space: pause", 10, g.height-20)
}

func drawAgent(screen *ebiten.Image, proj projector, a simulation.AgentState) {
	x0, y0, w, ok := proj.Project(a.Position)
	if !ok {
		return
	}
	clr := toRGBA(a.Color)

	// Heading stroke, from the body toward the direction of flight
	if x1, y1, _, ok := proj.Project(a.Position.Add(a.Direction.Mul(4))); ok {
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
	}
	r := mgl32.Clamp(float32(300*a.Radius/w), 1, 4)
	vector.FillCircle(screen, float32(x0), float32(y0), r, clr, true)
}

// drawRibbons turns the beam mesh into screen triangles, skipping quads that
// cross the camera plane.
func (g *Game) drawRibbons(screen *ebiten.Image, proj projector, mesh particles.RibbonMesh) {
	op := &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendLighter}
	quads := mesh.VertexCount() / particles.VerticesPerRibbon

	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	flush := func() {
		if len(g.indices) > 0 {
			screen.DrawTriangles(g.vertices, g.indices, g.whiteImage, op)
		}
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
	}

	var quad [particles.VerticesPerRibbon]ebiten.Vertex
	for q := 0; q < quads; q++ {
		visible := true
		for k := range quad {
			v := q*particles.VerticesPerRibbon + k
			p := geometry.Vec3{
				float64(mesh.Positions[v*3]),
				float64(mesh.Positions[v*3+1]),
				float64(mesh.Positions[v*3+2]),
			}
			x, y, _, ok := proj.Project(p)
			if !ok {
				visible = false
				break
			}
			quad[k] = ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: 1, SrcY: 1,
				ColorR: clamp01(mesh.Colors[v*3]),
				ColorG: clamp01(mesh.Colors[v*3+1]),
				ColorB: clamp01(mesh.Colors[v*3+2]),
				ColorA: 1,
			}
		}
		if !visible {
			continue
		}

		base := uint16(len(g.vertices))
		g.vertices = append(g.vertices, quad[:]...)
		for _, i := range mesh.Indices[q*6 : q*6+6] {
			g.indices = append(g.indices, base+uint16(i-uint32(q*particles.VerticesPerRibbon)))
		}
		if len(g.vertices)/particles.VerticesPerRibbon >= maxQuadsPerBatch {
			flush()
		}
	}
	flush()
}

func drawPoints(screen *ebiten.Image, proj projector, mesh particles.PointMesh) {
	for i := 0; i < mesh.VertexCount(); i++ {
		p := geometry.Vec3{
			float64(mesh.Positions[i*3]),
			float64(mesh.Positions[i*3+1]),
			float64(mesh.Positions[i*3+2]),
		}
		x, y, w, ok := proj.Project(p)
		if !ok {
			continue
		}
		c := color.RGBA{
			R: uint8(255 * clamp01(mesh.Colors[i*3])),
			G: uint8(255 * clamp01(mesh.Colors[i*3+1])),
			B: uint8(255 * clamp01(mesh.Colors[i*3+2])),
			A: 200,
		}
		r := mgl32.Clamp(mesh.Sizes[i]*60/float32(w), 0.5, 6)
		vector.FillCircle(screen, float32(x), float32(y), r, c, true)
	}
}

func drawBox(screen *ebiten.Image, proj projector, b geometry.AABB, clr color.Color) {
	corners := b.Corners()
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		drawSegment(screen, proj, corners[e[0]], corners[e[1]], clr)
	}
}

// drawGrid outlines the spatial index footprint, one line every ten cells.
func (g *Game) drawGrid(screen *ebiten.Image, proj projector) {
	clr := color.RGBA{R: 30, G: 60, B: 40, A: 255}
	lo, hi := g.cfg.Grid.Min, g.cfg.Grid.Max
	y := lo[1]

	for c := 0; c <= g.cfg.Grid.Cols; c += 10 {
		x := geometry.LerpScalar(lo[0], hi[0], float64(c)/float64(g.cfg.Grid.Cols))
		drawSegment(screen, proj, geometry.Vec3{x, y, lo[2]}, geometry.Vec3{x, y, hi[2]}, clr)
	}
	for r := 0; r <= g.cfg.Grid.Rows; r += 10 {
		z := geometry.LerpScalar(lo[2], hi[2], float64(r)/float64(g.cfg.Grid.Rows))
		drawSegment(screen, proj, geometry.Vec3{lo[0], y, z}, geometry.Vec3{hi[0], y, z}, clr)
	}
}

func drawSegment(screen *ebiten.Image, proj projector, a, b geometry.Vec3, clr color.Color) {
	x0, y0, _, ok0 := proj.Project(a)
	x1, y1, _, ok1 := proj.Project(b)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
}

func (g *Game) Layout(w, h int) (int, int) { return g.width, g.height }

// toRGBA squeezes an HDR colour into 8 bits per channel.
func toRGBA(c particles.Color) color.RGBA {
	return color.RGBA{
		R: uint8(255 * clamp01(float32(c.R))),
		G: uint8(255 * clamp01(float32(c.G))),
		B: uint8(255 * clamp01(float32(c.B))),
		A: 255,
	}
}

func clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}
