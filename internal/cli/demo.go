package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bailus/pinpoint/pkg/config"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/overlay"
	"github.com/bailus/pinpoint/pkg/viewport"
)

// demoCommand creates the demo command: an interactive terminal map showing
// live placement.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		lng  float64
		lat  float64
		zoom float64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Explore placements on an interactive terminal map",
		Long: `Explore placements on an interactive terminal map.

An overlay is anchored to a geographic coordinate on a panning, zooming
terminal map. Watch the anchor flip as the overlay approaches viewport
edges, the longitude wrap as the camera crosses the antimeridian, and the
occlusion state change in globe preview.

Keys:
  arrows/hjkl  pan the camera (move the pointer in pointer mode)
  +/-          zoom in / out
  p            toggle pointer tracking
  g            toggle globe preview
  q            quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lng") {
				cfg.Demo.Lng = lng
			}
			if cmd.Flags().Changed("lat") {
				cfg.Demo.Lat = lat
			}
			if cmd.Flags().Changed("zoom") {
				cfg.Demo.Zoom = zoom
			}
			return c.runDemo(cfg.Demo)
		},
	}

	cmd.Flags().Float64Var(&lng, "lng", 0, "initial overlay longitude")
	cmd.Flags().Float64Var(&lat, "lat", 30, "initial overlay latitude")
	cmd.Flags().Float64Var(&zoom, "zoom", 2, "initial zoom level")

	return cmd
}

// runDemo starts the bubbletea program.
func (c *CLI) runDemo(cfg config.Demo) error {
	m := newDemoModel(cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// DemoModel - Interactive placement explorer
// =============================================================================

// demoContent is the overlay box size in terminal cells.
var demoContent = geo.Size{Width: 18, Height: 5}

// placementState is shared between the engine callback and the model. The
// camera, engine, and this holder are pointers, so they survive bubbletea's
// value-copy update cycle.
type placementState struct {
	placement overlay.Placement
	have      bool
}

// demoModel is the bubbletea model for the placement explorer.
type demoModel struct {
	view  *viewport.Camera
	eng   *overlay.Engine
	state *placementState

	coord   geo.LngLat
	pointer bool
	cursor  geo.Point
	globe   bool

	cols, rows int
}

func newDemoModel(cfg config.Demo) demoModel {
	coord := geo.LngLat{Lng: cfg.Lng, Lat: cfg.Lat}
	view := viewport.New(coord, cfg.Zoom, 80, 24)

	state := &placementState{}
	eng := overlay.New(view, overlay.Options{
		Offset: overlay.RadiusOffset(1),
	})
	eng.OnPlacement(func(pl overlay.Placement) {
		state.placement = pl
		state.have = true
	})
	eng.Attach()
	eng.SetContentSize(demoContent.Width, demoContent.Height)
	eng.SetLngLat(coord)

	return demoModel{
		view:  view,
		eng:   eng,
		state: state,
		coord: coord,
		cols:  80,
		rows:  24,
	}
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			m.move(0, -2)
		case "down", "j":
			m.move(0, 2)
		case "left", "h":
			m.move(-4, 0)
		case "right", "l":
			m.move(4, 0)

		case "+", "=":
			m.view.SetZoom(m.view.Zoom() + 0.5)
		case "-", "_":
			m.view.SetZoom(m.view.Zoom() - 0.5)

		case "p":
			m.pointer = !m.pointer
			if m.pointer {
				m.state.have = false
				m.eng.TrackPointer()
				m.cursor = geo.Point{X: float64(m.cols) / 2, Y: float64(m.rows) / 2}
				m.eng.PointerMoved(m.cursor)
			} else {
				m.eng.SetLngLat(m.coord)
			}
			return m, nil

		case "g":
			m.globe = !m.globe
			m.view.SetGlobe(m.globe)
		}

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height - 3
		if m.rows < 8 {
			m.rows = 8
		}
		m.view.Resize(float64(m.cols), float64(m.rows))
	}
	return m, nil
}

// move pans the camera, or moves the pointer in pointer mode.
func (m *demoModel) move(dx, dy float64) {
	if m.pointer {
		m.cursor = m.cursor.Add(geo.Point{X: dx, Y: dy})
		m.eng.PointerMoved(m.cursor)
		return
	}
	m.view.PanBy(dx, dy)
}

func (m demoModel) View() string {
	grid := m.renderMap()
	m.renderOverlay(grid)

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows/hjkl pan  +/- zoom  p pointer  g globe  q quit"))
	return b.String()
}

// renderMap draws a graticule: meridians and parallels every 30 degrees.
func (m demoModel) renderMap() [][]rune {
	grid := make([][]rune, m.rows)
	for y := range grid {
		grid[y] = make([]rune, m.cols)
		for x := range grid[y] {
			coord := m.unproject(float64(x), float64(y))

			onMeridian := nearMultiple(coord.Wrapped().Lng, 30, m.lngStep())
			onParallel := math.Abs(coord.Lat) <= geo.MaxMercatorLat &&
				nearMultiple(coord.Lat, 30, m.latStep(coord.Lat))

			switch {
			case onMeridian && onParallel:
				grid[y][x] = '+'
			case onMeridian:
				grid[y][x] = '|'
			case onParallel:
				grid[y][x] = '-'
			default:
				grid[y][x] = ' '
			}
		}
	}
	return grid
}

// renderOverlay draws the anchored point and the overlay box into the grid.
func (m demoModel) renderOverlay(grid [][]rune) {
	if m.pointer {
		m.plot(grid, m.cursor.X, m.cursor.Y, '✛')
	} else {
		p := m.view.Project(m.eng.LngLat())
		m.plot(grid, p.X, p.Y, '✛')
	}

	if !m.state.have {
		return
	}
	pl := m.state.placement
	if pl.Opacity.Action == overlay.OpacitySet && pl.Opacity.Value == 0 {
		return
	}

	x0, y0 := boxOrigin(pl, demoContent)
	w, h := int(demoContent.Width), int(demoContent.Height)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			ch := ' '
			switch {
			case dy == 0 && dx == 0:
				ch = '┌'
			case dy == 0 && dx == w-1:
				ch = '┐'
			case dy == h-1 && dx == 0:
				ch = '└'
			case dy == h-1 && dx == w-1:
				ch = '┘'
			case dy == 0 || dy == h-1:
				ch = '─'
			case dx == 0 || dx == w-1:
				ch = '│'
			}
			m.plot(grid, x0+float64(dx), y0+float64(dy), ch)
		}
	}

	label := []rune(fmt.Sprintf(" %s ", pl.Anchor))
	for i, ch := range label {
		if i+2 < w-1 {
			m.plot(grid, x0+float64(i+2), y0+2, ch)
		}
	}
}

// boxOrigin computes the overlay box top-left from the anchored point: the
// anchor names which part of the box touches the point.
func boxOrigin(pl overlay.Placement, content geo.Size) (float64, float64) {
	name := string(pl.Anchor)
	x := pl.Pos.X - content.Width/2
	switch {
	case strings.Contains(name, "left"):
		x = pl.Pos.X
	case strings.Contains(name, "right"):
		x = pl.Pos.X - content.Width
	}

	y := pl.Pos.Y - content.Height/2
	switch {
	case strings.Contains(name, "top"):
		y = pl.Pos.Y
	case strings.Contains(name, "bottom"):
		y = pl.Pos.Y - content.Height
	}
	return x, y
}

func (m demoModel) plot(grid [][]rune, x, y float64, ch rune) {
	xi, yi := int(math.Round(x)), int(math.Round(y))
	if yi < 0 || yi >= len(grid) || xi < 0 || xi >= len(grid[yi]) {
		return
	}
	grid[yi][xi] = ch
}

// unproject maps a screen cell back to a geographic coordinate.
func (m demoModel) unproject(x, y float64) geo.LngLat {
	origin := geo.ProjectWorld(m.view.Center(), m.view.Zoom())
	size := m.view.Size()
	world := geo.Point{
		X: x + origin.X - size.Width/2,
		Y: y + origin.Y - size.Height/2,
	}
	return geo.UnprojectWorld(world, m.view.Zoom())
}

// lngStep returns the longitude span of one cell at the current zoom.
func (m demoModel) lngStep() float64 {
	return 360 / geo.WorldSize(m.view.Zoom())
}

// latStep returns the latitude span of one cell near lat.
func (m demoModel) latStep(lat float64) float64 {
	rad := lat * math.Pi / 180
	return m.lngStep() * math.Cos(rad)
}

// nearMultiple reports whether v lies within half a step of a multiple of n.
func nearMultiple(v, n, step float64) bool {
	r := math.Mod(math.Abs(v), n)
	if r > n/2 {
		r = n - r
	}
	return r <= step/2
}

func (m demoModel) statusLine() string {
	center := m.view.Center().Wrapped()
	mode := "geo"
	if m.pointer {
		mode = "pointer"
	}

	parts := []string{
		StyleHighlight.Render(mode),
		fmt.Sprintf("center %.1f,%.1f", center.Lng, center.Lat),
		fmt.Sprintf("zoom %.1f", m.view.Zoom()),
	}
	if m.globe {
		parts = append(parts, StyleWarning.Render("globe"))
	}
	if m.state.have {
		pl := m.state.placement
		parts = append(parts, "anchor "+StyleSuccess.Render(string(pl.Anchor)))
		if pl.Opacity.Action == overlay.OpacitySet {
			parts = append(parts, StyleWarning.Render("occluded"))
		}
	}
	return " " + strings.Join(parts, StyleDim.Render("  |  "))
}

var _ tea.Model = demoModel{}
