package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/archive"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// Tile styles. Each cell is drawn two columns wide so it looks roughly square.
var (
	tileWall     = lipgloss.NewStyle().Foreground(colorStone)
	tileCorridor = lipgloss.NewStyle().Background(colorTorch)
	tileRooms    = []lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.Color("24")),
		lipgloss.NewStyle().Background(lipgloss.Color("29")),
		lipgloss.NewStyle().Background(lipgloss.Color("94")),
		lipgloss.NewStyle().Background(lipgloss.Color("54")),
		lipgloss.NewStyle().Background(lipgloss.Color("88")),
		lipgloss.NewStyle().Background(lipgloss.Color("23")),
	}
)

const (
	glyphWall  = "██"
	glyphFloor = "  "

	// Cell classes used while drawing; non-negative values are room indices.
	classWall     = -1
	classFloor    = -2
	classCorridor = -3
)

func (c *CLI) previewCommand() *cobra.Command {
	var params paramFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Explore dungeons interactively in the terminal",
		Long: `Open an interactive preview. Keys:

  r        new random seed
  n / p    next / previous seed
  + / -    grow / shrink the minimum room size
  o        toggle the room and corridor overlay
  s        save the current map to the archive
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.baseOptions(cmd, &params)
			model := newPreviewModel(opts.Params, opts.Seed, func(m *dungeon.Map) (string, error) {
				return c.archiveMap(ctx, m)
			})
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	addParamFlags(cmd, &params)
	return cmd
}

func (c *CLI) archiveMap(ctx context.Context, m *dungeon.Map) (string, error) {
	store, err := c.openArchive(ctx)
	if err != nil {
		return "", err
	}
	defer store.Close()
	rec := archive.NewRecord("", m)
	if err := store.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// =============================================================================
// previewModel - interactive dungeon preview
// =============================================================================

type previewModel struct {
	params  dungeon.Params
	seed    uint64
	current *dungeon.Map
	overlay bool
	status  string
	err     error
	save    func(*dungeon.Map) (string, error)

	// Terminal size; zero until the first WindowSizeMsg.
	width, height int
}

func newPreviewModel(params dungeon.Params, seed uint64, save func(*dungeon.Map) (string, error)) previewModel {
	m := previewModel{params: params.OrDefault(), seed: seed, save: save}
	m.regenerate()
	return m
}

func (m *previewModel) regenerate() {
	m.current, m.err = dungeon.Generate(m.params, m.seed)
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.seed = randomSeed()
		case "n":
			m.seed++
		case "p":
			if m.seed > 1 {
				m.seed--
			}
		case "+", "=":
			m.params.MinRoomSize++
		case "-":
			if m.params.MinRoomSize > 1 {
				m.params.MinRoomSize--
			}
		case "o":
			m.overlay = !m.overlay
			return m, nil
		case "s":
			m.status = m.saveCurrent()
			return m, nil
		default:
			return m, nil
		}
		m.regenerate()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m previewModel) saveCurrent() string {
	if m.save == nil || m.current == nil {
		return "archive unavailable"
	}
	id, err := m.save(m.current)
	if err != nil {
		return "save failed: " + err.Error()
	}
	return "saved " + id
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dungeon Preview"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %dx%d · seed %d · min room %d",
		m.params.Width, m.params.Height, m.seed, m.params.MinRoomSize)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderGrid())
		stats := m.current.Stats()
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d rooms · %d corridors · %.0f%% floor",
			stats.Rooms, stats.Corridors, stats.FloorRatio*100)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(StyleSuccess.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("r reseed  n/p next/prev  +/- min room  o overlay  s save  q quit"))
	return b.String()
}

// renderGrid draws the visible part of the map, merging runs of equal cells.
func (m previewModel) renderGrid() string {
	g := m.current.Grid
	cols, rows := g.Width(), g.Height()
	if m.width > 0 {
		cols = min(cols, m.width/2)
	}
	if m.height > 0 {
		rows = min(rows, max(m.height-6, 1))
	}

	classes := m.classify()
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; {
			class := classes[x][y]
			run := 1
			for x+run < cols && classes[x+run][y] == class {
				run++
			}
			b.WriteString(tileStyle(class).Render(strings.Repeat(tileGlyph(class), run)))
			x += run
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// classify labels every cell as wall, floor, corridor or a room index.
func (m previewModel) classify() [][]int {
	g := m.current.Grid
	classes := make([][]int, g.Width())
	for x := range classes {
		classes[x] = make([]int, g.Height())
		for y := range classes[x] {
			if g.At(x, y) == dungeon.Wall {
				classes[x][y] = classWall
			} else {
				classes[x][y] = classFloor
			}
		}
	}
	if !m.overlay {
		return classes
	}
	for _, c := range m.current.Corridors {
		for _, p := range c.Path {
			if g.InBounds(p.X, p.Y) {
				classes[p.X][p.Y] = classCorridor
			}
		}
	}
	for i, r := range m.current.Rooms {
		for x := r.X; x < r.X+r.Width; x++ {
			for y := r.Y; y < r.Y+r.Height; y++ {
				if g.InBounds(x, y) {
					classes[x][y] = i
				}
			}
		}
	}
	return classes
}

func tileStyle(class int) lipgloss.Style {
	switch {
	case class == classWall:
		return tileWall
	case class == classCorridor:
		return tileCorridor
	case class >= 0:
		return tileRooms[class%len(tileRooms)]
	}
	return lipgloss.NewStyle()
}

func tileGlyph(class int) string {
	if class == classWall {
		return glyphWall
	}
	return glyphFloor
}
