package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/service/importer"
)

const (
	columnWidth  = 28
	colorMuted   = "#8A8A8A"
	colorAccent  = "#7C3AED"
	colorDefault = "#CCCCCC"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
)

// column is one rendered lane: a header and its card lines.
type column struct {
	name  string
	color string
	lines []string
}

func renderColumns(cols []column) string {
	blocks := make([]string, len(cols))
	for i, c := range cols {
		color := c.color
		if color == "" {
			color = colorDefault
		}
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Render(fmt.Sprintf("%s (%d)", c.name, len(c.lines)))

		body := mutedStyle.Render("vazio")
		if len(c.lines) > 0 {
			body = strings.Join(c.lines, "\n")
		}

		blocks[i] = lipgloss.NewStyle().
			Width(columnWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(color)).
			Render(header + "\n\n" + body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// RenderBoard draws a persisted board, one lane per column in position
// order.
func RenderBoard(b domain.Board) string {
	cols := append([]domain.Column(nil), b.Columns...)
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })

	byColumn := make(map[string][]domain.Card)
	for _, c := range b.Cards {
		byColumn[c.ColumnID] = append(byColumn[c.ColumnID], c)
	}

	lanes := make([]column, len(cols))
	for i, col := range cols {
		cards := byColumn[col.ID]
		sort.Slice(cards, func(a, b int) bool { return cards[a].Position < cards[b].Position })
		lines := make([]string, len(cards))
		for j, c := range cards {
			lines[j] = fmt.Sprintf("• %s %s", c.Title, mutedStyle.Render(fmt.Sprintf("+%d", c.Points)))
		}
		lanes[i] = column{name: col.Name, color: col.Color, lines: lines}
	}
	return titleStyle.Render("Quadro") + "\n" + renderColumns(lanes)
}

// RenderPreview draws an imported project file grouped by initial status.
func RenderPreview(d *domain.ProjectData) string {
	var lanes []column
	for _, tpl := range domain.DefaultColumns() {
		cards := importer.CardsByStatus(d, domain.ImportStatus(tpl.Name))
		lines := make([]string, len(cards))
		for i, c := range cards {
			line := fmt.Sprintf("• %s [%s]", c.Titulo, c.Prioridade)
			if c.XP != nil {
				line += mutedStyle.Render(fmt.Sprintf(" +%d", *c.XP))
			}
			if len(c.Proximos) > 0 {
				line += mutedStyle.Render(" → " + strings.Join(c.Proximos, ", "))
			}
			lines[i] = line
		}
		lanes = append(lanes, column{name: tpl.Name, color: tpl.Color, lines: lines})
	}

	out := titleStyle.Render(fmt.Sprintf("Pré-visualização: %d cards", len(d.Cards)))
	if d.Instrucoes != "" {
		out += "\n" + mutedStyle.Render(d.Instrucoes)
	}
	return out + "\n" + renderColumns(lanes)
}
