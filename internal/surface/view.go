package surface

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sway/internal/params"
	"github.com/san-kum/sway/internal/scene"
	"github.com/san-kum/sway/internal/telemetry"
	"github.com/san-kum/sway/internal/viz"
)

func (m Model) View() string {
	mode := m.mode()
	ids := m.controls()
	cells := layout(ids, m.width)

	var b strings.Builder
	b.WriteString(m.titleLine(mode) + "\n")

	rows := stripRows(len(ids), m.width)
	for r := 0; r < rows; r++ {
		var blocks []string
		for i, c := range cells {
			if c.y != titleRows+r*cellHeight {
				continue
			}
			first := i == 0 || section(ids[i-1], mode) != section(c.id, mode) || cells[i-1].y != c.y
			blocks = append(blocks, m.knobCell(c.id, mode, i == min(m.focus, len(ids)-1), first))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, blocks...) + "\n")
	}

	b.WriteString(m.vizPanel(mode) + "\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(viz.KeyHint(m.theme).Render(" ←→ focus  ↑↓ adjust  JK coarse  m mode  s shape  b bypass  r reset  t theme  q quit"))
	return b.String()
}

func (m Model) titleLine(mode scene.Mode) string {
	pal := mode.Palette()
	title := " " + viz.GradientText("S W A Y", pal.Primary, pal.Secondary)
	title += "  " + viz.ModeStyle(mode).Bold(true).Render(strings.ToUpper(mode.String()))

	if bp := m.bank.Toggle(params.Bypass); bp != nil && bp.Value() {
		title += "  " + lipgloss.NewStyle().Bold(true).Foreground(m.theme.Bypass).Render("BYPASS")
	}
	return title
}

func (m Model) knobCell(id string, mode scene.Mode, focused, first bool) string {
	def := params.MustLookup(id)
	muted := viz.MutedStyle(m.theme)
	text := lipgloss.NewStyle().Foreground(m.theme.Text)
	accent := lipgloss.Color(mode.Palette().Primary.Hex())
	center := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)

	heading := ""
	if first {
		heading = section(id, mode)
	}

	label := text.Render(def.Name)
	if focused {
		label = lipgloss.NewStyle().Bold(true).Foreground(accent).Render(def.Name)
	}

	var dial string
	switch def.Kind {
	case params.Continuous:
		norm := m.springs[id].pos
		dial = lipgloss.NewStyle().Foreground(accent).Render(viz.KnobGlyph(norm)) + " " +
			viz.Meter(norm, cellWidth-4, accent, m.theme.Track)
	case params.Choice:
		dial = muted.Render("◂ ") + text.Render(fmt.Sprintf("%d/%d", int(m.value(id))+1, def.ChoiceCount())) + muted.Render(" ▸")
	case params.Toggle:
		if m.value(id) >= 0.5 {
			dial = lipgloss.NewStyle().Foreground(m.theme.Bypass).Render("■ ON")
		} else {
			dial = muted.Render("□ off")
		}
	}

	marker := ""
	if focused {
		marker = lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("▔", cellWidth-4))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(viz.TitleStyle(m.theme).Faint(true).Render(heading)),
		center.Render(label),
		center.Render(dial),
		center.Render(text.Render(def.Format(m.value(id)))),
		center.Render(marker),
	)
}

func (m Model) vizPanel(mode scene.Mode) string {
	w := max(24, min(m.width-4, 100))
	h := max(6, w/4)

	in := scene.InputsFrom(m.bank.Snapshot())
	var f telemetry.Frame
	if m.channel != nil {
		f = m.channel.Latest()
	}
	cmds := scene.Render(in, f)
	return viz.Panel(m.theme).BorderForeground(lipgloss.Color(mode.Palette().Primary.Hex())).Render(viz.RenderScene(cmds, w, h))
}

func (m Model) statusLine() string {
	muted := viz.MutedStyle(m.theme)
	src := "none"
	if m.channel != nil {
		src = m.channel.Source()
	}

	bound := lipgloss.NewStyle().Foreground(m.theme.Warning).Render("detached")
	if m.bank.Bound() {
		bound = lipgloss.NewStyle().Foreground(m.theme.Active).Render("bound")
	}

	spark := viz.SparklineChart(m.history, historyLen, -1, 1, lipgloss.Color(m.mode().Palette().Secondary.Hex()))
	return fmt.Sprintf(" %s %s  %s %s  %s %s  %s",
		muted.Render("host"), m.host,
		muted.Render("params"), bound,
		muted.Render("telemetry"), src,
		spark)
}
