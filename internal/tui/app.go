package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
)

const sliderWidth = 24

// App renders a panel.Panel and routes keys to its operations.
// The panel must already be initialised.
type App struct {
	ctx    context.Context
	panel  *panel.Panel
	log    zerolog.Logger
	cursor int
	status string
}

func New(ctx context.Context, p *panel.Panel, log zerolog.Logger) *App {
	return &App{ctx: ctx, panel: p, log: log.With().Str("component", "tui").Logger()}
}

// focus kinds, in screen order: filter rows, slot buttons, clear button
type focusKind int

const (
	focusFilter focusKind = iota
	focusSlot
	focusClear
)

type focus struct {
	kind focusKind
	row  int
	slot scenario.SlotID
}

func (a *App) focusables() []focus {
	rows := a.panel.Rows()
	out := make([]focus, 0, len(rows)+scenario.SlotCount+1)
	for i := range rows {
		out = append(out, focus{kind: focusFilter, row: i})
	}
	for _, id := range scenario.Slots {
		out = append(out, focus{kind: focusSlot, slot: id})
	}
	return append(out, focus{kind: focusClear})
}

func (a *App) current() focus {
	items := a.focusables()
	if a.cursor >= len(items) {
		a.cursor = len(items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	return items[a.cursor]
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch m.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j", "tab":
		if a.cursor < len(a.focusables())-1 {
			a.cursor++
		}
	case "left", "h":
		a.adjust(-1)
	case "right", "l":
		a.adjust(1)
	case "enter", " ":
		a.activate()
	case "1", "2", "3":
		n, _ := strconv.Atoi(m.String())
		a.toggle(scenario.SlotID(n))
	case "x":
		a.clear()
	}
	return a, nil
}

func (a *App) adjust(delta int) {
	f := a.current()
	if f.kind != focusFilter {
		return
	}
	row := a.panel.Rows()[f.row]
	switch row.Def.Kind {
	case catalog.KindChoice:
		next := catalog.CycleOption(row.Def, row.Value, delta)
		if next == nil {
			a.panel.ClearFilterValue(row.Def.ID)
		} else {
			a.panel.SetFilterValue(row.Def.ID, *next)
		}
	case catalog.KindRange:
		a.panel.SetFilterValue(row.Def.ID, catalog.StepRange(row.Value, delta))
	}
	a.status = ""
}

func (a *App) activate() {
	f := a.current()
	switch f.kind {
	case focusFilter:
		if a.panel.Rows()[f.row].Def.Kind == catalog.KindChoice {
			a.adjust(1)
		}
	case focusSlot:
		a.toggle(f.slot)
	case focusClear:
		a.clear()
	}
}

func (a *App) toggle(slot scenario.SlotID) {
	act, err := a.panel.Toggle(a.ctx, slot)
	if err != nil {
		a.log.Error().Err(err).Int("slot", int(slot)).Msg("toggle failed")
		a.status = "error: " + err.Error()
		return
	}
	a.status = fmt.Sprintf("scenario %d %s", slot, act)
}

func (a *App) clear() {
	if err := a.panel.ClearScenarios(a.ctx); err != nil {
		a.log.Error().Err(err).Msg("clear failed")
		a.status = "error: " + err.Error()
		return
	}
	a.cursor = 0
	a.status = "scenarios cleared"
}

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(14)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	activeStyle  = buttonStyle.BorderForeground(lipgloss.Color("#a6e3a1")).Foreground(lipgloss.Color("#a6e3a1"))
	clearStyle   = buttonStyle.BorderForeground(lipgloss.Color("#f38ba8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	focusedStyle = lipgloss.NewStyle().Reverse(true)
)

func (a *App) View() string {
	cur := a.current()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mortgage Calculator"))
	b.WriteString("\n\n")

	for i, row := range a.panel.Rows() {
		focused := cur.kind == focusFilter && cur.row == i
		b.WriteString(pointer(focused))
		b.WriteString(labelStyle.Render(row.Def.Name + ":"))
		b.WriteString(" ")
		b.WriteString(renderControl(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	buttons := make([]string, 0, scenario.SlotCount)
	for _, id := range scenario.Slots {
		buttons = append(buttons, a.renderSlot(id, cur.kind == focusSlot && cur.slot == id))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	b.WriteString("\n")

	clearLabel := clearStyle.Render("Clear scenarios")
	if cur.kind == focusClear {
		clearLabel = focusedStyle.Render(clearLabel)
	}
	b.WriteString(clearLabel)
	b.WriteString("\n")

	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("[↑/↓] move  [←/→] change  [enter] press  [1-3] scenario  [x] clear  [q] quit"))
	return b.String()
}

func pointer(focused bool) string {
	if focused {
		return cursorStyle.Render("> ")
	}
	return "  "
}

func renderControl(row panel.Row) string {
	switch row.Def.Kind {
	case catalog.KindRange:
		value := strconv.FormatInt(catalog.SliderDefault, 10)
		if row.Value != nil && *row.Value != "" {
			value = *row.Value
		}
		return fmt.Sprintf("%s %s", sliderBar(value), value)
	default:
		if row.Value == nil || *row.Value == "" {
			return mutedStyle.Render("‹ Select an option ›")
		}
		return "‹ " + *row.Value + " ›"
	}
}

func sliderBar(value string) string {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		n = catalog.SliderDefault
	}
	if n < catalog.SliderMin {
		n = catalog.SliderMin
	}
	if n > catalog.SliderMax {
		n = catalog.SliderMax
	}
	filled := int((n - catalog.SliderMin) * sliderWidth / (catalog.SliderMax - catalog.SliderMin))
	return "[" + strings.Repeat("=", filled) + "o" + strings.Repeat("-", sliderWidth-filled) + "]"
}

func (a *App) renderSlot(id scenario.SlotID, focused bool) string {
	style := buttonStyle
	if a.panel.SlotState(id) == scenario.Filled {
		style = activeStyle
	}
	label := style.Render(a.panel.SlotLabel(id))
	if focused {
		label = focusedStyle.Render(label)
	}
	lines := []string{label}
	for _, it := range a.panel.SavedItems(id) {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("• %s: %s", it.Name, it.Value)))
	}
	return lipgloss.NewStyle().MarginRight(2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
