package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
	"github.com/jask/scenariopanel/internal/store"
)

func newTestApp(t *testing.T) (*App, *panel.Panel, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	p := panel.New(catalog.Full(), scenario.NewKVRepository(mem), zerolog.Nop())
	require.NoError(t, p.Init(ctx))
	return New(ctx, p, zerolog.Nop()), p, mem
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(key(k))
	}
}

func currentValue(t *testing.T, p *panel.Panel, id int) *string {
	t.Helper()
	v, ok := p.Value(id)
	require.True(t, ok)
	return v
}

func TestInitialViewShowsSaveButtons(t *testing.T) {
	a, _, _ := newTestApp(t)
	view := a.View()
	require.Contains(t, view, "Mortgage Calculator")
	require.Contains(t, view, "Select an option")
	require.Contains(t, view, "500000")
	for _, label := range []string{"Save scenario 1", "Save scenario 2", "Save scenario 3", "Clear scenarios"} {
		require.Contains(t, view, label)
	}
	require.NotContains(t, view, "Show scenario")
}

func TestChoiceCycling(t *testing.T) {
	a, p, _ := newTestApp(t)
	press(a, "right")
	require.Equal(t, "US Citizen / Permanent Resident", *currentValue(t, p, catalog.CitizenshipID))
	press(a, "right")
	require.Equal(t, "Non-Permanent Resident", *currentValue(t, p, catalog.CitizenshipID))
	press(a, "left", "left")
	require.Nil(t, currentValue(t, p, catalog.CitizenshipID))
	press(a, "enter")
	require.Equal(t, "US Citizen / Permanent Resident", *currentValue(t, p, catalog.CitizenshipID))
}

func TestSliderSteps(t *testing.T) {
	a, p, _ := newTestApp(t)
	press(a, "down", "down", "right", "right")
	require.Equal(t, "510000", *currentValue(t, p, catalog.LoanAmountID))
	press(a, "left")
	require.Equal(t, "505000", *currentValue(t, p, catalog.LoanAmountID))
	require.Contains(t, a.View(), "505000")
}

func TestSaveSlotTwoRelabelsOnlyThatButton(t *testing.T) {
	a, p, mem := newTestApp(t)
	press(a, "2")

	view := a.View()
	require.Contains(t, view, "Save scenario 1")
	require.Contains(t, view, "Show scenario 2")
	require.Contains(t, view, "Save scenario 3")
	require.Contains(t, view, "Loan Amount: 500000")
	require.Equal(t, scenario.Filled, p.SlotState(2))

	_, ok, err := mem.Get(context.Background(), "scenario_2")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNavigateToSlotAndLoad(t *testing.T) {
	a, p, _ := newTestApp(t)
	// rows: 3 filters, then slots 1..3, then clear
	press(a, "down", "down", "down", "down", "enter")
	require.Equal(t, scenario.Filled, p.SlotState(2))

	press(a, "up", "up", "right", "right")
	require.Equal(t, "510000", *currentValue(t, p, catalog.LoanAmountID))

	press(a, "down", "down", "enter")
	require.Equal(t, "500000", *currentValue(t, p, catalog.LoanAmountID))
	require.True(t, strings.Contains(a.View(), "scenario 2 loaded"))
}

func TestClearButton(t *testing.T) {
	a, p, _ := newTestApp(t)
	press(a, "right", "1", "3")
	require.Equal(t, scenario.Filled, p.SlotState(1))

	for i := 0; i < 10; i++ {
		press(a, "down")
	}
	press(a, "enter")
	for _, id := range scenario.Slots {
		require.Equal(t, scenario.Empty, p.SlotState(id))
	}
	require.Nil(t, currentValue(t, p, catalog.CitizenshipID))
	require.Contains(t, a.View(), "scenarios cleared")
}

func TestCorruptSlotShowsError(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Put(ctx, "scenario_1", "nope"))
	p := panel.New(catalog.Full(), scenario.NewKVRepository(mem), zerolog.Nop())
	require.NoError(t, p.Init(ctx))
	a := New(ctx, p, zerolog.Nop())

	press(a, "1")
	require.Contains(t, a.View(), "error:")
}

func TestQuit(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
