// Package panel is the filter panel state machine: current filter values plus three
// scenario slots mirrored into a scenario.Repository.
//
// A Panel is not safe for concurrent use. Callers serialize access.
package panel

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/scenario"
)

// Action is what Toggle did.
type Action string

const (
	ActionSaved  Action = "saved"
	ActionLoaded Action = "loaded"
)

// Row is a filter value joined with its definition.
type Row struct {
	Def   catalog.Definition
	Value *string
}

type Panel struct {
	catalog catalog.Catalog
	repo    scenario.Repository
	log     zerolog.Logger

	filters []catalog.Value
	states  [scenario.SlotCount]scenario.SlotState
	saved   [scenario.SlotCount]scenario.Snapshot
}

func New(c catalog.Catalog, repo scenario.Repository, log zerolog.Logger) *Panel {
	return &Panel{
		catalog: c,
		repo:    repo,
		log:     log.With().Str("component", "panel").Logger(),
		filters: c.Defaults(),
	}
}

func (p *Panel) Catalog() catalog.Catalog { return p.catalog }

// Init reads every slot once. A slot whose stored value can't be decoded counts as
// filled but has nothing cached.
func (p *Panel) Init(ctx context.Context) error {
	for _, id := range scenario.Slots {
		snap, ok, err := p.repo.Load(ctx, id)
		if errors.Is(err, scenario.ErrCorruptSnapshot) {
			p.log.Warn().Err(err).Int("slot", int(id)).Msg("stored scenario unreadable")
			p.states[id.Index()] = scenario.Filled
			p.saved[id.Index()] = nil
			continue
		}
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		p.states[id.Index()] = scenario.Filled
		p.saved[id.Index()] = snap
	}
	p.log.Debug().Interface("slots", p.states).Msg("panel initialised")
	return nil
}

// SetFilterValue replaces the value of every entry with filter id. An id not in the current
// list changes nothing. Values are not checked against the definition.
func (p *Panel) SetFilterValue(id int, value string) {
	p.setValue(id, catalog.Ptr(value))
	if def, ok := p.catalog.Lookup(id); ok {
		if s := catalog.Suggest(def, value); s != "" {
			p.log.Warn().Int("filter", id).Str("value", value).Str("suggestion", s).Msg("value is not one of the filter options")
		}
	}
}

// ClearFilterValue unsets filter id.
func (p *Panel) ClearFilterValue(id int) {
	p.setValue(id, nil)
}

func (p *Panel) setValue(id int, v *string) {
	for i := range p.filters {
		if p.filters[i].ID == id {
			p.filters[i].Value = v
		}
	}
}

// SaveScenario overwrites slot with the current filters.
func (p *Panel) SaveScenario(ctx context.Context, slot scenario.SlotID) error {
	snap := scenario.Snapshot(p.filters).Clone()
	if err := p.repo.Save(ctx, slot, snap); err != nil {
		return err
	}
	p.states[slot.Index()] = scenario.Filled
	p.saved[slot.Index()] = snap
	p.log.Info().Int("slot", int(slot)).Msg("scenario saved")
	return nil
}

// LoadScenario replaces the filters with the snapshot stored in slot. An empty slot is a no-op.
// The snapshot is taken as-is, including ids the catalog doesn't know.
func (p *Panel) LoadScenario(ctx context.Context, slot scenario.SlotID) error {
	snap, ok, err := p.repo.Load(ctx, slot)
	if err != nil {
		return err
	}
	if !ok {
		p.log.Debug().Int("slot", int(slot)).Msg("load of empty slot ignored")
		return nil
	}
	p.filters = []catalog.Value(snap.Clone())
	p.saved[slot.Index()] = snap
	p.log.Info().Int("slot", int(slot)).Msg("scenario loaded")
	return nil
}

// Toggle saves into an empty slot and loads a filled one.
func (p *Panel) Toggle(ctx context.Context, slot scenario.SlotID) (Action, error) {
	if !slot.Valid() {
		return "", errors.Wrapf(scenario.ErrInvalidSlot, "slot %d", slot)
	}
	if p.states[slot.Index()] == scenario.Filled {
		return ActionLoaded, p.LoadScenario(ctx, slot)
	}
	return ActionSaved, p.SaveScenario(ctx, slot)
}

// ClearScenarios empties every slot and resets the filters to the catalog defaults.
func (p *Panel) ClearScenarios(ctx context.Context) error {
	for _, id := range scenario.Slots {
		if err := p.repo.Clear(ctx, id); err != nil {
			return err
		}
		p.states[id.Index()] = scenario.Empty
		p.saved[id.Index()] = nil
	}
	p.filters = p.catalog.Defaults()
	p.log.Info().Msg("scenarios cleared")
	return nil
}

// Filters returns a copy of the current value list.
func (p *Panel) Filters() []catalog.Value {
	return []catalog.Value(scenario.Snapshot(p.filters).Clone())
}

// Value returns the current value of filter id and whether the id is present.
func (p *Panel) Value(id int) (*string, bool) {
	for _, f := range p.filters {
		if f.ID == id {
			return f.Value, true
		}
	}
	return nil, false
}

// Rows joins the current values with their definitions. Values whose id the catalog
// doesn't know are left out.
func (p *Panel) Rows() []Row {
	rows := make([]Row, 0, len(p.filters))
	for _, f := range p.filters {
		def, ok := p.catalog.Lookup(f.ID)
		if !ok {
			continue
		}
		rows = append(rows, Row{Def: def, Value: f.Value})
	}
	return rows
}

func (p *Panel) SlotState(slot scenario.SlotID) scenario.SlotState {
	if !slot.Valid() {
		return scenario.Empty
	}
	return p.states[slot.Index()]
}

func (p *Panel) SlotStates() [scenario.SlotCount]scenario.SlotState { return p.states }

// SlotLabel is the toggle button caption for slot.
func (p *Panel) SlotLabel(slot scenario.SlotID) string {
	if p.SlotState(slot) == scenario.Filled {
		return fmt.Sprintf("Show scenario %d", slot)
	}
	return fmt.Sprintf("Save scenario %d", slot)
}

// Saved returns the cached snapshot of slot, nil when none.
func (p *Panel) Saved(slot scenario.SlotID) scenario.Snapshot {
	if !slot.Valid() {
		return nil
	}
	return p.saved[slot.Index()].Clone()
}

func (p *Panel) SavedAll() [scenario.SlotCount]scenario.Snapshot {
	var out [scenario.SlotCount]scenario.Snapshot
	for i, s := range p.saved {
		out[i] = s.Clone()
	}
	return out
}

// SavedItems lists the non-null name/value pairs of slot's cached snapshot.
func (p *Panel) SavedItems(slot scenario.SlotID) []scenario.Item {
	if !slot.Valid() {
		return nil
	}
	return scenario.Items(p.catalog, p.saved[slot.Index()])
}
