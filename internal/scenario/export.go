package scenario

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jask/scenariopanel/internal/catalog"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Item is a named, non-null filter value of a saved scenario.
type Item struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ExportedSlot is one slot as written by Export.
type ExportedSlot struct {
	Slot  int    `json:"slot" yaml:"slot"`
	State string `json:"state" yaml:"state"`
	Items []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Items joins a snapshot with the catalog. Unset values and ids the catalog doesn't know are skipped.
func Items(c catalog.Catalog, snap Snapshot) []Item {
	var out []Item
	for _, v := range snap {
		if v.Value == nil || *v.Value == "" {
			continue
		}
		def, ok := c.Lookup(v.ID)
		if !ok {
			continue
		}
		out = append(out, Item{Name: def.Name, Value: *v.Value})
	}
	return out
}

// Export writes all slots in the given format (yaml or json).
func Export(w io.Writer, format string, c catalog.Catalog, states [SlotCount]SlotState, snaps [SlotCount]Snapshot) error {
	slots := make([]ExportedSlot, 0, SlotCount)
	for _, id := range Slots {
		i := id.Index()
		slots = append(slots, ExportedSlot{
			Slot:  int(id),
			State: states[i].String(),
			Items: Items(c, snaps[i]),
		})
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(slots), "encode json")
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(slots); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		return errors.Errorf("unknown export format %q", format)
	}
}
