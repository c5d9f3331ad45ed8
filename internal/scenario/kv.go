package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/store"
)

// storedValue is one element of the JSON array kept under scenario_<n>.
// Older values also carry uiType, name and availableValues; those fields are ignored.
type storedValue struct {
	ID    int     `json:"id"`
	Value *string `json:"value"`
}

// KVRepository keeps snapshots as JSON strings in a store.Store.
type KVRepository struct {
	store store.Store
}

func NewKVRepository(s store.Store) *KVRepository {
	return &KVRepository{store: s}
}

func (r *KVRepository) Save(ctx context.Context, slot SlotID, snap Snapshot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	raw, err := Encode(snap)
	if err != nil {
		return err
	}
	return errors.Wrapf(r.store.Put(ctx, Key(slot), raw), "save slot %d", slot)
}

func (r *KVRepository) Load(ctx context.Context, slot SlotID) (Snapshot, bool, error) {
	if err := checkSlot(slot); err != nil {
		return nil, false, err
	}
	raw, ok, err := r.store.Get(ctx, Key(slot))
	if err != nil {
		return nil, false, errors.Wrapf(err, "load slot %d", slot)
	}
	if !ok {
		return nil, false, nil
	}
	snap, err := Decode(raw)
	if err != nil {
		return nil, true, errors.Wrapf(err, "slot %d", slot)
	}
	return snap, true, nil
}

func (r *KVRepository) Clear(ctx context.Context, slot SlotID) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return errors.Wrapf(r.store.Remove(ctx, Key(slot)), "clear slot %d", slot)
}

// Encode renders a snapshot in its stored JSON form. A nil snapshot encodes as [].
func Encode(snap Snapshot) (string, error) {
	out := make([]storedValue, 0, len(snap))
	for _, v := range snap {
		out = append(out, storedValue{ID: v.ID, Value: v.Value})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses a stored snapshot. Ids are not checked against any catalog.
func Decode(raw string) (Snapshot, error) {
	var in []storedValue
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "%v", err)
	}
	if in == nil {
		return nil, errors.Wrap(ErrCorruptSnapshot, "null snapshot")
	}
	snap := make(Snapshot, 0, len(in))
	for _, v := range in {
		snap = append(snap, catalog.Value{ID: v.ID, Value: v.Value})
	}
	return snap, nil
}
