// Package scenario persists filter snapshots into three fixed slots.
package scenario

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jask/scenariopanel/internal/catalog"
)

// SlotID identifies one of the three scenario slots.
type SlotID int

const SlotCount = 3

// Slots lists the slot ids in display order.
var Slots = [SlotCount]SlotID{1, 2, 3}

func (s SlotID) Valid() bool { return s >= 1 && s <= SlotCount }

// Index is the zero-based position of the slot.
func (s SlotID) Index() int { return int(s) - 1 }

// Key is the store key a slot's snapshot lives under.
func Key(slot SlotID) string {
	return fmt.Sprintf("scenario_%d", slot)
}

// SlotState is Empty until a scenario is saved into the slot.
type SlotState int

const (
	Empty SlotState = iota
	Filled
)

func (s SlotState) String() string {
	if s == Filled {
		return "filled"
	}
	return "empty"
}

// Snapshot is the full filter value list at save time.
type Snapshot []catalog.Value

// Clone deep-copies the snapshot so callers can't alias value pointers.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i, v := range s {
		out[i] = catalog.Value{ID: v.ID}
		if v.Value != nil {
			out[i].Value = catalog.Ptr(*v.Value)
		}
	}
	return out
}

var (
	ErrInvalidSlot     = errors.New("scenario slot must be 1, 2 or 3")
	ErrCorruptSnapshot = errors.New("stored scenario is not a valid snapshot")
)

// Repository saves, loads and clears slot snapshots.
type Repository interface {
	Save(ctx context.Context, slot SlotID, snap Snapshot) error
	// Load returns ok=false without error when the slot holds nothing.
	Load(ctx context.Context, slot SlotID) (snap Snapshot, ok bool, err error)
	Clear(ctx context.Context, slot SlotID) error
}

func checkSlot(slot SlotID) error {
	if !slot.Valid() {
		return errors.Wrapf(ErrInvalidSlot, "slot %d", slot)
	}
	return nil
}
