package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultFleetSize        = 4
	DefaultForkliftCapacity = 1

	// Upper bounds accepted from a change request.
	MaxFleetSize        = 50
	MaxForkliftCapacity = 100

	// Every forklift may work during [0, 100].
	FleetShiftStart = 0
	FleetShiftEnd   = 100
)

// Fleet holds the forklifts available for a solve. All forklifts start and
// end at the depot.
type Fleet struct {
	Capacities []int
}

func NewFleet(size int, capacity int) (*Fleet, error) {
	if size < 1 {
		return nil, fmt.Errorf("new fleet: size must be positive, got %d", size)
	}
	if size > MaxFleetSize {
		return nil, fmt.Errorf("new fleet: size %d exceeds the maximum of %d forklifts", size, MaxFleetSize)
	}
	if err := checkCapacity(capacity); err != nil {
		return nil, fmt.Errorf("new fleet: %w", err)
	}

	caps := make([]int, size)
	for i := range caps {
		caps[i] = capacity
	}
	return &Fleet{Capacities: caps}, nil
}

// DefaultFleet returns four single-unit forklifts.
func DefaultFleet() *Fleet {
	f, _ := NewFleet(DefaultFleetSize, DefaultForkliftCapacity)
	return f
}

func (f *Fleet) Size() int { return len(f.Capacities) }

// SetCapacity overrides the capacity of every forklift.
func (f *Fleet) SetCapacity(capacity int) error {
	if err := checkCapacity(capacity); err != nil {
		return fmt.Errorf("set capacity: %w", err)
	}
	for i := range f.Capacities {
		f.Capacities[i] = capacity
	}
	return nil
}

// SetForkliftCapacity overrides the capacity of a single 1-based forklift.
func (f *Fleet) SetForkliftCapacity(forklift int, capacity int) error {
	if err := checkCapacity(capacity); err != nil {
		return fmt.Errorf("set capacity: %w", err)
	}
	if forklift < 1 || forklift > len(f.Capacities) {
		return fmt.Errorf("set capacity: forklift %d is not in a fleet of %d", forklift, len(f.Capacities))
	}
	f.Capacities[forklift-1] = capacity
	return nil
}

// Apply overrides size then capacity according to the requested changes.
// A size change rebuilds the fleet at the default capacity.
func (f *Fleet) Apply(changes FleetChanges) error {
	if changes.ModifyFleetSize.Needed {
		if changes.ModifyFleetSize.NewSize == nil {
			return errors.New("apply fleet changes: new_size is missing")
		}
		resized, err := NewFleet(*changes.ModifyFleetSize.NewSize, DefaultForkliftCapacity)
		if err != nil {
			return fmt.Errorf("apply fleet changes: %w", err)
		}
		f.Capacities = resized.Capacities
	}

	if changes.ModifyCapacity.Needed {
		c := changes.ModifyCapacity
		if c.NewCapacity == nil {
			return errors.New("apply fleet changes: new_capacity is missing")
		}
		var err error
		if c.ForkliftID != nil {
			err = f.SetForkliftCapacity(*c.ForkliftID, *c.NewCapacity)
		} else {
			err = f.SetCapacity(*c.NewCapacity)
		}
		if err != nil {
			return fmt.Errorf("apply fleet changes: %w", err)
		}
	}

	return nil
}

func checkCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if capacity > MaxForkliftCapacity {
		return fmt.Errorf("capacity %d exceeds the maximum of %d", capacity, MaxForkliftCapacity)
	}
	return nil
}
