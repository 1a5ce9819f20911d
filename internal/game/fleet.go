package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
)

// FleetConfig maps ship length to the number of ships of that length.
type FleetConfig map[int]int

// DefaultFleet is the reference 10x10 fleet, 17 ship cells.
func DefaultFleet() FleetConfig {
	return FleetConfig{5: 1, 4: 1, 3: 2, 2: 1}
}

func (f FleetConfig) TotalCells() int {
	total := 0
	for l, n := range f {
		total += l * n
	}
	return total
}

func (f FleetConfig) TotalShips() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Lengths returns the configured ship lengths, longest first.
func (f FleetConfig) Lengths() []int {
	out := make([]int, 0, len(f))
	for l, n := range f {
		if n > 0 {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

func (f FleetConfig) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("%w: empty fleet", ErrConfiguration)
	}
	for l, n := range f {
		if l < 2 {
			return fmt.Errorf("%w: ship length %d below 2", ErrConfiguration, l)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative count for length %d", ErrConfiguration, l)
		}
	}
	if f.TotalCells() == 0 {
		return fmt.Errorf("%w: fleet has no ships", ErrConfiguration)
	}
	return nil
}

func (f FleetConfig) String() string {
	parts := make([]string, 0, len(f))
	for _, l := range f.Lengths() {
		parts = append(parts, strconv.Itoa(l)+":"+strconv.Itoa(f[l]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Fleet tracks how many ships of each length are still unaccounted for on
// one side. Counts only go down.
type Fleet struct {
	remaining *swiss.Map[int, int]
	lengths   []int
}

func NewFleet(cfg FleetConfig) *Fleet {
	f := &Fleet{
		remaining: swiss.NewMap[int, int](uint32(len(cfg))),
		lengths:   cfg.Lengths(),
	}
	for _, l := range f.lengths {
		f.remaining.Put(l, cfg[l])
	}
	return f
}

func (f *Fleet) Remaining(length int) int {
	n, _ := f.remaining.Get(length)
	return n
}

// Sink records one ship of the given length as destroyed.
func (f *Fleet) Sink(length int) {
	if n, ok := f.remaining.Get(length); ok && n > 0 {
		f.remaining.Put(length, n-1)
	}
}

// Lengths returns the tracked ship lengths, longest first.
func (f *Fleet) Lengths() []int { return f.lengths }

// Afloat is the number of ships not yet sunk.
func (f *Fleet) Afloat() int {
	total := 0
	f.remaining.Iter(func(_ int, n int) bool {
		total += n
		return false
	})
	return total
}

// Snapshot copies the remaining counts.
func (f *Fleet) Snapshot() FleetConfig {
	out := make(FleetConfig, f.remaining.Count())
	f.remaining.Iter(func(l int, n int) bool {
		out[l] = n
		return false
	})
	return out
}
