package planner

import (
	"errors"
	"fmt"
	"strings"

	"spacecolony/internal/sim/layout"
)

// MaxWidth bounds how many empty blocks a single construction may append
// past the right edge of the colony.
const MaxWidth = 1 << 20

var (
	ErrInvalidIndex  = errors.New("empty block index must be >= 1")
	ErrIndexTooLarge = errors.New("empty block index too far past the colony edge")
	ErrGapType       = errors.New("cannot place the empty block marker")
)

// CheckIndex validates index against a colony holding gaps empty blocks.
func CheckIndex(gaps, index int) error {
	if index < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidIndex, index)
	}
	if index-gaps > MaxWidth {
		return fmt.Errorf("%w: %d would append more than %d blocks", ErrIndexTooLarge, index, MaxWidth)
	}
	return nil
}

// Case says how a target index was satisfied.
type Case int

const (
	// Fill reuses an existing empty block; the flat width is unchanged.
	Fill Case = iota + 1
	// Extend appends empty blocks past the right edge and builds on the last one.
	Extend
)

func (c Case) String() string {
	switch c {
	case Fill:
		return "fill"
	case Extend:
		return "extend"
	default:
		return fmt.Sprintf("case(%d)", int(c))
	}
}

// Placement is the outcome of planning one construction.
type Placement struct {
	Index    int
	Case     Case
	Position int // rune offset of the new building in Flat
	Appended int // empty blocks added by Extend
	Flat     string
}

// Plan places buildType on the index-th empty block (1-based, counted left
// to right) of flat. When flat has fewer empty blocks than index, the
// missing ones are appended and the building takes the last of them.
func Plan(flat string, buildType rune, index int) (Placement, error) {
	blocks := []rune(flat)
	gaps := 0
	for _, r := range blocks {
		if r == layout.Gap {
			gaps++
		}
	}
	if err := CheckIndex(gaps, index); err != nil {
		return Placement{}, err
	}
	if buildType == layout.Gap {
		return Placement{}, ErrGapType
	}

	p := Placement{Index: index}
	if gaps >= index {
		p.Case = Fill
		seen := 0
		for i, r := range blocks {
			if r != layout.Gap {
				continue
			}
			seen++
			if seen == index {
				blocks[i] = buildType
				p.Position = i
				break
			}
		}
		p.Flat = string(blocks)
		return p, nil
	}

	p.Case = Extend
	p.Appended = index - gaps
	var b strings.Builder
	b.Grow(len(flat) + p.Appended + 4)
	b.WriteString(flat)
	b.WriteString(strings.Repeat(string(layout.Gap), p.Appended-1))
	b.WriteRune(buildType)
	p.Position = len(blocks) + p.Appended - 1
	p.Flat = b.String()
	return p, nil
}

// PlanLayout decodes l, plans the placement and re-encodes the result into
// a fresh layout. l is left untouched.
func PlanLayout(l layout.Layout, buildType rune, index int) (Placement, layout.Layout, error) {
	p, err := Plan(layout.Decode(l), buildType, index)
	if err != nil {
		return Placement{}, nil, err
	}
	return p, layout.Encode(p.Flat), nil
}
