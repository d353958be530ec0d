package catalogs

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"spacecolony/internal/sim/layout"
	"spacecolony/internal/sim/ledger"
)

var ErrBadBuildType = errors.New("bad building type")

// Catalog maps a building type to its recipe: units consumed per
// construction, by ledger position. Read-only once loaded.
type Catalog struct {
	order   []rune
	recipes map[rune][]int
	Digest  string
}

func New() *Catalog {
	return &Catalog{recipes: map[rune][]int{}}
}

// Add registers a recipe. The vector is copied.
func (c *Catalog) Add(buildType rune, recipe []int) error {
	if err := ValidBuildType(buildType); err != nil {
		return err
	}
	if _, dup := c.recipes[buildType]; dup {
		return fmt.Errorf("duplicate building type %q", buildType)
	}
	v := make([]int, len(recipe))
	for i, q := range recipe {
		if q < 0 {
			return fmt.Errorf("building %q: negative quantity at position %d", buildType, i)
		}
		v[i] = q
	}
	c.recipes[buildType] = v
	c.order = append(c.order, buildType)
	return nil
}

// Recipe returns a copy of the recipe for buildType.
func (c *Catalog) Recipe(buildType rune) ([]int, bool) {
	r, ok := c.recipes[buildType]
	if !ok {
		return nil, false
	}
	out := make([]int, len(r))
	copy(out, r)
	return out, true
}

func (c *Catalog) Has(buildType rune) bool {
	_, ok := c.recipes[buildType]
	return ok
}

// Types lists building types in load order.
func (c *Catalog) Types() []rune {
	out := make([]rune, len(c.order))
	copy(out, c.order)
	return out
}

// CheckLedger fails when any recipe is longer than a ledger of n entries.
func (c *Catalog) CheckLedger(n int) error {
	for _, t := range c.order {
		if len(c.recipes[t]) > n {
			return fmt.Errorf("building %q: %w (%d positions, stock has %d)", t, ledger.ErrRecipeTooLong, len(c.recipes[t]), n)
		}
	}
	return nil
}

// ValidBuildType rejects the empty marker, whitespace and control runes.
func ValidBuildType(r rune) error {
	switch {
	case r == layout.Gap:
		return fmt.Errorf("%w: %q is the empty block marker", ErrBadBuildType, r)
	case r == utf8.RuneError, unicode.IsSpace(r), unicode.IsControl(r):
		return fmt.Errorf("%w: %q", ErrBadBuildType, r)
	}
	return nil
}

// Parse reads consumption lines "<type> <qty> <qty> ...". The type must be a
// single character.
func Parse(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("consumption: %w", err)
	}
	c := New()
	c.Digest = sha256Hex(raw)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if utf8.RuneCountInString(fields[0]) != 1 {
			return nil, fmt.Errorf("consumption: line %d: building type %q must be one character", line, fields[0])
		}
		bt, _ := utf8.DecodeRuneInString(fields[0])
		recipe := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			q, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("consumption: line %d: %w", line, err)
			}
			recipe = append(recipe, q)
		}
		if err := c.Add(bt, recipe); err != nil {
			return nil, fmt.Errorf("consumption: line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("consumption: %w", err)
	}
	return c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
