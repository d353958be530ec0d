package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficient  = errors.New("insufficient resource")
	ErrRecipeTooLong = errors.New("recipe longer than stock")
)

// Entry is one stock line. Its position in the ledger is what recipe
// vectors refer to.
type Entry struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// ShortfallError names the first resource a recipe cannot be paid from.
type ShortfallError struct {
	Resource string
	Position int
	Have     int
	Need     int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient resource %s: have %d need %d", e.Resource, e.Have, e.Need)
}

func (e *ShortfallError) Unwrap() error { return ErrInsufficient }

// Ledger is an ordered resource stock. It never grows or shrinks after
// construction; only quantities change.
type Ledger struct {
	entries []Entry
	index   map[string]int
}

func New(entries []Entry) (*Ledger, error) {
	l := &Ledger{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("entry %d: empty resource name", i)
		}
		if e.Quantity < 0 {
			return nil, fmt.Errorf("entry %d (%s): negative quantity %d", i, name, e.Quantity)
		}
		if _, dup := l.index[name]; dup {
			return nil, fmt.Errorf("entry %d: duplicate resource %s", i, name)
		}
		l.index[name] = i
		l.entries = append(l.entries, Entry{Name: name, Quantity: e.Quantity})
	}
	return l, nil
}

func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns a copy in ledger order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Quantity looks a resource up by name.
func (l *Ledger) Quantity(name string) (int, bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, false
	}
	return l.entries[i].Quantity, true
}

// Check walks recipe and stock in lock-step and reports the first position
// that cannot be paid. It never mutates.
func (l *Ledger) Check(recipe []int) error {
	if len(recipe) > len(l.entries) {
		return fmt.Errorf("%w: %d positions, stock has %d", ErrRecipeTooLong, len(recipe), len(l.entries))
	}
	for i, need := range recipe {
		if have := l.entries[i].Quantity; have < need {
			return &ShortfallError{Resource: l.entries[i].Name, Position: i, Have: have, Need: need}
		}
	}
	return nil
}

// Deduct pays a recipe. The whole vector is checked before the first
// quantity changes, so a failed call leaves the ledger untouched.
func (l *Ledger) Deduct(recipe []int) error {
	if err := l.Check(recipe); err != nil {
		return err
	}
	for i, need := range recipe {
		l.entries[i].Quantity -= need
	}
	return nil
}

// Refund adds a recipe back, stopping at whichever of recipe or stock ends
// first. It returns how many positions were credited.
func (l *Ledger) Refund(recipe []int) int {
	n := len(recipe)
	if n > len(l.entries) {
		n = len(l.entries)
	}
	for i := 0; i < n; i++ {
		l.entries[i].Quantity += recipe[i]
	}
	return n
}

func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		entries: l.Entries(),
		index:   make(map[string]int, len(l.index)),
	}
	for k, v := range l.index {
		c.index[k] = v
	}
	return c
}

// Reset drops every entry.
func (l *Ledger) Reset() {
	l.entries = nil
	l.index = map[string]int{}
}
