package layout

import (
	"iter"
	"strconv"
	"strings"
)

// Gap is one unoccupied block in the flat form.
const Gap = '-'

// Entry is one building and the run of empty blocks immediately to its left.
type Entry struct {
	Type     rune `json:"type"`
	GapsLeft int  `json:"gaps_left"`
}

// Layout is the colony, left to right. A run of gaps after the last
// building has no entry.
type Layout []Entry

func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// Gaps counts every empty block in the layout.
func (l Layout) Gaps() int {
	n := 0
	for _, e := range l {
		n += e.GapsLeft
	}
	return n
}

// Width is the length of the flat form.
func (l Layout) Width() int { return l.Gaps() + len(l) }

// IndexOf returns the position of the first entry of type t, or -1.
func (l Layout) IndexOf(t rune) int {
	for i, e := range l {
		if e.Type == t {
			return i
		}
	}
	return -1
}

// RemoveFirst drops the first entry of type t. Its gaps plus the block it
// occupied fold into the next entry; if it was last they vanish with it.
// The receiver is not modified.
func (l Layout) RemoveFirst(t rune) (Layout, Entry, bool) {
	i := l.IndexOf(t)
	if i < 0 {
		return l, Entry{}, false
	}
	removed := l[i]
	out := make(Layout, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	if i < len(out) {
		out[i].GapsLeft += 1 + removed.GapsLeft
	}
	return out, removed, true
}

// Blocks yields the flat form one block at a time, position first. Each
// call starts a fresh walk.
func (l Layout) Blocks() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		pos := 0
		for _, e := range l {
			for k := 0; k < e.GapsLeft; k++ {
				if !yield(pos, Gap) {
					return
				}
				pos++
			}
			if !yield(pos, e.Type) {
				return
			}
			pos++
		}
	}
}

// Decode expands the layout to its flat form.
func Decode(l Layout) string {
	var b strings.Builder
	b.Grow(l.Width())
	for _, r := range l.Blocks() {
		b.WriteRune(r)
	}
	return b.String()
}

// Encode folds a flat string back into a layout. Dashes after the last
// building are dropped.
func Encode(flat string) Layout {
	var out Layout
	gaps := 0
	for _, r := range flat {
		if r == Gap {
			gaps++
			continue
		}
		out = append(out, Entry{Type: r, GapsLeft: gaps})
		gaps = 0
	}
	return out
}

// Forward renders "(2)X(1)Y(3)Z".
func (l Layout) Forward() string {
	var b strings.Builder
	for _, e := range l {
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(e.GapsLeft))
		b.WriteByte(')')
		b.WriteRune(e.Type)
	}
	return b.String()
}

// Types renders building types only, head to tail.
func (l Layout) Types() string {
	var b strings.Builder
	for _, e := range l {
		b.WriteRune(e.Type)
	}
	return b.String()
}

// ReverseTypes renders building types only, tail to head.
func (l Layout) ReverseTypes() string {
	var b strings.Builder
	for i := len(l) - 1; i >= 0; i-- {
		b.WriteRune(l[i].Type)
	}
	return b.String()
}

func (l Layout) Flat() string { return Decode(l) }

// FlatReverse is the flat form read right to left.
func (l Layout) FlatReverse() string {
	return reverse(Decode(l))
}

func reverse(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}
