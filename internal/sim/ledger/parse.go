package ledger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads stock lines of the form "<name> <quantity>". Blank lines are
// skipped; anything after the quantity is ignored.
func Parse(r io.Reader) (*Ledger, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("stock: line %d: want \"<name> <quantity>\"", line)
		}
		qty, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("stock: line %d: quantity: %w", line, err)
		}
		entries = append(entries, Entry{Name: fields[0], Quantity: qty})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	l, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	return l, nil
}
