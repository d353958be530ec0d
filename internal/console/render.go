package console

import (
	"fmt"
	"io"

	"spacecolony/internal/sim/layout"
	"spacecolony/internal/sim/ledger"
)

const emptyColony = "The colony is empty."

func PrintColony(w io.Writer, l layout.Layout) {
	fmt.Fprintln(w, "Colony:")
	if len(l) == 0 {
		fmt.Fprintln(w, emptyColony)
		return
	}
	fmt.Fprintln(w, l.Types())
	fmt.Fprintln(w, l.Forward())
}

func PrintColonyReverse(w io.Writer, l layout.Layout) {
	fmt.Fprintln(w, "(Reverse) Colony:")
	fmt.Fprintln(w, l.ReverseTypes())
}

func PrintExpanded(w io.Writer, l layout.Layout) {
	fmt.Fprintln(w, "Colony:")
	fmt.Fprintln(w, l.Flat())
}

func PrintExpandedReverse(w io.Writer, l layout.Layout) {
	fmt.Fprintln(w, "(Reverse) Colony:")
	fmt.Fprintln(w, l.FlatReverse())
}

// PrintStock writes one "name(quantity)" line per resource.
func PrintStock(w io.Writer, stock []ledger.Entry) {
	if len(stock) == 0 {
		fmt.Fprintln(w, "The stock is empty.")
		return
	}
	fmt.Fprintln(w, "Stock:")
	for _, e := range stock {
		fmt.Fprintf(w, "%s(%d)\n", e.Name, e.Quantity)
	}
}
