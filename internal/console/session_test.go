package console

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"spacecolony/internal/sim/catalogs"
	"spacecolony/internal/sim/colony"
	"spacecolony/internal/sim/ledger"
)

func newEngine(t *testing.T) *colony.Engine {
	t.Helper()
	led, err := ledger.Parse(strings.NewReader("wood 20\nstone 10\niron 4\n"))
	require.NoError(t, err)
	cat, err := catalogs.Parse(strings.NewReader("X 2 1\nY 1 0 1\nZ 0 2\nA 3 3 1\n"))
	require.NoError(t, err)
	e, err := colony.Bootstrap("--X-Y---Z", cat, led, colony.Options{})
	require.NoError(t, err)
	return e
}

func run(t *testing.T, e *colony.Engine, script string, showMenu bool) string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(e, NewInput(strings.NewReader(script)), &out, Options{ShowMenu: showMenu})
	require.NoError(t, s.Run())
	return out.String()
}

func TestSession_FullWalkthrough(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "1 Q X 8\n3\n2 Y\n5\n6\n7\n4\n9\n8\n", true)

	require.Contains(t, out, "1. Construct a new building on the colony\n")
	require.Contains(t, out, "8. Exit\n")
	require.Contains(t, out, "Building type Q is not found in the consumption catalog. Please enter a valid building type:\n")
	require.Contains(t, out, "Building of type X has been added at the empty block number: 8\n")
	require.Contains(t, out, "Colony:\nXYZX\n(2)X(1)Y(3)Z(1)X\n")
	require.Contains(t, out, "The building of type Y has been deleted from the colony.\n")
	require.Contains(t, out, "Colony:\n--X-----Z-X\n")
	require.Contains(t, out, "(Reverse) Colony:\nX-Z-----X--\n")
	require.Contains(t, out, "Stock:\nwood(16)\nstone(6)\niron(4)\n")
	require.Contains(t, out, "(Reverse) Colony:\nXZX\n")
	require.Contains(t, out, "Invalid choice 9.")
	require.True(t, strings.HasSuffix(out, "Clearing the memory and terminating the program.\n"))

	_, err := e.Construct('X', 1)
	require.ErrorIs(t, err, colony.ErrClosed)
}

func TestSession_InsufficientResourcesSkipsIndexPrompt(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "1 A 1 1 A 1 1 A 8", false)
	require.Equal(t, 2, strings.Count(out, "has been added"))
	require.Contains(t, out, "Insufficient resource stone\nFailed to add the building due to insufficient resources.\n")
	require.Equal(t, 2, strings.Count(out, "Please enter the index"))
}

func TestSession_InvalidIndex(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "construct X 0 build X abc quit", false)
	require.Contains(t, out, "Invalid index. The index must be a positive whole number.\n")
	require.Contains(t, out, "Invalid index abc.")
	require.NotContains(t, out, "has been added")
	require.Empty(t, e.Stock(), "engine should be released on exit")
}

func TestSession_DemolishMissing(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "2 A 2 XY 8", false)
	require.Contains(t, out, "Building of type A not found in the colony.\n")
	require.Contains(t, out, "Building of type XY not found in the colony.\n")
}

func TestSession_EndOfInputExits(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "3", false)
	require.Contains(t, out, "Colony:\nXYZ\n(2)X(1)Y(3)Z\n")
	require.True(t, strings.HasSuffix(out, "Clearing the memory and terminating the program.\n"))

	e = newEngine(t)
	out = run(t, e, "1 X", false)
	require.True(t, strings.HasSuffix(out, "Clearing the memory and terminating the program.\n"))
}

func TestPrintColony_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintColony(&buf, nil)
	require.Equal(t, "Colony:\nThe colony is empty.\n", buf.String())

	buf.Reset()
	PrintStock(&buf, nil)
	require.Equal(t, "The stock is empty.\n", buf.String())
}

func TestSession_IndexTooLarge(t *testing.T) {
	e := newEngine(t)
	out := run(t, e, "1 X 9223372036854775807 1 X 9999999999 7", false)
	require.Equal(t, 2, strings.Count(out, "Invalid index. The colony cannot grow by more than 1048576 empty blocks at once.\n"))
	require.Contains(t, out, "Stock:\nwood(17)\nstone(7)\niron(3)\n")
}

func TestLoadFile_RepromptsOnMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "stock.txt")
	bad := filepath.Join(dir, "bad.txt")
	missing := filepath.Join(dir, "nope.txt")
	require.NoError(t, os.WriteFile(good, []byte("wood 1\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("wood lots\n"), 0o644))

	var out bytes.Buffer
	in := NewInput(strings.NewReader(missing + "\n" + bad + "\n" + good + "\n"))
	led, err := LoadFile(in, &out, "stock", "", ledger.Parse)
	require.NoError(t, err)
	require.Equal(t, []ledger.Entry{{Name: "wood", Quantity: 1}}, led.Entries())
	require.Contains(t, out.String(), "Please enter the stock file name:\n")
	require.Contains(t, out.String(), "Unable to open the file "+missing+". Please enter the correct stock file name:\n")
	require.Contains(t, out.String(), "The file "+bad+" is not a valid stock file (stock: line 1:")
}

func TestLoadFile_GivenPath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "consumption.txt")
	require.NoError(t, os.WriteFile(good, []byte("X 1\n"), 0o644))
	var out bytes.Buffer
	cat, err := LoadFile(NewInput(strings.NewReader("")), &out, "consumption", good, catalogs.Parse)
	require.NoError(t, err)
	require.True(t, cat.Has('X'))
	require.Empty(t, out.String())

	_, err = LoadFile(NewInput(strings.NewReader("")), &out, "consumption", filepath.Join(dir, "missing"), catalogs.Parse)
	require.ErrorIs(t, err, io.EOF)
}
