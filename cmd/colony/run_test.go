package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T, stock, consumption, colony string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "stock.txt"),
		filepath.Join(dir, "consumption.txt"),
		filepath.Join(dir, "colony.txt"),
	}
	for i, body := range []string{stock, consumption, colony} {
		require.NoError(t, os.WriteFile(paths[i], []byte(body), 0o644))
	}
	return paths[0], paths[1], paths[2]
}

func TestRunColony_PromptsForFilesAndRunsMenu(t *testing.T) {
	s, c, col := writeInputs(t, "wood 20\nstone 10\niron 4\n", "X 2 1\nY 1 0 1\nZ 0 2\n", "--X-Y---Z\n")
	stdin := strings.NewReader(strings.Join([]string{s, c, "missing.txt", col, "1", "X", "1", "5", "7", "8"}, "\n"))
	var out, errOut bytes.Buffer

	err := runColony(runConfig{}, stdin, &out, &errOut)
	require.NoError(t, err)
	got := out.String()
	require.Contains(t, got, "Please enter the stock file name:\n")
	require.Contains(t, got, "Please enter the consumption file name:\n")
	require.Contains(t, got, "Unable to open the file missing.txt. Please enter the correct colony file name:\n")
	require.Contains(t, got, "Building of type X has been added at the empty block number: 1\n")
	require.Contains(t, got, "Colony:\nX-X-Y---Z\n")
	require.Contains(t, got, "Stock:\nwood(15)\nstone(6)\niron(3)\n")
	require.True(t, strings.HasSuffix(got, "Clearing the memory and terminating the program.\n"))
}

func TestRunColony_MalformedFileIsReprompted(t *testing.T) {
	s, c, col := writeInputs(t, "wood 20\nstone 10\niron 4\n", "X 2 1\nY 1 0 1\nZ 0 2\n", "--X-Y---Z\n")
	dir := t.TempDir()
	badStock := filepath.Join(dir, "bad-stock.txt")
	badConsumption := filepath.Join(dir, "bad-consumption.txt")
	require.NoError(t, os.WriteFile(badStock, []byte("wood lots\n"), 0o644))
	require.NoError(t, os.WriteFile(badConsumption, []byte("XY 1\n"), 0o644))

	stdin := strings.NewReader(strings.Join([]string{badStock, s, badConsumption, c, col, "3", "8"}, "\n"))
	var out bytes.Buffer
	err := runColony(runConfig{}, stdin, &out, &bytes.Buffer{})
	require.NoError(t, err)
	got := out.String()
	require.Contains(t, got, "The file "+badStock+" is not a valid stock file (stock: line 1: quantity:")
	require.Contains(t, got, "Please enter the correct stock file name:\n")
	require.Contains(t, got, "The file "+badConsumption+" is not a valid consumption file (consumption: line 1:")
	require.Contains(t, got, "Colony:\nXYZ\n(2)X(1)Y(3)Z\n")
	require.True(t, strings.HasSuffix(got, "Clearing the memory and terminating the program.\n"))
}

func TestRunColony_BootstrapShortfall(t *testing.T) {
	s, c, col := writeInputs(t, "wood 3\nstone 1\n", "X 2\nY 2 1\n", "X-Y")
	var out bytes.Buffer
	err := runColony(runConfig{StockPath: s, ConsumptionPath: c, ColonyPath: col}, strings.NewReader(""), &out, &bytes.Buffer{})
	require.True(t, errors.Is(err, errReported))
	require.Equal(t,
		"Insufficient resource wood\n"+
			"Failed to load the colony due to insufficient resources.\n"+
			"Clearing the memory and terminating the program.\n",
		out.String())
}

func TestRunColony_UnknownBuildingIsFatal(t *testing.T) {
	s, c, col := writeInputs(t, "wood 3\n", "X 1\n", "-Q")
	var out bytes.Buffer
	err := runColony(runConfig{StockPath: s, ConsumptionPath: c, ColonyPath: col}, strings.NewReader("8"), &out, &bytes.Buffer{})
	require.ErrorIs(t, err, errReported)
	require.Contains(t, out.String(), "Failed to load the colony:")
	require.NotContains(t, out.String(), "Please enter your choice")
}

func TestRunColony_ScenarioAndAudit(t *testing.T) {
	auditDir := t.TempDir()
	var out, errOut bytes.Buffer
	err := runColony(runConfig{
		ScenarioPath: filepath.Join("..", "..", "internal", "scenario", "testdata", "outpost.yaml"),
		AuditDir:     auditDir,
		Verbose:      true,
	}, strings.NewReader("1 Z 9 2 Y 8"), &out, &errOut)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Building of type Z has been added at the empty block number: 9\n")
	require.Contains(t, errOut.String(), `"msg":"colony loaded"`)

	var dump bytes.Buffer
	require.NoError(t, printAudit(&dump, []string{auditDir}))
	lines := strings.Split(strings.TrimSpace(dump.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "bootstrap")
	require.Contains(t, lines[1], `flat="--X-Y---Z--Z"`)
	require.Contains(t, lines[2], `flat="--X-----Z--Z"`)
}

func TestResolveTuning_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("stock: a.txt\nconsumption: b.txt\nlog_level: error\n"), 0o644))

	tu, err := resolveTuning(runConfig{TuningPath: cfgPath, StockPath: "override.txt", Verbose: true})
	require.NoError(t, err)
	require.Equal(t, "override.txt", tu.StockPath)
	require.Equal(t, "b.txt", tu.ConsumptionPath)
	require.Equal(t, "debug", tu.LogLevel)

	_, err = resolveTuning(runConfig{TuningPath: cfgPath, ScenarioPath: "s.yaml"})
	require.Error(t, err)
}
