package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spacecolony/internal/auditlog"
	"spacecolony/internal/console"
	"spacecolony/internal/scenario"
	"spacecolony/internal/sim/catalogs"
	"spacecolony/internal/sim/colony"
	"spacecolony/internal/sim/ledger"
	"spacecolony/internal/sim/tuning"
)

// errReported marks a failure whose message already went to the user.
var errReported = errors.New("reported")

type runConfig struct {
	TuningPath      string
	StockPath       string
	ConsumptionPath string
	ColonyPath      string
	ScenarioPath    string
	AuditDir        string
	Verbose         bool
}

// resolveTuning applies command line overrides on top of the config file.
func resolveTuning(cfg runConfig) (tuning.Tuning, error) {
	t, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return t, err
	}
	override := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	override(&t.StockPath, cfg.StockPath)
	override(&t.ConsumptionPath, cfg.ConsumptionPath)
	override(&t.ColonyPath, cfg.ColonyPath)
	override(&t.ScenarioPath, cfg.ScenarioPath)
	override(&t.AuditDir, cfg.AuditDir)
	if cfg.Verbose {
		t.LogLevel = "debug"
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func newLogger(level string, stderr io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(stderr), lvl)
	return zap.New(core), nil
}

func runColony(cfg runConfig, stdin io.Reader, stdout, stderr io.Writer) error {
	t, err := resolveTuning(cfg)
	if err != nil {
		return err
	}
	logger, err := newLogger(t.LogLevel, stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	in := console.NewInput(stdin)
	sc, err := loadScenario(t, in, stdout)
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout, "Clearing the memory and terminating the program.")
			return errReported
		}
		return err
	}

	opts := colony.Options{Logger: logger, AllowLongRecipes: !t.StrictRecipes}
	var audit *auditlog.Logger
	if t.AuditDir != "" {
		audit = auditlog.New(t.AuditDir)
		opts.Audit = audit
	}

	eng, err := colony.Bootstrap(sc.Colony, sc.Catalog, sc.Stock, opts)
	if err != nil {
		if audit != nil {
			_ = audit.Close()
		}
		logger.Debug("bootstrap rejected", zap.String("code", colony.Code(err)), zap.Bool("fatal", colony.IsFatal(err)))
		return reportBootstrap(stdout, err)
	}
	logger.Debug("session started", zap.String("session", eng.Session()))

	return console.NewSession(eng, in, stdout, console.Options{
		ShowMenu: t.ShowMenu,
		Logger:   logger,
	}).Run()
}

func loadScenario(t tuning.Tuning, in *console.Input, out io.Writer) (*scenario.Scenario, error) {
	if t.ScenarioPath != "" {
		return scenario.LoadYAML(t.ScenarioPath)
	}
	stock, err := console.LoadFile(in, out, "stock", t.StockPath, ledger.Parse)
	if err != nil {
		return nil, err
	}
	cat, err := console.LoadFile(in, out, "consumption", t.ConsumptionPath, catalogs.Parse)
	if err != nil {
		return nil, err
	}
	text, err := console.LoadFile(in, out, "colony", t.ColonyPath, scenario.ParseColony)
	if err != nil {
		return nil, err
	}
	return &scenario.Scenario{Stock: stock, Catalog: cat, Colony: text}, nil
}

// reportBootstrap prints why the colony did not load. Fatal load errors are
// fully reported here; anything else is passed up unprinted.
func reportBootstrap(out io.Writer, err error) error {
	if !colony.IsFatal(err) {
		return err
	}
	if name, ok := colony.Shortfall(err); ok {
		fmt.Fprintf(out, "Insufficient resource %s\n", name)
		fmt.Fprintln(out, "Failed to load the colony due to insufficient resources.")
	} else {
		fmt.Fprintf(out, "Failed to load the colony: %v\n", err)
	}
	fmt.Fprintln(out, "Clearing the memory and terminating the program.")
	return errReported
}

// printAudit prints every entry of the given audit files. A directory
// argument stands for all the audit files inside it.
func printAudit(out io.Writer, args []string) error {
	var paths []string
	for _, a := range args {
		if fi, err := os.Stat(a); err == nil && fi.IsDir() {
			files, err := auditlog.Files(a)
			if err != nil {
				return err
			}
			paths = append(paths, files...)
			continue
		}
		paths = append(paths, a)
	}
	for _, p := range paths {
		entries, err := auditlog.ReadFile(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s #%d %s %-9s type=%q index=%d code=%s flat=%q",
				e.At.Format("2006-01-02T15:04:05Z07:00"), e.Seq, e.Session, e.Action,
				e.BuildType, e.Index, e.Code, e.Flat)
			if e.Message != "" {
				fmt.Fprintf(out, " msg=%q", e.Message)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
