package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tuning is the run configuration. Paths left empty are prompted for.
type Tuning struct {
	StockPath       string `yaml:"stock"`
	ConsumptionPath string `yaml:"consumption"`
	ColonyPath      string `yaml:"colony"`
	ScenarioPath    string `yaml:"scenario"`

	// AuditDir enables the compressed audit trail when set.
	AuditDir string `yaml:"audit_dir"`
	// StrictRecipes rejects recipes longer than the stock at load time.
	StrictRecipes bool   `yaml:"strict_recipes"`
	LogLevel      string `yaml:"log_level"`
	ShowMenu      bool   `yaml:"show_menu"`
}

func Defaults() Tuning {
	return Tuning{
		StrictRecipes: true,
		LogLevel:      "warn",
		ShowMenu:      true,
	}
}

// Load reads a YAML file over Defaults. An empty path yields Defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch strings.ToLower(t.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", t.LogLevel)
	}
	if t.ScenarioPath != "" && (t.StockPath != "" || t.ConsumptionPath != "" || t.ColonyPath != "") {
		return fmt.Errorf("scenario cannot be combined with stock/consumption/colony paths")
	}
	return nil
}
