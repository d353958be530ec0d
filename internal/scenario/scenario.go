package scenario

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"spacecolony/internal/sim/catalogs"
	"spacecolony/internal/sim/ledger"
)

//go:embed scenario.schema.json
var schemaJSON string

const schemaURL = "scenario.schema.json"

// Scenario is everything the engine needs to bootstrap: the stock, the
// recipe catalog and the raw colony text.
type Scenario struct {
	Stock   *ledger.Ledger
	Catalog *catalogs.Catalog
	Colony  string
}

// ParseColony reads the initial colony text. Whitespace is kept here and
// skipped by the engine at bootstrap.
func ParseColony(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("colony: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("colony: not valid UTF-8")
	}
	return string(raw), nil
}

type yamlScenario struct {
	Stock       []ledger.Entry `yaml:"stock"`
	Consumption []struct {
		Type string `yaml:"type"`
		Uses []int  `yaml:"uses"`
	} `yaml:"consumption"`
	Colony string `yaml:"colony"`
}

func LoadYAML(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(raw)
}

// ParseYAML validates raw against the scenario schema and decodes it.
func ParseYAML(raw []byte) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	var ys yamlScenario
	if err := yaml.Unmarshal(raw, &ys); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	led, err := ledger.New(ys.Stock)
	if err != nil {
		return nil, fmt.Errorf("scenario: stock: %w", err)
	}
	cat := catalogs.New()
	for i, c := range ys.Consumption {
		bt, _ := utf8.DecodeRuneInString(c.Type)
		if err := cat.Add(bt, c.Uses); err != nil {
			return nil, fmt.Errorf("scenario: consumption[%d]: %w", i, err)
		}
	}
	sum := sha256.Sum256(raw)
	cat.Digest = hex.EncodeToString(sum[:])
	return &Scenario{Stock: led, Catalog: cat, Colony: ys.Colony}, nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// validate runs doc through JSON so the validator sees plain JSON values
// regardless of how YAML typed them.
func validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return s.Validate(v)
}
