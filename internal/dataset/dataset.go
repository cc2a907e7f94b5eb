package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/prodlink/internal/linkage"
)

// CurrentVersion is written into new documents.
const CurrentVersion = "1.0.0"

// supported is the range of schema versions this build can read.
var supported = mustConstraint("^1.0.0")

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// Document is one account's dataset.
type Document struct {
	SchemaVersion string                  `yaml:"schema_version" json:"schema_version"`
	Account       linkage.Account         `yaml:"account" json:"account"`
	Products      []linkage.Product       `yaml:"products" json:"products"`
	Links         []linkage.MandatoryLink `yaml:"links,omitempty" json:"links,omitempty"`
}

// Snapshot returns the document as a linkage snapshot.
func (d *Document) Snapshot() linkage.Snapshot {
	return linkage.Snapshot{
		Account:  d.Account,
		Products: d.Products,
		Links:    d.Links,
	}
}

// InvalidError is returned by Parse when a document fails schema validation.
type InvalidError struct {
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid dataset"
	}
	first := e.Issues[0]
	msg := fmt.Sprintf("invalid dataset: %s", first.Message)
	if first.Path != "" {
		msg = fmt.Sprintf("invalid dataset at %s: %s", first.Path, first.Message)
	}
	if n := len(e.Issues) - 1; n > 0 {
		msg += printer.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Parse validates and decodes a YAML dataset.
func Parse(data []byte) (*Document, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Issues: result.Issues}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	if err := CheckVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CheckVersion reports whether version can be read by this build.
func CheckVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("parsing schema_version %q: %w", version, err)
	}
	if !supported.Check(v) {
		return fmt.Errorf("unsupported schema_version %s: this build reads %s", v, supported)
	}
	return nil
}

// Marshal encodes doc as YAML, stamping the current schema version if unset.
func Marshal(doc *Document) ([]byte, error) {
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = CurrentVersion
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling dataset: %w", err)
	}
	return data, nil
}

// ReadFile reads and parses a dataset file.
func ReadFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes doc to path, creating parent directories. The file is
// written to a temporary sibling first and renamed into place.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing dataset: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return data, nil
}
