package linkage

import (
	"fmt"
	"strings"
)

// Mode selects which row set is displayed.
type Mode int

const (
	// ModeMandatory shows the account's mandatory links.
	ModeMandatory Mode = iota
	// ModeAll shows the catalog minus products that are already linked.
	ModeAll
)

// String returns the lowercase name used on the command line.
func (m Mode) String() string {
	switch m {
	case ModeMandatory:
		return "mandatory"
	case ModeAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "mandatory" or "all" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandatory":
		return ModeMandatory, nil
	case "all":
		return ModeAll, nil
	default:
		return 0, fmt.Errorf("unknown view mode %q: expected \"mandatory\" or \"all\"", s)
	}
}

// Account identifies the account whose products are being linked.
type Account struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Product is a catalog entry. It is never modified by this package.
type Product struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`
}

// MandatoryLink records that a product is mandatory for an account.
// ID is empty for a link that has not been persisted yet.
type MandatoryLink struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	ProductID   string `json:"product_id" yaml:"product_id"`
	ProductName string `json:"product_name" yaml:"product_name"`
	Status      string `json:"status" yaml:"status"`
}

// Row is the uniform shape handed to a display surface.
type Row struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
}

// ViewState is the operator-owned part of the view.
type ViewState struct {
	Mode           Mode
	SelectedStatus string
}

// Snapshot is a complete, authoritative copy of an account's data.
type Snapshot struct {
	Account  Account
	Products []Product
	Links    []MandatoryLink
}
