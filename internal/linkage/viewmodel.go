package linkage

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownStatus is returned when a status is not among the known options.
var ErrUnknownStatus = errors.New("unknown status")

// DropFunc is called once per snapshot or link set for every mandatory row
// dropped because its product is not in the catalog.
type DropFunc func(row Row)

// ViewModel is an immutable view over one snapshot. The zero value is an
// unloaded model with no rows.
type ViewModel struct {
	account       Account
	products      []Product
	links         []MandatoryLink
	state         ViewState
	brand         string
	statusOptions []string
	rows          []Row
	loaded        bool
	onDrop        DropFunc
}

// Unloaded returns a model with no data that selects defaultStatus until
// status options are known.
func Unloaded(defaultStatus string) ViewModel {
	return ViewModel{
		state: ViewState{Mode: ModeAll, SelectedStatus: defaultStatus},
		rows:  []Row{},
	}
}

// WithDropFunc returns a copy that reports inconsistent rows to fn. Rows
// already dropped are not reported again.
func (vm ViewModel) WithDropFunc(fn DropFunc) ViewModel {
	vm.onDrop = fn
	return vm
}

// Load replaces the collections with s and recomputes the mode.
// Selected status, status options and the brand filter carry over.
func (vm ViewModel) Load(s Snapshot) ViewModel {
	vm.account = s.Account
	vm.products = slices.Clone(s.Products)
	vm.links = slices.Clone(s.Links)
	vm.state.Mode = SelectInitialMode(vm.links)
	vm.loaded = true
	vm.reportDrops()
	return vm.regenerate()
}

// Cleared drops all data, leaving a model that renders as "no rows".
func (vm ViewModel) Cleared() ViewModel {
	vm.account = Account{}
	vm.products = nil
	vm.links = nil
	vm.loaded = false
	vm.rows = []Row{}
	return vm
}

// SetMode regenerates rows for mode without touching the collections.
func (vm ViewModel) SetMode(mode Mode) ViewModel {
	vm.state.Mode = mode
	return vm.regenerate()
}

// Toggle switches between the mandatory and catalog views.
func (vm ViewModel) Toggle() ViewModel {
	if vm.state.Mode == ModeMandatory {
		return vm.SetMode(ModeAll)
	}
	return vm.SetMode(ModeMandatory)
}

// WithBrand restricts the catalog view to products of brand. An empty brand
// removes the restriction. The mandatory view is never filtered.
func (vm ViewModel) WithBrand(brand string) ViewModel {
	vm.brand = brand
	return vm.regenerate()
}

// ApplyLinks replaces the links with the authoritative set returned by a
// successful mutation. The mode is left as the operator chose it.
func (vm ViewModel) ApplyLinks(links []MandatoryLink) ViewModel {
	vm.links = slices.Clone(links)
	vm.reportDrops()
	return vm.regenerate()
}

// WithStatusOptions constrains the selected status to opts. The current
// selection is kept when valid, otherwise the first option is selected.
// An empty opts removes the constraint and keeps the current selection.
func (vm ViewModel) WithStatusOptions(opts []string) ViewModel {
	vm.statusOptions = slices.Clone(opts)
	if len(opts) > 0 && !slices.Contains(opts, vm.state.SelectedStatus) {
		vm.state.SelectedStatus = opts[0]
	}
	return vm
}

// SelectStatus changes the status applied to the next link request.
func (vm ViewModel) SelectStatus(status string) (ViewModel, error) {
	if len(vm.statusOptions) > 0 && !slices.Contains(vm.statusOptions, status) {
		return vm, fmt.Errorf("%w %q: expected one of %v", ErrUnknownStatus, status, vm.statusOptions)
	}
	vm.state.SelectedStatus = status
	return vm, nil
}

// NextStatus selects the option after the current one, wrapping around.
// It is a no-op when no options are known.
func (vm ViewModel) NextStatus() ViewModel {
	if len(vm.statusOptions) == 0 {
		return vm
	}
	i := slices.Index(vm.statusOptions, vm.state.SelectedStatus)
	vm.state.SelectedStatus = vm.statusOptions[(i+1)%len(vm.statusOptions)]
	return vm
}

// Select returns the displayed rows matching keys, in key order, plus the keys that matched nothing. Catalog rows match on product id.
// Mandatory rows match on link id, and a product id matches every mandatory
// row of that product. A row is returned at most once.
func (vm ViewModel) Select(keys ...string) (selected []Row, missing []string) {
	index := make(map[string][]int, len(vm.rows)*2)
	for i, r := range vm.rows {
		index[r.ProductID] = append(index[r.ProductID], i)
		if vm.state.Mode == ModeMandatory && r.ID != "" {
			index[r.ID] = append(index[r.ID], i)
		}
	}

	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		matches, ok := index[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		for _, i := range matches {
			if !seen[i] {
				seen[i] = true
				selected = append(selected, vm.rows[i])
			}
		}
	}
	return selected, missing
}

// LinkTargets computes the link payload for selected using the selected status.
func (vm ViewModel) LinkTargets(selected []Row) LinkTargets {
	return ComputeLinkTargets(selected, vm.state.SelectedStatus)
}

// Account returns the loaded account.
func (vm ViewModel) Account() Account { return vm.account }

// Products returns a copy of the catalog.
func (vm ViewModel) Products() []Product { return slices.Clone(vm.products) }

// Links returns a copy of the mandatory links, including any whose rows
// were dropped.
func (vm ViewModel) Links() []MandatoryLink { return slices.Clone(vm.links) }

// Rows returns a copy of the displayed rows.
func (vm ViewModel) Rows() []Row { return slices.Clone(vm.rows) }

// State returns the mode and selected status.
func (vm ViewModel) State() ViewState { return vm.state }

// Mode returns the active view mode.
func (vm ViewModel) Mode() Mode { return vm.state.Mode }

// SelectedStatus returns the status used for the next link request.
func (vm ViewModel) SelectedStatus() string { return vm.state.SelectedStatus }

// StatusOptions returns the known valid statuses; empty means unconstrained.
func (vm ViewModel) StatusOptions() []string { return slices.Clone(vm.statusOptions) }

// Brand returns the catalog brand filter, empty when unfiltered.
func (vm ViewModel) Brand() string { return vm.brand }

// Loaded reports whether a snapshot has been applied since the last clear.
func (vm ViewModel) Loaded() bool { return vm.loaded }

// Brands returns the distinct brands of the catalog.
func (vm ViewModel) Brands() []string { return Brands(vm.products) }

func (vm ViewModel) regenerate() ViewModel {
	if !vm.loaded {
		vm.rows = []Row{}
		return vm
	}
	vm.rows = BuildView(vm.state.Mode, FilterByBrand(vm.products, vm.brand), vm.links)
	if vm.state.Mode == ModeMandatory {
		vm.rows = vm.consistent(vm.rows)
	}
	return vm
}

// consistent drops rows whose product is not in the catalog.
func (vm ViewModel) consistent(rows []Row) []Row {
	known := productIDs(vm.products)
	kept := rows[:0]
	for _, r := range rows {
		if _, ok := known[r.ProductID]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// reportDrops passes every row consistent would drop to onDrop. It runs only
// when the links or products are replaced.
func (vm ViewModel) reportDrops() {
	if vm.onDrop == nil {
		return
	}
	known := productIDs(vm.products)
	for _, r := range ToMandatoryRows(vm.links) {
		if _, ok := known[r.ProductID]; !ok {
			vm.onDrop(r)
		}
	}
}
