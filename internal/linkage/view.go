package linkage

// SelectInitialMode shows existing designations first and falls back to the
// catalog when there are none.
func SelectInitialMode(links []MandatoryLink) Mode {
	if len(links) > 0 {
		return ModeMandatory
	}
	return ModeAll
}

// BuildInitialRows returns the rows for a freshly loaded snapshot.
func BuildInitialRows(products []Product, links []MandatoryLink) []Row {
	if SelectInitialMode(links) == ModeMandatory {
		return ToMandatoryRows(links)
	}
	// No links exist, so there is nothing to exclude.
	return ToCatalogRows(products)
}

// BuildCatalogView returns catalog rows for every product not referenced by links.
func BuildCatalogView(products []Product, links []MandatoryLink) []Row {
	linked := linkedProductIDs(links)
	if len(linked) == 0 {
		return ToCatalogRows(products)
	}

	unlinked := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := linked[p.ID]; !ok {
			unlinked = append(unlinked, p)
		}
	}
	return ToCatalogRows(unlinked)
}

// BuildMandatoryView returns the mandatory rows for links.
func BuildMandatoryView(links []MandatoryLink) []Row {
	return ToMandatoryRows(links)
}

// BuildView dispatches on mode.
func BuildView(mode Mode, products []Product, links []MandatoryLink) []Row {
	if mode == ModeMandatory {
		return BuildMandatoryView(links)
	}
	return BuildCatalogView(products, links)
}

func linkedProductIDs(links []MandatoryLink) map[string]struct{} {
	ids := make(map[string]struct{}, len(links))
	for _, l := range links {
		ids[l.ProductID] = struct{}{}
	}
	return ids
}

func productIDs(products []Product) map[string]struct{} {
	ids := make(map[string]struct{}, len(products))
	for _, p := range products {
		ids[p.ID] = struct{}{}
	}
	return ids
}
