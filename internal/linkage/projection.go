package linkage

// ToMandatoryRows projects links into rows, preserving input order.
func ToMandatoryRows(links []MandatoryLink) []Row {
	rows := make([]Row, 0, len(links))
	for _, l := range links {
		rows = append(rows, Row{
			ID:        l.ID,
			Name:      l.ProductName,
			ProductID: l.ProductID,
			Status:    l.Status,
		})
	}
	return rows
}

// ToCatalogRows projects products into rows with no link id and no status,
// preserving input order.
func ToCatalogRows(products []Product) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, Row{
			Name:      p.Name,
			ProductID: p.ID,
		})
	}
	return rows
}

// FilterByBrand returns the products whose brand equals brand.
// An empty brand returns products unchanged.
func FilterByBrand(products []Product, brand string) []Product {
	if brand == "" {
		return products
	}
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Brand == brand {
			result = append(result, p)
		}
	}
	return result
}

// Brands returns the distinct non-empty brands in first-seen order.
func Brands(products []Product) []string {
	seen := make(map[string]struct{})
	var brands []string
	for _, p := range products {
		if p.Brand == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	return brands
}
