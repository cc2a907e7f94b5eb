package linkage

// LinkTargets is the payload for a link request.
type LinkTargets struct {
	ProductIDs []string
	Status     string
}

// Empty reports whether there is nothing to link.
func (t LinkTargets) Empty() bool { return len(t.ProductIDs) == 0 }

// UnlinkTargets is the payload for an unlink request.
type UnlinkTargets struct {
	LinkIDs []string
}

// Empty reports whether there is nothing to unlink.
func (t UnlinkTargets) Empty() bool { return len(t.LinkIDs) == 0 }

// ComputeLinkTargets extracts the product id of every selected catalog row.
// status is passed through unchanged.
func ComputeLinkTargets(selected []Row, status string) LinkTargets {
	ids := make([]string, 0, len(selected))
	for _, r := range selected {
		ids = append(ids, r.ProductID)
	}
	return LinkTargets{ProductIDs: ids, Status: status}
}

// ComputeUnlinkTargets extracts the link id of every selected mandatory row.
// Rows without a link id were never persisted and are skipped.
func ComputeUnlinkTargets(selected []Row) UnlinkTargets {
	ids := make([]string, 0, len(selected))
	for _, r := range selected {
		if r.ID == "" {
			continue
		}
		ids = append(ids, r.ID)
	}
	return UnlinkTargets{LinkIDs: ids}
}
