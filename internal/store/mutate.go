package store

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
)

var validate = validator.New()

type linkRequest struct {
	AccountID  string   `validate:"required,excludesall=/\\"`
	Status     string   `validate:"required"`
	ProductIDs []string `validate:"min=1,dive,required"`
}

type unlinkRequest struct {
	AccountID string   `validate:"required,excludesall=/\\"`
	LinkIDs   []string `validate:"min=1,dive,required"`
}

func validateAccountID(accountID string) error {
	if err := validate.Var(accountID, "required,excludesall=/\\"); err != nil {
		return fmt.Errorf("invalid account id %q: %w", accountID, err)
	}
	return nil
}

func newLinkID() string { return uuid.NewString() }

// applyLink links productIDs to doc with status. Products that are already
// linked get the new status. Unknown products fail the whole request.
func applyLink(doc *dataset.Document, status string, productIDs []string, newID func() string) session.MutationResult {
	products := make(map[string]linkage.Product, len(doc.Products))
	for _, p := range doc.Products {
		products[p.ID] = p
	}

	var problems []string
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			problems = append(problems, "unknown product "+id)
		}
	}
	if len(problems) > 0 {
		return failure(doc, problems)
	}

	links := slices.Clone(doc.Links)
	existing := make(map[string]int, len(links))
	for i, l := range links {
		existing[l.ProductID] = i
	}

	for _, id := range productIDs {
		if i, ok := existing[id]; ok {
			links[i].Status = status
			continue
		}
		existing[id] = len(links)
		links = append(links, linkage.MandatoryLink{
			ID:          newID(),
			ProductID:   id,
			ProductName: products[id].Name,
			Status:      status,
		})
	}

	doc.Links = links
	return success(doc)
}

// applyUnlink removes linkIDs from doc. Unknown link ids fail the whole request.
func applyUnlink(doc *dataset.Document, linkIDs []string) session.MutationResult {
	remove := make(map[string]struct{}, len(linkIDs))
	for _, id := range linkIDs {
		remove[id] = struct{}{}
	}

	known := make(map[string]struct{}, len(doc.Links))
	for _, l := range doc.Links {
		known[l.ID] = struct{}{}
	}
	var problems []string
	for _, id := range linkIDs {
		if _, ok := known[id]; !ok {
			problems = append(problems, "unknown link "+id)
		}
	}
	if len(problems) > 0 {
		return failure(doc, problems)
	}

	links := make([]linkage.MandatoryLink, 0, len(doc.Links))
	for _, l := range doc.Links {
		if _, ok := remove[l.ID]; !ok {
			links = append(links, l)
		}
	}

	doc.Links = links
	return success(doc)
}

func success(doc *dataset.Document) session.MutationResult {
	return session.MutationResult{Outcome: session.OutcomeOK, Links: slices.Clone(doc.Links)}
}

// failure reports problems one per line.
func failure(doc *dataset.Document, problems []string) session.MutationResult {
	return session.MutationResult{
		Outcome: session.OutcomeError,
		Links:   slices.Clone(doc.Links),
		Message: notify.Join(problems),
	}
}
