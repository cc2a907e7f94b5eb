package session

import (
	"context"

	"github.com/agentx-labs/prodlink/internal/linkage"
)

// DataSource supplies the authoritative snapshot for an account.
type DataSource interface {
	Fetch(ctx context.Context, accountID string) (linkage.Snapshot, error)
}

// Outcome is the service-reported result of a mutation.
type Outcome string

const (
	OutcomeOK    Outcome = "OK"
	OutcomeError Outcome = "ERROR"
)

// MutationResult carries the account's links after a mutation.
type MutationResult struct {
	Outcome Outcome
	Links   []linkage.MandatoryLink
	Message string
}

// LinkService persists link changes.
type LinkService interface {
	Link(ctx context.Context, accountID, status string, productIDs []string) (MutationResult, error)
	Unlink(ctx context.Context, accountID string, linkIDs []string) (MutationResult, error)
}

// MetadataProvider supplies the valid status values.
type MetadataProvider interface {
	StatusOptions(ctx context.Context) ([]string, error)
}
