package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/session"
)

const accountsDir = "accounts"

// YAMLStore keeps one dataset file per account under <dir>/accounts/.
type YAMLStore struct {
	dir    string
	logger *zap.Logger
	newID  func() string

	mu sync.Mutex
}

// NewYAMLStore returns a store rooted at dir.
func NewYAMLStore(dir string, logger *zap.Logger) *YAMLStore {
	return &YAMLStore{dir: dir, logger: logger, newID: newLinkID}
}

// AccountPath returns the dataset file for accountID.
func (s *YAMLStore) AccountPath(accountID string) string {
	return filepath.Join(s.dir, accountsDir, accountID+".yaml")
}

// Fetch implements session.DataSource.
func (s *YAMLStore) Fetch(ctx context.Context, accountID string) (linkage.Snapshot, error) {
	doc, err := s.Get(ctx, accountID)
	if err != nil {
		return linkage.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

// Get returns the dataset stored for accountID.
func (s *YAMLStore) Get(_ context.Context, accountID string) (*dataset.Document, error) {
	if err := validateAccountID(accountID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(accountID)
}

// Put implements Backend.
func (s *YAMLStore) Put(_ context.Context, doc *dataset.Document) error {
	if err := validateAccountID(doc.Account.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return dataset.WriteFile(s.AccountPath(doc.Account.ID), doc)
}

// Link implements session.LinkService.
func (s *YAMLStore) Link(ctx context.Context, accountID, status string, productIDs []string) (session.MutationResult, error) {
	req := linkRequest{AccountID: accountID, Status: status, ProductIDs: productIDs}
	if err := validate.Struct(req); err != nil {
		return session.MutationResult{}, fmt.Errorf("invalid link request: %w", err)
	}
	return s.mutate(ctx, accountID, func(doc *dataset.Document) session.MutationResult {
		return applyLink(doc, status, productIDs, s.newID)
	})
}

// Unlink implements session.LinkService.
func (s *YAMLStore) Unlink(ctx context.Context, accountID string, linkIDs []string) (session.MutationResult, error) {
	req := unlinkRequest{AccountID: accountID, LinkIDs: linkIDs}
	if err := validate.Struct(req); err != nil {
		return session.MutationResult{}, fmt.Errorf("invalid unlink request: %w", err)
	}
	return s.mutate(ctx, accountID, func(doc *dataset.Document) session.MutationResult {
		return applyUnlink(doc, linkIDs)
	})
}

// Close implements Backend.
func (s *YAMLStore) Close() error { return nil }

func (s *YAMLStore) mutate(ctx context.Context, accountID string, fn func(*dataset.Document) session.MutationResult) (session.MutationResult, error) {
	if err := ctx.Err(); err != nil {
		return session.MutationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(accountID)
	if err != nil {
		return session.MutationResult{}, err
	}

	result := fn(doc)
	if result.Outcome != session.OutcomeOK {
		s.logger.Debug("mutation rejected", zap.String("account", accountID), zap.String("reason", result.Message))
		return result, nil
	}

	if err := dataset.WriteFile(s.AccountPath(accountID), doc); err != nil {
		return session.MutationResult{}, err
	}
	return result, nil
}

func (s *YAMLStore) read(accountID string) (*dataset.Document, error) {
	doc, err := dataset.ReadFile(s.AccountPath(accountID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return doc, err
}
