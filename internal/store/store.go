package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/agentx-labs/prodlink/internal/session"
)

// ErrAccountNotFound is returned when no dataset exists for an account.
var ErrAccountNotFound = errors.New("account not found")

// Backend is a persistent home for account datasets.
type Backend interface {
	session.DataSource
	session.LinkService

	// Put stores doc, replacing any existing dataset for the same account.
	Put(ctx context.Context, doc *dataset.Document) error
	// Get returns the stored dataset for an account.
	Get(ctx context.Context, accountID string) (*dataset.Document, error)
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindYAML   Kind = "yaml"
	KindBadger Kind = "badger"
)

// Config selects and configures a backend.
type Config struct {
	Kind    Kind
	DataDir string
	Logger  *zap.Logger
}

// Open returns the backend described by cfg.
func Open(cfg Config) (Backend, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Kind {
	case KindYAML, "":
		return NewYAMLStore(cfg.DataDir, logger), nil
	case KindBadger:
		return OpenBadger(BadgerConfig{Path: cfg.DataDir, SyncWrites: true, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown backend %q: expected %q or %q", cfg.Kind, KindYAML, KindBadger)
	}
}
