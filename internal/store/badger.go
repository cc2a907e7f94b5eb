package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/session"
)

const accountKeyPrefix = "account/"

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests.
	InMemory   bool
	SyncWrites bool
	// Logger receives Badger's internal log lines. Nil disables them.
	Logger *zap.Logger
}

// BadgerStore keeps each account's dataset as one JSON value.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
	newID  func() string
}

// badgerLogger adapts zap to Badger's Logger interface.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.sugar.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.sugar.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.sugar.Debugf(format, args...) }

// OpenBadger opens (or creates) a BadgerStore.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{sugar: logger.Named("badger").Sugar()})
	} else {
		logger = zap.NewNop()
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db, logger: logger, newID: newLinkID}, nil
}

// Fetch implements session.DataSource.
func (s *BadgerStore) Fetch(ctx context.Context, accountID string) (linkage.Snapshot, error) {
	doc, err := s.Get(ctx, accountID)
	if err != nil {
		return linkage.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

// Get returns the dataset stored for accountID.
func (s *BadgerStore) Get(_ context.Context, accountID string) (*dataset.Document, error) {
	if err := validateAccountID(accountID); err != nil {
		return nil, err
	}
	var doc *dataset.Document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getDoc(txn, accountID)
		return err
	})
	return doc, err
}

// Put implements Backend.
func (s *BadgerStore) Put(_ context.Context, doc *dataset.Document) error {
	if err := validateAccountID(doc.Account.ID); err != nil {
		return err
	}
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = dataset.CurrentVersion
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, doc)
	})
}

// Link implements session.LinkService.
func (s *BadgerStore) Link(ctx context.Context, accountID, status string, productIDs []string) (session.MutationResult, error) {
	req := linkRequest{AccountID: accountID, Status: status, ProductIDs: productIDs}
	if err := validate.Struct(req); err != nil {
		return session.MutationResult{}, fmt.Errorf("invalid link request: %w", err)
	}
	return s.mutate(ctx, accountID, func(doc *dataset.Document) session.MutationResult {
		return applyLink(doc, status, productIDs, s.newID)
	})
}

// Unlink implements session.LinkService.
func (s *BadgerStore) Unlink(ctx context.Context, accountID string, linkIDs []string) (session.MutationResult, error) {
	req := unlinkRequest{AccountID: accountID, LinkIDs: linkIDs}
	if err := validate.Struct(req); err != nil {
		return session.MutationResult{}, fmt.Errorf("invalid unlink request: %w", err)
	}
	return s.mutate(ctx, accountID, func(doc *dataset.Document) session.MutationResult {
		return applyUnlink(doc, linkIDs)
	})
}

// Close implements Backend.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) mutate(ctx context.Context, accountID string, fn func(*dataset.Document) session.MutationResult) (session.MutationResult, error) {
	if err := ctx.Err(); err != nil {
		return session.MutationResult{}, err
	}

	var result session.MutationResult
	err := s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDoc(txn, accountID)
		if err != nil {
			return err
		}
		result = fn(doc)
		if result.Outcome != session.OutcomeOK {
			s.logger.Debug("mutation rejected", zap.String("account", accountID), zap.String("reason", result.Message))
			return nil
		}
		return putDoc(txn, doc)
	})
	if err != nil {
		return session.MutationResult{}, err
	}
	return result, nil
}

func accountKey(accountID string) []byte {
	return []byte(accountKeyPrefix + accountID)
}

func getDoc(txn *badger.Txn, accountID string) (*dataset.Document, error) {
	item, err := txn.Get(accountKey(accountID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading account %s: %w", accountID, err)
	}

	var doc dataset.Document
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding account %s: %w", accountID, err)
	}
	return &doc, nil
}

func putDoc(txn *badger.Txn, doc *dataset.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding account %s: %w", doc.Account.ID, err)
	}
	return txn.Set(accountKey(doc.Account.ID), data)
}
