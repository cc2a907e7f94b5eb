package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/agentx-labs/prodlink/internal/logging"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
	"github.com/agentx-labs/prodlink/internal/store"
)

var errNoAccount = errors.New("no account selected: pass --account or set PRODLINK_ACCOUNT")

// app bundles what a command needs to talk to one account.
type app struct {
	logger  *zap.Logger
	backend store.Backend
	session *session.Session
}

// openBackend opens the configured store without a session, logging to
// stderr.
func openBackend() (*app, error) {
	logger, err := logging.New(config.LogLevel())
	if err != nil {
		return nil, err
	}
	return openBackendWith(logger)
}

func openBackendWith(logger *zap.Logger) (*app, error) {
	backend, err := store.Open(store.Config{
		Kind:    store.Kind(config.Backend()),
		DataDir: config.DataDir(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", config.Backend(), err)
	}
	return &app{logger: logger, backend: backend}, nil
}

// openSession opens the store and a session for the configured account.
// Successes are shown on w and logged. Failures reach the user once, as
// the error the command returns.
func openSession(w notify.Notifier) (*app, error) {
	if config.Account() == "" {
		return nil, errNoAccount
	}
	a, err := openBackend()
	if err != nil {
		return nil, err
	}
	a.startSession(notify.Only{
		Kind: notify.KindSuccess,
		Next: notify.Multi{w, notify.NewLog(a.logger)},
	})
	return a, nil
}

// openTUISession is openSession for the interactive view: logs go to the
// log file under the config dir and notifications only to n.
func openTUISession(n notify.Notifier) (*app, error) {
	if config.Account() == "" {
		return nil, errNoAccount
	}
	if err := config.EnsureDir(); err != nil {
		return nil, err
	}
	logger, err := logging.NewFile(config.LogLevel(), config.LogFilePath())
	if err != nil {
		return nil, err
	}
	a, err := openBackendWith(logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	a.startSession(n)
	return a, nil
}

func (a *app) startSession(n notify.Notifier) {
	a.session = session.New(config.Account(), config.DefaultStatusValue(), session.Deps{
		Source:   a.backend,
		Links:    a.backend,
		Metadata: config.StatusProvider{},
		Notifier: n,
		Logger:   a.logger,
	})
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
