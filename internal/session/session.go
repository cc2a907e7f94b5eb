package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
)

var printer = message.NewPrinter(language.English)

// Deps are the collaborators a Session talks to.
type Deps struct {
	Source   DataSource
	Links    LinkService
	Metadata MetadataProvider // optional
	Notifier notify.Notifier  // optional
	Logger   *zap.Logger      // optional
}

// Session owns the current view for one account.
type Session struct {
	accountID string
	source    DataSource
	links     LinkService
	metadata  MetadataProvider
	notifier  notify.Notifier
	logger    *zap.Logger

	mu   sync.Mutex
	vm   linkage.ViewModel
	busy bool
}

// New returns an unloaded Session. defaultStatus is used until status
// options are known.
func New(accountID, defaultStatus string, deps Deps) *Session {
	s := &Session{
		accountID: accountID,
		source:    deps.Source,
		links:     deps.Links,
		metadata:  deps.Metadata,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
	}
	if s.notifier == nil {
		s.notifier = notify.Multi{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("account", accountID))
	s.vm = linkage.Unloaded(defaultStatus).WithDropFunc(s.dropRow)
	return s
}

// AccountID returns the account this session manages.
func (s *Session) AccountID() string { return s.accountID }

// View returns the current view model.
func (s *Session) View() linkage.ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vm
}

// Busy reports whether a link or unlink is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Load fetches a fresh snapshot and the status options. A fetch failure
// clears the view and is returned as a *LoadError. Status option failures
// leave the status unconstrained. Loads never wait on a mutation and may
// overlap; each result replaces the view as it arrives.
func (s *Session) Load(ctx context.Context) error {
	var (
		snap    linkage.Snapshot
		options []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.source.Fetch(gctx, s.accountID)
		return err
	})
	if s.metadata != nil {
		g.Go(func() error {
			opts, err := s.metadata.StatusOptions(gctx)
			if err != nil {
				s.logger.Warn("status options unavailable", zap.Error(err))
				return nil
			}
			options = opts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.update(func(vm linkage.ViewModel) linkage.ViewModel { return vm.Cleared() })
		loadErr := &LoadError{AccountID: s.accountID, Err: err}
		s.logger.Info("load failed", zap.Error(err))
		s.notifier.Show(notify.KindError, "Warning", loadErr.Error())
		return loadErr
	}

	s.update(func(vm linkage.ViewModel) linkage.ViewModel {
		return vm.Load(snap).WithStatusOptions(options)
	})
	s.logger.Debug("loaded",
		zap.Int("products", len(snap.Products)),
		zap.Int("links", len(snap.Links)))
	return nil
}

// SetMode switches the displayed rows.
func (s *Session) SetMode(mode linkage.Mode) linkage.ViewModel {
	return s.update(func(vm linkage.ViewModel) linkage.ViewModel { return vm.SetMode(mode) })
}

// Toggle flips between the mandatory and catalog views.
func (s *Session) Toggle() linkage.ViewModel {
	return s.update(linkage.ViewModel.Toggle)
}

// SetBrand restricts the catalog view to one brand.
func (s *Session) SetBrand(brand string) linkage.ViewModel {
	return s.update(func(vm linkage.ViewModel) linkage.ViewModel { return vm.WithBrand(brand) })
}

// NextStatus cycles the status used for the next link request.
func (s *Session) NextStatus() linkage.ViewModel {
	return s.update(linkage.ViewModel.NextStatus)
}

// SelectStatus sets the status used for the next link request.
func (s *Session) SelectStatus(status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vm, err := s.vm.SelectStatus(status)
	if err != nil {
		return err
	}
	s.vm = vm
	return nil
}

// Link links the products of the selected catalog rows with the selected
// status. An empty selection returns ErrEmptySelection without calling the
// LinkService.
func (s *Session) Link(ctx context.Context, selected []linkage.Row) error {
	vm := s.View()
	if vm.Mode() != linkage.ModeAll {
		return fmt.Errorf("link: %w", ErrWrongMode)
	}
	targets := vm.LinkTargets(selected)
	if targets.Empty() {
		return ErrEmptySelection
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	result, err := s.links.Link(ctx, s.accountID, targets.Status, targets.ProductIDs)
	if err := s.apply("link", result, err); err != nil {
		return err
	}
	s.notifier.Show(notify.KindSuccess, "Success",
		printer.Sprintf("All products linked (%d as %s)", len(targets.ProductIDs), targets.Status))
	return nil
}

// Unlink removes the links of the selected mandatory rows. Rows without a
// link id are skipped; if none remain, ErrEmptySelection is returned without
// calling the LinkService.
func (s *Session) Unlink(ctx context.Context, selected []linkage.Row) error {
	vm := s.View()
	if vm.Mode() != linkage.ModeMandatory {
		return fmt.Errorf("unlink: %w", ErrWrongMode)
	}
	targets := linkage.ComputeUnlinkTargets(selected)
	if targets.Empty() {
		return ErrEmptySelection
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	result, err := s.links.Unlink(ctx, s.accountID, targets.LinkIDs)
	if err := s.apply("unlink", result, err); err != nil {
		return err
	}
	s.notifier.Show(notify.KindSuccess, "Success",
		printer.Sprintf("Selected products removed (%d)", len(targets.LinkIDs)))
	return nil
}

// apply installs a successful result or reports the failure. The view is
// only replaced when the service reported OK.
func (s *Session) apply(op string, result MutationResult, err error) error {
	if err == nil && result.Outcome != OutcomeOK {
		err = &MutationError{Op: op, Outcome: result.Outcome, Message: result.Message}
	} else if err != nil {
		err = &MutationError{Op: op, Err: err}
	}
	if err != nil {
		s.logger.Info("mutation failed", zap.String("op", op), zap.Error(err))
		s.notifier.Show(notify.KindError, "Warning", err.Error())
		return err
	}

	s.update(func(vm linkage.ViewModel) linkage.ViewModel { return vm.ApplyLinks(result.Links) })
	s.logger.Debug("mutation applied", zap.String("op", op), zap.Int("links", len(result.Links)))
	return nil
}

func (s *Session) update(fn func(linkage.ViewModel) linkage.ViewModel) linkage.ViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vm = fn(s.vm)
	return s.vm
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Session) dropRow(r linkage.Row) {
	s.logger.Warn("dropping row for unknown product",
		zap.String("link_id", r.ID),
		zap.String("product_id", r.ProductID))
}
