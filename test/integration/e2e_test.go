//go:build integration

package integration_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/prodlink/internal/dataset"
	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/session"
	"github.com/agentx-labs/prodlink/internal/store"
)

var kinds = []store.Kind{store.KindYAML, store.KindBadger}

// TestFullFlowImportLinkUnlink covers the complete flow:
// import dataset -> load -> link from catalog -> unlink -> reopen and verify.
func TestFullFlowImportLinkUnlink(t *testing.T) {
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			env := setupTestEnv(t)
			ctx := context.Background()

			// Step 1: Import the dataset.
			doc, err := dataset.ReadFile(writeDataset(t, env.WorkDir))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			b := openStore(t, env, kind)
			if err := b.Put(ctx, doc); err != nil {
				t.Fatalf("Put: %v", err)
			}

			// Step 2: Load; existing links select the mandatory view.
			s, rec := newSession(t, b)
			if err := s.Load(ctx); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got := s.View().Mode(); got != linkage.ModeMandatory {
				t.Fatalf("initial mode = %v, want mandatory", got)
			}

			// Step 3: Link the two catalog products.
			vm := s.SetMode(linkage.ModeAll)
			selected, missing := vm.Select("P-2", "P-3")
			if len(missing) > 0 {
				t.Fatalf("unexpected missing ids %v", missing)
			}
			if err := s.Link(ctx, selected); err != nil {
				t.Fatalf("Link: %v", err)
			}
			if got := len(s.View().Rows()); got != 0 {
				t.Errorf("catalog rows after linking everything = %d, want 0", got)
			}
			if n, ok := rec.Last(); !ok || n.Kind.String() != "success" {
				t.Errorf("expected success notification, got %+v", n)
			}

			// Step 4: Unlink the imported link.
			vm = s.SetMode(linkage.ModeMandatory)
			selected, _ = vm.Select("L-1")
			if err := s.Unlink(ctx, selected); err != nil {
				t.Fatalf("Unlink: %v", err)
			}
			if err := b.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			// Step 5: Reopen and verify the stored state.
			b = openStore(t, env, kind)
			defer b.Close()
			stored, err := b.Get(ctx, "acme")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			var ids []string
			for _, l := range stored.Links {
				ids = append(ids, l.ProductID)
			}
			if len(ids) != 2 || ids[0] != "P-2" || ids[1] != "P-3" {
				t.Errorf("stored links = %v, want [P-2 P-3]", ids)
			}
		})
	}
}

// TestFullFlowExportRoundTrip writes a stored account back out and re-reads it.
func TestFullFlowExportRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	doc, err := dataset.ReadFile(writeDataset(t, env.WorkDir))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	b := openStore(t, env, store.KindYAML)
	defer b.Close()
	if err := b.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	assertFileExists(t, filepath.Join(env.DataDir, "accounts", "acme.yaml"))

	out := filepath.Join(env.WorkDir, "export", "acme.yaml")
	stored, err := b.Get(ctx, "acme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := dataset.WriteFile(out, stored); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	assertFileContains(t, out, "product_id: P-1")

	result, err := dataset.ValidateFile(out)
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if !result.Valid {
		t.Errorf("exported dataset is invalid: %+v", result.Issues)
	}
}

// TestFullFlowMissingAccount checks that loading an unknown account clears
// the view and reports a load error.
func TestFullFlowMissingAccount(t *testing.T) {
	env := setupTestEnv(t)
	b := openStore(t, env, store.KindYAML)
	defer b.Close()

	s, rec := newSession(t, b)
	err := s.Load(context.Background())

	var loadErr *session.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *session.LoadError, got %v", err)
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound in chain, got %v", err)
	}
	if s.View().Loaded() {
		t.Error("view should not be loaded after a failed fetch")
	}
	if _, ok := rec.Last(); !ok {
		t.Error("expected an error notification")
	}
}
