//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
	"github.com/agentx-labs/prodlink/internal/store"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // HOME, holds the config directory
	DataDir string // store root
	WorkDir string // scratch space for dataset files
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so no real config is read. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		DataDir: t.TempDir(),
		WorkDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PRODLINK_ACCOUNT", "")
	return env
}

// writeDataset writes a dataset for account "acme" with three products, one
// of them mandatory. Returns the file path.
func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "acme.yaml")
	writeFile(t, path, `schema_version: "1.0.0"
account:
  id: acme
  name: Acme Corp
products:
  - id: P-1
    name: Anvil
    brand: Acme
  - id: P-2
    name: Rocket Skates
    brand: Acme
  - id: P-3
    name: Bird Seed
    brand: Tweety
links:
  - id: L-1
    product_id: P-1
    product_name: Anvil
    status: Mandatory
`)
	return path
}

// openStore opens a backend of the given kind under env.DataDir.
func openStore(t *testing.T, env *testEnv, kind store.Kind) store.Backend {
	t.Helper()
	b, err := store.Open(store.Config{Kind: kind, DataDir: env.DataDir, Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("opening %s store: %v", kind, err)
	}
	return b
}

// newSession wires a session for "acme" to b, recording notifications.
func newSession(t *testing.T, b store.Backend) (*session.Session, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	s := session.New("acme", "Mandatory", session.Deps{
		Source:   b,
		Links:    b,
		Notifier: rec,
		Logger:   zaptest.NewLogger(t),
	})
	return s, rec
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
