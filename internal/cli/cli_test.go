package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentx-labs/prodlink/internal/config"
	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
)

// resetFlags restores every flag to its default so rootCmd can run again.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI in an isolated home and data directory.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := Execute("test", "none", "unknown")
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRODLINK_ACCOUNT", "")
	dataDir := t.TempDir()
	if out, err := run(t, dataDir, "import", filepath.Join("testdata", "acme.yaml")); err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	return dataDir
}

func showRows(t *testing.T, dataDir string, args ...string) showOutput {
	t.Helper()
	out, err := run(t, dataDir, append([]string{"show", "--account", "acme", "--json"}, args...)...)
	if err != nil {
		t.Fatalf("show: %v\n%s", err, out)
	}
	var got showOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding show output: %v\n%s", err, out)
	}
	return got
}

func productIDs(rows []linkage.Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	return ids
}

func TestImportAndShow(t *testing.T) {
	dataDir := setup(t)

	got := showRows(t, dataDir)
	if got.Mode != "mandatory" {
		t.Errorf("initial mode = %q, want mandatory", got.Mode)
	}
	if ids := productIDs(got.Rows); len(ids) != 1 || ids[0] != "P-1" {
		t.Errorf("mandatory rows = %v, want [P-1]", ids)
	}

	all := showRows(t, dataDir, "--mode", "all")
	if ids := strings.Join(productIDs(all.Rows), ","); ids != "P-2,P-3" {
		t.Errorf("catalog rows = %s, want P-2,P-3", ids)
	}

	branded := showRows(t, dataDir, "--mode", "all", "--brand", "Tweety")
	if ids := strings.Join(productIDs(branded.Rows), ","); ids != "P-3" {
		t.Errorf("branded catalog rows = %s, want P-3", ids)
	}
}

func TestShowRequiresAccount(t *testing.T) {
	dataDir := setup(t)
	if _, err := run(t, dataDir, "show"); err != errNoAccount {
		t.Errorf("expected errNoAccount, got %v", err)
	}
}

func TestShowMissingAccountReportsOnce(t *testing.T) {
	dataDir := setup(t)
	out, err := run(t, dataDir, "show", "--account", "nobody")

	var loadErr *session.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *session.LoadError, got %v", err)
	}
	if n := strings.Count(out, "loading account nobody"); n != 1 {
		t.Errorf("failure printed %d times, want 1:\n%s", n, out)
	}
}

func TestTUISessionLogsToFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.Load()
	viper.Set(config.KeyAccount, "nobody")
	viper.Set(config.KeyDataDir, t.TempDir())
	viper.Set(config.KeyLogLevel, "debug")

	notes := &notify.Recorder{}
	a, err := openTUISession(notes)
	if err != nil {
		t.Fatalf("openTUISession: %v", err)
	}
	if err := a.session.Load(context.Background()); err == nil {
		t.Fatal("expected load of unknown account to fail")
	}
	a.Close()

	if n, ok := notes.Last(); !ok || n.Kind != notify.KindError {
		t.Errorf("expected error notification, got %+v", n)
	}
	data, err := os.ReadFile(config.LogFilePath())
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "load failed") {
		t.Errorf("log file missing load failure:\n%s", data)
	}
	if !strings.HasPrefix(config.LogFilePath(), home) {
		t.Errorf("log file %s is outside HOME", config.LogFilePath())
	}
}

func TestShowBadMode(t *testing.T) {
	dataDir := setup(t)
	if _, err := run(t, dataDir, "show", "--account", "acme", "--mode", "some"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLinkThenUnlink(t *testing.T) {
	dataDir := setup(t)

	out, err := run(t, dataDir, "link", "--account", "acme", "--status", "Optional", "P-2", "P-3")
	if err != nil {
		t.Fatalf("link: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All products linked (2 as Optional)") {
		t.Errorf("link output missing success message:\n%s", out)
	}

	got := showRows(t, dataDir, "--mode", "mandatory")
	if ids := strings.Join(productIDs(got.Rows), ","); ids != "P-1,P-2,P-3" {
		t.Errorf("mandatory rows after link = %s, want P-1,P-2,P-3", ids)
	}
	for _, r := range got.Rows[1:] {
		if r.Status != "Optional" {
			t.Errorf("row %s status = %q, want Optional", r.ProductID, r.Status)
		}
	}

	out, err = run(t, dataDir, "unlink", "--account", "acme", "P-1", "L-1")
	if err != nil {
		t.Fatalf("unlink: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Selected products removed (1)") {
		t.Errorf("unlink output missing success message:\n%s", out)
	}

	got = showRows(t, dataDir, "--mode", "mandatory")
	if ids := strings.Join(productIDs(got.Rows), ","); ids != "P-2,P-3" {
		t.Errorf("mandatory rows after unlink = %s, want P-2,P-3", ids)
	}
}

func TestLinkRejectsMandatoryProduct(t *testing.T) {
	dataDir := setup(t)
	_, err := run(t, dataDir, "link", "--account", "acme", "P-1")
	if err == nil || !strings.Contains(err.Error(), "P-1") {
		t.Errorf("expected error naming P-1, got %v", err)
	}
}

func TestUnlinkRejectsCatalogProduct(t *testing.T) {
	dataDir := setup(t)
	if _, err := run(t, dataDir, "unlink", "--account", "acme", "P-2"); err == nil {
		t.Error("expected error unlinking a product that is not mandatory")
	}
}

func TestLinkUnknownStatus(t *testing.T) {
	dataDir := setup(t)
	t.Setenv("PRODLINK_STATUS_OPTIONS", "Mandatory,Optional")
	if _, err := run(t, dataDir, "link", "--account", "acme", "--status", "Bogus", "P-2"); err == nil {
		t.Error("expected error for status outside the configured options")
	}
}

func TestExport(t *testing.T) {
	dataDir := setup(t)
	out, err := run(t, dataDir, "export", "--account", "acme")
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	for _, want := range []string{"schema_version: 1.0.0", "id: acme", "product_id: P-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("export output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "validate", filepath.Join("testdata", "acme.yaml"))
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[ OK ]") {
		t.Errorf("expected OK line, got:\n%s", out)
	}

	out, err = run(t, dataDir, "validate", filepath.Join("testdata", "invalid.yaml"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "[FAIL]") {
		t.Errorf("expected FAIL line, got:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	dataDir := setup(t)
	out, err := run(t, dataDir, "doctor", "--account", "acme")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "account acme: 3 products, 1 mandatory") {
		t.Errorf("doctor output missing account summary:\n%s", out)
	}

	if _, err := run(t, dataDir, "doctor", "--account", "nobody"); err == nil {
		t.Error("expected doctor to fail for a missing account")
	}
}

func TestStatuses(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "statuses")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Any status is accepted (default: Mandatory)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	t.Setenv("PRODLINK_STATUS_OPTIONS", "Mandatory,Optional")
	out, err = run(t, dataDir, "statuses")
	if err != nil {
		t.Fatal(err)
	}
	if out != "* Mandatory\n  Optional\n" {
		t.Errorf("unexpected output:\n%q", out)
	}
}

func TestWriteTable(t *testing.T) {
	vm := linkage.Unloaded("Mandatory").Load(linkage.Snapshot{
		Account:  linkage.Account{ID: "acme", Name: "Acme Corp"},
		Products: []linkage.Product{{ID: "P-1", Name: "Anvil"}, {ID: "P-2", Name: "Skates"}},
		Links:    []linkage.MandatoryLink{{ID: "L-1", ProductID: "P-1", ProductName: "Anvil", Status: "Mandatory"}},
	})

	var buf bytes.Buffer
	writeTable(&buf, vm)
	out := buf.String()
	for _, want := range []string{"Acme Corp: Mandatory products", "PRODUCT", "LINK ID", "Anvil", "L-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("mandatory table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	writeTable(&buf, vm.SetMode(linkage.ModeAll))
	out = buf.String()
	if !strings.Contains(out, "Acme Corp: All products") || !strings.Contains(out, "Skates") {
		t.Errorf("catalog table unexpected:\n%s", out)
	}
	if strings.Contains(out, "Anvil") {
		t.Errorf("catalog table should not list linked product:\n%s", out)
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, linkage.Unloaded("Mandatory"))
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("expected (none), got:\n%s", buf.String())
	}
}

func TestConfigSetGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := t.TempDir()

	if _, err := run(t, dataDir, "config", "set", "status.options", "Mandatory, Optional"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, dataDir, "config", "get", "status.options")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "Mandatory,Optional" {
		t.Errorf("status.options = %q, want Mandatory,Optional", out)
	}
}
