package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/startpage/internal/bridge"
	"github.com/dgallion1/startpage/internal/config"
	"github.com/dgallion1/startpage/internal/pipeline"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// run executes a command against a file store in dir and fails the test
// on error.
func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{"--backend", "file", "--data-dir", dir}, args...)
	out, stderr, err := runCLI(t, full)
	if err != nil {
		t.Fatalf("%s: %v\nstderr:\n%s", strings.Join(args, " "), err, stderr)
	}
	return string(out)
}

func TestShow_Text(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, "show")

	for _, want := range []string{
		"Favorites [favorites]",
		"  Tech & News/ [tech-folder]",
		"    The Verge  https://theverge.com [verge]",
		"  (Add Page) [add-btn]",
		"Privacy & Tools [privacy]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestShow_VisibleAndFormats(t *testing.T) {
	dir := t.TempDir()
	if out := run(t, dir, "toggle", "social"); !strings.Contains(out, "Section toggled") {
		t.Fatalf("unexpected toggle output: %q", out)
	}

	out := run(t, dir, "show", "--visible", "--format", "json")
	if strings.Contains(out, `"id": "social"`) {
		t.Errorf("expected hidden section to be omitted, got:\n%s", out)
	}

	out = run(t, dir, "show", "--format", "yaml")
	if !strings.Contains(out, "hidden: true") {
		t.Errorf("expected yaml to mark the hidden section, got:\n%s", out)
	}
}

func TestMutations(t *testing.T) {
	dir := t.TempDir()

	if out := run(t, dir, "delete", "github"); !strings.Contains(out, "Item deleted") {
		t.Errorf("unexpected delete output: %q", out)
	}
	if out := run(t, dir, "delete", "github"); !strings.Contains(out, "No change") {
		t.Errorf("expected deleting a missing item to be a no-op, got %q", out)
	}
	if out := run(t, dir, "move", "twitter", "tech-folder"); !strings.Contains(out, "Moved to folder") {
		t.Errorf("unexpected move output: %q", out)
	}
	if out := run(t, dir, "move", "reddit", "nowhere"); !strings.Contains(out, "Moved to Favorites") {
		t.Errorf("unexpected fallback move output: %q", out)
	}
	if out := run(t, dir, "merge", "google", "youtube"); !strings.Contains(out, "Folder created") {
		t.Errorf("unexpected merge output: %q", out)
	}
	run(t, dir, "rename", "verge", "Verge")
	run(t, dir, "reorder", "reddit", "tech-folder")

	out := run(t, dir, "show")
	for _, want := range []string{
		"  New Folder/ [folder-",
		"    YouTube  https://youtube.com [youtube]",
		"    Google  https://google.com [google]",
		"    Verge  https://theverge.com [verge]",
		"    X / Twitter  https://twitter.com [twitter]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[github]") {
		t.Errorf("expected github to be deleted, got:\n%s", out)
	}
	if strings.Index(out, "[reddit]") > strings.Index(out, "[tech-folder]") {
		t.Errorf("expected reddit before tech-folder, got:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"--backend", "file", "--data-dir", dir, "rename", "verge", "  "}); err == nil {
		t.Error("expected error for blank title")
	}
}

func TestAdd(t *testing.T) {
	dir := t.TempDir()
	if out := run(t, dir, "add", "https://go.dev", "--title", "Go"); !strings.Contains(out, "Added to Favorites") {
		t.Errorf("unexpected add output: %q", out)
	}
	if out := run(t, dir, "show"); !strings.Contains(out, "  Go  https://go.dev [link-") {
		t.Errorf("expected new link in Favorites, got:\n%s", out)
	}
	if _, _, err := runCLI(t, []string{"--backend", "file", "--data-dir", dir, "add", "not a url"}); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "links.md")
	if err := os.WriteFile(src, []byte("# Dev\n\n- [Go](https://go.dev)\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if out := run(t, dir, "import", src, "--section", "social"); !strings.Contains(out, "Imported 1 items") {
		t.Errorf("unexpected import output: %q", out)
	}
	if _, _, err := runCLI(t, []string{"--backend", "file", "--data-dir", dir, "import", src, "--section", "nope"}); err == nil {
		t.Error("expected error for unknown section")
	}

	dst := filepath.Join(t.TempDir(), "export.yaml")
	run(t, dir, "export", "--format", "yaml", "-o", dst)
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "title: Dev") {
		t.Errorf("expected imported folder in export, got:\n%s", data)
	}
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "delete", "google")

	if _, _, err := runCLI(t, []string{"--backend", "file", "--data-dir", dir, "reset"}); err == nil {
		t.Error("expected reset without --yes to fail")
	}
	run(t, dir, "reset", "--yes")
	if out := run(t, dir, "show"); !strings.Contains(out, "[google]") {
		t.Errorf("expected defaults after reset, got:\n%s", out)
	}
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	args := []string{"--backend", "sqlite", "--data-dir", dir}

	if _, stderr, err := runCLI(t, append(args, "delete", "google")); err != nil {
		t.Fatalf("delete: %v\n%s", err, stderr)
	}
	out, stderr, err := runCLI(t, append(args, "show"))
	if err != nil {
		t.Fatalf("show: %v\n%s", err, stderr)
	}
	if strings.Contains(string(out), "[google]") {
		t.Errorf("expected delete to persist in sqlite, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "startpage.db")); err != nil {
		t.Errorf("expected database under data dir: %v", err)
	}
}

func TestClearData(t *testing.T) {
	orig := newClearer
	newClearer = func(config.Config) bridge.Clearer { return bridge.NewSimulated(0) }
	t.Cleanup(func() { newClearer = orig })

	out := run(t, t.TempDir(), "clear-data")
	if !strings.Contains(out, pipeline.MsgCleared) {
		t.Errorf("expected %q, got %q", pipeline.MsgCleared, out)
	}
}
