package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func setupDirs(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	wsDir := filepath.Join(base, "workspaces")
	modDir := filepath.Join(base, "modules")
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(modDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, wsDir, "acme.yaml", `
id: acme
display_name: Acme
domain_patterns: [acmecorp.com]
keyword_groups:
  pain: [churn, onboarding]
terminology: [acv]
default_modules: [sales-call]
methodology: MEDDIC
`)
	writeFile(t, wsDir, "general.yaml", `
id: general
display_name: General
domain_patterns: []
`)

	writeFile(t, modDir, "index.yaml", `
modules: [sales-call, general-notes]
categories: [sales, general]
combinations:
  - name: external-renewal
    trigger:
      external: true
      title_keywords: [renewal]
    modules: [sales-call, general-notes]
`)
	writeFile(t, modDir, "sales-call.yaml", `
id: sales-call
name: Sales Call Analysis
category: sales
detection:
  title_keywords: [demo, pricing]
  external_required: true
extraction_targets:
  - field: objections
    instruction: List every objection raised by the prospect.
scoring_rubric:
  max_score: 10
  criteria:
    - name: discovery
      question: Did the rep uncover a concrete pain point?
`)
	writeFile(t, modDir, "general-notes.yaml", `
id: general-notes
name: General Notes
category: general
detection:
  is_fallback: true
extraction_targets:
  - field: summary
    instruction: Summarize the discussion.
`)

	return wsDir, modDir
}

func TestStoreLoad(t *testing.T) {
	wsDir, modDir := setupDirs(t)
	store := NewStore(wsDir, modDir, testLogger())

	counts, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if counts.Workspaces != 2 || counts.Modules != 2 || counts.Combinations != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}

	snap := store.Snapshot()
	ws, ok := snap.Workspace("acme")
	if !ok {
		t.Fatal("workspace acme not loaded")
	}
	if ws.DisplayName != "Acme" || ws.Methodology != "MEDDIC" {
		t.Errorf("workspace fields not loaded: %+v", ws)
	}

	mod, ok := snap.Module("sales-call")
	if !ok {
		t.Fatal("module sales-call not loaded")
	}
	if mod.Detection.ExternalRequired == nil || !*mod.Detection.ExternalRequired {
		t.Error("external_required should be true")
	}
	if mod.Rubric == nil || len(mod.Rubric.Criteria) != 1 {
		t.Errorf("rubric not loaded: %+v", mod.Rubric)
	}

	// Workspaces come back in sorted-filename order.
	if snap.Workspaces()[0].ID != "acme" {
		t.Errorf("expected acme first, got %s", snap.Workspaces()[0].ID)
	}
}

func TestStoreSkipsMalformedDocuments(t *testing.T) {
	wsDir, modDir := setupDirs(t)
	writeFile(t, wsDir, "broken.yaml", "id: [unterminated")
	writeFile(t, wsDir, "noid.yaml", "display_name: Missing ID")

	store := NewStore(wsDir, modDir, testLogger())
	counts, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if counts.Workspaces != 2 {
		t.Errorf("malformed documents should be excluded, got %d workspaces", counts.Workspaces)
	}
}

func TestStoreMissingIndexKeepsWorkspaces(t *testing.T) {
	wsDir, modDir := setupDirs(t)
	if err := os.Remove(filepath.Join(modDir, "index.yaml")); err != nil {
		t.Fatal(err)
	}

	store := NewStore(wsDir, modDir, testLogger())
	counts, err := store.Load()
	if err != nil {
		t.Fatalf("missing index must not be fatal: %v", err)
	}
	if counts.Workspaces != 2 {
		t.Errorf("expected workspaces despite missing index, got %d", counts.Workspaces)
	}
	if counts.Modules != 0 || counts.Combinations != 0 {
		t.Errorf("expected no modules/combinations, got %+v", counts)
	}
}

func TestStoreSkipsCombinationWithUnknownModule(t *testing.T) {
	wsDir, modDir := setupDirs(t)
	writeFile(t, modDir, "index.yaml", `
modules: [general-notes]
combinations:
  - name: dangling
    trigger:
      title_keywords: [renewal]
    modules: [general-notes, missing-module]
`)

	store := NewStore(wsDir, modDir, testLogger())
	counts, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if counts.Combinations != 0 {
		t.Errorf("combination referencing missing module should be excluded, got %d", counts.Combinations)
	}
}

func TestStoreReloadIsolation(t *testing.T) {
	wsDir, modDir := setupDirs(t)
	store := NewStore(wsDir, modDir, testLogger())
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	old := store.Snapshot()

	// A new workspace appears on disk and the store reloads.
	writeFile(t, wsDir, "zenith.yaml", "id: zenith\ndisplay_name: Zenith\n")
	counts, err := store.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if counts.Workspaces != 3 {
		t.Errorf("expected 3 workspaces after reload, got %d", counts.Workspaces)
	}

	// The captured snapshot is untouched: requests in flight keep the
	// view they started with.
	if len(old.Workspaces()) != 2 {
		t.Errorf("old snapshot mutated: %d workspaces", len(old.Workspaces()))
	}
	if store.Snapshot() == old {
		t.Error("reload should publish a fresh snapshot reference")
	}
}

func TestStoreLoadFailsWhenNothingReadable(t *testing.T) {
	base := t.TempDir()
	store := NewStore(filepath.Join(base, "nope-ws"), filepath.Join(base, "nope-mod"), testLogger())
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error when no definition source is readable")
	}
	// The pre-load empty snapshot is still published and usable.
	if store.Snapshot() == nil {
		t.Fatal("snapshot must never be nil")
	}
}
