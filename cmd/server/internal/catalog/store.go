package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// Store owns the published snapshot reference. Load and Reload build a
// complete snapshot off to the side and publish it atomically; readers
// never block.
type Store struct {
	workspacesDir string
	modulesDir    string
	log           *slog.Logger
	snap          atomic.Pointer[Snapshot]
}

// NewStore creates a store reading definitions from the given
// directories. Call Load before serving requests.
func NewStore(workspacesDir, modulesDir string, log *slog.Logger) *Store {
	s := &Store{
		workspacesDir: workspacesDir,
		modulesDir:    modulesDir,
		log:           log,
	}
	// Published reference is never nil, even before the first Load.
	s.snap.Store(&Snapshot{
		workspaceIDs: map[string]*Workspace{},
		moduleIDs:    map[string]*Module{},
	})
	return s
}

// Snapshot returns the currently published snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Load reads every definition document and atomically publishes a new
// snapshot. Malformed individual documents are logged and skipped;
// Load only fails when no definition source could be read at all.
func (s *Store) Load() (Counts, error) {
	snap := &Snapshot{
		workspaceIDs: map[string]*Workspace{},
		moduleIDs:    map[string]*Module{},
		loadedAt:     time.Now(),
	}

	wsErr := s.loadWorkspaces(snap)
	idxErr := s.loadModules(snap)

	if wsErr != nil && idxErr != nil {
		return Counts{}, fmt.Errorf("catalog load failed: %v; %v", wsErr, idxErr)
	}
	if wsErr != nil {
		s.log.Warn("workspace definitions unavailable", "dir", s.workspacesDir, "error", wsErr)
	}
	if idxErr != nil {
		s.log.Warn("module index unavailable, snapshot has no modules or combinations",
			"dir", s.modulesDir, "error", idxErr)
	}

	s.snap.Store(snap)
	counts := snap.Counts()
	s.log.Info("catalog snapshot published",
		"workspaces", counts.Workspaces,
		"modules", counts.Modules,
		"combinations", counts.Combinations,
	)
	return counts, nil
}

// Reload rebuilds the snapshot from disk. In-flight requests keep the
// snapshot they captured at entry.
func (s *Store) Reload() (Counts, error) {
	return s.Load()
}

func (s *Store) loadWorkspaces(snap *Snapshot) error {
	entries, err := os.ReadDir(s.workspacesDir)
	if err != nil {
		return fmt.Errorf("read workspaces dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(s.workspacesDir, name)
		var ws Workspace
		if err := unmarshalFile(path, &ws); err != nil {
			s.log.Warn("skipping workspace document", "path", path, "error", err)
			continue
		}
		if ws.ID == "" {
			s.log.Warn("skipping workspace document without id", "path", path)
			continue
		}
		if _, dup := snap.workspaceIDs[ws.ID]; dup {
			s.log.Warn("skipping duplicate workspace id", "path", path, "id", ws.ID)
			continue
		}
		w := ws
		snap.workspaces = append(snap.workspaces, &w)
		snap.workspaceIDs[w.ID] = &w
	}
	return nil
}

func (s *Store) loadModules(snap *Snapshot) error {
	indexPath := filepath.Join(s.modulesDir, "index.yaml")
	var idx Index
	if err := unmarshalFile(indexPath, &idx); err != nil {
		return fmt.Errorf("read module index: %w", err)
	}
	snap.categories = idx.Categories

	for _, id := range idx.Modules {
		path := filepath.Join(s.modulesDir, id+".yaml")
		var mod Module
		if err := unmarshalFile(path, &mod); err != nil {
			s.log.Warn("skipping module document", "path", path, "error", err)
			continue
		}
		if mod.ID == "" {
			mod.ID = id
		}
		if mod.ID != id {
			s.log.Warn("skipping module with mismatched id", "path", path, "index_id", id, "document_id", mod.ID)
			continue
		}
		if _, dup := snap.moduleIDs[mod.ID]; dup {
			s.log.Warn("skipping duplicate module id", "path", path, "id", mod.ID)
			continue
		}
		m := mod
		snap.modules = append(snap.modules, &m)
		snap.moduleIDs[m.ID] = &m
	}

	// Combinations are validated against the modules that actually
	// loaded; a combination referencing a missing module is excluded.
	for i := range idx.Combinations {
		combo := idx.Combinations[i]
		if combo.Name == "" || len(combo.Modules) == 0 {
			s.log.Warn("skipping combination without name or modules", "name", combo.Name)
			continue
		}
		valid := true
		for _, id := range combo.Modules {
			if _, ok := snap.moduleIDs[id]; !ok {
				s.log.Warn("skipping combination referencing unknown module",
					"combination", combo.Name, "module", id)
				valid = false
				break
			}
		}
		if valid {
			snap.combinations = append(snap.combinations, &combo)
		}
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshalFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
