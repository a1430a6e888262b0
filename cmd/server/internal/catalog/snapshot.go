package catalog

import "time"

// Snapshot is an immutable view of all loaded definitions. Requests
// capture one snapshot reference at entry and use it throughout, so a
// concurrent reload never changes what an in-flight request sees.
type Snapshot struct {
	workspaces   []*Workspace
	workspaceIDs map[string]*Workspace
	modules      []*Module
	moduleIDs    map[string]*Module
	combinations []*Combination
	categories   []string
	loadedAt     time.Time
}

// NewSnapshot builds a snapshot directly from entity lists. The loader
// goes through Store.Load; this constructor exists for callers that
// assemble configuration in memory, tests included.
func NewSnapshot(workspaces []*Workspace, modules []*Module, combinations []*Combination, categories []string) *Snapshot {
	snap := &Snapshot{
		workspaces:   workspaces,
		workspaceIDs: make(map[string]*Workspace, len(workspaces)),
		modules:      modules,
		moduleIDs:    make(map[string]*Module, len(modules)),
		combinations: combinations,
		categories:   categories,
		loadedAt:     time.Now(),
	}
	for _, w := range workspaces {
		snap.workspaceIDs[w.ID] = w
	}
	for _, m := range modules {
		snap.moduleIDs[m.ID] = m
	}
	return snap
}

// Workspaces returns all workspaces in deterministic load order
// (sorted by definition filename).
func (s *Snapshot) Workspaces() []*Workspace { return s.workspaces }

// Workspace looks up a workspace by id.
func (s *Snapshot) Workspace(id string) (*Workspace, bool) {
	w, ok := s.workspaceIDs[id]
	return w, ok
}

// Modules returns all modules in index order.
func (s *Snapshot) Modules() []*Module { return s.modules }

// Module looks up a module by id.
func (s *Snapshot) Module(id string) (*Module, bool) {
	m, ok := s.moduleIDs[id]
	return m, ok
}

// Combinations returns all combinations in index order.
func (s *Snapshot) Combinations() []*Combination { return s.combinations }

// Categories returns the category taxonomy from the module index.
func (s *Snapshot) Categories() []string { return s.categories }

// LoadedAt reports when this snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Counts reports entity totals for the reload and health endpoints.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Workspaces:   len(s.workspaces),
		Modules:      len(s.modules),
		Combinations: len(s.combinations),
	}
}
