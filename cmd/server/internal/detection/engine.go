package detection

import (
	"log/slog"
	"time"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/pkg/logger"
	"github.com/recapd/recapd/pkg/metrics"
)

// Engine sequences the classification pipeline for one meeting record.
// It captures a single catalog snapshot per request; a reload published
// mid-request never changes what that request sees.
type Engine struct {
	store            *catalog.Store
	internalDomains  map[string]struct{}
	defaultWorkspace string
	log              *slog.Logger
}

// NewEngine wires the pipeline. internalDomains come from process
// config, not the catalog: they describe the operator, not a workspace.
func NewEngine(store *catalog.Store, internalDomains []string, defaultWorkspace string, log *slog.Logger) *Engine {
	return &Engine{
		store:            store,
		internalDomains:  InternalDomainSet(internalDomains),
		defaultWorkspace: defaultWorkspace,
		log:              log,
	}
}

// Detect classifies one meeting record and returns the composite result
// together with the snapshot it was computed against, so downstream
// prompt assembly reads the same configuration view.
func (e *Engine) Detect(rec *MeetingRecord) (*Result, *catalog.Snapshot, error) {
	if err := rec.Validate(); err != nil {
		return nil, nil, err
	}
	start := time.Now()

	snap := e.store.Snapshot()

	workspaceID, wsConfidence, _ := ClassifyWorkspace(snap, rec.Participants, rec.Title, e.defaultWorkspace)
	isExternal := IsExternal(rec.Participants, e.internalDomains)

	route := RouteModules(snap, rec.Title, rec.Transcript, isExternal)
	tier := SelectTier(rec.Transcript, route.Category)

	result := &Result{
		WorkspaceID:         workspaceID,
		WorkspaceConfidence: wsConfidence,
		IsExternal:          isExternal,
		MeetingCategory:     route.Category,
		ModuleSelection:     route.Selection,
		CombinationName:     route.CombinationName,
		ModuleConfidence:    route.Confidence,
		Alternatives:        route.Alternatives,
		Tier:                tier,
	}

	metrics.RecordDetection(workspaceID, string(wsConfidence))
	if route.CombinationName != "" {
		metrics.RecordCombinationMatch(route.CombinationName)
	}
	logger.LogDetection(e.log, workspaceID, string(wsConfidence), route.CombinationName,
		isExternal, len(route.Selection), time.Since(start).Milliseconds())

	return result, snap, nil
}
