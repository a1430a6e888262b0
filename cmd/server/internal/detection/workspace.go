package detection

import (
	"strings"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
)

// Workspace scoring constants. The values are calibration carried over
// from production tuning; change them only together with the confidence
// thresholds below.
const (
	domainMatchScore    = 10
	displayNameScore    = 15
	segmentKeywordScore = 2
	terminologyScore    = 3

	workspaceHighThreshold   = 10
	workspaceMediumThreshold = 5
)

// ClassifyWorkspace scores every configured workspace against the
// participant domains and title and returns the winner. Pure function
// of (snapshot, participants, title): no side effects, deterministic.
//
// The returned score table always contains every configured workspace
// id. Ties resolve to the first workspace in snapshot order; an all-zero
// table resolves to defaultID with low confidence.
func ClassifyWorkspace(snap *catalog.Snapshot, participants []Participant, title, defaultID string) (string, Confidence, map[string]int) {
	scores := make(map[string]int, len(snap.Workspaces()))
	for _, ws := range snap.Workspaces() {
		scores[ws.ID] = 0
	}

	for _, p := range participants {
		domain := p.Domain()
		if domain == "" {
			continue
		}
		for _, ws := range snap.Workspaces() {
			if matchesAnyDomain(domain, ws.DomainPatterns) {
				scores[ws.ID] += domainMatchScore
			}
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, ws := range snap.Workspaces() {
		if ws.DisplayName != "" && strings.Contains(lowerTitle, strings.ToLower(ws.DisplayName)) {
			scores[ws.ID] += displayNameScore
		}
		for _, keywords := range ws.KeywordGroups {
			for _, kw := range keywords {
				if kw != "" && strings.Contains(lowerTitle, strings.ToLower(kw)) {
					scores[ws.ID] += segmentKeywordScore
				}
			}
		}
		for _, term := range ws.Terminology {
			if term != "" && strings.Contains(lowerTitle, strings.ToLower(term)) {
				scores[ws.ID] += terminologyScore
			}
		}
	}

	best := ""
	bestScore := -1
	for _, ws := range snap.Workspaces() {
		// Strict greater-than keeps the first workspace in snapshot
		// order on exact ties.
		if scores[ws.ID] > bestScore {
			best = ws.ID
			bestScore = scores[ws.ID]
		}
	}

	if best == "" || bestScore == 0 {
		return defaultID, ConfidenceLow, scores
	}
	return best, workspaceConfidence(bestScore), scores
}

// matchesAnyDomain reports whether the participant domain matches a
// pattern exactly or is a dot-suffix of it (mail.acme.com matches
// acme.com).
func matchesAnyDomain(domain string, patterns []string) bool {
	for _, pattern := range patterns {
		p := strings.ToLower(pattern)
		if p == "" {
			continue
		}
		if domain == p || strings.HasSuffix(domain, "."+p) {
			return true
		}
	}
	return false
}

func workspaceConfidence(score int) Confidence {
	switch {
	case score > workspaceHighThreshold:
		return ConfidenceHigh
	case score > workspaceMediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
