package detection

import (
	"math"
	"sort"
	"strings"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
)

// Router scoring constants. Like the workspace constants these are
// carried-over calibration values, kept as named constants rather than
// re-derived.
const (
	comboExternalScore  = 5
	comboKeywordScore   = 10
	comboMatchThreshold = 10
	comboHighThreshold  = 15

	moduleKeywordScore           = 10
	moduleNegativeKeywordPenalty = 15
	moduleContentSignalScore     = 5
	moduleExternalScore          = 5

	moduleHighThreshold   = 15
	moduleMediumThreshold = 10

	maxScoredModules = 3
	maxAlternatives  = 2

	// Content signals are matched against a bounded transcript preview;
	// the full transcript is never scanned for signals.
	contentSignalPreviewLen = 1000

	// FallbackModuleID is selected with weight 1.0 when nothing else
	// qualifies.
	FallbackModuleID = "general-notes"
	// FallbackCategory labels meetings routed to the fallback module.
	FallbackCategory = "general"
)

// RouteResult is the module routing outcome. CombinationName is empty
// when per-module scoring produced the selection; the two paths are
// never merged.
type RouteResult struct {
	Selection       []ModuleWeight
	CombinationName string
	Confidence      Confidence
	Category        string
	Alternatives    []Alternative
}

// RouteModules selects analysis modules in two phases: combination
// matching first, then per-module scoring when no combination reaches
// the trigger threshold.
func RouteModules(snap *catalog.Snapshot, title, transcript string, isExternal bool) RouteResult {
	if res, ok := matchCombination(snap, title, isExternal); ok {
		return res
	}
	return scoreModules(snap, title, transcript, isExternal)
}

type comboScore struct {
	combo *catalog.Combination
	score int
}

// matchCombination runs phase A. A combination whose external trigger
// disagrees with the classified externality is skipped outright, not
// penalized.
func matchCombination(snap *catalog.Snapshot, title string, isExternal bool) (RouteResult, bool) {
	lowerTitle := strings.ToLower(title)

	var candidates []comboScore
	for _, combo := range snap.Combinations() {
		score := 0
		if combo.Trigger.External != nil {
			if *combo.Trigger.External != isExternal {
				continue
			}
			score += comboExternalScore
		}
		for _, kw := range combo.Trigger.TitleKeywords {
			if kw != "" && strings.Contains(lowerTitle, strings.ToLower(kw)) {
				score += comboKeywordScore
			}
		}
		if score >= comboMatchThreshold {
			candidates = append(candidates, comboScore{combo: combo, score: score})
		}
	}
	if len(candidates) == 0 {
		return RouteResult{}, false
	}

	// Stable sort keeps index order between equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	winner := candidates[0]
	confidence := ConfidenceMedium
	if winner.score >= comboHighThreshold {
		confidence = ConfidenceHigh
	}

	var alternatives []Alternative
	for _, c := range candidates[1:] {
		if len(alternatives) == maxAlternatives {
			break
		}
		alternatives = append(alternatives, Alternative{Name: c.combo.Name, Score: c.score})
	}

	// The combination's module list is returned verbatim with uniform
	// weights; individual module scores are never consulted.
	uniform := make([]float64, len(winner.combo.Modules))
	for i := range uniform {
		uniform[i] = 1
	}
	weights := normalizeWeights(uniform)
	selection := make([]ModuleWeight, len(winner.combo.Modules))
	for i, id := range winner.combo.Modules {
		selection[i] = ModuleWeight{ModuleID: id, Weight: weights[i]}
	}

	return RouteResult{
		Selection:       selection,
		CombinationName: winner.combo.Name,
		Confidence:      confidence,
		Category:        categoryOf(snap, winner.combo.Modules[0]),
		Alternatives:    alternatives,
	}, true
}

type moduleScore struct {
	module *catalog.Module
	score  int
}

// scoreModules runs phase B: independent per-module scoring followed by
// two-pass weight normalization.
func scoreModules(snap *catalog.Snapshot, title, transcript string, isExternal bool) RouteResult {
	lowerTitle := strings.ToLower(title)
	preview := transcriptPreview(transcript)

	var scored []moduleScore
	for _, mod := range snap.Modules() {
		rules := mod.Detection

		// externalRequired is a hard filter; a matching requirement
		// additionally rewards the module.
		score := 0
		if rules.ExternalRequired != nil {
			if *rules.ExternalRequired != isExternal {
				continue
			}
			score += moduleExternalScore
		}

		for _, kw := range rules.TitleKeywords {
			if kw != "" && strings.Contains(lowerTitle, strings.ToLower(kw)) {
				score += moduleKeywordScore
			}
		}
		for _, kw := range rules.TitleNegativeKeywords {
			if kw != "" && strings.Contains(lowerTitle, strings.ToLower(kw)) {
				score -= moduleNegativeKeywordPenalty
			}
		}
		for _, signal := range rules.ContentSignals {
			if signal != "" && strings.Contains(preview, strings.ToLower(signal)) {
				score += moduleContentSignalScore
			}
		}

		// The fallback module never drops below 1 so some module always
		// survives scoring; higher scores are kept as-is.
		if rules.IsFallback && score < 1 {
			score = 1
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, moduleScore{module: mod, score: score})
	}

	if len(scored) == 0 {
		return RouteResult{
			Selection:  []ModuleWeight{{ModuleID: FallbackModuleID, Weight: 1.0}},
			Confidence: ConfidenceLow,
			Category:   FallbackCategory,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxScoredModules {
		scored = scored[:maxScoredModules]
	}

	raw := make([]float64, len(scored))
	for i, ms := range scored {
		raw[i] = float64(ms.score)
	}
	weights := normalizeWeights(raw)

	selection := make([]ModuleWeight, len(scored))
	for i, ms := range scored {
		selection[i] = ModuleWeight{ModuleID: ms.module.ID, Weight: weights[i]}
	}

	return RouteResult{
		Selection:  selection,
		Confidence: moduleConfidence(scored[0].score),
		Category:   scored[0].module.Category,
	}
}

// normalizeWeights converts raw scores into weights summing to ~1.0 in
// two rounding passes: divide by the raw sum and round, then divide by
// the rounded sum and round again. The second pass changes the rounded
// output for non-uniform score sets; further applications are
// idempotent.
func normalizeWeights(scores []float64) []float64 {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		return make([]float64, len(scores))
	}

	first := make([]float64, len(scores))
	firstSum := 0.0
	for i, s := range scores {
		first[i] = round2(s / total)
		firstSum += first[i]
	}
	if firstSum == 0 {
		return first
	}

	second := make([]float64, len(scores))
	for i, w := range first {
		second[i] = round2(w / firstSum)
	}
	return second
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func transcriptPreview(transcript string) string {
	if len(transcript) > contentSignalPreviewLen {
		transcript = transcript[:contentSignalPreviewLen]
	}
	return strings.ToLower(transcript)
}

func categoryOf(snap *catalog.Snapshot, moduleID string) string {
	if mod, ok := snap.Module(moduleID); ok && mod.Category != "" {
		return mod.Category
	}
	return FallbackCategory
}

func moduleConfidence(topScore int) Confidence {
	switch {
	case topScore >= moduleHighThreshold:
		return ConfidenceHigh
	case topScore >= moduleMediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
