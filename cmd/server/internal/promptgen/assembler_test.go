package promptgen

import (
	"strings"
	"testing"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/cmd/server/internal/detection"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(nil, []*catalog.Module{
		{
			ID:          "sales-call",
			Name:        "Sales Call Analysis",
			Category:    "sales",
			Description: "Analyze the sales conversation.",
			ExtractionTargets: []catalog.ExtractionTarget{
				{Field: "objections", Instruction: "List every objection raised."},
				{Field: "next_steps", Instruction: "List agreed next steps."},
			},
			Rubric: &catalog.ScoringRubric{
				MaxScore: 10,
				Criteria: []catalog.RubricCriterion{
					{Name: "discovery", Question: "Was a concrete pain point uncovered?"},
				},
			},
			PromptAddendum: "Quote the prospect verbatim where possible.",
		},
		{
			ID:          "general-notes",
			Name:        "General Notes",
			Category:    "general",
			Description: "Take general notes.",
		},
	}, nil, nil)
}

func testWorkspace() *catalog.Workspace {
	return &catalog.Workspace{
		ID:              "acme",
		DisplayName:     "Acme",
		AnalysisContext: "Acme sells workflow software to mid-market teams.",
		Methodology:     "MEDDIC",
	}
}

func TestAssembleSectionOrder(t *testing.T) {
	rec := &detection.MeetingRecord{
		Title:           "Acme pricing demo",
		Participants:    []detection.Participant{{Email: "a@acmecorp.com"}},
		Transcript:      "full transcript body goes here",
		DurationSeconds: 1800,
		Date:            "2026-08-20",
		CustomFocus:     "Pay attention to the migration timeline.",
	}
	selection := []detection.ModuleWeight{
		{ModuleID: "sales-call", Weight: 0.75},
		{ModuleID: "general-notes", Weight: 0.25},
	}

	doc := Assemble(testSnapshot(), testWorkspace(), rec, selection)

	// Every block is present, in order.
	markers := []string{
		"## Workspace context",
		"Acme workspace",
		"MEDDIC",
		"Sales Call Analysis (75% focus)",
		"1. objections: List every objection raised.",
		"2. next_steps: List agreed next steps.",
		"Score this meeting on a 0-10 scale",
		"Quote the prospect verbatim",
		"General Notes (25% focus)",
		"## Custom focus",
		"migration timeline",
		"## Output format",
		"## Meeting metadata",
		"Title: Acme pricing demo",
		"Date: 2026-08-20",
		"Attendees: a@acmecorp.com",
		"Duration: 30 minutes",
		"## Transcript",
		"full transcript body goes here",
	}
	pos := -1
	for _, marker := range markers {
		idx := strings.Index(doc, marker)
		if idx < 0 {
			t.Fatalf("document missing %q:\n%s", marker, doc)
		}
		if idx < pos {
			t.Errorf("%q appears out of order", marker)
		}
		pos = idx
	}
}

func TestAssembleOrdersModulesByWeight(t *testing.T) {
	rec := &detection.MeetingRecord{Title: "t", Transcript: "x"}
	// Selection deliberately passed in ascending weight order.
	selection := []detection.ModuleWeight{
		{ModuleID: "general-notes", Weight: 0.25},
		{ModuleID: "sales-call", Weight: 0.75},
	}

	doc := Assemble(testSnapshot(), testWorkspace(), rec, selection)
	sales := strings.Index(doc, "Sales Call Analysis")
	notes := strings.Index(doc, "General Notes")
	if sales < 0 || notes < 0 {
		t.Fatal("module sections missing")
	}
	if sales > notes {
		t.Error("module sections must be emitted in descending weight order")
	}
}

func TestAssembleSkipsEmptyOptionalBlocks(t *testing.T) {
	rec := &detection.MeetingRecord{Title: "t", Transcript: "x"}
	selection := []detection.ModuleWeight{{ModuleID: "general-notes", Weight: 1.0}}

	doc := Assemble(testSnapshot(), testWorkspace(), rec, selection)
	if strings.Contains(doc, "## Custom focus") {
		t.Error("custom focus block must be omitted when no focus is given")
	}
	if strings.Contains(doc, "Duration:") {
		t.Error("duration line must be omitted when duration is unknown")
	}
	if strings.Contains(doc, "Score this meeting") {
		t.Error("rubric block must be omitted for modules without a rubric")
	}
}

func TestAssembleUnknownModuleGetsMinimalSection(t *testing.T) {
	rec := &detection.MeetingRecord{Title: "t", Transcript: "x"}
	// The hard fallback can select an id with no loaded definition.
	selection := []detection.ModuleWeight{{ModuleID: "general-notes", Weight: 1.0}}
	empty := catalog.NewSnapshot(nil, nil, nil, nil)

	doc := Assemble(empty, nil, rec, selection)
	if !strings.Contains(doc, "general-notes (100% focus)") {
		t.Errorf("expected minimal section for unknown module:\n%s", doc)
	}
	if !strings.Contains(doc, "No workspace configuration matched") {
		t.Error("nil workspace must produce the generic context block")
	}
}

func TestAssembleIncludesFullTranscript(t *testing.T) {
	long := strings.Repeat("transcript line. ", 10_000)
	rec := &detection.MeetingRecord{Title: "t", Transcript: long}
	selection := []detection.ModuleWeight{{ModuleID: "general-notes", Weight: 1.0}}

	doc := Assemble(testSnapshot(), testWorkspace(), rec, selection)
	if !strings.Contains(doc, long) {
		t.Error("transcript must be included unbounded")
	}
}
