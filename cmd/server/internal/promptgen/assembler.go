// Package promptgen renders the instruction document handed to the
// generative-model provider: workspace context, weighted per-module
// instructions, output directives, metadata and the transcript.
package promptgen

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/cmd/server/internal/detection"
)

// SystemInstruction is the fixed system-level framing sent with every
// provider call; the assembled document is the user instruction.
const SystemInstruction = "You are a meeting analysis assistant. " +
	"Follow the analysis instructions exactly, ground every statement in the transcript, " +
	"and never invent facts that are not supported by it."

// outputDirective is the fixed output-format block. Section structure
// and owner-tagged action items are what downstream rendering expects.
const outputDirective = `## Output format

Produce structured notes with these sections:
1. Summary - a short paragraph per major topic.
2. Per-module findings - one section per analysis module above, using its extraction fields as headings.
3. Action items - one bullet per item, tagged with the owner in the form [owner].
4. Open questions - unresolved points that need follow-up.`

// Assemble renders the full instruction document. Module sections are
// emitted in descending selection weight; the transcript goes in whole,
// bounded only by the provider's own input limits.
func Assemble(snap *catalog.Snapshot, ws *catalog.Workspace, rec *detection.MeetingRecord, selection []detection.ModuleWeight) string {
	var b strings.Builder

	writeWorkspaceContext(&b, ws)
	writeModuleSections(&b, snap, selection)
	writeCustomFocus(&b, rec.CustomFocus)
	b.WriteString(outputDirective)
	b.WriteString("\n\n")
	writeMetadata(&b, rec)
	b.WriteString("## Transcript\n\n")
	b.WriteString(rec.Transcript)
	b.WriteString("\n")

	return b.String()
}

func writeWorkspaceContext(b *strings.Builder, ws *catalog.Workspace) {
	b.WriteString("## Workspace context\n\n")
	if ws == nil {
		b.WriteString("No workspace configuration matched; analyze as a general business meeting.\n\n")
		return
	}
	fmt.Fprintf(b, "This meeting belongs to the %s workspace.\n", ws.DisplayName)
	if ws.AnalysisContext != "" {
		b.WriteString(ws.AnalysisContext)
		b.WriteString("\n")
	}
	if ws.Methodology != "" {
		fmt.Fprintf(b, "Primary methodology: %s.\n", ws.Methodology)
	}
	b.WriteString("\n")
}

func writeModuleSections(b *strings.Builder, snap *catalog.Snapshot, selection []detection.ModuleWeight) {
	ordered := make([]detection.ModuleWeight, len(selection))
	copy(ordered, selection)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Weight > ordered[j].Weight
	})

	for _, mw := range ordered {
		mod, ok := snap.Module(mw.ModuleID)
		percent := int(math.Round(mw.Weight * 100))
		if !ok {
			// The hard fallback can select a module id with no loaded
			// definition; emit a minimal section rather than dropping it.
			fmt.Fprintf(b, "## Analysis: %s (%d%% focus)\n\n", mw.ModuleID, percent)
			b.WriteString("Take general meeting notes: topics, decisions, action items.\n\n")
			continue
		}

		fmt.Fprintf(b, "## Analysis: %s (%d%% focus)\n\n", mod.Name, percent)
		if mod.Description != "" {
			b.WriteString(mod.Description)
			b.WriteString("\n\n")
		}
		if len(mod.ExtractionTargets) > 0 {
			b.WriteString("Extract the following fields:\n")
			for i, target := range mod.ExtractionTargets {
				fmt.Fprintf(b, "%d. %s: %s\n", i+1, target.Field, target.Instruction)
			}
			b.WriteString("\n")
		}
		if mod.Rubric != nil && len(mod.Rubric.Criteria) > 0 {
			fmt.Fprintf(b, "Score this meeting on a 0-%d scale against each criterion:\n", mod.Rubric.MaxScore)
			for _, c := range mod.Rubric.Criteria {
				fmt.Fprintf(b, "- %s: %s\n", c.Name, c.Question)
			}
			b.WriteString("\n")
		}
		if mod.PromptAddendum != "" {
			b.WriteString(mod.PromptAddendum)
			b.WriteString("\n\n")
		}
	}
}

func writeCustomFocus(b *strings.Builder, focus string) {
	if strings.TrimSpace(focus) == "" {
		return
	}
	b.WriteString("## Custom focus\n\n")
	b.WriteString(focus)
	b.WriteString("\n\n")
}

func writeMetadata(b *strings.Builder, rec *detection.MeetingRecord) {
	b.WriteString("## Meeting metadata\n\n")
	fmt.Fprintf(b, "Title: %s\n", rec.Title)
	if rec.Date != "" {
		fmt.Fprintf(b, "Date: %s\n", rec.Date)
	}
	if len(rec.Participants) > 0 {
		emails := make([]string, 0, len(rec.Participants))
		for _, p := range rec.Participants {
			if p.Email != "" {
				emails = append(emails, p.Email)
			}
		}
		fmt.Fprintf(b, "Attendees: %s\n", strings.Join(emails, ", "))
	}
	if rec.DurationSeconds > 0 {
		fmt.Fprintf(b, "Duration: %d minutes\n", rec.DurationSeconds/60)
	}
	b.WriteString("\n")
}
