// Package detection implements the meeting classification pipeline:
// workspace selection, externality, module routing with weight
// normalization and model tier selection.
package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks malformed meeting records; the api layer maps it
// to a client error.
var ErrValidation = errors.New("invalid meeting record")

// Confidence is the coarse low/medium/high bucket derived from numeric
// scores via fixed thresholds.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Tier is the processing class of the downstream generative model.
type Tier string

const (
	TierLightweight  Tier = "lightweight"
	TierStandard     Tier = "standard"
	TierLargeContext Tier = "large-context"
)

// Participant is one meeting attendee. The wire format accepts either a
// bare email string or an {email} object.
type Participant struct {
	Email string `json:"email"`
}

// UnmarshalJSON accepts "a@b.com" and {"email": "a@b.com"}.
func (p *Participant) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &p.Email)
	}
	var obj struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Email = obj.Email
	return nil
}

// Domain returns the lower-cased email domain, or "" when the address
// has no parseable domain.
func (p Participant) Domain() string {
	at := strings.LastIndex(p.Email, "@")
	if at < 0 || at == len(p.Email)-1 {
		return ""
	}
	return strings.ToLower(p.Email[at+1:])
}

// MeetingRecord is the per-request input. Ephemeral; one per request.
type MeetingRecord struct {
	Title           string        `json:"title"`
	Participants    []Participant `json:"participants"`
	Transcript      string        `json:"transcript"`
	DurationSeconds int           `json:"duration_seconds,omitempty"`
	Date            string        `json:"date,omitempty"`
	CustomFocus     string        `json:"custom_focus,omitempty"`
}

// Validate rejects records the pipeline cannot classify.
func (r *MeetingRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}

// ModuleWeight pairs a selected module with its normalized weight in
// (0, 1].
type ModuleWeight struct {
	ModuleID string  `json:"module_id"`
	Weight   float64 `json:"weight"`
}

// Alternative is a runner-up combination kept for display.
type Alternative struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Result is the composite classification outcome. CombinationName is
// set only when a combination fired; the selection then lists exactly
// the combination's modules.
type Result struct {
	WorkspaceID         string         `json:"workspace_id"`
	WorkspaceConfidence Confidence     `json:"workspace_confidence"`
	IsExternal          bool           `json:"is_external"`
	MeetingCategory     string         `json:"meeting_category"`
	ModuleSelection     []ModuleWeight `json:"module_selection"`
	CombinationName     string         `json:"combination_name,omitempty"`
	ModuleConfidence    Confidence     `json:"module_confidence"`
	Alternatives        []Alternative  `json:"alternatives,omitempty"`
	Tier                Tier           `json:"tier"`
}
