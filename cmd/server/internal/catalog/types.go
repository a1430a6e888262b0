// Package catalog loads the declarative workspace, module and
// combination definitions and publishes them as immutable snapshots.
package catalog

// Workspace is an organizational context meetings get attributed to.
// Instances are immutable after load.
type Workspace struct {
	ID              string              `yaml:"id" json:"id"`
	DisplayName     string              `yaml:"display_name" json:"display_name"`
	DomainPatterns  []string            `yaml:"domain_patterns" json:"domain_patterns"`
	KeywordGroups   map[string][]string `yaml:"keyword_groups" json:"keyword_groups,omitempty"`
	Terminology     []string            `yaml:"terminology" json:"terminology,omitempty"`
	DefaultModules  []string            `yaml:"default_modules" json:"default_modules,omitempty"`
	AnalysisContext string              `yaml:"analysis_context" json:"analysis_context,omitempty"`
	Methodology     string              `yaml:"methodology" json:"methodology,omitempty"`
}

// DetectionRules drive per-module scoring in the router.
type DetectionRules struct {
	TitleKeywords         []string `yaml:"title_keywords" json:"title_keywords,omitempty"`
	TitleNegativeKeywords []string `yaml:"title_negative_keywords" json:"title_negative_keywords,omitempty"`
	ContentSignals        []string `yaml:"content_signals" json:"content_signals,omitempty"`
	// ExternalRequired is a tri-state: nil means indifferent, otherwise
	// the module only applies when the meeting externality matches.
	ExternalRequired *bool `yaml:"external_required" json:"external_required,omitempty"`
	IsFallback       bool  `yaml:"is_fallback" json:"is_fallback,omitempty"`
}

// ExtractionTarget names a field a module extracts plus the instruction
// telling the model how to fill it.
type ExtractionTarget struct {
	Field       string `yaml:"field" json:"field"`
	Instruction string `yaml:"instruction" json:"instruction"`
}

// RubricCriterion is one named question in a scoring rubric.
type RubricCriterion struct {
	Name     string `yaml:"name" json:"name"`
	Question string `yaml:"question" json:"question"`
}

// ScoringRubric is a bounded numeric scale with named criteria.
type ScoringRubric struct {
	MaxScore int               `yaml:"max_score" json:"max_score"`
	Criteria []RubricCriterion `yaml:"criteria" json:"criteria"`
}

// Module is a declarative analysis unit. Instances are immutable after
// load.
type Module struct {
	ID                string             `yaml:"id" json:"id"`
	Name              string             `yaml:"name" json:"name"`
	Category          string             `yaml:"category" json:"category"`
	Description       string             `yaml:"description" json:"description,omitempty"`
	Detection         DetectionRules     `yaml:"detection" json:"detection"`
	ExtractionTargets []ExtractionTarget `yaml:"extraction_targets" json:"extraction_targets,omitempty"`
	Rubric            *ScoringRubric     `yaml:"scoring_rubric" json:"scoring_rubric,omitempty"`
	PromptAddendum    string             `yaml:"prompt_addendum" json:"prompt_addendum,omitempty"`
}

// CombinationTrigger gates a combination. External is tri-state like
// DetectionRules.ExternalRequired.
type CombinationTrigger struct {
	External      *bool    `yaml:"external" json:"external,omitempty"`
	TitleKeywords []string `yaml:"title_keywords" json:"title_keywords,omitempty"`
}

// Combination is a pre-bundled module set that fires atomically,
// bypassing individual module scoring.
type Combination struct {
	Name    string             `yaml:"name" json:"name"`
	Trigger CombinationTrigger `yaml:"trigger" json:"trigger"`
	Modules []string           `yaml:"modules" json:"modules"`
}

// Index is the modules/index.yaml document: the module id roster, the
// combination list and the category taxonomy.
type Index struct {
	Modules      []string      `yaml:"modules"`
	Combinations []Combination `yaml:"combinations"`
	Categories   []string      `yaml:"categories"`
}

// Counts summarizes how many entities a snapshot holds, reported by the
// reload endpoint.
type Counts struct {
	Workspaces   int `json:"workspaces"`
	Modules      int `json:"modules"`
	Combinations int `json:"combinations"`
}
