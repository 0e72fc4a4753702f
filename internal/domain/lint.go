package domain

// LintIssue is a single finding produced by the lint runner.
type LintIssue struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Details  string `json:"details,omitempty"`
}

// LintRequest is the body of POST /lint.
type LintRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// SuggestRequest is the body of POST /suggest.
type SuggestRequest struct {
	Code       string      `json:"code"`
	Language   string      `json:"language"`
	LintReport []LintIssue `json:"lintReport"`
}

// Suggestion is a single improvement proposed for the submitted code.
type Suggestion struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
	Snippet string `json:"snippet,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// SuggestionMetadata describes how a suggestion result was produced.
type SuggestionMetadata struct {
	Status  string `json:"status"`
	Model   string `json:"model,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuggestionResult is the outcome of a suggestion generation call. A failed
// downstream call yields an empty suggestion list with error metadata rather
// than an HTTP error.
type SuggestionResult struct {
	Suggestions []Suggestion        `json:"suggestions"`
	Explanation string              `json:"explanation,omitempty"`
	Metadata    *SuggestionMetadata `json:"metadata,omitempty"`
}
