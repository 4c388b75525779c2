package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultTools is the analytics tool vocabulary used when none is configured.
var DefaultTools = []string{
	"Power BI", "Tableau", "SQL", "Python", "R", "SSRS", "SSIS",
	"DAX", "Power Query", "Databricks", "Azure", "Spark", "Excel", "JIRA",
}

// ToolExtractor spots vocabulary terms in free text.
// Matching is case-insensitive and whole-word: a term must be bounded by the
// start or end of the text or by a character that is not a letter, digit or
// underscore in any script, so "R" does not match inside "résumé".
// An extractor is immutable and safe for concurrent use.
type ToolExtractor struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewToolExtractor compiles one pattern per term. Blank or duplicate terms are rejected.
func NewToolExtractor(vocabulary []string) (*ToolExtractor, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("tool vocabulary is empty")
	}

	e := &ToolExtractor{}
	seen := make(map[string]bool, len(vocabulary))
	for _, term := range vocabulary {
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, fmt.Errorf("tool vocabulary contains a blank term")
		}
		key := strings.ToLower(term)
		if seen[key] {
			return nil, fmt.Errorf("tool vocabulary contains %q twice", term)
		}
		seen[key] = true

		re, err := regexp.Compile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(term) + `(?:$|[^\p{L}\p{N}_])`)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for %q: %w", term, err)
		}
		e.terms = append(e.terms, term)
		e.patterns = append(e.patterns, re)
	}
	return e, nil
}

// MustToolExtractor is NewToolExtractor for vocabularies known at compile time.
func MustToolExtractor(vocabulary []string) *ToolExtractor {
	e, err := NewToolExtractor(vocabulary)
	if err != nil {
		panic(err)
	}
	return e
}

// Vocabulary returns the configured terms in their original spelling.
func (e *ToolExtractor) Vocabulary() []string {
	out := make([]string, len(e.terms))
	copy(out, e.terms)
	return out
}

// Extract returns the vocabulary terms present in text, sorted.
func (e *ToolExtractor) Extract(text string) []string {
	found := []string{}
	for i, re := range e.patterns {
		if re.MatchString(text) {
			found = append(found, e.terms[i])
		}
	}
	sort.Strings(found)
	return found
}

// Compare returns the job description tools the resume has (matched) and
// lacks (missing). Tools only the resume mentions are in neither set.
func (e *ToolExtractor) Compare(resume, jobDescription string) (matched, missing []string) {
	have := make(map[string]bool)
	for _, t := range e.Extract(resume) {
		have[t] = true
	}

	matched, missing = []string{}, []string{}
	for _, t := range e.Extract(jobDescription) {
		if have[t] {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}
	return matched, missing
}
