// Package prompt builds the system instruction sent with every completion.
package prompt

import (
	"fmt"
	"strings"

	"charterbot/internal/domain"
	"charterbot/internal/knowledge"
	"charterbot/internal/mode"
)

// Style controls how much of each FAQ record is spliced into the prompt.
type Style string

const (
	// StyleFull writes the question and its answer on one line.
	StyleFull Style = "full"
	// StyleQuestion writes only the question, truncated to QuestionLimit runes.
	StyleQuestion Style = "question"
)

const (
	DefaultMaxSnippets   = 5
	DefaultQuestionLimit = 100
)

// Instructions resolves a mode to its base instruction.
type Instructions interface {
	Instruction(m domain.Mode) string
}

// Composer splices a bounded number of FAQ snippets into mode instructions.
type Composer struct {
	Registry      Instructions
	MaxSnippets   int
	Style         Style
	QuestionLimit int
}

// NewComposer returns a composer over the built-in mode registry.
func NewComposer(maxSnippets int, style Style) *Composer {
	return &Composer{
		Registry:      mode.Default,
		MaxSnippets:   maxSnippets,
		Style:         style,
		QuestionLimit: DefaultQuestionLimit,
	}
}

// Compose returns the enriched system instruction for m. Charter Booking
// and Yacht Sales get the first MaxSnippets records of their category, in
// stored order; other modes get the bare instruction.
func (c *Composer) Compose(m domain.Mode, store *knowledge.Store) string {
	reg := c.Registry
	if reg == nil {
		reg = mode.Default
	}
	base := reg.Instruction(m)

	var (
		category domain.Category
		heading  string
	)
	switch m {
	case domain.ModeCharterBooking:
		category, heading = domain.CategoryCharter, "Relevant Charter Information:"
	case domain.ModeYachtSales:
		category, heading = domain.CategorySales, "Relevant Sales Information:"
	default:
		return base
	}
	if store == nil {
		return base
	}
	records := store.Head(category, c.MaxSnippets)
	if len(records) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(heading)
	for _, rec := range records {
		b.WriteString("\n")
		b.WriteString(c.snippet(rec))
	}
	return b.String()
}

func (c *Composer) snippet(rec domain.FAQRecord) string {
	q := oneLine(rec.Question)
	if c.Style == StyleQuestion {
		return "- " + truncate(q, c.QuestionLimit)
	}
	a := oneLine(rec.Answer)
	if a == "" {
		return "- " + q
	}
	return fmt.Sprintf("- %s Answer: %s", q, a)
}

func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }

func truncate(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
