package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charterbot/internal/domain"
	"charterbot/internal/knowledge"
	"charterbot/internal/mode"
)

func records(n int, c domain.Category) []domain.FAQRecord {
	out := make([]domain.FAQRecord, n)
	for i := range out {
		out[i] = domain.FAQRecord{
			Question:        fmt.Sprintf("%s question %d?", c, i+1),
			Answer:          fmt.Sprintf("%s answer\n%d.", c, i+1),
			TriggerKeywords: []string{string(c)},
			Category:        c,
		}
	}
	return out
}

func snippetLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "- ") {
			out = append(out, line)
		}
	}
	return out
}

func TestComposeCharterSnippetCount(t *testing.T) {
	cases := []struct {
		n, cap, want int
	}{
		{n: 3, cap: 2, want: 2},
		{n: 3, cap: 5, want: 3},
		{n: 0, cap: 5, want: 0},
		{n: 4, cap: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d cap=%d", tc.n, tc.cap), func(t *testing.T) {
			store := knowledge.New(records(tc.n, domain.CategoryCharter), nil, nil)
			got := NewComposer(tc.cap, StyleFull).Compose(domain.ModeCharterBooking, store)

			assert.True(t, strings.HasPrefix(got, mode.Instruction(domain.ModeCharterBooking)))
			assert.Len(t, snippetLines(got), tc.want)
			assert.Equal(t, tc.want > 0, strings.Contains(got, "Relevant Charter Information:"))
		})
	}
}

func TestComposeTakesFirstRecordsInOrder(t *testing.T) {
	store := knowledge.New(records(3, domain.CategoryCharter), records(4, domain.CategorySales), nil)
	got := snippetLines(NewComposer(2, StyleFull).Compose(domain.ModeYachtSales, store))
	require.Len(t, got, 2)
	assert.Equal(t, "- sales question 1? Answer: sales answer 1.", got[0])
	assert.Equal(t, "- sales question 2? Answer: sales answer 2.", got[1])
}

func TestComposeNoSnippetsForOtherModes(t *testing.T) {
	store := knowledge.New(records(3, domain.CategoryCharter), records(3, domain.CategorySales), nil)
	c := NewComposer(5, StyleFull)
	for _, m := range []domain.Mode{domain.ModeGeneralInquiry, domain.ModeFleetInformation, domain.ModeContactSupport} {
		assert.Equal(t, mode.Instruction(m), c.Compose(m, store), m.String())
	}
}

func TestComposeQuestionStyleTruncates(t *testing.T) {
	long := domain.FAQRecord{Question: strings.Repeat("a", 30), Answer: "hidden", Category: domain.CategoryCharter}
	store := knowledge.New([]domain.FAQRecord{long}, nil, nil)
	c := NewComposer(5, StyleQuestion)
	c.QuestionLimit = 10

	got := snippetLines(c.Compose(domain.ModeCharterBooking, store))
	require.Len(t, got, 1)
	assert.Equal(t, "- aaaaaaaaaa...", got[0])
	assert.NotContains(t, c.Compose(domain.ModeCharterBooking, store), "hidden")
}

func TestComposeNilStore(t *testing.T) {
	c := NewComposer(5, StyleFull)
	assert.Equal(t, mode.Instruction(domain.ModeCharterBooking), c.Compose(domain.ModeCharterBooking, nil))
}
