package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charterbot/internal/domain"
)

func filled(n int) *State {
	s := New()
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			s.AppendUser(fmt.Sprintf("turn %d", i))
		} else {
			s.AppendAssistant(fmt.Sprintf("turn %d", i))
		}
	}
	return s
}

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, domain.ModeGeneralInquiry, s.Mode())
	assert.Zero(t, s.Len())
	assert.NotEmpty(t, s.ID())
	assert.NotEqual(t, s.ID(), New().ID())
}

func TestRecent(t *testing.T) {
	cases := []struct {
		length, window, want int
	}{
		{length: 0, window: 10, want: 0},
		{length: 3, window: 10, want: 3},
		{length: 10, window: 10, want: 10},
		{length: 25, window: 10, want: 10},
		{length: 5, window: 0, want: 0},
		{length: 5, window: -1, want: 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("L=%d window=%d", tc.length, tc.window), func(t *testing.T) {
			s := filled(tc.length)
			got := s.Recent(tc.window)
			require.Len(t, got, tc.want)
			for i, turn := range got {
				assert.Equal(t, fmt.Sprintf("turn %d", tc.length-tc.want+i), turn.Content)
			}
		})
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	s := filled(2)
	got := s.Recent(2)
	got[0].Content = "edited"
	assert.Equal(t, "turn 0", s.Turns()[0].Content)
}

func TestAppendRoles(t *testing.T) {
	s := New()
	s.AppendUser("hi")
	s.AppendAssistant("Ahoy!")
	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "Ahoy!"},
	}, s.Turns())
}

func TestClearKeepsMode(t *testing.T) {
	s := filled(4)
	s.SetMode(domain.ModeYachtSales)
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Equal(t, domain.ModeYachtSales, s.Mode())
}

func TestSetModeLeavesTranscript(t *testing.T) {
	s := filled(3)
	before := s.Turns()

	s.SetMode(domain.ModeYachtSales)
	s.SetMode(domain.ModeGeneralInquiry)

	assert.Equal(t, before, s.Turns())
	assert.Equal(t, domain.ModeGeneralInquiry, s.Mode())

	s.SetMode(domain.Mode(12))
	assert.Equal(t, domain.DefaultMode, s.Mode())
}
