package truth

import (
	"testing"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestExtractTruths(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []core.TruthUpdate
	}{
		{
			name: "launch weekday",
			text: "Launch Friday.",
			want: []core.TruthUpdate{{Key: KeyLaunchDate, Value: "Friday"}},
		},
		{
			name: "launch moved",
			text: "Launch moved from Friday to Monday",
			want: []core.TruthUpdate{{Key: KeyLaunchDate, Value: "Monday"}},
		},
		{
			name: "priority",
			text: "Priority is p0 for the billing fix",
			want: []core.TruthUpdate{{Key: KeyPriority, Value: "P0"}},
		},
		{
			name: "decision and scope",
			text: "We decided to cut the export feature; scope changed",
			want: []core.TruthUpdate{
				{Key: KeyDecisionStatus, Value: ValueUpdated},
				{Key: KeyScope, Value: ValueChanged},
			},
		},
		{
			name: "deadline",
			text: "Deadline tomorrow.",
			want: []core.TruthUpdate{{Key: KeyDeadline, Value: "Tomorrow"}},
		},
		{
			name: "last mention wins, first position kept",
			text: "Launch Friday. Deadline Thursday. Launch Monday.",
			want: []core.TruthUpdate{
				{Key: KeyLaunchDate, Value: "Monday"},
				{Key: KeyDeadline, Value: "Thursday"},
			},
		},
		{
			name: "nothing",
			text: "Lunch is at noon.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTruths(nil, tt.text))
		})
	}
}

func TestExtractTruths_EndToEndExample(t *testing.T) {
	got := ExtractTruths(nil, "Backend is blocked. Launch Friday. Frontend waiting on API. Deadline tomorrow.")
	assert.Equal(t, []core.TruthUpdate{
		{Key: KeyLaunchDate, Value: "Friday"},
		{Key: KeyDeadline, Value: "Tomorrow"},
	}, got)
}
