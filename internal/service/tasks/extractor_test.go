package tasks

import (
	"testing"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitClauses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"sentences", "One. Two! Three? Four; five", []string{"One", "Two", "Three", "Four", "five"}},
		{"newlines and bullets", "- ship v1.2\n* review PR\n\n", []string{"ship v1.2", "review PR"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitClauses(tt.in))
		})
	}
}

func TestExtract_EndToEndExample(t *testing.T) {
	got := NewExtractor(nil).Extract("Backend is blocked. Launch Friday. Frontend waiting on API. Deadline tomorrow.")

	require.Equal(t, []core.Task{
		{Description: "Backend is blocked", Status: core.TaskBlocked},
		{Description: "Launch Friday", Status: core.TaskOpen, Deadline: "Friday"},
		{Description: "Frontend waiting on API", Status: core.TaskBlocked, Dependency: "API"},
		{Description: "Deadline tomorrow", Status: core.TaskOpen, Deadline: "Tomorrow"},
	}, got)

	for _, task := range got {
		assert.Empty(t, task.Owner, "no owner token in the example")
	}
}

func TestExtract_Owners(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"assigned to", "Task: update the pricing page, assigned to Priya", "Priya"},
		{"assigned to full name", "Task: book the venue, assigned to Ali Khan", "Ali Khan"},
		{"assigned to name then day", "Task: send the contract, assigned to Ali Friday", "Ali"},
		{"assigned to pronoun", "Task: fix the invoice export, assigned to me", ""},
		{"owner is pronoun", "Review the budget, owner is them", ""},
		{"owned by", "Migration owned by @sam must finish", "@sam"},
		{"handle", "@dana please review the contract", "@dana"},
		{"will do", "Maya will prepare the deck", "Maya"},
		{"will do full name", "Ali Khan will prepare the budget", "Ali Khan"},
		{"will handle", "Sana will handle QA", "Sana"},
		{"will coordinate after filler", "Then Sana will coordinate with legal", "Sana"},
		{"will lead after day", "Tomorrow Omar will lead the retro", "Omar"},
		{"team is not a person", "Backend will fix the login bug", ""},
		{"will without action", "Maya will be out", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExtractor(nil).Extract(tt.in)
			if tt.name == "will without action" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Owner)
		})
	}
}

func TestExtract_OwnershipVerbMakesATask(t *testing.T) {
	got := NewExtractor(nil).Extract("Sana will handle QA")

	require.Len(t, got, 1)
	assert.Equal(t, core.Task{Description: "Sana will handle QA", Owner: "Sana", Status: core.TaskOpen}, got[0])
}

func TestExtract_DueToIsNotADeadline(t *testing.T) {
	e := NewExtractor(nil)

	assert.Empty(t, e.Extract("Delayed due to vendor issues"))

	got := e.Extract("Report due Friday")
	require.Len(t, got, 1)
	assert.Equal(t, "Friday", got[0].Deadline)
}

func TestExtract_OwnerFromFollowingClause(t *testing.T) {
	got := NewExtractor(nil).Extract("Prepare the demo script. Assigned to Leo.")

	require.Len(t, got, 1)
	assert.Equal(t, "Prepare the demo script", got[0].Description)
	assert.Equal(t, "Leo", got[0].Owner)
}

func TestExtract_Status(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		in   string
		want core.TaskStatus
	}{
		{"Review the launch checklist", core.TaskOpen},
		{"Fix for login merged", core.TaskDone},
		{"Fix merged but deploy blocked", core.TaskBlocked},
		{"Deploy depends on infra approval", core.TaskBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := e.Extract(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Status)
		})
	}
}

func TestExtract_Dependency(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		in   string
		want string
	}{
		{"Release waiting for the security review, then ship", "security review"},
		{"Mobile build blocked by Apple review until Monday", "Apple review"},
		{"Billing depends on Stripe webhooks", "Stripe webhooks"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := e.Extract(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Dependency)
		})
	}
}

func TestExtract_MarkerStripped(t *testing.T) {
	got := NewExtractor(nil).Extract("TODO: draft the FAQ by March 3rd")

	require.Len(t, got, 1)
	assert.Equal(t, "draft the FAQ by March 3rd", got[0].Description)
	assert.Equal(t, "March 3", got[0].Deadline)
}

func TestExtract_NoTasks(t *testing.T) {
	got := NewExtractor(nil).Extract("Great meeting everyone. Lunch was nice.")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtract_OrderPreserved(t *testing.T) {
	got := NewExtractor(nil).Extract("Fix the crash. Nice weather. Review the PR. Ship the build.")

	require.Len(t, got, 3)
	assert.Equal(t, "Fix the crash", got[0].Description)
	assert.Equal(t, "Review the PR", got[1].Description)
	assert.Equal(t, "Ship the build", got[2].Description)
}
