package state

import (
	"context"
	"fmt"
	"testing"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/analyzer"
	"github.com/sandevgo/sentinel/internal/service/truth"
	"github.com/sandevgo/sentinel/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, texts ...string) *Service {
	t.Helper()
	facts := memory.NewFactRepo()
	store := truth.NewStore(facts)
	ingests := memory.NewIngestRepo(facts)
	a := analyzer.NewAnalyzer(nil, store, ingests, nil)
	for _, text := range texts {
		_, err := a.Analyze(context.Background(), core.IngestRequest{Text: text, Source: "test"})
		require.NoError(t, err)
	}
	return NewService(7, store, ingests)
}

func TestSnapshot_Empty(t *testing.T) {
	snap, err := seeded(t).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), snap.OrgID)
	assert.Nil(t, snap.LatestRisk)
	assert.Empty(t, snap.LatestTruths)
	assert.NotNil(t, snap.History)
	assert.NotNil(t, snap.LatestTasks)
}

func TestSnapshot(t *testing.T) {
	svc := seeded(t,
		"Launch Friday. Task: prepare the press kit",
		"Launch Monday. Backend is blocked. Maya will fix the auth bug",
	)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.LatestTruths, 1)
	assert.Equal(t, "Monday", snap.LatestTruths[0].Value)
	assert.Len(t, snap.Timeline["launch_date"], 2)

	require.NotNil(t, snap.LatestRisk)
	assert.Contains(t, snap.LatestRisk.Reasons, "Blocker detected")

	require.Len(t, snap.Conflicts, 1)
	assert.Equal(t, "launch_date", snap.Conflicts[0].Key)

	require.Len(t, snap.History, 2)
	assert.Contains(t, snap.History[0].Text, "Launch Monday")

	// Tasks come from the latest ingest only.
	for _, task := range snap.LatestTasks {
		assert.NotContains(t, task.Description, "press kit")
	}
	assert.NotEmpty(t, snap.LatestTasks)
}

func TestAsk_Digest(t *testing.T) {
	texts := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		texts = append(texts, fmt.Sprintf("Priority is P%d", i%2))
	}
	svc := seeded(t, texts...)

	ans, err := svc.Ask(context.Background(), "What CHANGED today?")
	require.NoError(t, err)
	require.NotNil(t, ans.Digest)
	assert.Empty(t, ans.Hint)
	assert.Len(t, ans.Digest.RecentUpdates, digestUpdates)
	assert.Len(t, ans.Digest.Conflicts, digestConflicts)
	assert.Len(t, ans.Digest.Truths, 1)
}

func TestAsk_Hint(t *testing.T) {
	ans, err := seeded(t).Ask(context.Background(), "who is on call?")
	require.NoError(t, err)
	assert.Nil(t, ans.Digest)
	assert.Equal(t, Hint, ans.Hint)
}
