package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestResponseRepoAppendAndQuery(t *testing.T) {
	st := openTestStore(t)
	repo := st.ResponseRepo()
	ctx := context.Background()

	answers := []struct {
		question string
		value    string
	}{
		{"root", "Breast Cancer"},
		{"breast-family", "yes"},
		{"breast-age", "52"},
	}
	for _, a := range answers {
		err := repo.Append(ctx, ResponseData{
			SessionID:  "s1",
			UserID:     "u1",
			QuestionID: a.question,
			Value:      a.value,
			At:         time.Now(),
		})
		require.NoError(t, err)
	}

	// A different session must not leak in.
	require.NoError(t, repo.Append(ctx, ResponseData{
		SessionID: "s2", QuestionID: "root", Value: "Skin Cancer", At: time.Now(),
	}))

	got, err := repo.BySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Traversal order is preserved via the global sequence.
	require.Equal(t, "root", got[0].QuestionID)
	require.Equal(t, "breast-family", got[1].QuestionID)
	require.Equal(t, "breast-age", got[2].QuestionID)
	require.Equal(t, "52", got[2].Value)
	require.Less(t, got[0].Sequence, got[1].Sequence)
}

func TestResponseRepoAppendOnlyHistory(t *testing.T) {
	st := openTestStore(t)
	repo := st.ResponseRepo()
	ctx := context.Background()

	// Re-answering the same question appends, never updates.
	for _, v := range []string{"no", "yes"} {
		require.NoError(t, repo.Append(ctx, ResponseData{
			SessionID: "s1", QuestionID: "smoker", Value: v, At: time.Now(),
		}))
	}

	got, err := repo.BySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "no", got[0].Value)
	require.Equal(t, "yes", got[1].Value)
}

func TestResultRepoRecent(t *testing.T) {
	st := openTestStore(t)
	repo := st.ResultRepo()
	ctx := context.Background()

	for i, label := range []string{"Low", "Moderate", "High"} {
		require.NoError(t, repo.Append(ctx, ResultData{
			SessionID:   "s" + label,
			UserID:      "u1",
			TotalScore:  i * 50,
			BandLabel:   label,
			CompletedAt: time.Now(),
		}))
	}

	got, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	require.Equal(t, "High", got[0].BandLabel)
	require.Equal(t, "Moderate", got[1].BandLabel)
}

func TestResultRepoUnmatchedBand(t *testing.T) {
	st := openTestStore(t)
	repo := st.ResultRepo()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, ResultData{
		SessionID:    "s1",
		TotalScore:   999,
		BandLabel:    "", // no band matched
		WarningCount: 1,
		CompletedAt:  time.Now(),
	}))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Empty(t, got[0].BandLabel)
	require.Equal(t, 1, got[0].WarningCount)
}

func TestSequenceSpansTables(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.ResponseRepo().Append(ctx, ResponseData{
		SessionID: "s1", QuestionID: "root", Value: "yes", At: time.Now(),
	}))
	require.NoError(t, st.ResultRepo().Append(ctx, ResultData{
		SessionID: "s1", TotalScore: 10, BandLabel: "Low", CompletedAt: time.Now(),
	}))

	responses, err := st.ResponseRepo().BySession(ctx, "s1")
	require.NoError(t, err)
	results, err := st.ResultRepo().Recent(ctx, 1)
	require.NoError(t, err)

	// The result landed after the response in the global order.
	require.Less(t, responses[0].Sequence, results[0].Sequence)
}
