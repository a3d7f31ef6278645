package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

var ruleCandidates = []model.Account{
	{ID: 5025, Name: "Cloud Hosting Expense", Type: model.AccountTypeExpense},
	{ID: 5020, Name: "Software & SaaS", Type: model.AccountTypeExpense},
}

func TestRules_KeywordMatch(t *testing.T) {
	r := NewRules([]Rule{
		{Keywords: []string{"aws", "digitalocean"}, AccountID: 5025, Confidence: 0.9},
	})

	got, err := r.Classify(context.Background(), "AWS Hosting 998271", ruleCandidates)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5025, got[0].AccountID)
	assert.InDelta(t, 0.9, got[0].Confidence, 0.001)
	assert.Contains(t, got[0].Rationale, "aws")
}

func TestRules_DefaultConfidence(t *testing.T) {
	r := NewRules([]Rule{
		{Keywords: []string{"github"}, AccountID: 5020},
	})

	got, err := r.Classify(context.Background(), "GITHUB INC", ruleCandidates)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, defaultRuleConfidence, got[0].Confidence, 0.001)
}

func TestRules_OutsideCandidateListSkipped(t *testing.T) {
	r := NewRules([]Rule{
		{Keywords: []string{"aws"}, AccountID: 9999},
	})

	got, err := r.Classify(context.Background(), "AWS Hosting", ruleCandidates)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRules_NoMatch(t *testing.T) {
	r := NewRules([]Rule{
		{Keywords: []string{"aws"}, AccountID: 5025},
	})

	got, err := r.Classify(context.Background(), "OFFICE DEPOT 42", ruleCandidates)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadRules(t *testing.T) {
	yaml := `rules:
  - keywords: ["aws", "amazon web services"]
    account_id: 5025
    confidence: 0.85
  - keywords: ["github"]
    account_id: 5020
`
	path := filepath.Join(t.TempDir(), "categorization-rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	r, err := LoadRules(path)
	require.NoError(t, err)

	got, err := r.Classify(context.Background(), "amazon web services invoice", ruleCandidates)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5025, got[0].AccountID)
	assert.InDelta(t, 0.85, got[0].Confidence, 0.001)
}

func TestLoadRules_Missing(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
