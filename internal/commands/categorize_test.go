package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRulesRepo creates a project and switches the oracle to the offline
// rules provider so tests never reach the network.
func initRulesRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runAcct(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "acct.yaml")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	cfg := string(data)
	require.Contains(t, cfg, "provider: gemini")
	cfg = strings.Replace(cfg, "provider: gemini", "provider: rules", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	rules := "rules:\n  - keywords: [\"aws\", \"digitalocean\"]\n    account_id: 5025\n    confidence: 0.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "categorization-rules.yaml"), []byte(rules), 0o644))

	return dir
}

func TestCategorize_RulesOracle(t *testing.T) {
	dir := initRulesRepo(t)

	csvPath := filepath.Join(dir, "march.csv")
	csv := "date,description,amount\n" +
		"2025-03-10,AWS *Hosting 998271,-45.00\n" +
		"2025-03-11,MYSTERY VENDOR,-12.00\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	out, err := runAcct(t, "categorize", "--repo", dir, "--file", csvPath)
	require.NoError(t, err, out)

	assert.Contains(t, out, "AWS *Hosting 998271")
	assert.Contains(t, out, "(0.90)")
	assert.Contains(t, out, "matched keyword \"aws\"")
	assert.Contains(t, out, "debit  5025")
	assert.Contains(t, out, "credit 1010")

	// No rule matches the second transaction, so it degrades to the
	// zero-confidence uncategorized suggestion.
	assert.Contains(t, out, "(0.00) no match found")
	assert.Contains(t, out, "debit  5990")
}

func TestCategorize_SkipsZeroAmount(t *testing.T) {
	dir := initRulesRepo(t)

	csvPath := filepath.Join(dir, "march.csv")
	csv := "date,description,amount\n2025-03-10,VOID,0.00\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	out, err := runAcct(t, "categorize", "--repo", dir, "--file", csvPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "skipped")
}

func TestCategorize_UnknownFormat(t *testing.T) {
	dir := initRulesRepo(t)

	out, err := runAcct(t, "categorize", "--repo", dir, "--file", "x.csv", "--format", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "unknown format")
}

func TestCategorize_RequiresFile(t *testing.T) {
	dir := initRulesRepo(t)

	_, err := runAcct(t, "categorize", "--repo", dir)
	require.Error(t, err)
}

func TestAccountsList(t *testing.T) {
	dir := initRulesRepo(t)

	out, err := runAcct(t, "accounts", "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Business Checking")
	assert.Contains(t, out, "Uncategorized Expense")

	out, err = runAcct(t, "accounts", "list", "--repo", dir, "--type", "expense")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Cloud Hosting Expense")
	assert.NotContains(t, out, "Business Checking")
}
