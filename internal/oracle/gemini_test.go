package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noora-ekramy/accounting-demo/internal/model"
)

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[{"account_id":1}]`, `[{"account_id":1}]`},
		{"fenced", "```json\n[{\"account_id\":1}]\n```", `[{"account_id":1}]`},
		{"fenced no lang", "```\n[{\"account_id\":1}]\n```", `[{"account_id":1}]`},
		{"surrounding prose", "Sure! Here you go:\n[{\"account_id\":1}]\nHope that helps.", `[{"account_id":1}]`},
		{"whitespace", "  \n[{\"account_id\":1}]\n  ", `[{"account_id":1}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanModelJSON(tc.in))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	candidates := []model.Account{
		{ID: 5025, Name: "Cloud Hosting Expense", Type: model.AccountTypeExpense, Description: "Servers"},
		{ID: 4010, Name: "Service Revenue", Type: model.AccountTypeRevenue},
	}

	prompt := buildPrompt("AWS Hosting 998271", candidates)

	assert.Contains(t, prompt, "AWS Hosting 998271")
	assert.Contains(t, prompt, "5025: Cloud Hosting Expense [expense] Servers")
	assert.Contains(t, prompt, "4010: Service Revenue [revenue]")
	assert.Contains(t, prompt, "ONLY")
	assert.Contains(t, prompt, "JSON")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-0.2))
	assert.Equal(t, 1.0, clamp(1.7))
	assert.Equal(t, 0.42, clamp(0.42))
}
