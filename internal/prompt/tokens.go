package prompt

import "strings"

// DefaultTokenBudget is the context window the percentage is reported
// against.
const DefaultTokenBudget = 128000

// DefaultTokensPerWord is the whitespace-word to token conversion factor.
const DefaultTokensPerWord = 1.2

// EstimateTokens approximates the token count of text from its whitespace
// word count. A deliberate heuristic: close enough to steer selection, with
// no tokenizer dependency.
func EstimateTokens(text string, tokensPerWord float64) int {
	if tokensPerWord <= 0 {
		tokensPerWord = DefaultTokensPerWord
	}
	return int(float64(len(strings.Fields(text))) * tokensPerWord)
}

// BudgetPercent returns how much of the token budget the estimate consumes,
// capped at 100.
func BudgetPercent(tokens, budget int) float64 {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	pct := float64(tokens) / float64(budget) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
