// File: internal/services/chat/budget.go
package chat

import "github.com/cogniscript/server/internal/domain"

const fallbackKeep = 5

// EstimateTokens is the fixed heuristic used for budget math: one token per
// four bytes. Deliberately cheap, never a real tokenizer call.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EnforceBudget trims context and history so their combined token estimate
// fits maxTokens. When both fit, both pass through untouched. Otherwise the
// budget is split evenly: context items are kept greedily in their given
// relevance order, history pairs are kept from the most recent backward,
// and the kept history is returned in chronological order. This function
// never fails a turn: any internal panic degrades to the first five context
// items and the last five history messages.
func EnforceBudget(context []domain.ContextItem, history []domain.HistoryMessage, maxTokens int) (keptContext []domain.ContextItem, keptHistory []domain.HistoryMessage) {
	defer func() {
		if r := recover(); r != nil {
			keptContext = headItems(context, fallbackKeep)
			keptHistory = tailMessages(history, fallbackKeep)
		}
	}()

	contextTokens := 0
	for _, item := range context {
		contextTokens += EstimateTokens(item.Text)
	}
	historyTokens := 0
	for _, msg := range history {
		historyTokens += EstimateTokens(msg.Content)
	}

	if contextTokens+historyTokens <= maxTokens {
		return context, history
	}

	contextBudget := maxTokens / 2
	historyBudget := maxTokens / 2

	keptContext = make([]domain.ContextItem, 0, len(context))
	used := 0
	for _, item := range context {
		cost := EstimateTokens(item.Text)
		if used+cost > contextBudget {
			break
		}
		keptContext = append(keptContext, item)
		used += cost
	}

	// History is trimmed in user/assistant pairs, newest first, then put
	// back in chronological order.
	var reversed []domain.HistoryMessage
	used = 0
	for i := len(history) - 2; i >= 0; i -= 2 {
		pair := history[i : i+2]
		cost := EstimateTokens(pair[0].Content) + EstimateTokens(pair[1].Content)
		if used+cost > historyBudget {
			break
		}
		reversed = append(reversed, pair[1], pair[0])
		used += cost
	}
	keptHistory = make([]domain.HistoryMessage, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		keptHistory = append(keptHistory, reversed[i])
	}

	return keptContext, keptHistory
}

func headItems(items []domain.ContextItem, n int) []domain.ContextItem {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func tailMessages(messages []domain.HistoryMessage, n int) []domain.HistoryMessage {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
