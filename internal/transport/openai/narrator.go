package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/seoulbites/matzip/internal/domain"
)

const narratorComponent = "narrate"

const narratorSystemPrompt = `You are a friendly restaurant concierge for a New York City restaurant search app used by Korean speakers.
Given a search query, a ranked list of recommended restaurants and the user's priorities, write a short answer in natural, friendly Korean (2-3 sentences) presenting the recommendations.
Mention at most the first three restaurant names, in the given order, and keep the names exactly as written (do not translate or transliterate them).
Do NOT invent details such as dishes, prices or addresses. Output plain text only.`

// Narrator writes the conversational answer shown above the ranked results.
type Narrator struct {
	chat *chatClient
}

// NewNarrator creates a chat-completion backed narrator.
func NewNarrator(cfg *ChatConfig) *Narrator {
	return &Narrator{chat: newChatClient(cfg)}
}

// Narrate produces the answer text for a query and its ranked restaurant
// names. Failures wrap domain.ErrNarrationUnavailable so the caller can
// fall back to a templated answer.
func (n *Narrator) Narrate(ctx context.Context, queryEN string, names []string, weights domain.AspectWeights) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", queryEN)
	fmt.Fprintf(&b, "Restaurants (ranked): %s\n", strings.Join(names, ", "))
	if clause := weights.PreferenceClause(); clause != "" {
		b.WriteString(clause)
		b.WriteString("\n")
	}

	answer, err := n.chat.complete(ctx, narratorComponent, 0.7, narratorSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("narrate answer: %v: %w", err, domain.ErrNarrationUnavailable)
	}
	if answer == "" {
		return "", fmt.Errorf("empty narration: %w", domain.ErrNarrationUnavailable)
	}
	return answer, nil
}
