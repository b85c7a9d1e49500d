package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/seoulbites/matzip/internal/domain"
)

const translatorComponent = "translate"

const translatorSystemPrompt = "You are a professional Korean translator for a restaurant review app. " +
	"Given an English summary of reviewer patterns, rewrite only the content in natural Korean, " +
	"short and friendly, as if explaining to a Korean friend. " +
	"IMPORTANT: If the text contains section headers such as '[Korean Reviewer Pattern]' or " +
	"'[Non-Korean Reviewer Pattern]', DO NOT translate or remove them. " +
	"Leave those headers exactly as they are and translate only the sentences below."

// Translator renders English reviewer-pattern text in Korean for display.
type Translator struct {
	chat *chatClient
}

// NewTranslator creates a chat-completion backed pattern translator.
func NewTranslator(cfg *ChatConfig) *Translator {
	return &Translator{chat: newChatClient(cfg)}
}

// TranslateToKorean rewrites English reviewer-pattern text in Korean,
// keeping bracketed section headers intact. Empty input translates to ""
// without an API call. Failures wrap domain.ErrTranslationUnavailable.
func (t *Translator) TranslateToKorean(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	out, err := t.chat.complete(ctx, translatorComponent, 0.3, translatorSystemPrompt, text)
	if err != nil {
		return "", fmt.Errorf("translate pattern: %v: %w", err, domain.ErrTranslationUnavailable)
	}
	return out, nil
}
