package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

const taggerPrompt = `
You are a part-of-speech tagger for a shopping assistant.
Your ONLY job is to list the nouns and proper nouns of the user's utterance.

RULES:
1. Do NOT converse.
2. Keep the order in which the words appear in the utterance.
3. Copy each word exactly as written; do not lemmatize or translate.
4. Output ONLY JSON. No markdown.

OUTPUT FORMAT:
{"nouns": ["<word>", ...]}

If there are no nouns, output {"nouns": []}.
`

type taggerResult struct {
	Nouns []string `json:"nouns"`
}

// OpenAITagger asks a chat model for the nouns of an utterance.
type OpenAITagger struct {
	client openai.Client
	model  string
}

func NewOpenAITagger(client openai.Client, model string) *OpenAITagger {
	if model == "" {
		model = string(openai.ChatModelGPT5Nano)
	}
	return &OpenAITagger{client: client, model: model}
}

func (t *OpenAITagger) Available() bool { return true }

func (t *OpenAITagger) Nouns(ctx context.Context, text string) ([]string, error) {
	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(taggerPrompt),
			openai.UserMessage(text),
		},
		Model: openai.ChatModel(t.model),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := stripFence(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty message content")
	}

	log.Debug("Tagged", "text", text, "data", content)

	var out taggerResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("unmarshal tagger result: %w (raw: %s)", err, content)
	}

	return out.Nouns, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
