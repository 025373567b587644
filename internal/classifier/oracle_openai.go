package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avelldahl/framewatch/internal/clients"
	"github.com/avelldahl/framewatch/internal/taxonomy"
	"github.com/avelldahl/framewatch/internal/utils"
)

const (
	oracleModel         = openai.GPT4oMini
	oracleRetryAttempts = 3
	oracleBatchSize     = 100
)

// OpenAIOracle classifies batches with a single chat completion per batch,
// holding the model to a strict index -> framing-id schema.
type OpenAIOracle struct {
	catalog *taxonomy.Catalog
}

func NewOpenAIOracle(catalog *taxonomy.Catalog) *OpenAIOracle {
	return &OpenAIOracle{catalog: catalog}
}

type oracleResponse struct {
	Assignments []OracleAssignment `json:"assignments"`
}

// ClassifyBatch feeds inputs through a batch buffer so oversized batches
// are split into bounded completions; one failed completion fails the whole
// call and the caller falls back to keywords.
func (o *OpenAIOracle) ClassifyBatch(ctx context.Context, subjectID string, inputs []OracleInput) ([]OracleAssignment, error) {
	buffer := utils.NewBatchBuffer[OracleInput]()
	var assignments []OracleAssignment

	flush := func() error {
		batch := buffer.GetAndClear()
		if len(batch) == 0 {
			return nil
		}
		got, err := o.complete(ctx, subjectID, batch)
		if err != nil {
			return err
		}
		assignments = append(assignments, got...)
		return nil
	}

	for _, in := range inputs {
		buffer.Add(in)
		if buffer.Size() >= oracleBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if buffer.HasData() {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	return assignments, nil
}

func (o *OpenAIOracle) complete(ctx context.Context, subjectID string, inputs []OracleInput) ([]OracleAssignment, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("[OpenAIOracle] failed to encode batch: %w", err)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: o.systemPrompt(subjectID)},
		{Role: openai.ChatMessageRoleUser, Content: string(payload)},
	}

	var resp openai.ChatCompletionResponse
	var completionErr error
	for attempt := 1; attempt <= oracleRetryAttempts; attempt++ {
		start := time.Now()
		resp, completionErr = clients.GetOpenAIClient().Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    oracleModel,
			Messages: messages,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if completionErr == nil {
			break
		}
		slog.Warn("[OpenAIOracle] Completion failed, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", completionErr.Error()))
	}
	if completionErr != nil {
		return nil, fmt.Errorf("[OpenAIOracle] completion failed after %d attempts: %w", oracleRetryAttempts, completionErr)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("[OpenAIOracle] empty completion response")
	}

	cleaned := cleanOracleResponse(resp.Choices[0].Message.Content)
	var parsed oracleResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("[OpenAIOracle] malformed completion payload: %w", err)
	}
	return parsed.Assignments, nil
}

func (o *OpenAIOracle) systemPrompt(subjectID string) string {
	var ids []string
	var lines []string
	for _, r := range o.catalog.Respects() {
		ids = append(ids, r.ID)
		lines = append(lines, fmt.Sprintf("- %s: %s", r.ID, r.JudgementQuestion))
	}

	return fmt.Sprintf(`You classify short news and polling texts about the subject %q into exactly one framing each.

Framings:
%s

You will receive a JSON array of objects with "index", "kind" and "text".
Respond only with a valid JSON object, no commentary, in the form:
{"assignments":[{"index":0,"respect_id":"%s","confidence":0.8}]}

Rules:
- Every input index MUST appear exactly once in "assignments".
- "respect_id" MUST be one of: %s.
- "confidence" is a number between 0 and 1.`,
		subjectID, strings.Join(lines, "\n"), ids[0], strings.Join(ids, ", "))
}

// cleanOracleResponse strips markdown fences some models wrap around JSON.
func cleanOracleResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
