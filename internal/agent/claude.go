package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/castorlabs/crew/internal/cost"
	"github.com/castorlabs/crew/internal/registry"
	"github.com/castorlabs/crew/pkg/models"
)

// ModelPricing contains pricing per 1M tokens for a model.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// DefaultModelPricing contains pricing for known Claude models.
var DefaultModelPricing = map[anthropic.Model]ModelPricing{
	anthropic.ModelClaudeSonnet4_20250514: {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-3-5-haiku-20241022":           {InputPerMillion: 0.80, OutputPerMillion: 4.00},
}

// ClaudeConfig contains configuration for creating a ClaudeExecutor.
type ClaudeConfig struct {
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// Model is the Claude model to use. Defaults to Sonnet.
	Model string
	// MaxTokens caps the response size per task. Defaults to 4096.
	MaxTokens int64
	// Ledger receives the estimated spend per task. Optional.
	Ledger *cost.Ledger
	// Agents supplies recipient profiles for the system prompt. Optional.
	Agents *registry.Store
}

// ClaudeExecutor executes tasks by sending them to the Anthropic API.
// Each task becomes a single message exchange; the response text is
// the task's result payload, and token usage is priced into the ledger.
type ClaudeExecutor struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	ledger    *cost.Ledger
	agents    *registry.Store
}

// NewClaudeExecutor creates a ClaudeExecutor.
func NewClaudeExecutor(cfg ClaudeConfig) (*ClaudeExecutor, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &ClaudeExecutor{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
		ledger:    cfg.Ledger,
		agents:    cfg.Agents,
	}, nil
}

// Execute implements Executor.
func (e *ClaudeExecutor) Execute(ctx context.Context, task *models.Task) (*Result, error) {
	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: e.systemPrompt(task)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(task.Content)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("task %s: API call failed: %w", task.ID, err)
	}

	var output string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			output += variant.Text
		}
	}

	spent := e.estimateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	if e.ledger != nil {
		e.ledger.AddCost(spent)
	}

	return &Result{
		TaskID: task.ID,
		Output: output,
		Cost:   spent,
	}, nil
}

// systemPrompt builds the instruction frame for a task. If the task
// has a registered recipient, its role and goal shape the prompt.
func (e *ClaudeExecutor) systemPrompt(task *models.Task) string {
	prompt := fmt.Sprintf("You are performing a %s task on behalf of %s. Respond with the deliverable only.", task.Kind, task.Sender)

	if e.agents != nil && task.Recipient != "" {
		if p, ok := e.agents.Get(task.Recipient); ok {
			prompt = fmt.Sprintf("You are %s, a %s agent. Your goal: %s. Respond with the deliverable only.", p.Name, p.Role, p.Goal)
		}
	}
	return prompt
}

// estimateCost prices token usage using the model's published rates.
// Unknown models fall back to Sonnet rates.
func (e *ClaudeExecutor) estimateCost(inputTokens, outputTokens int64) float64 {
	pricing, ok := DefaultModelPricing[e.model]
	if !ok {
		pricing = DefaultModelPricing[anthropic.ModelClaudeSonnet4_20250514]
	}
	inputCost := float64(inputTokens) / 1_000_000 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000 * pricing.OutputPerMillion
	return inputCost + outputCost
}
