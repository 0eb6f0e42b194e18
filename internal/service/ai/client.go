package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/frontdesk-ai/frontdesk/backend/internal/config"
	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
)

// DefaultTimeout bounds a single completion call so a stalled model
// endpoint can never block a conversation turn indefinitely.
const DefaultTimeout = 10 * time.Second

// Client sends one conversation context to the language-model endpoint
// and returns the reply text or a typed Failure. It performs no retries;
// retry-or-fallback policy belongs to the conversation engine.
type Client struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	timeout   time.Duration
}

// NewClient builds the client from configuration, constructing the ark
// chat model and the prompt chain around it.
func NewClient(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewClientWithModel(ctx, chatModel, cfg.Timeout)
}

// NewClientWithModel wires the chain around an existing chat model.
// Tests inject stub models here.
func NewClientWithModel(ctx context.Context, chatModel model.ChatModel, timeout time.Duration) (*Client, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		chatModel: chatModel,
		chain:     runnable,
		timeout:   timeout,
	}, nil
}

// Complete runs one turn against the model under the client's own
// deadline. Errors are always a *Failure.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []call.Turn, userMessage string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.chain.Invoke(cctx, chainInput(systemPrompt, history, userMessage))
	if err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return "", &Failure{Kind: FailureTimeout, Err: err}
		}
		return "", classify(err)
	}

	if response == nil || response.Content == "" {
		return "", &Failure{Kind: FailureBadResponse, Err: fmt.Errorf("empty completion payload")}
	}
	return response.Content, nil
}

// Stream returns the model's incremental reply chunks. The caller owns
// closing the reader; stream errors surface through Recv and keep their
// raw form since the SSE handler falls back on any of them.
func (c *Client) Stream(ctx context.Context, systemPrompt string, history []call.Turn, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := c.chain.Stream(ctx, chainInput(systemPrompt, history, userMessage))
	if err != nil {
		return nil, classify(err)
	}
	return stream, nil
}

func chainInput(systemPrompt string, history []call.Turn, userMessage string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": historyMessages(history),
		"query":   userMessage,
	}
}

// historyMessages maps transcript turns into model messages. The whole
// transcript is sent; sessions are short-lived and capped by the idle
// sweep, so prompt growth stays bounded in practice.
func historyMessages(history []call.Turn) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case call.RoleCaller:
			messages = append(messages, schema.UserMessage(turn.Content))
		case call.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return messages
}
