package specialist

import (
	"context"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

// Engine runs the chat loop shared by all specialists: send history plus
// tools, execute any tool calls, feed results back, repeat until the model
// answers in plain text or the iteration cap trips.
type Engine struct {
	ai            core.AIProvider
	maxIterations int
}

func NewEngine(cfg *config.LLMConfig, ai core.AIProvider) *Engine {
	return &Engine{
		ai:            ai,
		maxIterations: cfg.MaxToolIterations,
	}
}

func (e *Engine) Run(ctx context.Context, system string, thread core.ThreadContext, query core.Query, tools *Toolset) (string, error) {
	logger := log.FromCtx(ctx)

	messages := make([]core.Message, 0, len(thread.Turns)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: system})
	messages = append(messages, thread.History()...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: query.Text})

	var final string

	for i := 0; i < e.maxIterations; i++ {
		resp, err := e.ai.Chat(ctx, messages, tools.Tools())
		if err != nil {
			return "", fmt.Errorf("ai chat: %w", err)
		}
		messages = append(messages, resp)

		if resp.Content != "" {
			final = resp.Content
		}
		if len(resp.ToolCalls) == 0 {
			return final, nil
		}

		for _, tc := range resp.ToolCalls {
			logger.Info().Str("tool", tc.Function.Name).Msg("executing tool")

			result, err := tools.Call(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				logger.Warn().Err(err).Str("tool", tc.Function.Name).Msg("tool call failed")
				result = fmt.Sprintf("Error: %v", err)
			}

			messages = append(messages, core.Message{
				Role:       core.RoleTool,
				Content:    truncateToolResult(result),
				ToolCallID: tc.ID,
			})
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d iterations", e.maxIterations)
}

// truncateToolResult bounds a tool result before it enters the context
// window, keeping the head and tail which usually carry the useful part.
func truncateToolResult(input string) string {
	const maxLen = 2000
	if len(input) <= maxLen {
		return input
	}

	head := input[:500]
	tail := input[len(input)-(maxLen-500):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-maxLen, tail)
}
