// Package grouping partitions a flat tool catalog into named sub-agent
// groups by negotiating with a completion provider.
package grouping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fentz26/crewmux/internal/llm"
	"github.com/fentz26/crewmux/internal/models"
)

var (
	// ErrNoTools is returned when the input catalog is empty. No provider
	// call is made in that case.
	ErrNoTools = errors.New("no tools to group")
	// ErrExhausted is returned when every attempt failed; it wraps the
	// last recorded parse or validation failure.
	ErrExhausted = errors.New("grouping attempts exhausted")
)

// Config tunes the orchestration loop.
type Config struct {
	// MaxAttempts bounds the outer loop; each attempt reruns the full
	// three-phase conversation from scratch.
	MaxAttempts int
	// MaxFormatRetries bounds the inner Phase-3 loop, which repairs a bad
	// reply inside the same conversation instead of restarting.
	MaxFormatRetries int
	// CallTimeout bounds each individual completion call.
	CallTimeout time.Duration
	// Enforcement selects strict or advisory numeric constraint checking.
	Enforcement Enforcement
}

// DefaultConfig returns the standard orchestration settings.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:      3,
		MaxFormatRetries: 3,
		CallTimeout:      120 * time.Second,
		Enforcement:      EnforcementStrict,
	}
}

// Grouper drives the three-phase grouping conversation.
type Grouper struct {
	provider llm.CompletionProvider
	config   *Config
	logger   *zap.Logger
}

// NewGrouper creates a grouper. A nil config means DefaultConfig; a nil
// logger is replaced with a no-op one.
func NewGrouper(provider llm.CompletionProvider, cfg *Config, logger *zap.Logger) *Grouper {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grouper{provider: provider, config: cfg, logger: logger}
}

// GroupTools negotiates a validated partition of tools. Constraint
// satisfiability by raw arithmetic is deliberately not pre-checked: a tool
// may be placed in multiple groups, so tools < minGroups*minToolsPerGroup is
// still solvable.
func (g *Grouper) GroupTools(ctx context.Context, tools []models.Tool, constraints models.GroupingConstraints, pctx *models.ProjectContext) ([]models.ToolGroup, error) {
	if len(tools) == 0 {
		return nil, ErrNoTools
	}
	if err := ValidateConstraints(constraints); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}

	catalog := make(map[string]models.Tool, len(tools))
	for _, t := range tools {
		catalog[t.Key()] = t
	}

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		groups, err := g.runAttempt(ctx, tools, catalog, constraints, pctx, attempt)
		if err == nil {
			g.logger.Info("grouping converged",
				zap.Int("attempt", attempt),
				zap.Int("groups", len(groups)),
				zap.Int("tools", len(tools)))
			return groups, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		g.logger.Warn("grouping attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, g.config.MaxAttempts, lastErr)
}

// runAttempt executes one full three-phase conversation. The turn list is a
// fresh value for every attempt; nothing carries over except the attempt
// number surfaced in the assignment prompt.
func (g *Grouper) runAttempt(ctx context.Context, tools []models.Tool, catalog map[string]models.Tool, constraints models.GroupingConstraints, pctx *models.ProjectContext, attempt int) ([]models.ToolGroup, error) {
	conv := appendTurn(nil, models.RoleSystem, systemPrompt)

	// Phase 1: free-text analysis, kept verbatim as context.
	conv = appendTurn(conv, models.RoleUser, buildAnalysisPrompt(tools, pctx))
	analysis, err := g.complete(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("analysis phase: %w", err)
	}
	conv = appendTurn(conv, models.RoleAssistant, analysis)

	// Phase 2: free-text strategy honoring the numeric constraints.
	conv = appendTurn(conv, models.RoleUser, buildStrategyPrompt(constraints))
	strategy, err := g.complete(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("strategy phase: %w", err)
	}
	conv = appendTurn(conv, models.RoleAssistant, strategy)

	// Phase 3: strict JSON assignment with in-conversation repair. A bad
	// reply is fed back together with what was wrong; phases 1-2 are not
	// rerun for formatting slips.
	conv = appendTurn(conv, models.RoleUser, buildAssignmentPrompt(attempt))

	var lastErr error
	for inner := 1; inner <= g.config.MaxFormatRetries; inner++ {
		reply, err := g.completeJSON(ctx, conv)
		if err != nil {
			lastErr = fmt.Errorf("assignment phase: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		groups, parseErr := parseAssignment(reply, catalog)
		if parseErr != nil {
			lastErr = parseErr
			g.logger.Debug("assignment reply rejected",
				zap.Int("attempt", attempt),
				zap.Int("inner", inner),
				zap.String("problem", parseErr.Error()))
			conv = appendTurn(conv, models.RoleAssistant, reply)
			conv = appendTurn(conv, models.RoleUser, buildRepairPrompt(parseErr.Error()))
			continue
		}

		// Structural or numeric validation failures mean the strategy
		// itself is off; escalate to the outer loop.
		result := ValidateGroups(groups, constraints, g.config.Enforcement)
		if !result.Valid {
			return nil, fmt.Errorf("partition failed validation: %s", strings.Join(result.Errors, "; "))
		}
		return groups, nil
	}
	return nil, lastErr
}

func (g *Grouper) complete(ctx context.Context, conv []models.ConversationTurn) (string, error) {
	return g.call(ctx, &llm.CompleteOptions{Messages: conv})
}

// completeJSON additionally hints the assignment schema to providers that
// support structured output. The reply is validated either way.
func (g *Grouper) completeJSON(ctx context.Context, conv []models.ConversationTurn) (string, error) {
	return g.call(ctx, &llm.CompleteOptions{Messages: conv, ResponseSchema: assignmentSchema()})
}

func (g *Grouper) call(ctx context.Context, opts *llm.CompleteOptions) (string, error) {
	callCtx := ctx
	if g.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.config.CallTimeout)
		defer cancel()
	}
	prompt := opts.Messages[len(opts.Messages)-1].Content
	return g.provider.Complete(callCtx, prompt, opts)
}

// appendTurn copies the conversation before appending, so each retry branch
// owns its own snapshot and attempts stay reproducible in isolation.
func appendTurn(conv []models.ConversationTurn, role models.Role, content string) []models.ConversationTurn {
	next := make([]models.ConversationTurn, len(conv), len(conv)+1)
	copy(next, conv)
	return append(next, models.ConversationTurn{Role: role, Content: content})
}
