// Package supervisor orchestrates one query end to end: classify it, fan
// it out to the selected specialists, and merge their responses into a
// single reply in a fixed order. The supervisor is the only component that
// talks to more than one specialist.
package supervisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/pkg/log"
)

const (
	greetingReply = "Hello! I'm " + core.PulseName + ", your health assistant. Ask me about your sleep, activity, readiness or goals, for example \"How did I sleep?\" or \"Should I work out today?\""

	personaPrompt = "You are " + core.PulseName + ", a friendly personal health assistant built around a wellness ring. Reply to the greeting or small talk in one or two short sentences and mention you can answer questions about sleep, activity, readiness and goals. Never invent health data."

	clarificationReply = "I didn't catch a question there. Ask me about your sleep, activity, readiness, goals, or whether your ring data is up to date."

	unclassifiedNote = "I wasn't sure which specialist fits this question, so the data auditor took it."

	allFailedReply = "I couldn't answer that right now: every specialist I consulted failed. Please try again in a moment."

	recordCaveat = "(Note: I could not save this exchange for future recall.)"
)

type Supervisor struct {
	router      *Router
	specialists map[core.SpecialistTag]core.Specialist
	ai          core.AIProvider
	working     core.WorkingMemory
	episodic    core.EpisodicMemory
	timeout     time.Duration
}

func New(cfg *config.LLMConfig, ai core.AIProvider, working core.WorkingMemory, episodic core.EpisodicMemory, specialists ...core.Specialist) *Supervisor {
	byTag := make(map[core.SpecialistTag]core.Specialist, len(specialists))
	for _, s := range specialists {
		byTag[s.Tag()] = s
	}
	return &Supervisor{
		router:      NewRouter(),
		specialists: byTag,
		ai:          ai,
		working:     working,
		episodic:    episodic,
		timeout:     cfg.SpecialistTimeout,
	}
}

// Process answers one query. It always returns something sendable: routing
// failures fall back to the data auditor and total specialist failure
// becomes a user-facing notice, never a raw error.
func (s *Supervisor) Process(ctx context.Context, query core.Query) string {
	logger := log.FromCtx(ctx).With().Str("query_id", query.ID).Logger()
	ctx = logger.WithContext(ctx)

	route := s.router.Route(query.Text)

	switch route.Intent {
	case IntentEmpty:
		logger.Debug().Msg("empty query, asking for clarification")
		return clarificationReply

	case IntentGreeting:
		// Answered directly, zero specialists, and nothing written to any
		// memory store.
		logger.Debug().Msg("conversational query, answering directly")
		return s.greet(ctx, query)
	}

	tags := make([]string, len(route.Tags))
	for i, t := range route.Tags {
		tags[i] = string(t)
	}
	logger.Info().Strs("specialists", tags).Bool("unclassified", route.Unclassified).Msg("dispatching query")

	thread := s.loadThread(ctx, query.ThreadID)
	s.saveTurn(ctx, query.ThreadID, core.RoleUser, query.Text)

	responses := s.dispatch(ctx, query, thread, route.Tags)
	reply := s.merge(route, responses)

	if !allFailed(responses) {
		// Failure notices are not worth recalling later, so only real
		// answers become episodes. A failed write is surfaced to the user
		// rather than silently losing the memory.
		if err := s.episodic.Record(ctx, query.ThreadID, query.Text, reply); err != nil {
			logger.Warn().Err(err).Msg("failed to record episode")
			reply += "\n\n" + recordCaveat
		}
	}

	s.saveTurn(ctx, query.ThreadID, core.RoleAssistant, reply)

	return reply
}

// greet answers small talk with one persona call, no tools, no memory.
// The model failing over a pleasantry is not worth a failure notice, so
// any error falls back to the canned greeting.
func (s *Supervisor) greet(ctx context.Context, query core.Query) string {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.ai.Chat(tctx, []core.Message{
		{Role: core.RoleSystem, Content: personaPrompt},
		{Role: core.RoleUser, Content: query.Text},
	}, nil)
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("persona call failed, using canned greeting")
		return greetingReply
	}
	return resp.Content
}

// dispatch runs the selected specialists and collects their responses in
// routing order. Each gets its own timeout; a slow or failing specialist
// never takes a sibling down with it.
func (s *Supervisor) dispatch(ctx context.Context, query core.Query, thread core.ThreadContext, tags []core.SpecialistTag) []core.SpecialistResponse {
	responses := make([]core.SpecialistResponse, len(tags))

	if len(tags) == 1 {
		responses[0] = s.invoke(ctx, tags[0], query, thread)
		return responses
	}

	var g errgroup.Group
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			responses[i] = s.invoke(ctx, tag, query, thread)
			return nil
		})
	}
	// Specialists fail closed, so the group never returns an error.
	_ = g.Wait()

	return responses
}

func (s *Supervisor) invoke(ctx context.Context, tag core.SpecialistTag, query core.Query, thread core.ThreadContext) core.SpecialistResponse {
	spec, ok := s.specialists[tag]
	if !ok {
		// The router and the registry are both closed sets; disagreement
		// between them is a wiring bug, reported like any other failure.
		log.FromCtx(ctx).Error().Str("specialist", string(tag)).Msg("routed to unregistered specialist")
		return core.SpecialistResponse{
			Tag:    tag,
			Text:   fmt.Sprintf("The %s is not available.", strings.ReplaceAll(string(tag), "_", " ")),
			Failed: true,
		}
	}

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return spec.Handle(tctx, query, thread)
}

// merge builds the final reply. Responses are already in routing order
// and stay that way regardless of which specialist finished first.
// Freshness warnings come before everything else and survive even a
// total failure.
func (s *Supervisor) merge(route Route, responses []core.SpecialistResponse) string {
	var b strings.Builder

	if route.Unclassified {
		b.WriteString(unclassifiedNote)
		b.WriteString("\n\n")
	}

	if warnings := collectWarnings(responses); warnings != "" {
		b.WriteString(warnings)
		b.WriteString("\n\n")
	}

	if allFailed(responses) {
		b.WriteString(allFailedReply)
		return b.String()
	}

	if len(responses) == 1 {
		b.WriteString(responses[0].Text)
		return b.String()
	}

	sections := make([]string, 0, len(responses))
	for _, r := range responses {
		sections = append(sections, fmt.Sprintf("**%s**\n%s", sectionTitle(r.Tag), r.Text))
	}
	b.WriteString(strings.Join(sections, "\n\n"))

	return b.String()
}

func allFailed(responses []core.SpecialistResponse) bool {
	for _, r := range responses {
		if !r.Failed {
			return false
		}
	}
	return true
}

// collectWarnings renders every freshness warning once, first mention
// wins. Warnings survive even when the specialist text is terse.
func collectWarnings(responses []core.SpecialistResponse) string {
	seen := make(map[core.Domain]bool)
	var lines []string
	for _, r := range responses {
		for _, w := range r.Warnings {
			if seen[w.Domain] {
				continue
			}
			seen[w.Domain] = true
			lines = append(lines, "- "+w.Warning())
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "⚠️ Data warnings:\n" + strings.Join(lines, "\n")
}

func sectionTitle(tag core.SpecialistTag) string {
	switch tag {
	case core.SpecSleep:
		return "Sleep"
	case core.SpecFitness:
		return "Fitness"
	case core.SpecMemory:
		return "Memory"
	case core.SpecAuditor:
		return "Data quality"
	}
	return string(tag)
}

func (s *Supervisor) loadThread(ctx context.Context, threadID string) core.ThreadContext {
	thread, err := s.working.Load(ctx, threadID)
	if err != nil {
		// Specialists can still answer from live data; an empty context
		// beats refusing the query.
		log.FromCtx(ctx).Warn().Err(err).Str("thread_id", threadID).Msg("failed to load thread context")
		return core.ThreadContext{ThreadID: threadID}
	}
	return thread
}

func (s *Supervisor) saveTurn(ctx context.Context, threadID, role, content string) {
	if err := s.working.Save(ctx, threadID, role, content); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("thread_id", threadID).Msg("failed to save turn")
	}
}
