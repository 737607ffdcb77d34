package specialist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/model"
	"github.com/cadre-ai/cadre/internal/role"
)

// Engine holds one specialist per catalog role and dispatches invocations
// against the model client. It records an invocation history and per-role
// statistics and publishes lifecycle events for every attempt. All methods
// are safe for concurrent use.
type Engine struct {
	client model.Client
	bus    *event.Bus
	log    *logging.Logger

	// specialists is built once at construction and never mutated, so
	// lookups do not take the mutex.
	specialists map[role.AgentRole]*Agent

	mu       sync.Mutex
	history  []Response
	counts   map[role.AgentRole]int
	failures int
	tokens   int
}

// NewEngine creates an Engine with one specialist per role in the catalog.
// A nil bus or logger is replaced with a no-op implementation.
func NewEngine(catalog *role.Catalog, client model.Client, bus *event.Bus, log *logging.Logger) *Engine {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.NopLogger()
	}

	specialists := make(map[role.AgentRole]*Agent)
	for _, r := range catalog.Roles() {
		def, _ := catalog.Lookup(r)
		specialists[r] = NewAgent(def)
	}

	return &Engine{
		client:      client,
		bus:         bus,
		log:         log,
		specialists: specialists,
		counts:      make(map[role.AgentRole]int),
	}
}

// Specialist returns the engine's agent for a role.
func (e *Engine) Specialist(r role.AgentRole) (*Agent, bool) {
	a, ok := e.specialists[r]
	return a, ok
}

// Invoke dispatches a single invocation to the specialist for r. It
// publishes agent.invoked before the model call and agent.responded after
// it, synchronously, before returning.
func (e *Engine) Invoke(ctx context.Context, r role.AgentRole, prompt, contextStr string) (Response, error) {
	return e.InvokeWithFiles(ctx, r, prompt, contextStr, nil)
}

// InvokeWithFiles is Invoke with referenced file paths attached to the
// request; the paths are appended to the model-call context.
func (e *Engine) InvokeWithFiles(ctx context.Context, r role.AgentRole, prompt, contextStr string, files []string) (Response, error) {
	a, ok := e.specialists[r]
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", errors.ErrRoleNotFound, r)
	}
	return e.invoke(ctx, a, Request{
		ID:      uuid.NewString(),
		AgentID: a.ID,
		Role:    a.Role,
		Prompt:  prompt,
		Context: contextStr,
		Files:   files,
	})
}

// InvokeAgent dispatches an invocation to an ad hoc agent, typically one
// built with NewAgentWithOverrides. The invocation is recorded in history
// under the agent's role.
func (e *Engine) InvokeAgent(ctx context.Context, a *Agent, prompt, contextStr string) (Response, error) {
	return e.invoke(ctx, a, Request{
		ID:      uuid.NewString(),
		AgentID: a.ID,
		Role:    a.Role,
		Prompt:  prompt,
		Context: contextStr,
	})
}

// requestContext renders the context sent with the model call: the opaque
// workspace context plus any referenced file paths.
func requestContext(req Request) string {
	if len(req.Files) == 0 {
		return req.Context
	}
	files := "Referenced files: " + strings.Join(req.Files, ", ")
	if req.Context == "" {
		return files
	}
	return req.Context + "\n" + files
}

// invoke performs one invocation. Events bracket the model call; a failed
// call still publishes agent.responded carrying the error text, so
// observers always see the attempt.
func (e *Engine) invoke(ctx context.Context, a *Agent, req Request) (Response, error) {
	log := e.log.WithRole(a.Role.String()).With("request_id", req.ID)
	log.Debug("invoking specialist")

	e.bus.Publish(event.NewAgentInvokedEvent(req.ID, req.AgentID, a.Role.String()))

	completion, err := e.client.Complete(ctx, model.Request{
		SystemPrompt: a.SystemPrompt,
		Context:      requestContext(req),
		UserPrompt:   req.Prompt,
		Temperature:  a.Temperature,
	})
	if err != nil {
		e.mu.Lock()
		e.failures++
		e.counts[a.Role]++
		e.mu.Unlock()

		e.bus.Publish(event.NewAgentRespondedEvent(req.ID, req.AgentID, a.Role.String(), 0, 0, err.Error()))
		log.Error("model call failed", "error", err)
		return Response{}, fmt.Errorf("invoke %s: %w: %v", a.Role, errors.ErrModelCallFailed, err)
	}

	tokens := completion.TokensUsed
	if tokens == 0 {
		tokens = EstimateTokens(completion.Text)
	}

	resp := Response{
		RequestID:  req.ID,
		AgentID:    req.AgentID,
		Role:       a.Role,
		Content:    completion.Text,
		Confidence: parseConfidence(completion.Text),
		DelegateTo: parseDelegation(completion.Text),
		Actions:    parseActions(completion.Text),
		Artifacts:  parseArtifacts(completion.Text),
		TokensUsed: tokens,
		Timestamp:  time.Now(),
	}

	e.mu.Lock()
	e.history = append(e.history, resp)
	e.counts[a.Role]++
	e.tokens += tokens
	e.mu.Unlock()

	e.bus.Publish(event.NewAgentRespondedEvent(req.ID, req.AgentID, a.Role.String(), resp.Confidence, tokens, ""))
	log.Debug("specialist responded", "confidence", resp.Confidence, "tokens", tokens)
	return resp, nil
}

// InvokeChain invokes the given roles strictly in order with the same
// prompt. Invocations are independent; no context is threaded between them.
// The result order matches the input order exactly. The first failure stops
// the chain and returns the responses gathered so far alongside the error.
func (e *Engine) InvokeChain(ctx context.Context, roles []role.AgentRole, prompt, contextStr string) ([]Response, error) {
	out := make([]Response, 0, len(roles))
	for _, r := range roles {
		resp, err := e.Invoke(ctx, r, prompt, contextStr)
		if err != nil {
			return out, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// InvokeParallel dispatches one invocation per distinct requested role
// concurrently and blocks until all complete. On success the result holds
// exactly one entry per requested role; any failure cancels the remaining
// calls and no partial results are returned.
func (e *Engine) InvokeParallel(ctx context.Context, roles []role.AgentRole, prompt, contextStr string) (map[role.AgentRole]Response, error) {
	distinct := make([]role.AgentRole, 0, len(roles))
	seen := make(map[role.AgentRole]bool, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			distinct = append(distinct, r)
		}
	}

	results := make([]Response, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range distinct {
		i, r := i, r
		g.Go(func() error {
			resp, err := e.Invoke(gctx, r, prompt, contextStr)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[role.AgentRole]Response, len(distinct))
	for i, r := range distinct {
		out[r] = results[i]
	}
	return out, nil
}

// Delegate hands work from one role to another. It behaves like Invoke on
// the target role but additionally publishes agent.delegated, before the
// invocation events, carrying the originating and target roles.
func (e *Engine) Delegate(ctx context.Context, from, to role.AgentRole, prompt, contextStr string) (Response, error) {
	a, ok := e.specialists[to]
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", errors.ErrRoleNotFound, to)
	}

	req := Request{
		ID:      uuid.NewString(),
		AgentID: a.ID,
		Role:    a.Role,
		Prompt:  prompt,
		Context: contextStr,
	}
	e.bus.Publish(event.NewAgentDelegatedEvent(req.ID, from.String(), to.String()))
	e.log.With("from", from.String(), "to", to.String()).Info("delegating work")

	return e.invoke(ctx, a, req)
}

// suggestionRules map keywords to roles. Scanned in order; the first rule
// with a matching keyword wins.
var suggestionRules = []struct {
	keywords []string
	role     role.AgentRole
}{
	{[]string{"design", "architect"}, role.RoleArchitect},
	{[]string{"implement"}, role.RoleImplementer},
	{[]string{"test"}, role.RoleTester},
	{[]string{"bug", "fix"}, role.RoleDebugger},
	{[]string{"vulnerab", "security"}, role.RoleSecurity},
	{[]string{"optimi", "performance"}, role.RoleOptimizer},
}

// SuggestSpecialist classifies free text to the role best suited to handle
// it. Matching is a case-insensitive substring scan; the first matching
// keyword wins, and text matching nothing maps to the generalist.
func (e *Engine) SuggestSpecialist(freeText string) role.AgentRole {
	text := strings.ToLower(freeText)
	for _, rule := range suggestionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.role
			}
		}
	}
	return role.RoleGeneralist
}

// ReviewLoopResult is the outcome of an implement/review loop.
type ReviewLoopResult struct {
	// FinalContent is the last implementation produced.
	FinalContent string
	// Iterations is the number of implement+review rounds performed.
	Iterations int
	// Approved is true if the reviewer approved the final implementation.
	Approved bool
}

// ImplementReviewLoop alternates implementer and reviewer invocations until
// the reviewer approves or maxIterations rounds have run, whichever comes
// first. At least one round always runs. Each round after the first feeds
// the previous review back to the implementer as revision guidance.
func (e *Engine) ImplementReviewLoop(ctx context.Context, prompt string, maxIterations int) (ReviewLoopResult, error) {
	if maxIterations < 1 {
		maxIterations = 1
	}

	var result ReviewLoopResult
	implPrompt := prompt
	for i := 1; i <= maxIterations; i++ {
		impl, err := e.Invoke(ctx, role.RoleImplementer, implPrompt, "")
		if err != nil {
			return result, err
		}
		result.FinalContent = impl.Content
		result.Iterations = i

		review, err := e.Invoke(ctx, role.RoleReviewer,
			"Review the following implementation:\n\n"+impl.Content, "")
		if err != nil {
			return result, err
		}
		if ParseVerdict(review.Content) == VerdictApprove {
			result.Approved = true
			return result, nil
		}
		implPrompt = prompt + "\n\nRevise the previous implementation to address this review:\n\n" + review.Content
	}
	return result, nil
}

// Stats summarizes the engine's invocation activity.
type Stats struct {
	// Invocations is the total number of attempts, including failures.
	Invocations int
	// Failures is the number of attempts whose model call failed.
	Failures int
	// TokensUsed is the total token count across successful invocations.
	TokensUsed int
	// ByRole maps each role to its attempt count.
	ByRole map[role.AgentRole]int
}

// Stats returns a snapshot of the engine's invocation statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	byRole := make(map[role.AgentRole]int, len(e.counts))
	for r, n := range e.counts {
		byRole[r] = n
		total += n
	}
	return Stats{
		Invocations: total,
		Failures:    e.failures,
		TokensUsed:  e.tokens,
		ByRole:      byRole,
	}
}

// History returns a copy of all successful responses in chronological order.
func (e *Engine) History() []Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Response, len(e.history))
	copy(out, e.history)
	return out
}

// HistoryForRole returns the successful responses produced by one role,
// preserving chronological order.
func (e *Engine) HistoryForRole(r role.AgentRole) []Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Response
	for _, resp := range e.history {
		if resp.Role == r {
			out = append(out, resp)
		}
	}
	return out
}
