package specialist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/model"
	"github.com/cadre-ai/cadre/internal/role"
)

func newTestEngine(client model.Client) (*Engine, *event.Bus) {
	bus := event.NewBus()
	return NewEngine(role.Builtin(), client, bus, nil), bus
}

func TestInvokePublishesEventsInOrder(t *testing.T) {
	engine, bus := newTestEngine(model.NewScripted("confidence: 0.9\nUse an interface here."))

	var types []string
	bus.SubscribeAll(func(e event.Event) {
		types = append(types, e.EventType())
	})

	resp, err := engine.Invoke(context.Background(), role.RoleArchitect, "design the cache layer", "")
	require.NoError(t, err)

	// Both events are delivered synchronously before Invoke returns.
	require.Equal(t, []string{"agent.invoked", "agent.responded"}, types)
	assert.Equal(t, role.RoleArchitect, resp.Role)
	assert.Equal(t, 0.9, resp.Confidence)
	assert.True(t, resp.IsHighConfidence())
	assert.NotEmpty(t, resp.RequestID)
	assert.Greater(t, resp.TokensUsed, 0)
}

func TestInvokeWithFilesThreadsPathsIntoContext(t *testing.T) {
	var seen model.Request
	client := model.ClientFunc(func(ctx context.Context, req model.Request) (model.Completion, error) {
		seen = req
		return model.Completion{Text: "noted"}, nil
	})
	engine, _ := newTestEngine(client)

	_, err := engine.InvokeWithFiles(context.Background(), role.RoleReviewer,
		"review the retry loop", "Active file: internal/retry/retry.go",
		[]string{"internal/retry/retry.go", "internal/retry/retry_test.go"})
	require.NoError(t, err)

	assert.Equal(t, "Active file: internal/retry/retry.go\n"+
		"Referenced files: internal/retry/retry.go, internal/retry/retry_test.go", seen.Context)
	assert.Equal(t, "review the retry loop", seen.UserPrompt)

	// Without files the context passes through untouched.
	_, err = engine.Invoke(context.Background(), role.RoleReviewer, "again", "plain context")
	require.NoError(t, err)
	assert.Equal(t, "plain context", seen.Context)
}

func TestInvokeUnknownRole(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted())

	_, err := engine.Invoke(context.Background(), role.AgentRole("wizard"), "p", "")
	assert.ErrorIs(t, err, errors.ErrRoleNotFound)
}

func TestInvokeFailureStillPublishesResponse(t *testing.T) {
	client := model.NewScripted()
	client.FailWith(assert.AnError)
	engine, bus := newTestEngine(client)

	var responded []event.AgentRespondedEvent
	bus.Subscribe("agent.responded", func(e event.Event) {
		responded = append(responded, e.(event.AgentRespondedEvent))
	})

	_, err := engine.Invoke(context.Background(), role.RoleTester, "write tests", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrModelCallFailed)
	assert.True(t, errors.IsRetryable(err), "model failures are retryable")

	require.Len(t, responded, 1, "observers see failed attempts")
	assert.NotEmpty(t, responded[0].Error)

	stats := engine.Stats()
	assert.Equal(t, 1, stats.Invocations)
	assert.Equal(t, 1, stats.Failures)
	assert.Empty(t, engine.History(), "failures are not recorded as responses")
}

func TestInvokeChainPreservesOrder(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted())
	roles := []role.AgentRole{role.RoleArchitect, role.RoleImplementer, role.RoleReviewer}

	responses, err := engine.InvokeChain(context.Background(), roles, "plan the migration", "")
	require.NoError(t, err)
	require.Len(t, responses, 3)

	for i, r := range roles {
		assert.Equal(t, r, responses[i].Role)
	}
}

func TestInvokeChainStopsAtFirstFailure(t *testing.T) {
	calls := 0
	client := model.ClientFunc(func(ctx context.Context, req model.Request) (model.Completion, error) {
		calls++
		if calls == 2 {
			return model.Completion{}, assert.AnError
		}
		return model.Completion{Text: "ok"}, nil
	})
	engine, _ := newTestEngine(client)

	responses, err := engine.InvokeChain(context.Background(),
		[]role.AgentRole{role.RoleArchitect, role.RoleImplementer, role.RoleReviewer}, "p", "")
	require.Error(t, err)
	assert.Len(t, responses, 1, "responses before the failure are returned")
	assert.Equal(t, 2, calls, "the chain stops at the failure")
}

func TestInvokeParallelReturnsOneEntryPerRole(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted())
	roles := []role.AgentRole{role.RoleArchitect, role.RoleSecurity, role.RoleTester, role.RoleArchitect}

	results, err := engine.InvokeParallel(context.Background(), roles, "assess this change", "")
	require.NoError(t, err)

	// Duplicate requests collapse; result keys equal the distinct role set.
	require.Len(t, results, 3)
	for _, r := range []role.AgentRole{role.RoleArchitect, role.RoleSecurity, role.RoleTester} {
		resp, ok := results[r]
		require.True(t, ok, "missing entry for %s", r)
		assert.Equal(t, r, resp.Role)
	}
}

func TestInvokeParallelNoPartialResults(t *testing.T) {
	client := model.ClientFunc(func(ctx context.Context, req model.Request) (model.Completion, error) {
		if req.Temperature == 0.1 { // debugger
			return model.Completion{}, assert.AnError
		}
		return model.Completion{Text: "ok"}, nil
	})
	engine, _ := newTestEngine(client)

	results, err := engine.InvokeParallel(context.Background(),
		[]role.AgentRole{role.RoleImplementer, role.RoleDebugger}, "p", "")
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestDelegatePublishesDelegationEvent(t *testing.T) {
	engine, bus := newTestEngine(model.NewScripted())

	var types []string
	var delegated event.AgentDelegatedEvent
	bus.SubscribeAll(func(e event.Event) {
		types = append(types, e.EventType())
		if d, ok := e.(event.AgentDelegatedEvent); ok {
			delegated = d
		}
	})

	resp, err := engine.Delegate(context.Background(), role.RoleGeneralist, role.RoleSecurity, "audit the auth flow", "")
	require.NoError(t, err)

	require.Equal(t, []string{"agent.delegated", "agent.invoked", "agent.responded"}, types)
	assert.Equal(t, "generalist", delegated.FromRole)
	assert.Equal(t, "security", delegated.ToRole)
	assert.Equal(t, resp.RequestID, delegated.RequestID)
}

func TestSuggestSpecialist(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted())

	tests := []struct {
		text string
		want role.AgentRole
	}{
		{"design the plugin architecture", role.RoleArchitect},
		{"implement the retry logic", role.RoleImplementer},
		{"add tests for the parser", role.RoleTester},
		{"please fix this null pointer bug", role.RoleDebugger},
		{"check for vulnerabilities in the login handler", role.RoleSecurity},
		{"optimise the hot loop", role.RoleOptimizer},
		{"improve performance of the index", role.RoleOptimizer},
		{"summarize the release notes", role.RoleGeneralist},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.SuggestSpecialist(tt.text), "text: %q", tt.text)
	}
}

func TestImplementReviewLoop(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted(
		"func Add(a, b int) int { return a + b }",
		"No input validation needed here, but name the receiver.\nverdict: revise",
		"func Add(x, y int) int { return x + y }",
		"Clean.\nverdict: approve",
	))

	result, err := engine.ImplementReviewLoop(context.Background(), "write an Add function", 5)
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, "func Add(x, y int) int { return x + y }", result.FinalContent)
}

func TestImplementReviewLoopRunsAtLeastOnce(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted(
		"implementation",
		"verdict: revise",
	))

	result, err := engine.ImplementReviewLoop(context.Background(), "do the thing", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Iterations)
	assert.False(t, result.Approved)
	assert.Equal(t, "implementation", result.FinalContent)
}

func TestStatsAndHistory(t *testing.T) {
	engine, _ := newTestEngine(model.NewScripted())
	ctx := context.Background()

	_, err := engine.Invoke(ctx, role.RoleImplementer, "one", "")
	require.NoError(t, err)
	_, err = engine.Invoke(ctx, role.RoleImplementer, "two", "")
	require.NoError(t, err)
	_, err = engine.Invoke(ctx, role.RoleReviewer, "three", "")
	require.NoError(t, err)

	stats := engine.Stats()
	assert.Equal(t, 3, stats.Invocations)
	assert.Equal(t, 0, stats.Failures)
	assert.Equal(t, 2, stats.ByRole[role.RoleImplementer])
	assert.Equal(t, 1, stats.ByRole[role.RoleReviewer])
	assert.Greater(t, stats.TokensUsed, 0)

	implHistory := engine.HistoryForRole(role.RoleImplementer)
	require.Len(t, implHistory, 2)
	assert.Contains(t, implHistory[0].Content, "one")
	assert.Contains(t, implHistory[1].Content, "two")
	assert.Empty(t, engine.HistoryForRole(role.RoleOptimizer))
}

func TestAgentOverrides(t *testing.T) {
	catalog := role.Builtin()
	def, ok := catalog.Lookup(role.RoleReviewer)
	require.True(t, ok)

	base := NewAgent(def)
	assert.True(t, base.IsReadOnly())

	temp := 0.9
	custom := NewAgentWithOverrides(def, Overrides{
		SystemPrompt:      "Review for API stability only.",
		ExtraCapabilities: []role.Capability{role.CapWriteCode},
		Temperature:       &temp,
	})

	assert.Equal(t, "Review for API stability only.", custom.SystemPrompt)
	assert.Equal(t, 0.9, custom.Temperature)
	assert.True(t, custom.CanModifyFiles())
	// The base agent is untouched.
	assert.True(t, base.IsReadOnly())
	assert.Equal(t, def.SystemPrompt, base.SystemPrompt)
}
