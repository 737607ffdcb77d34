// Package internal holds cross-package integration tests that verify the
// orchestration core composes correctly: specialist invocations, session
// runs, and task execution all reporting through one event bus.
package internal

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/cadre-ai/cadre/internal/collab"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/model"
	"github.com/cadre-ai/cadre/internal/role"
	"github.com/cadre-ai/cadre/internal/specialist"
	"github.com/cadre-ai/cadre/internal/task"
	"github.com/cadre-ai/cadre/internal/tool"
)

// eventLog collects event types from a wildcard subscription.
type eventLog struct {
	mu    sync.Mutex
	types []string
}

func newEventLog(bus *event.Bus) *eventLog {
	l := &eventLog{}
	bus.Subscribe("*", func(e event.Event) {
		l.mu.Lock()
		l.types = append(l.types, e.EventType())
		l.mu.Unlock()
	})
	return l
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.types))
	copy(out, l.types)
	return out
}

func (l *eventLog) count(eventType string) int {
	n := 0
	for _, t := range l.snapshot() {
		if t == eventType {
			n++
		}
	}
	return n
}

func TestInvocationEventsReachSessionObservers(t *testing.T) {
	bus := event.NewBus()
	log := newEventLog(bus)

	engine := specialist.NewEngine(role.Builtin(), model.NewScripted("confidence: 0.8\nsplit the parser into scanner and builder"), bus, logging.NopLogger())

	if _, err := engine.Invoke(context.Background(), role.RoleArchitect, "untangle the parser", ""); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	types := log.snapshot()
	if len(types) != 2 || types[0] != "agent.invoked" || types[1] != "agent.responded" {
		t.Fatalf("event order = %v, want [agent.invoked agent.responded]", types)
	}
}

func TestSessionRunEmitsFullLifecycle(t *testing.T) {
	bus := event.NewBus()
	log := newEventLog(bus)
	engine := specialist.NewEngine(role.Builtin(), model.NewScripted(), bus, logging.NopLogger())

	architect, _ := engine.Specialist(role.RoleArchitect)
	reviewer, _ := engine.Specialist(role.RoleReviewer)
	session, err := collab.NewSession("layout review", "agree on the package layout",
		collab.ProtocolRoundRobin,
		[]*collab.Participant{
			collab.NewParticipant(role.RoleArchitect, architect),
			collab.NewParticipant(role.RoleReviewer, reviewer),
		}, 4, bus, logging.NopLogger())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	result, err := collab.NewRunner(engine, logging.NopLogger()).Run(context.Background(), session)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != collab.StatusCompleted {
		t.Errorf("result.Status = %s, want completed", result.Status)
	}
	if result.TotalMessages != 4 {
		t.Errorf("TotalMessages = %d, want 4", result.TotalMessages)
	}

	if n := log.count("session.created"); n != 1 {
		t.Errorf("session.created count = %d, want 1", n)
	}
	if n := log.count("session.turn_advanced"); n != 4 {
		t.Errorf("session.turn_advanced count = %d, want 4", n)
	}
	if n := log.count("session.message_posted"); n != 4 {
		t.Errorf("session.message_posted count = %d, want 4", n)
	}
	// One invocation pair per turn.
	if n := log.count("agent.invoked"); n != 4 {
		t.Errorf("agent.invoked count = %d, want 4", n)
	}
}

func TestConsensusDecisionFeedsTaskExecution(t *testing.T) {
	bus := event.NewBus()
	log := newEventLog(bus)

	// Two participants both approve, so consensus is reached on the first
	// full voting cycle.
	engine := specialist.NewEngine(role.Builtin(), model.NewScripted(
		"vote: approve\nthe plan is sound",
		"vote: approve\nship it",
	), bus, logging.NopLogger())

	architect, _ := engine.Specialist(role.RoleArchitect)
	reviewer, _ := engine.Specialist(role.RoleReviewer)
	session, err := collab.NewSession("migration vote", "migrate the store to sqlite",
		collab.ProtocolConsensus,
		[]*collab.Participant{
			collab.NewParticipant(role.RoleArchitect, architect),
			collab.NewParticipant(role.RoleReviewer, reviewer),
		}, 6, bus, logging.NopLogger())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	result, err := collab.NewRunner(engine, logging.NopLogger()).Run(context.Background(), session)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Status != collab.StatusConsensusReached {
		t.Fatalf("result.Status = %s, want consensus_reached", result.Status)
	}
	if len(result.Decisions) == 0 {
		t.Fatal("consensus session should record a decision")
	}

	// Execute the agreed work as a constrained task with confirmation.
	gateway := tool.NewRecorder()
	tasks := task.NewEngine(gateway, bus, logging.NopLogger())

	tk := tasks.Create("migration", result.Decisions[0], "", task.DefaultConstraints())
	if err := tasks.Plan(tk.ID()); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if err := tasks.StartExecution(tk.ID()); err != nil {
		t.Fatalf("StartExecution failed: %v", err)
	}

	step, err := tasks.ExecuteStep(context.Background(), tk.ID(), task.StepRequest{
		Action:    task.ActionToolCall,
		Operation: task.OpModifyFile,
		ToolName:  "write_file",
		Reasoning: "swap the store implementation",
	})
	if err != nil {
		t.Fatalf("ExecuteStep failed: %v", err)
	}
	if tk.Status() != task.StatusAwaitingConfirmation {
		t.Fatalf("task status = %s, want awaiting_confirmation", tk.Status())
	}
	if step.Status != task.StepPending {
		t.Errorf("suspended step status = %s, want pending", step.Status)
	}

	if _, err := tasks.Approve(context.Background(), tk.ID()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if err := tasks.Complete(tk.ID(), task.Result{Success: true, Summary: "store migrated"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !tk.IsSuccessful() {
		t.Error("task should be successful after approval and completion")
	}
	if calls := gateway.Calls(); len(calls) != 1 || calls[0].Name != "write_file" {
		t.Errorf("gateway calls = %v, want one write_file call", calls)
	}

	// The one bus carried the whole flow.
	if n := log.count("consensus.updated"); n == 0 {
		t.Error("expected consensus.updated events on the shared bus")
	}
	if n := log.count("task.awaiting_confirmation"); n != 1 {
		t.Errorf("task.awaiting_confirmation count = %d, want 1", n)
	}
	if n := log.count("task.completed"); n != 1 {
		t.Errorf("task.completed count = %d, want 1", n)
	}

	types := strings.Join(log.snapshot(), " ")
	if !strings.Contains(types, "session.created") || !strings.Contains(types, "task.completed") {
		t.Errorf("event stream should span session and task lifecycles: %s", types)
	}
}
