package collab

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cadre-ai/cadre/internal/consensus"
	"github.com/cadre-ai/cadre/internal/errors"
	"github.com/cadre-ai/cadre/internal/event"
	"github.com/cadre-ai/cadre/internal/logging"
	"github.com/cadre-ai/cadre/internal/specialist"
)

// recentMessageWindow bounds how much of the log is replayed into each
// turn's prompt.
const recentMessageWindow = 6

// Consensus protocols expect each response to carry a vote marker:
//
//	vote: approve
var voteRe = regexp.MustCompile(`(?im)^vote:\s*(approve|reject)\s*$`)

// Runner drives a session to termination against a specialist engine,
// applying the protocol-specific turn rules.
type Runner struct {
	engine    *specialist.Engine
	log       *logging.Logger
	threshold float64
}

// NewRunner creates a Runner using the default consensus threshold.
func NewRunner(engine *specialist.Engine, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Runner{
		engine:    engine,
		log:       log,
		threshold: consensus.DefaultThreshold,
	}
}

// WithThreshold overrides the consensus approval threshold. A threshold of
// 1.0 gives unanimous semantics, 0.5 simple majority.
func (r *Runner) WithThreshold(t float64) *Runner {
	r.threshold = t
	return r
}

// Run drives the session until a terminal status or the turn limit is
// reached. Sessions still active at the turn limit complete normally;
// consensus protocols terminate early once the vote tally reaches a
// decision. A failed invocation fails the session and is returned alongside
// the result computed so far.
func (r *Runner) Run(ctx context.Context, s *Session) (Result, error) {
	switch s.Status() {
	case StatusCreated:
		if err := s.Start(); err != nil {
			return s.Result(), err
		}
	case StatusActive:
	default:
		return s.Result(), fmt.Errorf("%w: cannot run session in status %s",
			errors.ErrInvalidTransition, s.Status())
	}

	var tally *consensus.State
	if s.Protocol().RequiresConsensus() {
		tally = consensus.NewState(s.ID(), s.Goal())
	}

	for !s.HasReachedMaxTurns() {
		if err := ctx.Err(); err != nil {
			_ = s.Cancel()
			return s.Result(), err
		}

		var err error
		switch s.Protocol() {
		case ProtocolBroadcast:
			err = r.broadcastTurn(ctx, s)
		case ProtocolConsensus, ProtocolVoting:
			var decided bool
			decided, err = r.consensusTurn(ctx, s, tally)
			if err == nil && decided {
				return s.Result(), nil
			}
		case ProtocolLeaderFollower:
			err = r.leaderFollowerTurn(ctx, s)
		case ProtocolFreeForm:
			err = r.freeFormTurn(ctx, s)
		default: // round_robin, debate
			_, err = r.takeTurn(ctx, s, s.CurrentParticipant(), MessageContribution, "")
		}
		if err != nil {
			_ = s.Fail()
			return s.Result(), err
		}

		if _, err := s.AdvanceTurn(); err != nil {
			return s.Result(), err
		}
	}

	if err := s.Complete(); err != nil {
		return s.Result(), err
	}
	return s.Result(), nil
}

// takeTurn invokes one participant, posts its response to the log, and
// folds any artifacts it produced into the shared context.
func (r *Runner) takeTurn(ctx context.Context, s *Session, p Participant, typ MessageType, instruction string) (specialist.Response, error) {
	_ = s.SetParticipantStatus(p.ID, ParticipantThinking)

	resp, err := r.engine.Invoke(ctx, p.Role, r.buildPrompt(s, instruction), s.Context().Render())
	if err != nil {
		_ = s.SetParticipantStatus(p.ID, ParticipantBlocked)
		return specialist.Response{}, err
	}

	msg := NewMessage(p.ID, p.Role, typ, resp.Content)
	if _, err := s.PostMessage(msg); err != nil {
		return specialist.Response{}, err
	}

	if len(resp.Artifacts) > 0 {
		turn := s.CurrentTurn()
		s.UpdateContext(func(c SharedContext) SharedContext {
			for i, art := range resp.Artifacts {
				name := fmt.Sprintf("%s-turn-%d-%d", p.Role, turn, i)
				c = c.WithArtifact(name, art.Content)
			}
			return c
		})
	}
	return resp, nil
}

// broadcastTurn invokes every participant concurrently and waits for all of
// them before the turn advances. PostMessage serializes the appends, so the
// log stays consistent regardless of completion order.
func (r *Runner) broadcastTurn(ctx context.Context, s *Session) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.Participants() {
		p := p
		g.Go(func() error {
			_, err := r.takeTurn(gctx, s, p, MessageContribution, "")
			return err
		})
	}
	return g.Wait()
}

// consensusTurn runs one round-robin contribution-and-vote turn. The tally
// is re-derived only once every participant has voted; the session
// terminates with ConsensusReached when the tally leaves Pending.
func (r *Runner) consensusTurn(ctx context.Context, s *Session, tally *consensus.State) (bool, error) {
	p := s.CurrentParticipant()
	instruction := "State your position on the goal and end with a line 'vote: approve' or 'vote: reject'."

	resp, err := r.takeTurn(ctx, s, p, MessageVote, instruction)
	if err != nil {
		return false, err
	}

	m := voteRe.FindStringSubmatch(resp.Content)
	if m == nil {
		// No vote this turn; the participant can still vote on a later
		// cycle before the turn limit.
		r.log.WithSession(s.ID()).Debug("response carried no vote", "participant", p.ID)
		return false, nil
	}

	approve := strings.EqualFold(m[1], "approve")
	if err := tally.RecordVote(p.ID, approve, resp.Content); err != nil {
		return false, err
	}

	status := tally.Status()
	if tally.TotalVotes() >= len(s.Participants()) {
		status = tally.UpdateStatus(len(s.Participants()), r.threshold)
	}
	r.publishTally(s, tally, status)

	if !status.IsTerminal() {
		return false, nil
	}

	s.UpdateContext(func(c SharedContext) SharedContext {
		return c.WithDecision(fmt.Sprintf("%s: %s", status, s.Goal()))
	})
	if err := s.ReachConsensus(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Runner) publishTally(s *Session, tally *consensus.State, status consensus.Status) {
	s.bus.Publish(event.NewConsensusUpdatedEvent(
		tally.ProposalID(), tally.Approvals(), tally.Rejections(), string(status)))
}

// leaderFollowerTurn lets the first participant steer: on follower turns the
// leader first posts a short direction, then the cyclic participant acts.
func (r *Runner) leaderFollowerTurn(ctx context.Context, s *Session) error {
	participants := s.Participants()
	leader := participants[0]
	active := s.CurrentParticipant()

	if active.ID != leader.ID {
		instruction := fmt.Sprintf("As the session lead, give %s a short direction for this turn.", active.Role)
		if _, err := r.takeTurn(ctx, s, leader, MessageSummary, instruction); err != nil {
			return err
		}
	}
	_, err := r.takeTurn(ctx, s, active, MessageContribution, "")
	return err
}

// freeFormTurn invokes the first ready participant, falling back to the
// cyclic one when nobody is ready.
func (r *Runner) freeFormTurn(ctx context.Context, s *Session) error {
	active := s.CurrentParticipant()
	for _, p := range s.Participants() {
		if p.Status == ParticipantReady {
			active = p
			break
		}
	}
	_, err := r.takeTurn(ctx, s, active, MessageContribution, "")
	return err
}

// buildPrompt assembles a turn prompt from the goal, the tail of the
// message log, and an optional protocol instruction.
func (r *Runner) buildPrompt(s *Session, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", s.Goal())

	messages := s.Messages()
	if len(messages) > recentMessageWindow {
		messages = messages[len(messages)-recentMessageWindow:]
	}
	if len(messages) > 0 {
		b.WriteString("\nDiscussion so far:\n")
		for _, m := range messages {
			fmt.Fprintf(&b, "[%s] %s\n", m.SenderRole, m.Content)
		}
	}
	if instruction != "" {
		fmt.Fprintf(&b, "\n%s\n", instruction)
	}
	return b.String()
}
