package engine

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"coalition/internal/model"
)

var (
	ErrAlreadyStarted    = errors.New("interview already started")
	ErrNotAwaitingAnswer = errors.New("interview is not awaiting an answer")
	ErrInvalidOption     = errors.New("option index out of range")
	ErrUnknownQuestion   = errors.New("current question not found")
)

// DefaultFollowUpChance is the probability that a detected contradiction is
// turned into an on-air follow-up. Tuned value, kept as a behavioral contract.
const DefaultFollowUpChance = 0.7

// FollowUpPolicy decides whether a pending contradiction becomes the next
// question. Injectable so tests can force either outcome.
type FollowUpPolicy interface {
	Inject() bool
}

// RandomFollowUpPolicy injects with a fixed probability from a seeded source.
type RandomFollowUpPolicy struct {
	rng    *rand.Rand
	chance float64
}

// NewRandomFollowUpPolicy creates a seeded random policy.
func NewRandomFollowUpPolicy(seed int64, chance float64) *RandomFollowUpPolicy {
	return &RandomFollowUpPolicy{rng: rand.New(rand.NewSource(seed)), chance: chance}
}

func (p *RandomFollowUpPolicy) Inject() bool {
	return p.rng.Float64() < p.chance
}

// FixedFollowUpPolicy always answers the same; used by tests and by the
// timed-out fallback path.
type FixedFollowUpPolicy bool

func (p FixedFollowUpPolicy) Inject() bool { return bool(p) }

// TurnResult is everything the caller learns from one answered question.
type TurnResult struct {
	Response         model.Response         `json:"response"`
	Consistent       bool                   `json:"consistent"`
	ContradictionKey string                 `json:"contradictionKey,omitempty"`
	Scores           model.ScoreSet         `json:"scores"`
	Mood             model.Mood             `json:"mood"`
	NextQuestion     *model.Question        `json:"nextQuestion,omitempty"`
	Finished         bool                   `json:"finished"`
	Result           *model.InterviewResult `json:"result,omitempty"`
}

// Flow drives one interview session through its state machine. It owns no
// state of its own beyond wiring; everything mutable lives on the session,
// so a Flow can be rebuilt from persisted state between turns.
type Flow struct {
	bank    *Bank
	checker *Checker
	scorer  *Scorer
	policy  FollowUpPolicy
	session *model.InterviewSession
}

// NewFlow wires a flow controller for a session.
func NewFlow(bank *Bank, background *model.Background, scenario *model.Scenario, policy FollowUpPolicy, session *model.InterviewSession) *Flow {
	return &Flow{
		bank:    bank,
		checker: NewChecker(background, scenario),
		scorer:  NewScorer(background, scenario),
		policy:  policy,
		session: session,
	}
}

// Start transitions not-started -> awaiting-answer and selects the first
// question. If nothing is eligible the interview finishes immediately.
func (f *Flow) Start() (*model.Question, *model.InterviewResult, error) {
	if f.session.State != model.FlowNotStarted {
		return nil, nil, ErrAlreadyStarted
	}

	next := f.selectNext()
	if next == nil {
		result := f.finalize()
		return nil, result, nil
	}

	f.session.State = model.FlowAwaitingAnswer
	f.session.CurrentQuestionID = next.ID
	return next, nil, nil
}

// Answer runs one complete state-update cycle for the chosen option:
// record response, check consistency, update scores, update mood, then pick
// the next question or finish. The session only ever moves forward.
func (f *Flow) Answer(optionIndex int) (*TurnResult, error) {
	if f.session.State != model.FlowAwaitingAnswer {
		return nil, ErrNotAwaitingAnswer
	}
	q := f.bank.Get(f.session, f.session.CurrentQuestionID)
	if q == nil {
		return nil, ErrUnknownQuestion
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, ErrInvalidOption
	}
	opt := &q.Options[optionIndex]

	verdict := f.checker.Evaluate(f.session, q, opt)

	resp := model.Response{
		QuestionID:  q.ID,
		OptionIndex: optionIndex,
		Text:        opt.Text,
		Tone:        opt.Tone,
		Consistent:  verdict.Consistent,
		AnsweredAt:  time.Now(),
	}
	if q.Issue != "" {
		resp.Issue = q.Issue
		resp.Position = opt.Position
		resp.Priority = opt.Priority
	}
	f.session.Responses = append(f.session.Responses, resp)
	f.session.Answered = append(f.session.Answered, q.ID)
	f.session.ToneHistory = append(f.session.ToneHistory, opt.Tone)
	if verdict.Key != "" {
		f.session.RecordContradiction(verdict.Key)
	}

	f.scorer.Apply(&f.session.Scores, opt.Tone, verdict.Flip)
	f.session.Mood = NextMood(f.session.Mood, f.session.BaseMood, opt.Tone)

	turn := &TurnResult{
		Response:         resp,
		Consistent:       verdict.Consistent,
		ContradictionKey: verdict.Key,
		Scores:           f.session.Scores,
		Mood:             f.session.Mood,
	}

	if next := f.maybeInjectFollowUp(verdict); next != nil {
		f.session.CurrentQuestionID = next.ID
		turn.NextQuestion = next
		return turn, nil
	}

	if next := f.selectNext(); next != nil {
		f.session.CurrentQuestionID = next.ID
		turn.NextQuestion = next
		return turn, nil
	}

	turn.Finished = true
	turn.Result = f.finalize()
	turn.Scores = f.session.Scores
	return turn, nil
}

// DefensiveOptionIndex is the forced selection used when the on-screen timer
// expires: the question's first defensive option, or option 0 as fallback.
func DefensiveOptionIndex(q *model.Question) int {
	for i, opt := range q.Options {
		if opt.Tone == model.ToneDefensive {
			return i
		}
	}
	return 0
}

// maybeInjectFollowUp synthesizes a consistency-check question when the
// session carries a contradiction the policy decides to pursue. Each
// contradiction key is pursued at most once.
func (f *Flow) maybeInjectFollowUp(verdict Verdict) *model.Question {
	if len(f.session.Contradictions) == 0 || !f.policy.Inject() {
		return nil
	}

	key := verdict.Key
	if key == "" || f.alreadyPursued(key) {
		key = f.latestUnpursuedKey()
	}
	if key == "" {
		return nil
	}

	latest := &f.session.Responses[len(f.session.Responses)-1]
	fu := SynthesizeFollowUp(f.session, latest, key)
	if fu == nil {
		return nil
	}
	f.session.Generated = append(f.session.Generated, *fu)
	return &f.session.Generated[len(f.session.Generated)-1]
}

func (f *Flow) alreadyPursued(key string) bool {
	for _, g := range f.session.Generated {
		if strings.HasPrefix(g.ID, "gen-"+key+"-") {
			return true
		}
	}
	return false
}

func (f *Flow) latestUnpursuedKey() string {
	keys := make([]string, 0, len(f.session.Contradictions))
	for k := range f.session.Contradictions {
		if !f.alreadyPursued(k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}

// typeRank orders question types for selection. Follow-ups and pending
// consistency-checks come first, background challenges after a warm-up,
// openings fill the middle, closings wrap up.
func typeRank(t model.QuestionType) int {
	switch t {
	case model.QuestionTypeFollowUp:
		return 0
	case model.QuestionTypeConsistencyCheck:
		return 1
	case model.QuestionTypeBackgroundChallenge:
		return 2
	case model.QuestionTypeOpening:
		return 3
	default: // closing
		return 4
	}
}

// selectNext picks the highest-priority eligible question: follow-ups first,
// background-challenges only once at least two questions were answered,
// then openings, ties broken by authored order.
func (f *Flow) selectNext() *model.Question {
	eligible := f.bank.Eligible(f.session)

	var best *model.Question
	bestRank := 0
	for i := range eligible {
		q := &eligible[i]
		if q.Type == model.QuestionTypeBackgroundChallenge && len(f.session.Answered) < 2 {
			continue
		}
		rank := typeRank(q.Type)
		if best == nil || rank < bestRank ||
			(rank == bestRank && (q.Order < best.Order || (q.Order == best.Order && q.ID < best.ID))) {
			best = q
			bestRank = rank
		}
	}
	return best
}

// finalize freezes the session and computes the result payload: weighted
// position aggregates, final scores, rating, tone pattern, mood progression
// and the detected contradiction keys.
func (f *Flow) finalize() *model.InterviewResult {
	now := time.Now()
	f.session.State = model.FlowFinished
	f.session.CurrentQuestionID = ""
	f.session.FinishedAt = &now

	FinalizeScores(f.session)

	contradictions := make([]string, 0, len(f.session.Contradictions))
	for k := range f.session.Contradictions {
		contradictions = append(contradictions, k)
	}
	sort.Strings(contradictions)

	return &model.InterviewResult{
		SessionID:       f.session.ID,
		Nickname:        f.session.Nickname,
		BackgroundID:    f.session.BackgroundID,
		ScenarioID:      f.session.ScenarioID,
		Positions:       AggregatePositions(f.session.Responses),
		Scores:          f.session.Scores,
		Rating:          RateScores(f.session.Scores),
		TonePattern:     f.session.ToneHistory,
		MoodProgression: []model.Mood{f.session.BaseMood, f.session.Mood},
		Contradictions:  contradictions,
		CompletedAt:     now,
	}
}

// AggregatePositions computes, per issue, the priority-weighted average of
// every response that carried the issue, rounded to the nearest integer.
// Issues no response carried simply do not appear.
func AggregatePositions(responses []model.Response) []model.IssuePosition {
	sums := map[string]int{}
	weights := map[string]int{}
	for _, r := range responses {
		if r.Issue == "" || r.Position == nil {
			continue
		}
		sums[r.Issue] += *r.Position * r.Priority
		weights[r.Issue] += r.Priority
	}

	issues := make([]string, 0, len(sums))
	for issue := range sums {
		issues = append(issues, issue)
	}
	sort.Strings(issues)

	out := make([]model.IssuePosition, 0, len(issues))
	for _, issue := range issues {
		avg := roundDiv(sums[issue], weights[issue])
		out = append(out, model.IssuePosition{Issue: issue, Position: avg})
	}
	return out
}

// roundDiv rounds a/b to the nearest integer, away from zero on halves.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	if (a < 0) != (b < 0) {
		return -((-a + b/2) / b)
	}
	return (a + b/2) / b
}
