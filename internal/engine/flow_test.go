package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coalition/internal/model"
)

func flowQuestions() []model.Question {
	return []model.Question{
		{
			ID: "open-climate", Type: model.QuestionTypeOpening, Issue: "climate", Order: 1,
			Prompt: "Where do you stand on emissions targets?",
			Options: []model.Option{
				{Text: "Aggressive cuts, starting now.", Tone: model.ToneDiplomatic, Position: intp(-80), Priority: 5},
				{Text: "Modest, business-friendly steps.", Tone: model.ToneDefensive, Position: intp(10), Priority: 3},
			},
		},
		{
			ID: "open-climate-2", Type: model.QuestionTypeOpening, Issue: "climate", Order: 2,
			Prompt: "Would you fund the transition with new taxes?",
			Options: []model.Option{
				{Text: "Gradual incentives, not taxes.", Tone: model.ToneDiplomatic, Position: intp(-20), Priority: 1},
				{Text: "Drill more, worry less.", Tone: model.ToneAggressive, Position: intp(75), Priority: 3},
			},
		},
		{
			ID: "bc-record", Type: model.QuestionTypeBackgroundChallenge, Issue: "corruption", Order: 3,
			Conditions: &model.Conditions{Backgrounds: []string{"whistleblower"}},
			Prompt:     "Your old colleagues call you disloyal. Are they wrong?",
			Options: []model.Option{
				{Text: "Loyalty to the public comes first.", Tone: model.ToneDiplomatic},
				{Text: "Ask them about their own files.", Tone: model.ToneConfrontational},
			},
		},
		{
			ID: "close-out", Type: model.QuestionTypeClosing, Order: 4,
			Prompt: "Closing statement?",
			Options: []model.Option{
				{Text: "Vote your conscience.", Tone: model.ToneDiplomatic},
				{Text: "We're done here.", Tone: model.ToneDefensive},
			},
		},
	}
}

func newTestFlow(t *testing.T, background *model.Background, scenario *model.Scenario, policy FollowUpPolicy) (*Flow, *model.InterviewSession) {
	t.Helper()
	questions := flowQuestions()
	require.NoError(t, ValidateQuestions(questions))
	session := model.NewInterviewSession("s1", "nick", background.ID, scenario.ID, scenario.BaseMood)
	return NewFlow(NewBank(questions), background, scenario, policy, session), session
}

func TestStartSelectsOpeningBeforeGatedChallenge(t *testing.T) {
	flow, session := newTestFlow(t, whistleblower(), calmScenario(), FixedFollowUpPolicy(false))

	q, result, err := flow.Start()
	require.NoError(t, err)
	assert.Nil(t, result)
	require.NotNil(t, q)

	// The background challenge outranks openings but is gated until two
	// questions are answered.
	assert.Equal(t, "open-climate", q.ID)
	assert.Equal(t, model.FlowAwaitingAnswer, session.State)

	_, _, err = flow.Start()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestBackgroundChallengeComesAfterWarmup(t *testing.T) {
	flow, _ := newTestFlow(t, whistleblower(), calmScenario(), FixedFollowUpPolicy(false))

	q, _, err := flow.Start()
	require.NoError(t, err)
	require.Equal(t, "open-climate", q.ID)

	turn, err := flow.Answer(1) // defensive, position 10
	require.NoError(t, err)
	require.NotNil(t, turn.NextQuestion)
	assert.Equal(t, "open-climate-2", turn.NextQuestion.ID)

	turn, err = flow.Answer(0) // diplomatic, position -20
	require.NoError(t, err)
	require.NotNil(t, turn.NextQuestion)
	assert.Equal(t, "bc-record", turn.NextQuestion.ID)
}

func TestInterviewRunsToCompletionWithoutRepeats(t *testing.T) {
	flow, session := newTestFlow(t, whistleblower(), calmScenario(), FixedFollowUpPolicy(false))

	_, _, err := flow.Start()
	require.NoError(t, err)

	var finished bool
	for i := 0; i < 20 && !finished; i++ {
		turn, err := flow.Answer(0)
		require.NoError(t, err)
		finished = turn.Finished
	}
	require.True(t, finished, "interview must exhaust the bank")

	seen := map[string]bool{}
	for _, id := range session.Answered {
		assert.False(t, seen[id], "question %s answered twice", id)
		seen[id] = true
	}
	assert.Equal(t, model.FlowFinished, session.State)
	assert.Empty(t, session.CurrentQuestionID)

	_, err = flow.Answer(0)
	assert.ErrorIs(t, err, ErrNotAwaitingAnswer)
}

func TestFlipInjectsConsistencyCheck(t *testing.T) {
	flow, session := newTestFlow(t, calmBackground(), calmScenario(), FixedFollowUpPolicy(true))

	_, _, err := flow.Start()
	require.NoError(t, err)

	turn, err := flow.Answer(1) // climate position 10
	require.NoError(t, err)
	assert.True(t, turn.Consistent)

	turn, err = flow.Answer(1) // climate position 75: delta 65, flip
	require.NoError(t, err)
	assert.False(t, turn.Consistent)
	assert.Equal(t, "climate-flip", turn.ContradictionKey)
	assert.True(t, session.Contradictions["climate-flip"])

	require.NotNil(t, turn.NextQuestion)
	assert.Equal(t, model.QuestionTypeConsistencyCheck, turn.NextQuestion.Type)
	assert.Contains(t, turn.NextQuestion.Setup, `"Modest, business-friendly steps."`)
	assert.Contains(t, turn.NextQuestion.Setup, `"Drill more, worry less."`)

	// Answering the synthesized question moves the interview forward.
	turn, err = flow.Answer(1) // diplomatic option on the generated question
	require.NoError(t, err)
	require.NotNil(t, turn.NextQuestion)
	assert.NotEqual(t, model.QuestionTypeConsistencyCheck, turn.NextQuestion.Type,
		"a contradiction key is pursued at most once")
}

func TestNoInjectionWhenPolicyDeclines(t *testing.T) {
	flow, _ := newTestFlow(t, calmBackground(), calmScenario(), FixedFollowUpPolicy(false))

	_, _, err := flow.Start()
	require.NoError(t, err)

	_, err = flow.Answer(1)
	require.NoError(t, err)
	turn, err := flow.Answer(1) // flip detected, but policy says no
	require.NoError(t, err)

	require.NotNil(t, turn.NextQuestion)
	assert.NotEqual(t, model.QuestionTypeConsistencyCheck, turn.NextQuestion.Type)
}

func TestFinalResultAggregatesWeightedPositions(t *testing.T) {
	flow, _ := newTestFlow(t, calmBackground(), calmScenario(), FixedFollowUpPolicy(false))

	_, _, err := flow.Start()
	require.NoError(t, err)

	var result *model.InterviewResult
	answers := []int{0, 0, 0} // climate -80 w5, climate -20 w1, then closing
	for _, idx := range answers {
		turn, err := flow.Answer(idx)
		require.NoError(t, err)
		if turn.Finished {
			result = turn.Result
		}
	}
	require.NotNil(t, result)

	// round((-80*5 + -20*1) / 6) = -70
	require.Len(t, result.Positions, 1)
	assert.Equal(t, model.IssuePosition{Issue: "climate", Position: -70}, result.Positions[0])

	assert.Equal(t, []model.Tone{model.ToneDiplomatic, model.ToneDiplomatic, model.ToneDiplomatic}, result.TonePattern)
	assert.NotEmpty(t, result.Rating.Grade)
}

func TestHostileBaseBlocksDeEscalation(t *testing.T) {
	flow, session := newTestFlow(t, calmBackground(), scandalRecovery(), FixedFollowUpPolicy(false))

	_, _, err := flow.Start()
	require.NoError(t, err)
	assert.Equal(t, model.MoodHostile, session.Mood, "interview opens in the base disposition")

	turn, err := flow.Answer(1) // defensive: no transition
	require.NoError(t, err)
	assert.Equal(t, model.MoodHostile, turn.Mood)

	turn, err = flow.Answer(0) // diplomatic: de-escalation blocked by hostile base
	require.NoError(t, err)
	assert.Equal(t, model.MoodHostile, turn.Mood)
}

func TestAnswerRejectsBadOptionIndex(t *testing.T) {
	flow, _ := newTestFlow(t, calmBackground(), calmScenario(), FixedFollowUpPolicy(false))

	_, _, err := flow.Start()
	require.NoError(t, err)

	_, err = flow.Answer(-1)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = flow.Answer(99)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestStartWithEmptyBankFinishesImmediately(t *testing.T) {
	session := model.NewInterviewSession("s1", "nick", "career-politician", "frontrunner", model.MoodProfessional)
	flow := NewFlow(NewBank(nil), calmBackground(), calmScenario(), FixedFollowUpPolicy(false), session)

	q, result, err := flow.Start()
	require.NoError(t, err)
	assert.Nil(t, q)
	require.NotNil(t, result)
	assert.Equal(t, model.FlowFinished, session.State)
	assert.Empty(t, result.Positions)
}

func TestDefensiveOptionIndex(t *testing.T) {
	q := &model.Question{Options: []model.Option{
		{Text: "a", Tone: model.ToneAggressive},
		{Text: "b", Tone: model.ToneDefensive},
	}}
	assert.Equal(t, 1, DefensiveOptionIndex(q))

	q = &model.Question{Options: []model.Option{
		{Text: "a", Tone: model.ToneAggressive},
		{Text: "b", Tone: model.ToneDiplomatic},
	}}
	assert.Equal(t, 0, DefensiveOptionIndex(q))
}

func TestRandomFollowUpPolicyIsSeedDeterministic(t *testing.T) {
	a := NewRandomFollowUpPolicy(7, DefaultFollowUpChance)
	b := NewRandomFollowUpPolicy(7, DefaultFollowUpChance)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Inject(), b.Inject())
	}

	never := NewRandomFollowUpPolicy(1, 0)
	always := NewRandomFollowUpPolicy(1, 1)
	for i := 0; i < 20; i++ {
		assert.False(t, never.Inject())
		assert.True(t, always.Inject())
	}
}
