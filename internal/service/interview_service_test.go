package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coalition/internal/cache"
	"coalition/internal/model"
)

type fakeQuestionRepo struct{ questions []model.Question }

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionRepo) Update(_ context.Context, q *model.Question) error {
	for i := range f.questions {
		if f.questions[i].ID == q.ID {
			f.questions[i] = *q
		}
	}
	return nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, id string) error {
	out := f.questions[:0]
	for _, q := range f.questions {
		if q.ID != id {
			out = append(out, q)
		}
	}
	f.questions = out
	return nil
}

func (f *fakeQuestionRepo) GetAll(_ context.Context) ([]model.Question, error) {
	return append([]model.Question(nil), f.questions...), nil
}

func (f *fakeQuestionRepo) ReplaceAll(_ context.Context, questions []model.Question) error {
	f.questions = append([]model.Question(nil), questions...)
	return nil
}

type fakeBackgroundRepo struct{ backgrounds map[string]model.Background }

func (f *fakeBackgroundRepo) Create(_ context.Context, b *model.Background) error {
	f.backgrounds[b.ID] = *b
	return nil
}

func (f *fakeBackgroundRepo) GetByID(_ context.Context, id string) (*model.Background, error) {
	if b, ok := f.backgrounds[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBackgroundRepo) Update(_ context.Context, b *model.Background) error {
	f.backgrounds[b.ID] = *b
	return nil
}

func (f *fakeBackgroundRepo) Delete(_ context.Context, id string) error {
	delete(f.backgrounds, id)
	return nil
}

func (f *fakeBackgroundRepo) GetAll(_ context.Context) ([]model.Background, error) {
	var out []model.Background
	for _, b := range f.backgrounds {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBackgroundRepo) ReplaceAll(_ context.Context, backgrounds []model.Background) error {
	f.backgrounds = make(map[string]model.Background)
	for _, b := range backgrounds {
		f.backgrounds[b.ID] = b
	}
	return nil
}

type fakeScenarioRepo struct{ scenarios map[string]model.Scenario }

func (f *fakeScenarioRepo) Create(_ context.Context, sc *model.Scenario) error {
	f.scenarios[sc.ID] = *sc
	return nil
}

func (f *fakeScenarioRepo) GetByID(_ context.Context, id string) (*model.Scenario, error) {
	if sc, ok := f.scenarios[id]; ok {
		return &sc, nil
	}
	return nil, nil
}

func (f *fakeScenarioRepo) Update(_ context.Context, sc *model.Scenario) error {
	f.scenarios[sc.ID] = *sc
	return nil
}

func (f *fakeScenarioRepo) Delete(_ context.Context, id string) error {
	delete(f.scenarios, id)
	return nil
}

func (f *fakeScenarioRepo) GetAll(_ context.Context) ([]model.Scenario, error) {
	var out []model.Scenario
	for _, sc := range f.scenarios {
		out = append(out, sc)
	}
	return out, nil
}

func (f *fakeScenarioRepo) ReplaceAll(_ context.Context, scenarios []model.Scenario) error {
	f.scenarios = make(map[string]model.Scenario)
	for _, sc := range scenarios {
		f.scenarios[sc.ID] = sc
	}
	return nil
}

type fakeResultRepo struct{ results []model.InterviewResult }

func (f *fakeResultRepo) Create(_ context.Context, r *model.InterviewResult) error {
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeResultRepo) GetByID(_ context.Context, id string) (*model.InterviewResult, error) {
	for i := range f.results {
		if f.results[i].ID == id {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeResultRepo) GetBySessionID(_ context.Context, sessionID string) (*model.InterviewResult, error) {
	for i := range f.results {
		if f.results[i].SessionID == sessionID {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeResultRepo) GetByScenario(_ context.Context, scenarioID string, _ int) ([]model.InterviewResult, error) {
	var out []model.InterviewResult
	for _, r := range f.results {
		if r.ScenarioID == scenarioID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSessionCache struct{ sessions map[string]model.InterviewSession }

func (f *fakeSessionCache) Set(_ context.Context, s *model.InterviewSession) error {
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionCache) Get(_ context.Context, id string) (*model.InterviewSession, error) {
	if s, ok := f.sessions[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSessionCache) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeLeaderboard struct{ entries map[string][]cache.LeaderboardEntry }

func (f *fakeLeaderboard) UpdateScore(_ context.Context, scenarioID, sessionID, nickname string, score int) error {
	f.entries[scenarioID] = append(f.entries[scenarioID], cache.LeaderboardEntry{
		SessionID: sessionID, Nickname: nickname, Score: score,
	})
	return nil
}

func (f *fakeLeaderboard) GetTop(_ context.Context, scenarioID string, limit int) ([]cache.LeaderboardEntry, error) {
	entries := f.entries[scenarioID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeLeaderboard) GetRank(_ context.Context, scenarioID, sessionID string) (int64, error) {
	score, found := 0, false
	for _, e := range f.entries[scenarioID] {
		if e.SessionID == sessionID {
			score, found = e.Score, true
		}
	}
	if !found {
		return -1, nil
	}
	rank := int64(1)
	for _, e := range f.entries[scenarioID] {
		if e.Score > score {
			rank++
		}
	}
	return rank, nil
}

type broadcastCall struct {
	sessionID string
	msgType   string
}

type recordingBroadcaster struct {
	calls        []broadcastCall
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, _ interface{}) {
	b.calls = append(b.calls, broadcastCall{sessionID: sessionID, msgType: msgType})
}

func (b *recordingBroadcaster) DisconnectSession(sessionID string) {
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *recordingBroadcaster) types() []string {
	var out []string
	for _, c := range b.calls {
		out = append(out, c.msgType)
	}
	return out
}

func serviceFixture() (*InterviewService, *fakeResultRepo, *fakeLeaderboard, *recordingBroadcaster) {
	questions := &fakeQuestionRepo{questions: []model.Question{
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
			ID: "close-out", Type: model.QuestionTypeClosing, Order: 3,
			Prompt: "Closing statement?",
			Options: []model.Option{
				{Text: "Vote your conscience.", Tone: model.ToneDiplomatic},
				{Text: "We're done here.", Tone: model.ToneDefensive},
			},
		},
	}}
	backgrounds := &fakeBackgroundRepo{backgrounds: map[string]model.Background{
		"career-politician": {ID: "career-politician", Name: "Career Politician", Risk: model.RiskLow},
	}}
	scenarios := &fakeScenarioRepo{scenarios: map[string]model.Scenario{
		"frontrunner": {ID: "frontrunner", Name: "Frontrunner", Risk: model.RiskModerate, BaseMood: model.MoodProfessional},
	}}
	results := &fakeResultRepo{}
	sessions := &fakeSessionCache{sessions: make(map[string]model.InterviewSession)}
	leaderboard := &fakeLeaderboard{entries: make(map[string][]cache.LeaderboardEntry)}
	broadcaster := &recordingBroadcaster{}

	svc := NewInterviewService(questions, backgrounds, scenarios, results, sessions, leaderboard, 0)
	svc.SetBroadcaster(broadcaster)
	return svc, results, leaderboard, broadcaster
}

func intp(v int) *int { return &v }

func TestStartCreatesSessionAndFirstQuestion(t *testing.T) {
	svc, _, _, _ := serviceFixture()
	ctx := context.Background()

	view, err := svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "career-politician", ScenarioID: "frontrunner"})
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, model.FlowAwaitingAnswer, view.State)
	assert.Equal(t, model.MoodProfessional, view.Mood)
	require.NotNil(t, view.Question)
	assert.Equal(t, "open-climate", view.Question.ID)

	// The persisted session round-trips through the cache.
	current, err := svc.Current(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, view.Question.ID, current.Question.ID)
}

func TestStartRejectsUnknownContent(t *testing.T) {
	svc, _, _, _ := serviceFixture()
	ctx := context.Background()

	_, err := svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "nope", ScenarioID: "frontrunner"})
	assert.ErrorIs(t, err, ErrUnknownBackground)

	_, err = svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "career-politician", ScenarioID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownScenario)

	_, err = svc.Start(ctx, StartRequest{BackgroundID: "career-politician", ScenarioID: "frontrunner"})
	assert.Error(t, err)
}

func TestSubmitAnswerRunsToResultAndLeaderboard(t *testing.T) {
	svc, results, leaderboard, broadcaster := serviceFixture()
	ctx := context.Background()

	view, err := svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "career-politician", ScenarioID: "frontrunner"})
	require.NoError(t, err)

	var finished bool
	for i := 0; i < 10 && !finished; i++ {
		turn, err := svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 0})
		require.NoError(t, err)
		finished = turn.Finished
	}
	require.True(t, finished)

	// Result persisted and queryable, with its leaderboard standing attached.
	resultView, err := svc.Result(ctx, view.SessionID)
	require.NoError(t, err)
	result := resultView.Result
	assert.Equal(t, "alex", result.Nickname)
	require.Len(t, result.Positions, 1)
	assert.Equal(t, -70, result.Positions[0].Position)
	assert.Equal(t, int64(1), resultView.LeaderboardRank)
	require.Len(t, results.results, 1)

	// Leaderboard carries the rating score.
	entries := leaderboard.entries["frontrunner"]
	require.Len(t, entries, 1)
	assert.Equal(t, result.Rating.Score, entries[0].Score)
	assert.Equal(t, "alex", entries[0].Nickname)

	// Observers saw every answer and the finish, then got disconnected.
	types := broadcaster.types()
	assert.Contains(t, types, EventAnswerRecorded)
	assert.Contains(t, types, EventInterviewFinished)
	assert.Equal(t, []string{view.SessionID}, broadcaster.disconnected)

	// The finished session rejects further answers.
	_, err = svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 0})
	assert.ErrorIs(t, err, ErrInterviewOver)
}

func TestSubmitAnswerTimedOutForcesDefensiveOption(t *testing.T) {
	svc, _, _, _ := serviceFixture()
	ctx := context.Background()

	view, err := svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "career-politician", ScenarioID: "frontrunner"})
	require.NoError(t, err)

	turn, err := svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 0, TimedOut: true})
	require.NoError(t, err)

	assert.Equal(t, model.ToneDefensive, turn.Response.Tone)
	assert.Equal(t, "Modest, business-friendly steps.", turn.Response.Text)
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	svc, _, _, _ := serviceFixture()

	_, err := svc.SubmitAnswer(context.Background(), "missing", TurnRequest{OptionIndex: 0})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestContradictionBroadcast(t *testing.T) {
	svc, _, _, broadcaster := serviceFixture()
	ctx := context.Background()

	view, err := svc.Start(ctx, StartRequest{Nickname: "alex", BackgroundID: "career-politician", ScenarioID: "frontrunner"})
	require.NoError(t, err)

	// Position 10 then 75 on climate is a flip.
	_, err = svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 1})
	require.NoError(t, err)
	turn, err := svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 1})
	require.NoError(t, err)

	assert.False(t, turn.Consistent)
	assert.Contains(t, broadcaster.types(), EventContradictionFound)
}

func TestSummaryAggregatesResults(t *testing.T) {
	svc, results, leaderboard, _ := serviceFixture()
	ctx := context.Background()

	for _, nickname := range []string{"alex", "sam"} {
		view, err := svc.Start(ctx, StartRequest{Nickname: nickname, BackgroundID: "career-politician", ScenarioID: "frontrunner"})
		require.NoError(t, err)
		var finished bool
		for i := 0; i < 10 && !finished; i++ {
			turn, err := svc.SubmitAnswer(ctx, view.SessionID, TurnRequest{OptionIndex: 0})
			require.NoError(t, err)
			finished = turn.Finished
		}
		require.True(t, finished)
	}

	scenarios := &fakeScenarioRepo{scenarios: map[string]model.Scenario{
		"frontrunner": {ID: "frontrunner", Risk: model.RiskModerate, BaseMood: model.MoodProfessional},
	}}
	summaries := NewSummaryService(results, scenarios, leaderboard)

	summary, err := summaries.Summary(ctx, "frontrunner")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Interviews)

	total := 0
	for _, count := range summary.GradeCounts {
		total += count
	}
	assert.Equal(t, 2, total)

	_, err = summaries.Summary(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}
