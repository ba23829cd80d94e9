package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coalition/internal/cache"
	"coalition/internal/engine"
	"coalition/internal/model"
	"coalition/internal/repository"
)

var (
	ErrSessionNotFound   = errors.New("interview session not found or expired")
	ErrUnknownBackground = errors.New("unknown background")
	ErrUnknownScenario   = errors.New("unknown scenario")
	ErrInterviewOver     = errors.New("interview already finished")
)

// WebSocket event types pushed to observers of a session.
const (
	EventAnswerRecorded     = "answer_recorded"
	EventMoodChanged        = "mood_changed"
	EventContradictionFound = "contradiction_found"
	EventInterviewFinished  = "interview_finished"
)

// StartRequest begins a new interview.
type StartRequest struct {
	Nickname     string `json:"nickname"`
	BackgroundID string `json:"backgroundId"`
	ScenarioID   string `json:"scenarioId"`
}

// TurnRequest answers the current question. TimedOut forces the defensive
// fallback regardless of OptionIndex.
type TurnRequest struct {
	OptionIndex int  `json:"optionIndex"`
	TimedOut    bool `json:"timedOut"`
}

// InterviewView is the candidate-facing snapshot returned on start and on
// current-state reads. Scores stay hidden until the interview finishes.
type InterviewView struct {
	SessionID    string                 `json:"sessionId"`
	Nickname     string                 `json:"nickname"`
	BackgroundID string                 `json:"backgroundId"`
	ScenarioID   string                 `json:"scenarioId"`
	State        model.FlowState        `json:"state"`
	Mood         model.Mood             `json:"mood"`
	MoodFraming  string                 `json:"moodFraming"`
	Question     *model.Question        `json:"question,omitempty"`
	Answered     int                    `json:"answered"`
	Result       *model.InterviewResult `json:"result,omitempty"`
}

// InterviewService orchestrates interview sessions. The engine is pure; this
// service owns loading state, rebuilding a flow per turn and persisting the
// outcome.
type InterviewService struct {
	questionRepo   repository.QuestionRepo
	backgroundRepo repository.BackgroundRepo
	scenarioRepo   repository.ScenarioRepo
	resultRepo     repository.ResultRepo
	sessions       cache.SessionCache
	leaderboard    cache.LeaderboardCache
	broadcaster    Broadcaster
	followUpChance float64
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	questionRepo repository.QuestionRepo,
	backgroundRepo repository.BackgroundRepo,
	scenarioRepo repository.ScenarioRepo,
	resultRepo repository.ResultRepo,
	sessions cache.SessionCache,
	leaderboard cache.LeaderboardCache,
	followUpChance float64,
) *InterviewService {
	return &InterviewService{
		questionRepo:   questionRepo,
		backgroundRepo: backgroundRepo,
		scenarioRepo:   scenarioRepo,
		resultRepo:     resultRepo,
		sessions:       sessions,
		leaderboard:    leaderboard,
		broadcaster:    NopBroadcaster(),
		followUpChance: followUpChance,
	}
}

// SetBroadcaster wires the WebSocket hub after construction (avoids import cycle)
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a session and selects the first question.
func (s *InterviewService) Start(ctx context.Context, req StartRequest) (*InterviewView, error) {
	if req.Nickname == "" {
		return nil, errors.New("nickname is required")
	}

	background, scenario, bank, err := s.loadContent(ctx, req.BackgroundID, req.ScenarioID)
	if err != nil {
		return nil, err
	}

	session := model.NewInterviewSession(uuid.New().String(), req.Nickname, background.ID, scenario.ID, scenario.BaseMood)
	flow := s.buildFlow(bank, background, scenario, session)

	question, result, err := flow.Start()
	if err != nil {
		return nil, err
	}

	if result != nil {
		// Empty bank for this background/scenario pair; finish on the spot.
		if err := s.persistResult(ctx, session, result); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Str("sessionId", session.ID).
		Str("backgroundId", background.ID).
		Str("scenarioId", scenario.ID).
		Msg("interview started")

	return s.view(session, question, result), nil
}

// Current returns the present state of a session.
func (s *InterviewService) Current(ctx context.Context, sessionID string) (*InterviewView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	var question *model.Question
	if session.State == model.FlowAwaitingAnswer {
		_, _, bank, err := s.loadContent(ctx, session.BackgroundID, session.ScenarioID)
		if err != nil {
			return nil, err
		}
		question = bank.Get(session, session.CurrentQuestionID)
	}

	var result *model.InterviewResult
	if session.State == model.FlowFinished {
		result, err = s.resultRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	return s.view(session, question, result), nil
}

// SubmitAnswer runs one turn: answer the current question (or the defensive
// fallback when the timer ran out), persist the session, and on the final
// answer persist the result and update the leaderboard.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID string, req TurnRequest) (*engine.TurnResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.State == model.FlowFinished {
		return nil, ErrInterviewOver
	}

	background, scenario, bank, err := s.loadContent(ctx, session.BackgroundID, session.ScenarioID)
	if err != nil {
		return nil, err
	}
	flow := s.buildFlow(bank, background, scenario, session)

	optionIndex := req.OptionIndex
	if req.TimedOut {
		current := bank.Get(session, session.CurrentQuestionID)
		if current == nil {
			return nil, engine.ErrUnknownQuestion
		}
		optionIndex = engine.DefensiveOptionIndex(current)
	}

	moodBefore := session.Mood
	turn, err := flow.Answer(optionIndex)
	if err != nil {
		return nil, err
	}

	if turn.Finished {
		if err := s.persistResult(ctx, session, turn.Result); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToSession(sessionID, EventAnswerRecorded, turn.Response)
	if turn.Mood != moodBefore {
		s.broadcaster.BroadcastToSession(sessionID, EventMoodChanged, map[string]interface{}{
			"mood":    turn.Mood,
			"framing": engine.MoodFraming(turn.Mood),
		})
	}
	if !turn.Consistent {
		s.broadcaster.BroadcastToSession(sessionID, EventContradictionFound, map[string]interface{}{
			"key": turn.ContradictionKey,
		})
	}
	if turn.Finished {
		s.broadcaster.BroadcastToSession(sessionID, EventInterviewFinished, turn.Result)
		s.broadcaster.DisconnectSession(sessionID)
	}

	return turn, nil
}

// ResultView pairs the persisted outcome with its leaderboard standing.
type ResultView struct {
	Result          *model.InterviewResult `json:"result"`
	LeaderboardRank int64                  `json:"leaderboardRank"` // 1-indexed; -1 when unranked
}

// Result returns the finished outcome for a session, with its current rank on
// the scenario leaderboard.
func (s *InterviewService) Result(ctx context.Context, sessionID string) (*ResultView, error) {
	result, err := s.resultRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNotFound
	}

	rank, err := s.leaderboard.GetRank(ctx, result.ScenarioID, sessionID)
	if err != nil {
		// The result itself is durable; serve it without a rank.
		log.Warn().Err(err).Str("sessionId", sessionID).Msg("leaderboard rank lookup failed")
		rank = -1
	}
	return &ResultView{Result: result, LeaderboardRank: rank}, nil
}

func (s *InterviewService) loadContent(ctx context.Context, backgroundID, scenarioID string) (*model.Background, *model.Scenario, *engine.Bank, error) {
	background, err := s.backgroundRepo.GetByID(ctx, backgroundID)
	if err != nil {
		return nil, nil, nil, err
	}
	if background == nil {
		return nil, nil, nil, ErrUnknownBackground
	}

	scenario, err := s.scenarioRepo.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, nil, nil, err
	}
	if scenario == nil {
		return nil, nil, nil, ErrUnknownScenario
	}

	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return background, scenario, engine.NewBank(questions), nil
}

func (s *InterviewService) buildFlow(bank *engine.Bank, background *model.Background, scenario *model.Scenario, session *model.InterviewSession) *engine.Flow {
	policy := engine.NewRandomFollowUpPolicy(time.Now().UnixNano(), s.followUpChance)
	return engine.NewFlow(bank, background, scenario, policy, session)
}

func (s *InterviewService) persistResult(ctx context.Context, session *model.InterviewSession, result *model.InterviewResult) error {
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return err
	}
	if err := s.leaderboard.UpdateScore(ctx, session.ScenarioID, session.ID, session.Nickname, result.Rating.Score); err != nil {
		// The result is already durable; a stale leaderboard is tolerable.
		log.Warn().Err(err).Str("sessionId", session.ID).Msg("leaderboard update failed")
	}
	log.Info().
		Str("sessionId", session.ID).
		Int("score", result.Rating.Score).
		Str("grade", result.Rating.Grade).
		Msg("interview finished")
	return nil
}

func (s *InterviewService) view(session *model.InterviewSession, question *model.Question, result *model.InterviewResult) *InterviewView {
	return &InterviewView{
		SessionID:    session.ID,
		Nickname:     session.Nickname,
		BackgroundID: session.BackgroundID,
		ScenarioID:   session.ScenarioID,
		State:        session.State,
		Mood:         session.Mood,
		MoodFraming:  engine.MoodFraming(session.Mood),
		Question:     question,
		Answered:     len(session.Answered),
		Result:       result,
	}
}
