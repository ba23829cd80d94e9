package model

import "time"

// Mood is the interviewer's current disposition
type Mood string

const (
	MoodProfessional Mood = "professional"
	MoodSkeptical    Mood = "skeptical"
	MoodHostile      Mood = "hostile"
	MoodSympathetic  Mood = "sympathetic"
)

// FlowState is the interview state machine position
type FlowState string

const (
	FlowNotStarted     FlowState = "not-started"
	FlowAwaitingAnswer FlowState = "awaiting-answer"
	FlowFinished       FlowState = "finished"
)

// Response records one answered question. Append-only; responses are the sole
// input to final scoring and position aggregation.
type Response struct {
	QuestionID  string    `json:"questionId" bson:"questionId"`
	OptionIndex int       `json:"optionIndex" bson:"optionIndex"`
	Text        string    `json:"text" bson:"text"`
	Issue       string    `json:"issue,omitempty" bson:"issue,omitempty"`
	Position    *int      `json:"position,omitempty" bson:"position,omitempty"`
	Priority    int       `json:"priority,omitempty" bson:"priority,omitempty"`
	Tone        Tone      `json:"tone" bson:"tone"`
	Consistent  bool      `json:"consistent" bson:"consistent"`
	AnsweredAt  time.Time `json:"answeredAt" bson:"answeredAt"`
}

// ScoreSet holds the three running performance scores, each clamped to [0,100]
type ScoreSet struct {
	Consistency  int `json:"consistency" bson:"consistency"`
	Confidence   int `json:"confidence" bson:"confidence"`
	Authenticity int `json:"authenticity" bson:"authenticity"`
}

// InterviewSession is the full mutable state of one interview. It is owned by
// a single flow; callers pass it explicitly rather than sharing it.
type InterviewSession struct {
	ID                string          `json:"id"`
	Nickname          string          `json:"nickname"`
	BackgroundID      string          `json:"backgroundId"`
	ScenarioID        string          `json:"scenarioId"`
	State             FlowState       `json:"state"`
	CurrentQuestionID string          `json:"currentQuestionId,omitempty"`
	Answered          []string        `json:"answered"` // Ordered; a question id never appears twice
	ToneHistory       []Tone          `json:"toneHistory"`
	Contradictions    map[string]bool `json:"contradictions"`
	Scores            ScoreSet        `json:"scores"`
	Mood              Mood            `json:"mood"`
	BaseMood          Mood            `json:"baseMood"` // Fixed by the scenario, never changes
	Responses         []Response      `json:"responses"`
	Generated         []Question      `json:"generated,omitempty"` // Session-scoped synthesized questions
	StartedAt         time.Time       `json:"startedAt"`
	FinishedAt        *time.Time      `json:"finishedAt,omitempty"`
}

// NewInterviewSession creates a session in its initial state.
func NewInterviewSession(id, nickname, backgroundID, scenarioID string, baseMood Mood) *InterviewSession {
	return &InterviewSession{
		ID:             id,
		Nickname:       nickname,
		BackgroundID:   backgroundID,
		ScenarioID:     scenarioID,
		State:          FlowNotStarted,
		Contradictions: make(map[string]bool),
		Scores:         ScoreSet{Consistency: 100, Confidence: 50, Authenticity: 50},
		Mood:           baseMood, // Interview opens in the interviewer's base disposition
		BaseMood:       baseMood,
		StartedAt:      time.Now(),
	}
}

// HasAnswered reports whether the question id is already in the answered set.
func (s *InterviewSession) HasAnswered(id string) bool {
	for _, a := range s.Answered {
		if a == id {
			return true
		}
	}
	return false
}

// RecordContradiction marks a contradiction key as detected.
func (s *InterviewSession) RecordContradiction(key string) {
	if s.Contradictions == nil {
		s.Contradictions = make(map[string]bool)
	}
	s.Contradictions[key] = true
}

// LastPositionOn returns the most recent recorded position for an issue,
// or nil if the issue was never answered with a position.
func (s *InterviewSession) LastPositionOn(issue string) *int {
	for i := len(s.Responses) - 1; i >= 0; i-- {
		r := s.Responses[i]
		if r.Issue == issue && r.Position != nil {
			return r.Position
		}
	}
	return nil
}
