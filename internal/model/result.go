package model

import "time"

// IssuePosition is the priority-weighted average stance on one issue
type IssuePosition struct {
	Issue    string `json:"issue" bson:"issue"`
	Position int    `json:"position" bson:"position"`
}

// Rating is the overall letter grade for a finished interview
type Rating struct {
	Score       int    `json:"score" bson:"score"`
	Grade       string `json:"grade" bson:"grade"`
	Description string `json:"description" bson:"description"`
}

// InterviewResult is the finalized, read-only outcome of a session
type InterviewResult struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	SessionID       string          `json:"sessionId" bson:"sessionId"`
	Nickname        string          `json:"nickname" bson:"nickname"`
	BackgroundID    string          `json:"backgroundId" bson:"backgroundId"`
	ScenarioID      string          `json:"scenarioId" bson:"scenarioId"`
	Positions       []IssuePosition `json:"positions" bson:"positions"`
	Scores          ScoreSet        `json:"scores" bson:"scores"`
	Rating          Rating          `json:"rating" bson:"rating"`
	TonePattern     []Tone          `json:"tonePattern" bson:"tonePattern"`
	MoodProgression []Mood          `json:"interviewerMoodProgression" bson:"interviewerMoodProgression"` // [base, final]
	Contradictions  []string        `json:"contradictions" bson:"contradictions"`
	CompletedAt     time.Time       `json:"completedAt" bson:"completedAt"`
}

// ScenarioSummary aggregates persisted results for one scenario
type ScenarioSummary struct {
	ScenarioID        string               `json:"scenarioId"`
	Interviews        int                  `json:"interviews"`
	GradeCounts       map[string]int       `json:"gradeCounts"`
	AverageScores     ScoreSet             `json:"averageScores"`
	TopContradictions []ContradictionTally `json:"topContradictions"`
}

// ContradictionTally counts how often a contradiction key was triggered
type ContradictionTally struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
