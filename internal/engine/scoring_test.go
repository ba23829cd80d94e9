package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"coalition/internal/model"
)

func calmBackground() *model.Background {
	return &model.Background{ID: "career-politician", Risk: model.RiskLow}
}

func calmScenario() *model.Scenario {
	return &model.Scenario{ID: "frontrunner", Risk: model.RiskModerate, BaseMood: model.MoodProfessional}
}

func initialScores() model.ScoreSet {
	return model.ScoreSet{Consistency: 100, Confidence: 50, Authenticity: 50}
}

func TestApplyEvasiveBaseDeltas(t *testing.T) {
	scorer := NewScorer(calmBackground(), calmScenario())
	scores := initialScores()

	scorer.Apply(&scores, model.ToneEvasive, false)

	assert.Equal(t, 95, scores.Consistency)
	assert.Equal(t, 42, scores.Confidence)
	assert.Equal(t, 40, scores.Authenticity)
}

func TestApplyAllToneDeltas(t *testing.T) {
	tests := []struct {
		tone                         model.Tone
		consistency, confidence, auth int
	}{
		{model.ToneDiplomatic, 100, 55, 58}, // consistency clamps at 100
		{model.ToneAggressive, 98, 58, 45},
		{model.ToneDefensive, 100, 47, 52},
		{model.ToneEvasive, 95, 42, 40},
		{model.ToneConfrontational, 92, 52, 47},
	}

	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			scorer := NewScorer(calmBackground(), calmScenario())
			scores := initialScores()
			scorer.Apply(&scores, tt.tone, false)
			assert.Equal(t, tt.consistency, scores.Consistency)
			assert.Equal(t, tt.confidence, scores.Confidence)
			assert.Equal(t, tt.auth, scores.Authenticity)
		})
	}
}

func TestApplyPositionFlipPenalty(t *testing.T) {
	scorer := NewScorer(calmBackground(), calmScenario())
	scores := initialScores()

	scorer.Apply(&scores, model.ToneDefensive, true)

	// Base defensive delta leaves consistency untouched; the flip takes 30.
	assert.Equal(t, 70, scores.Consistency)
}

func TestApplyExtremeScenarioEvasionPenalty(t *testing.T) {
	scenario := &model.Scenario{ID: "scandal-recovery", Risk: model.RiskExtreme, BaseMood: model.MoodHostile}
	scorer := NewScorer(calmBackground(), scenario)
	scores := initialScores()

	scorer.Apply(&scores, model.ToneEvasive, false)

	assert.Equal(t, 85, scores.Consistency)  // 100 - 5 - 10
	assert.Equal(t, 42, scores.Confidence)   // 50 - 8
	assert.Equal(t, 25, scores.Authenticity) // 50 - 10 - 15
}

func TestApplyRiskyBackgroundModifiers(t *testing.T) {
	background := &model.Background{ID: "whistleblower", Risk: model.RiskHigh}
	scorer := NewScorer(background, calmScenario())

	scores := initialScores()
	scorer.Apply(&scores, model.ToneAggressive, false)
	assert.Equal(t, 53, scores.Confidence)   // 50 + 8 - 5
	assert.Equal(t, 35, scores.Authenticity) // 50 - 5 - 10

	scores = initialScores()
	scorer.Apply(&scores, model.ToneDiplomatic, false)
	assert.Equal(t, 63, scores.Authenticity) // 50 + 8 + 5
}

func TestScoresNeverLeaveRange(t *testing.T) {
	background := &model.Background{ID: "whistleblower", Risk: model.RiskExtreme}
	scenario := &model.Scenario{ID: "scandal-recovery", Risk: model.RiskExtreme, BaseMood: model.MoodHostile}
	scorer := NewScorer(background, scenario)

	rng := rand.New(rand.NewSource(42))
	scores := initialScores()
	for i := 0; i < 500; i++ {
		tone := model.Tones[rng.Intn(len(model.Tones))]
		scorer.Apply(&scores, tone, rng.Intn(3) == 0)

		assert.GreaterOrEqual(t, scores.Consistency, 0)
		assert.LessOrEqual(t, scores.Consistency, 100)
		assert.GreaterOrEqual(t, scores.Confidence, 0)
		assert.LessOrEqual(t, scores.Confidence, 100)
		assert.GreaterOrEqual(t, scores.Authenticity, 0)
		assert.LessOrEqual(t, scores.Authenticity, 100)
	}
}

func TestToneConsistencyScore(t *testing.T) {
	tests := []struct {
		name  string
		tones []model.Tone
		want  int
	}{
		{"single tone keeps a perfect score", []model.Tone{model.ToneDefensive, model.ToneDefensive}, 100},
		{"two tones are free", []model.Tone{model.ToneDefensive, model.ToneDiplomatic}, 100},
		{
			"each extra distinct tone costs ten",
			[]model.Tone{model.ToneDefensive, model.ToneDiplomatic, model.ToneEvasive, model.ToneAggressive},
			80,
		},
		{
			"mostly diplomatic answers earn the bonus but clamp at 100",
			[]model.Tone{
				model.ToneDiplomatic, model.ToneDiplomatic, model.ToneDiplomatic, model.ToneDiplomatic,
				model.ToneDiplomatic, model.ToneDiplomatic, model.ToneDiplomatic,
				model.ToneDefensive, model.ToneDefensive, model.ToneDefensive,
			},
			100,
		},
		{
			"back-to-back hotheaded answers cost fifteen each",
			[]model.Tone{model.ToneAggressive, model.ToneConfrontational, model.ToneAggressive},
			70, // two adjacent escalating pairs, two distinct tones
		},
		{"empty history scores perfect", nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToneConsistencyScore(tt.tones))
		})
	}
}

func TestFinalizeScoresAveragesInToneConsistency(t *testing.T) {
	session := model.NewInterviewSession("s1", "nick", "career-politician", "frontrunner", model.MoodProfessional)
	session.Scores.Consistency = 95
	session.ToneHistory = []model.Tone{model.ToneEvasive}

	FinalizeScores(session)

	// Tone-consistency is 100 for a single tone; round((95+100)/2) = 98.
	assert.Equal(t, 98, session.Scores.Consistency)
}

func TestRateScoresGradeBoundaries(t *testing.T) {
	tests := []struct {
		scores model.ScoreSet
		score  int
		grade  string
	}{
		{model.ScoreSet{Consistency: 85, Confidence: 85, Authenticity: 85}, 85, "A+"},
		{model.ScoreSet{Consistency: 84, Confidence: 84, Authenticity: 84}, 84, "A"},
		{model.ScoreSet{Consistency: 75, Confidence: 75, Authenticity: 75}, 75, "A"},
		{model.ScoreSet{Consistency: 65, Confidence: 65, Authenticity: 65}, 65, "B"},
		{model.ScoreSet{Consistency: 55, Confidence: 55, Authenticity: 55}, 55, "C"},
		{model.ScoreSet{Consistency: 45, Confidence: 45, Authenticity: 45}, 45, "D"},
		{model.ScoreSet{Consistency: 44, Confidence: 44, Authenticity: 44}, 44, "F"},
		{model.ScoreSet{Consistency: 84, Confidence: 85, Authenticity: 86}, 85, "A+"}, // mixed scores average
	}

	for _, tt := range tests {
		rating := RateScores(tt.scores)
		assert.Equal(t, tt.score, rating.Score)
		assert.Equal(t, tt.grade, rating.Grade)
		assert.NotEmpty(t, rating.Description)
	}
}
