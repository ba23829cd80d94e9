package engine

import (
	"math"

	"coalition/internal/model"
)

// Tunable scoring constants. The numeric values are behavioral contracts
// carried over from play-testing; change them and recorded interviews grade
// differently.
const (
	PositionFlipThreshold  = 60 // |delta| above this on the same issue is a flip
	flipConsistencyPenalty = 30

	extremeScenarioEvasionAuthPenalty = 15
	extremeScenarioEvasionConsPenalty = 10

	riskyBackgroundAggressionAuthPenalty = 10
	riskyBackgroundAggressionConfPenalty = 5
	riskyBackgroundDiplomacyAuthBonus    = 5

	distinctTonePenalty   = 10 // per distinct tone beyond the first two
	diplomaticShareBonus  = 10 // when >=70% of answers were diplomatic
	escalationPairPenalty = 15 // per adjacent aggressive/confrontational pair
)

type toneDelta struct {
	confidence   int
	authenticity int
	consistency  int
}

var toneDeltas = map[model.Tone]toneDelta{
	model.ToneDiplomatic:      {confidence: 5, authenticity: 8, consistency: 3},
	model.ToneAggressive:      {confidence: 8, authenticity: -5, consistency: -2},
	model.ToneDefensive:       {confidence: -3, authenticity: 2, consistency: 0},
	model.ToneEvasive:         {confidence: -8, authenticity: -10, consistency: -5},
	model.ToneConfrontational: {confidence: 2, authenticity: -3, consistency: -8},
}

// Scorer applies per-answer score updates for one session's fixed
// background and scenario.
type Scorer struct {
	background *model.Background
	scenario   *model.Scenario
}

// NewScorer creates a scorer bound to the session's background and scenario.
func NewScorer(background *model.Background, scenario *model.Scenario) *Scorer {
	return &Scorer{background: background, scenario: scenario}
}

// Apply updates the running scores for one answered question. Each score is
// clamped to [0,100] after every individual adjustment. flip marks a detected
// position flip on the question's issue (the checker decides that).
func (s *Scorer) Apply(scores *model.ScoreSet, tone model.Tone, flip bool) {
	d := toneDeltas[tone]
	scores.Confidence = clampScore(scores.Confidence + d.confidence)
	scores.Authenticity = clampScore(scores.Authenticity + d.authenticity)
	scores.Consistency = clampScore(scores.Consistency + d.consistency)

	if flip {
		scores.Consistency = clampScore(scores.Consistency - flipConsistencyPenalty)
	}

	if s.scenario.Risk == model.RiskExtreme && tone == model.ToneEvasive {
		scores.Authenticity = clampScore(scores.Authenticity - extremeScenarioEvasionAuthPenalty)
		scores.Consistency = clampScore(scores.Consistency - extremeScenarioEvasionConsPenalty)
	}

	if s.background.Risk == model.RiskHigh || s.background.Risk == model.RiskExtreme {
		switch tone {
		case model.ToneAggressive:
			scores.Authenticity = clampScore(scores.Authenticity - riskyBackgroundAggressionAuthPenalty)
			scores.Confidence = clampScore(scores.Confidence - riskyBackgroundAggressionConfPenalty)
		case model.ToneDiplomatic:
			scores.Authenticity = clampScore(scores.Authenticity + riskyBackgroundDiplomacyAuthBonus)
		}
	}
}

// ToneConsistencyScore computes the session-end tone discipline score from
// the full tone history.
func ToneConsistencyScore(tones []model.Tone) int {
	score := 100

	distinct := map[model.Tone]bool{}
	for _, t := range tones {
		distinct[t] = true
	}
	if len(distinct) > 2 {
		score -= distinctTonePenalty * (len(distinct) - 2)
	}

	if len(tones) > 0 {
		diplomatic := 0
		for _, t := range tones {
			if t == model.ToneDiplomatic {
				diplomatic++
			}
		}
		if float64(diplomatic)/float64(len(tones)) >= 0.7 {
			score += diplomaticShareBonus
		}
	}

	for i := 1; i < len(tones); i++ {
		if isEscalating(tones[i-1]) && isEscalating(tones[i]) {
			score -= escalationPairPenalty
		}
	}

	return clampScore(score)
}

func isEscalating(t model.Tone) bool {
	return t == model.ToneAggressive || t == model.ToneConfrontational
}

// FinalizeScores folds the tone-consistency score into the running
// consistency score. Called exactly once, at session end.
func FinalizeScores(session *model.InterviewSession) {
	tc := ToneConsistencyScore(session.ToneHistory)
	avg := math.Round(float64(session.Scores.Consistency+tc) / 2)
	session.Scores.Consistency = clampScore(int(avg))
}

var gradeDescriptions = map[string]string{
	"A+": "A commanding performance. The press corps will be quoting you for weeks.",
	"A":  "A polished showing with only minor stumbles.",
	"B":  "Competent, if unremarkable. You survived the hot seat.",
	"C":  "Shaky. The evening panel shows will have material.",
	"D":  "A rough night. Your staff is already drafting the cleanup statement.",
	"F":  "A career-defining disaster, and not in the good way.",
}

// RateScores averages the three final scores into an overall letter grade.
func RateScores(scores model.ScoreSet) model.Rating {
	avg := int(math.Round(float64(scores.Consistency+scores.Confidence+scores.Authenticity) / 3))

	var grade string
	switch {
	case avg >= 85:
		grade = "A+"
	case avg >= 75:
		grade = "A"
	case avg >= 65:
		grade = "B"
	case avg >= 55:
		grade = "C"
	case avg >= 45:
		grade = "D"
	default:
		grade = "F"
	}

	return model.Rating{Score: avg, Grade: grade, Description: gradeDescriptions[grade]}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
