package model

// RiskLevel grades how exposed a background or scenario leaves the candidate
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskExtreme  RiskLevel = "extreme"
)

// ChallengeRule marks a tone as inconsistent when used on a background-challenge
// question. Issue narrows the rule to challenge questions on that issue;
// empty means any challenge question.
type ChallengeRule struct {
	Issue string `json:"issue,omitempty" bson:"issue,omitempty"`
	Tone  Tone   `json:"tone" bson:"tone"`
}

// Background is the candidate's pre-game professional history
type Background struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	Name           string          `json:"name" bson:"name"`
	Description    string          `json:"description,omitempty" bson:"description,omitempty"`
	Risk           RiskLevel       `json:"risk" bson:"risk"`
	ChallengeRules []ChallengeRule `json:"challengeRules,omitempty" bson:"challengeRules,omitempty"`
}

// Scenario is the candidate's starting political situation. It fixes the
// interviewer's base disposition for the whole session.
type Scenario struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Name           string    `json:"name" bson:"name"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	Risk           RiskLevel `json:"risk" bson:"risk"`
	BaseMood       Mood      `json:"baseMood" bson:"baseMood"`
	ForbiddenTones []Tone    `json:"forbiddenTones,omitempty" bson:"forbiddenTones,omitempty"` // Tones treated as inconsistent in this scenario
}

// ForbidsTone reports whether the scenario treats the tone as inconsistent.
func (s *Scenario) ForbidsTone(tone Tone) bool {
	for _, t := range s.ForbiddenTones {
		if t == tone {
			return true
		}
	}
	return false
}
