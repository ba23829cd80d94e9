package model

// QuestionType defines where a question sits in the interview flow
type QuestionType string

const (
	QuestionTypeOpening             QuestionType = "opening"              // Standard issue questions
	QuestionTypeFollowUp            QuestionType = "follow-up"            // Authored follow-up, unlocked by an option
	QuestionTypeBackgroundChallenge QuestionType = "background-challenge" // Probes the candidate's history
	QuestionTypeConsistencyCheck    QuestionType = "consistency-check"    // Synthesized from a detected contradiction
	QuestionTypeClosing             QuestionType = "closing"
)

// Tone is the rhetorical style of an answer option
type Tone string

const (
	ToneAggressive      Tone = "aggressive"
	ToneDefensive       Tone = "defensive"
	ToneEvasive         Tone = "evasive"
	ToneConfrontational Tone = "confrontational"
	ToneDiplomatic      Tone = "diplomatic"
)

// Tones lists the full tone vocabulary, for validation
var Tones = []Tone{ToneAggressive, ToneDefensive, ToneEvasive, ToneConfrontational, ToneDiplomatic}

// Option is one selectable answer on a question
type Option struct {
	Text      string   `json:"text" bson:"text"`
	Position  *int     `json:"position,omitempty" bson:"position,omitempty"` // -100..100, only when the question carries an issue
	Priority  int      `json:"priority,omitempty" bson:"priority,omitempty"` // 1..5 issue weight
	Tone      Tone     `json:"tone" bson:"tone"`
	FollowUps []string `json:"followUps,omitempty" bson:"followUps,omitempty"` // Question ids this option unlocks
}

// Conditions gate a question's eligibility. Empty slices mean "no restriction".
type Conditions struct {
	Backgrounds []string `json:"backgrounds,omitempty" bson:"backgrounds,omitempty"`
	Scenarios   []string `json:"scenarios,omitempty" bson:"scenarios,omitempty"`
	Moods       []Mood   `json:"moods,omitempty" bson:"moods,omitempty"`
}

// Question is an authored (or session-synthesized) interview question
type Question struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Type        QuestionType `json:"type" bson:"type"`
	Issue       string       `json:"issue,omitempty" bson:"issue,omitempty"` // e.g., "climate", "economy"
	Setup       string       `json:"setup,omitempty" bson:"setup,omitempty"` // Narrative lead-in
	Prompt      string       `json:"prompt" bson:"prompt"`
	Options     []Option     `json:"options" bson:"options"`
	Conditions  *Conditions  `json:"conditions,omitempty" bson:"conditions,omitempty"`
	FollowsUpOn string       `json:"followsUpOn,omitempty" bson:"followsUpOn,omitempty"` // Back-reference to the question this follows
	Order       int          `json:"order" bson:"order"`                                 // Authored order, breaks selection ties
}

// AllowedFor checks the question's static conditions against the active
// background, scenario and interviewer mood.
func (q *Question) AllowedFor(backgroundID, scenarioID string, mood Mood) bool {
	if q.Conditions == nil {
		return true
	}
	if len(q.Conditions.Backgrounds) > 0 && !containsString(q.Conditions.Backgrounds, backgroundID) {
		return false
	}
	if len(q.Conditions.Scenarios) > 0 && !containsString(q.Conditions.Scenarios, scenarioID) {
		return false
	}
	if len(q.Conditions.Moods) > 0 {
		found := false
		for _, m := range q.Conditions.Moods {
			if m == mood {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
