package engine

import "coalition/internal/model"

// NextMood computes the interviewer's next mood from the current mood, the
// fixed base disposition and the tone of the candidate's latest answer.
// Deterministic: same inputs always yield the same mood.
func NextMood(current, base model.Mood, tone model.Tone) model.Mood {
	switch tone {
	case model.ToneAggressive:
		if base == model.MoodHostile {
			return model.MoodHostile
		}
		switch current {
		case model.MoodProfessional:
			return model.MoodSkeptical
		case model.MoodSkeptical:
			return model.MoodHostile
		}
		return current

	case model.ToneEvasive:
		if base == model.MoodSkeptical || base == model.MoodHostile {
			return model.MoodHostile
		}
		if current != model.MoodHostile {
			return model.MoodSkeptical
		}
		return current

	case model.ToneDiplomatic:
		if base == model.MoodSympathetic {
			return model.MoodSympathetic
		}
		// De-escalation is blocked when the interviewer came in hostile.
		if current == model.MoodHostile && base != model.MoodHostile {
			return model.MoodSkeptical
		}
		return current

	case model.ToneConfrontational:
		return model.MoodHostile

	default: // defensive: no transition
		return current
	}
}

// MoodFraming returns the interviewer's lead-in phrasing for the current mood.
// Presentation only; it does not affect eligibility or scoring.
func MoodFraming(mood model.Mood) string {
	switch mood {
	case model.MoodSkeptical:
		return "Forgive me, but I have to press you on this."
	case model.MoodHostile:
		return "Let's stop dancing around it. Answer the question."
	case model.MoodSympathetic:
		return "Take your time with this one."
	default:
		return "Let me ask you this."
	}
}
