package engine

import (
	"fmt"
	"sort"

	"coalition/internal/model"
)

// Bank holds the authored question set for one interview. Session-scoped
// synthesized questions live on the session itself, not in the bank.
type Bank struct {
	questions []model.Question
	byID      map[string]int
}

// NewBank creates a bank over the authored questions, sorted by authored order.
func NewBank(questions []model.Question) *Bank {
	sorted := make([]model.Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	byID := make(map[string]int, len(sorted))
	for i, q := range sorted {
		byID[q.ID] = i
	}
	return &Bank{questions: sorted, byID: byID}
}

// Get returns an authored question by id, or the session-scoped synthesized
// question when the id belongs to one.
func (b *Bank) Get(session *model.InterviewSession, id string) *model.Question {
	if i, ok := b.byID[id]; ok {
		return &b.questions[i]
	}
	for i := range session.Generated {
		if session.Generated[i].ID == id {
			return &session.Generated[i]
		}
	}
	return nil
}

// Eligible returns every question that can be asked right now: not yet
// answered, and whose background/scenario/mood conditions match the session.
// Pure filter, no side effects. Questions with unsatisfiable conditions are
// silently excluded rather than treated as errors.
func (b *Bank) Eligible(session *model.InterviewSession) []model.Question {
	var out []model.Question
	consider := func(q model.Question) {
		if session.HasAnswered(q.ID) {
			return
		}
		if !q.AllowedFor(session.BackgroundID, session.ScenarioID, session.Mood) {
			return
		}
		// Authored follow-ups only become eligible once an answered option
		// unlocked them.
		if q.Type == model.QuestionTypeFollowUp && !b.unlocked(session, q.ID) {
			return
		}
		out = append(out, q)
	}

	for _, q := range b.questions {
		consider(q)
	}
	for _, q := range session.Generated {
		consider(q)
	}
	return out
}

// unlocked reports whether any recorded response selected an option listing
// the follow-up id. The response's option index identifies the chosen option;
// option text is display copy and may repeat within a question.
func (b *Bank) unlocked(session *model.InterviewSession, followUpID string) bool {
	for _, r := range session.Responses {
		q := b.Get(session, r.QuestionID)
		if q == nil || r.OptionIndex < 0 || r.OptionIndex >= len(q.Options) {
			continue
		}
		for _, fu := range q.Options[r.OptionIndex].FollowUps {
			if fu == followUpID {
				return true
			}
		}
	}
	return false
}

// ValidateQuestions checks authoring integrity: ids are unique, every
// follow-up reference and follows-up-on back-reference resolves, option
// fields stay in range, and tones come from the fixed vocabulary. A dangling
// reference is a configuration error and fails hard.
func ValidateQuestions(questions []model.Question) error {
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if ids[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		ids[q.ID] = true
	}

	validTones := make(map[model.Tone]bool, len(model.Tones))
	for _, t := range model.Tones {
		validTones[t] = true
	}

	for _, q := range questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %q has no options", q.ID)
		}
		if q.FollowsUpOn != "" && !ids[q.FollowsUpOn] {
			return fmt.Errorf("question %q follows up on unknown question %q", q.ID, q.FollowsUpOn)
		}
		for _, opt := range q.Options {
			if !validTones[opt.Tone] {
				return fmt.Errorf("question %q option %q has unknown tone %q", q.ID, opt.Text, opt.Tone)
			}
			if opt.Position != nil && (*opt.Position < -100 || *opt.Position > 100) {
				return fmt.Errorf("question %q option %q position %d out of range", q.ID, opt.Text, *opt.Position)
			}
			if q.Issue != "" && opt.Position != nil && (opt.Priority < 1 || opt.Priority > 5) {
				return fmt.Errorf("question %q option %q priority %d out of range", q.ID, opt.Text, opt.Priority)
			}
			for _, fu := range opt.FollowUps {
				if !ids[fu] {
					return fmt.Errorf("question %q references unknown follow-up %q", q.ID, fu)
				}
			}
		}
	}
	return nil
}
