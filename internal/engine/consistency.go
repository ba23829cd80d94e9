package engine

import (
	"fmt"

	"coalition/internal/model"
)

// Verdict is the consistency checker's judgment of one candidate answer.
type Verdict struct {
	Consistent bool
	Key        string // Contradiction key, empty when consistent
	Flip       bool   // True when the inconsistency is a same-issue position flip
}

var consistentVerdict = Verdict{Consistent: true}

// stanceCond matches a recorded position against a cutoff: position > threshold
// when above is true, position < threshold otherwise.
type stanceCond struct {
	issue     string
	threshold int
	above     bool
}

func (c stanceCond) matches(pos int) bool {
	if c.above {
		return pos > c.threshold
	}
	return pos < c.threshold
}

// relationshipRule flags two stances that cannot credibly be held together.
// The cutoffs (50/30/40) are tuned values carried over as behavioral contracts.
type relationshipRule struct {
	key  string
	a, b stanceCond
}

var relationshipRules = []relationshipRule{
	// Hard pro-environment climate stance vs. hard pro-business economy stance.
	{key: "climate-economy-conflict", a: stanceCond{"climate", -50, false}, b: stanceCond{"economy", 50, true}},
	// Open-borders immigration stance vs. traditionalist culture stance.
	{key: "immigration-culture-conflict", a: stanceCond{"immigration", 30, true}, b: stanceCond{"culture", 30, true}},
	// Deregulation economy stance vs. expansionist welfare stance.
	{key: "economy-welfare-conflict", a: stanceCond{"economy", 40, true}, b: stanceCond{"welfare", 40, true}},
}

// Checker evaluates candidate answers against the session history and the
// background/scenario constraints. Stateless; all state lives on the session.
type Checker struct {
	background *model.Background
	scenario   *model.Scenario
}

// NewChecker creates a checker bound to the session's background and scenario.
func NewChecker(background *model.Background, scenario *model.Scenario) *Checker {
	return &Checker{background: background, scenario: scenario}
}

// Evaluate judges a candidate option for the current question against the
// full response history. Rules run in order; the first failure decides.
func (c *Checker) Evaluate(session *model.InterviewSession, q *model.Question, opt *model.Option) Verdict {
	// Nothing to contradict yet.
	if len(session.Responses) == 0 {
		return consistentVerdict
	}

	if q.Issue != "" && opt.Position != nil {
		// A flip is measured against every prior stance on the issue, not just
		// the latest; drifting there in small steps is still a reversal.
		for i := range session.Responses {
			r := &session.Responses[i]
			if r.Issue != q.Issue || r.Position == nil {
				continue
			}
			delta := *opt.Position - *r.Position
			if delta < 0 {
				delta = -delta
			}
			if delta > PositionFlipThreshold {
				return Verdict{Key: q.Issue + "-flip", Flip: true}
			}
		}
		if v, bad := c.checkRelationships(session, q.Issue, *opt.Position); bad {
			return v
		}
	}

	if q.Type == model.QuestionTypeBackgroundChallenge {
		for _, rule := range c.background.ChallengeRules {
			if rule.Tone != opt.Tone {
				continue
			}
			if rule.Issue != "" && rule.Issue != q.Issue {
				continue
			}
			return Verdict{Key: c.background.ID + "-challenge"}
		}
	}

	if c.scenario.ForbidsTone(opt.Tone) {
		return Verdict{Key: fmt.Sprintf("%s-%s", c.scenario.ID, opt.Tone)}
	}

	return consistentVerdict
}

func (c *Checker) checkRelationships(session *model.InterviewSession, issue string, pos int) (Verdict, bool) {
	for _, rule := range relationshipRules {
		var mine, other stanceCond
		switch issue {
		case rule.a.issue:
			mine, other = rule.a, rule.b
		case rule.b.issue:
			mine, other = rule.b, rule.a
		default:
			continue
		}
		if !mine.matches(pos) {
			continue
		}
		prior := session.LastPositionOn(other.issue)
		if prior != nil && other.matches(*prior) {
			return Verdict{Key: rule.key}, true
		}
	}
	return consistentVerdict, false
}

// SynthesizeFollowUp builds a session-scoped consistency-check question that
// quotes the two conflicting responses verbatim. latest must already be
// recorded on the session. Returns nil if no earlier response exists to quote.
func SynthesizeFollowUp(session *model.InterviewSession, latest *model.Response, key string) *model.Question {
	var earlier *model.Response
	if latest.Issue != "" {
		for i := len(session.Responses) - 2; i >= 0; i-- {
			if session.Responses[i].Issue == latest.Issue {
				earlier = &session.Responses[i]
				break
			}
		}
	}
	if earlier == nil {
		if len(session.Responses) < 2 {
			return nil
		}
		earlier = &session.Responses[len(session.Responses)-2]
	}

	id := fmt.Sprintf("gen-%s-%d", key, len(session.Generated)+1)
	return &model.Question{
		ID:   id,
		Type: model.QuestionTypeConsistencyCheck,
		Setup: fmt.Sprintf("Earlier in this interview you told me %q. A moment ago you said %q.",
			earlier.Text, latest.Text),
		Prompt:      "Those two statements don't sit comfortably together. Which one should voters believe?",
		FollowsUpOn: latest.QuestionID,
		Order:       10000 + len(session.Generated),
		Options: []model.Option{
			{Text: "Both statements are true. Context matters, and you're flattening it.", Tone: model.ToneDefensive},
			{Text: "Fair challenge. My thinking on this has genuinely evolved, and I'll own that.", Tone: model.ToneDiplomatic},
			{Text: "That's a gotcha question and you know it.", Tone: model.ToneConfrontational},
			{Text: "I'd have to look at the exact wording before I can comment.", Tone: model.ToneEvasive},
		},
	}
}
