package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coalition/internal/config"
	"coalition/internal/model"
	"coalition/internal/repository"
	"coalition/internal/service"
)

func intp(v int) *int { return &v }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)
	contentSvc := service.NewContentService(
		repository.NewQuestionRepo(db),
		repository.NewBackgroundRepo(db),
		repository.NewScenarioRepo(db),
	)

	if err := contentSvc.Import(ctx, questions(), backgrounds(), scenarios()); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Int("questions", len(questions())).
		Int("backgrounds", len(backgrounds())).
		Int("scenarios", len(scenarios())).
		Msg("content seeded")
}

func questions() []model.Question {
	return []model.Question{
		{
			ID: "open-climate", Type: model.QuestionTypeOpening, Issue: "climate", Order: 10,
			Prompt: "Scientists say this is the decisive decade for emissions. What would your government actually do?",
			Options: []model.Option{
				{Text: "Legislate binding targets in my first hundred days, whatever the political cost.", Tone: model.ToneDiplomatic, Position: intp(-80), Priority: 5, FollowUps: []string{"fu-climate-jobs"}},
				{Text: "Set realistic goals that don't bankrupt working families.", Tone: model.ToneDefensive, Position: intp(-10), Priority: 3},
				{Text: "The market will decarbonize faster than any ministry ever could.", Tone: model.ToneAggressive, Position: intp(55), Priority: 4},
				{Text: "I'd want to see the latest modelling before committing to numbers.", Tone: model.ToneEvasive, Position: intp(0), Priority: 1},
			},
		},
		{
			ID: "open-economy", Type: model.QuestionTypeOpening, Issue: "economy", Order: 20,
			Prompt: "Growth is flat and the deficit is rising. Taxes up, spending down, or something you haven't told us yet?",
			Options: []model.Option{
				{Text: "Cut business taxes and get out of the way.", Tone: model.ToneAggressive, Position: intp(70), Priority: 4, FollowUps: []string{"fu-economy-costing"}},
				{Text: "Invest our way out. Austerity has failed every time it's been tried.", Tone: model.ToneDiplomatic, Position: intp(-60), Priority: 4},
				{Text: "A balanced package. I won't pretend there are easy answers.", Tone: model.ToneDefensive, Position: intp(5), Priority: 2},
				{Text: "Frankly, the premise of your question is wrong.", Tone: model.ToneConfrontational, Position: intp(20), Priority: 2},
			},
		},
		{
			ID: "open-immigration", Type: model.QuestionTypeOpening, Issue: "immigration", Order: 30,
			Prompt: "Net migration doubled in five years. Too high, too low, or about right?",
			Options: []model.Option{
				{Text: "We should welcome people who want to build a life here. Openness is a strength.", Tone: model.ToneDiplomatic, Position: intp(60), Priority: 4},
				{Text: "Numbers must come down, and I'll say so plainly.", Tone: model.ToneAggressive, Position: intp(-55), Priority: 4},
				{Text: "It depends what sectors you're talking about.", Tone: model.ToneEvasive, Position: intp(0), Priority: 1},
				{Text: "The question reduces people to statistics. I reject the framing.", Tone: model.ToneConfrontational, Position: intp(40), Priority: 3},
			},
		},
		{
			ID: "open-culture", Type: model.QuestionTypeOpening, Issue: "culture", Order: 40,
			Prompt: "Voters tell pollsters the country no longer feels like home. What do you say to them?",
			Options: []model.Option{
				{Text: "Our traditions matter, and I'll defend them without apology.", Tone: model.ToneAggressive, Position: intp(50), Priority: 3},
				{Text: "A country is its people, all of them. Change is how we've always renewed ourselves.", Tone: model.ToneDiplomatic, Position: intp(-45), Priority: 3},
				{Text: "I hear that anxiety and I won't dismiss it.", Tone: model.ToneDefensive, Position: intp(15), Priority: 2},
			},
		},
		{
			ID: "open-welfare", Type: model.QuestionTypeOpening, Issue: "welfare", Order: 50,
			Prompt: "One in five children grows up below the poverty line. Is the safety net too thin or too expensive?",
			Options: []model.Option{
				{Text: "Too thin, and fixing it is the first bill I'd sign.", Tone: model.ToneDiplomatic, Position: intp(65), Priority: 4},
				{Text: "The system traps people. Work, not welfare, ends poverty.", Tone: model.ToneAggressive, Position: intp(-50), Priority: 4},
				{Text: "Both, in different places. Let me explain.", Tone: model.ToneDefensive, Position: intp(10), Priority: 2},
				{Text: "Child poverty statistics are more complicated than that headline.", Tone: model.ToneEvasive, Position: intp(-10), Priority: 1},
			},
		},
		{
			ID: "fu-climate-jobs", Type: model.QuestionTypeFollowUp, Issue: "climate", Order: 60,
			FollowsUpOn: "open-climate",
			Setup:       "You just promised binding targets in a hundred days.",
			Prompt:      "The coal regions say that promise costs them forty thousand jobs. What do you tell those workers?",
			Options: []model.Option{
				{Text: "That the transition fund will retrain every single one of them, and I'll put my name on it.", Tone: model.ToneDiplomatic, Position: intp(-70), Priority: 5},
				{Text: "Some jobs will go. Pretending otherwise insults their intelligence.", Tone: model.ToneConfrontational, Position: intp(-60), Priority: 3},
				{Text: "We'll phase the targets so no region carries the whole burden.", Tone: model.ToneDefensive, Position: intp(-30), Priority: 3},
			},
		},
		{
			ID: "fu-economy-costing", Type: model.QuestionTypeFollowUp, Issue: "economy", Order: 61,
			FollowsUpOn: "open-economy",
			Setup:       "You said you'd cut business taxes.",
			Prompt:      "Every independent costing says that blows a hole in the budget. Where exactly does the money come from?",
			Options: []model.Option{
				{Text: "Growth. Lower rates have widened the base everywhere they've been tried.", Tone: model.ToneAggressive, Position: intp(75), Priority: 3},
				{Text: "We'll publish a full fiscal plan before the election. Judge it then.", Tone: model.ToneEvasive, Position: intp(50), Priority: 2},
				{Text: "Partly from closing loopholes the last government left open.", Tone: model.ToneDefensive, Position: intp(45), Priority: 3},
			},
		},
		{
			ID: "bc-whistleblower-loyalty", Type: model.QuestionTypeBackgroundChallenge, Issue: "corruption", Order: 70,
			Conditions: &model.Conditions{Backgrounds: []string{"whistleblower"}},
			Setup:      "Before politics, you exposed your own employer.",
			Prompt:     "Your former colleagues call you a traitor who torched careers for a headline. Why should anyone trust you with power?",
			Options: []model.Option{
				{Text: "Because when it cost me everything, I chose the truth. I'd do it again.", Tone: model.ToneDiplomatic},
				{Text: "Ask them what was in the files before you ask me about loyalty.", Tone: model.ToneConfrontational},
				{Text: "That chapter is closed and I'd rather talk about the future.", Tone: model.ToneEvasive},
				{Text: "I understand why they're angry. It doesn't make me wrong.", Tone: model.ToneDefensive},
			},
		},
		{
			ID: "bc-executive-layoffs", Type: model.QuestionTypeBackgroundChallenge, Issue: "economy", Order: 71,
			Conditions: &model.Conditions{Backgrounds: []string{"business-executive"}},
			Setup:      "As CEO you cut three thousand jobs while your own bonus doubled.",
			Prompt:     "Why would a single worker believe you're on their side?",
			Options: []model.Option{
				{Text: "I made hard calls to save the other seventeen thousand jobs. Leaders own that.", Tone: model.ToneAggressive},
				{Text: "The bonus was a board decision I should have refused. I've said so publicly.", Tone: model.ToneDiplomatic},
				{Text: "Those figures lack context that the coverage never provided.", Tone: model.ToneEvasive},
			},
		},
		{
			ID: "bc-politician-record", Type: model.QuestionTypeBackgroundChallenge, Issue: "corruption", Order: 72,
			Conditions: &model.Conditions{Backgrounds: []string{"career-politician"}},
			Setup:      "Twenty years in office, and the donors on your register read like a lobbying directory.",
			Prompt:     "Name one vote where you went against the people who fund you.",
			Options: []model.Option{
				{Text: "The pipeline vote, 2019. It cost me my biggest donor and I'd cast it again.", Tone: model.ToneDiplomatic},
				{Text: "My register is public. If you had something, you'd have led with it.", Tone: model.ToneConfrontational},
				{Text: "I'd have to check the records before naming specifics.", Tone: model.ToneEvasive},
			},
		},
		{
			ID: "probe-hostile-composure", Type: model.QuestionTypeOpening, Issue: "corruption", Order: 80,
			Conditions: &model.Conditions{Moods: []model.Mood{model.MoodHostile}},
			Prompt:     "You're visibly rattled. Is this how you'd handle a real crisis at the top?",
			Options: []model.Option{
				{Text: "You mistake patience for weakness. Ask your question.", Tone: model.ToneDefensive, Position: intp(0), Priority: 1},
				{Text: "If badgering candidates counted as scrutiny, this country would be a utopia.", Tone: model.ToneConfrontational, Position: intp(0), Priority: 1},
				{Text: "Crises need calm. I'm demonstrating it right now.", Tone: model.ToneDiplomatic, Position: intp(0), Priority: 1},
			},
		},
		{
			ID: "close-pitch", Type: model.QuestionTypeClosing, Order: 90,
			Prompt: "Thirty seconds. Why you, and not any of the others?",
			Options: []model.Option{
				{Text: "Because I've told you the truth tonight even when it hurt, and I'll govern the same way.", Tone: model.ToneDiplomatic},
				{Text: "Because the others have had their turn and look where we are.", Tone: model.ToneAggressive},
				{Text: "I'll let tonight's answers speak for themselves.", Tone: model.ToneDefensive},
			},
		},
		{
			ID: "close-verdict", Type: model.QuestionTypeClosing, Order: 95,
			Prompt: "Last question. When voters remember this interview, what's the one thing you want them to keep?",
			Options: []model.Option{
				{Text: "That I answered every question a politician is supposed to dodge.", Tone: model.ToneDiplomatic},
				{Text: "That your questions were tougher than anything my opponents have faced.", Tone: model.ToneConfrontational},
				{Text: "Whatever they keep, it's their verdict that counts.", Tone: model.ToneEvasive},
			},
		},
	}
}

func backgrounds() []model.Background {
	return []model.Background{
		{
			ID:          "whistleblower",
			Name:        "The Whistleblower",
			Description: "You exposed fraud at the firm where you spent fifteen years. Admired by the public, loathed by the establishment.",
			Risk:        model.RiskHigh,
			ChallengeRules: []model.ChallengeRule{
				{Issue: "corruption", Tone: model.ToneEvasive},
			},
		},
		{
			ID:          "business-executive",
			Name:        "The Executive",
			Description: "You ran a listed company through a brutal restructuring. Competence is your pitch; the layoffs are your shadow.",
			Risk:        model.RiskModerate,
			ChallengeRules: []model.ChallengeRule{
				{Issue: "economy", Tone: model.ToneEvasive},
			},
		},
		{
			ID:          "career-politician",
			Name:        "The Insider",
			Description: "Two decades in parliament. You know where every lever is, and every donor knows your number.",
			Risk:        model.RiskLow,
		},
	}
}

func scenarios() []model.Scenario {
	return []model.Scenario{
		{
			ID:             "scandal-recovery",
			Name:           "Scandal Recovery",
			Description:    "A leaked memo has dominated the news for a week. This interview is your one chance to change the story.",
			Risk:           model.RiskExtreme,
			BaseMood:       model.MoodHostile,
			ForbiddenTones: []model.Tone{model.ToneEvasive},
		},
		{
			ID:          "underdog-challenger",
			Name:        "Underdog Challenger",
			Description: "Polling at eight percent, nothing to lose. The interviewer expects you to be a footnote.",
			Risk:        model.RiskModerate,
			BaseMood:    model.MoodSkeptical,
		},
		{
			ID:          "frontrunner",
			Name:        "The Frontrunner",
			Description: "Double-digit lead, friendly studio. The only way out of this interview is down.",
			Risk:        model.RiskLow,
			BaseMood:    model.MoodProfessional,
		},
	}
}
