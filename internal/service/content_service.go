package service

import (
	"context"
	"errors"
	"fmt"

	"coalition/internal/engine"
	"coalition/internal/model"
	"coalition/internal/repository"
)

var ErrNotFound = errors.New("not found")

// ContentService handles authored content: questions, backgrounds, scenarios.
// Every write re-validates the full question bank so a dangling follow-up
// reference can never reach a live interview.
type ContentService struct {
	questionRepo   repository.QuestionRepo
	backgroundRepo repository.BackgroundRepo
	scenarioRepo   repository.ScenarioRepo
}

// NewContentService creates a new content service
func NewContentService(
	questionRepo repository.QuestionRepo,
	backgroundRepo repository.BackgroundRepo,
	scenarioRepo repository.ScenarioRepo,
) *ContentService {
	return &ContentService{
		questionRepo:   questionRepo,
		backgroundRepo: backgroundRepo,
		scenarioRepo:   scenarioRepo,
	}
}

// ListQuestions returns the full bank in authored order.
func (s *ContentService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.GetAll(ctx)
}

// GetQuestion retrieves one question by id.
func (s *ContentService) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrNotFound
	}
	return q, nil
}

// SaveQuestion creates or replaces a question after validating the bank that
// would result.
func (s *ContentService) SaveQuestion(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question id is required")
	}

	bank, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	next := make([]model.Question, 0, len(bank)+1)
	for _, q := range bank {
		if q.ID == question.ID {
			next = append(next, *question)
			replaced = true
			continue
		}
		next = append(next, q)
	}
	if !replaced {
		next = append(next, *question)
	}

	if err := engine.ValidateQuestions(next); err != nil {
		return err
	}

	if replaced {
		return s.questionRepo.Update(ctx, question)
	}
	return s.questionRepo.Create(ctx, question)
}

// DeleteQuestion removes a question unless another question still references it.
func (s *ContentService) DeleteQuestion(ctx context.Context, id string) error {
	bank, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	found := false
	next := make([]model.Question, 0, len(bank))
	for _, q := range bank {
		if q.ID == id {
			found = true
			continue
		}
		next = append(next, q)
	}
	if !found {
		return ErrNotFound
	}
	if err := engine.ValidateQuestions(next); err != nil {
		return fmt.Errorf("question %q is still referenced: %w", id, err)
	}

	return s.questionRepo.Delete(ctx, id)
}

// ListBackgrounds returns all authored backgrounds.
func (s *ContentService) ListBackgrounds(ctx context.Context) ([]model.Background, error) {
	return s.backgroundRepo.GetAll(ctx)
}

// SaveBackground creates or replaces a background.
func (s *ContentService) SaveBackground(ctx context.Context, background *model.Background) error {
	if err := validateBackground(background); err != nil {
		return err
	}
	existing, err := s.backgroundRepo.GetByID(ctx, background.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.backgroundRepo.Update(ctx, background)
	}
	return s.backgroundRepo.Create(ctx, background)
}

// DeleteBackground removes a background.
func (s *ContentService) DeleteBackground(ctx context.Context, id string) error {
	existing, err := s.backgroundRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.backgroundRepo.Delete(ctx, id)
}

// ListScenarios returns all authored scenarios.
func (s *ContentService) ListScenarios(ctx context.Context) ([]model.Scenario, error) {
	return s.scenarioRepo.GetAll(ctx)
}

// SaveScenario creates or replaces a scenario.
func (s *ContentService) SaveScenario(ctx context.Context, scenario *model.Scenario) error {
	if err := validateScenario(scenario); err != nil {
		return err
	}
	existing, err := s.scenarioRepo.GetByID(ctx, scenario.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.scenarioRepo.Update(ctx, scenario)
	}
	return s.scenarioRepo.Create(ctx, scenario)
}

// DeleteScenario removes a scenario.
func (s *ContentService) DeleteScenario(ctx context.Context, id string) error {
	existing, err := s.scenarioRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.scenarioRepo.Delete(ctx, id)
}

// Import replaces all authored content in one operation; used by seeding.
func (s *ContentService) Import(ctx context.Context, questions []model.Question, backgrounds []model.Background, scenarios []model.Scenario) error {
	if err := engine.ValidateQuestions(questions); err != nil {
		return err
	}
	for i := range backgrounds {
		if err := validateBackground(&backgrounds[i]); err != nil {
			return err
		}
	}
	for i := range scenarios {
		if err := validateScenario(&scenarios[i]); err != nil {
			return err
		}
	}

	if err := s.questionRepo.ReplaceAll(ctx, questions); err != nil {
		return err
	}
	if err := s.backgroundRepo.ReplaceAll(ctx, backgrounds); err != nil {
		return err
	}
	return s.scenarioRepo.ReplaceAll(ctx, scenarios)
}

func validateRisk(risk model.RiskLevel) error {
	switch risk {
	case model.RiskLow, model.RiskModerate, model.RiskHigh, model.RiskExtreme:
		return nil
	}
	return fmt.Errorf("unknown risk level %q", risk)
}

func validateTone(tone model.Tone) error {
	for _, t := range model.Tones {
		if t == tone {
			return nil
		}
	}
	return fmt.Errorf("unknown tone %q", tone)
}

func validateBackground(b *model.Background) error {
	if b.ID == "" {
		return fmt.Errorf("background id is required")
	}
	if err := validateRisk(b.Risk); err != nil {
		return fmt.Errorf("background %q: %w", b.ID, err)
	}
	for _, rule := range b.ChallengeRules {
		if err := validateTone(rule.Tone); err != nil {
			return fmt.Errorf("background %q challenge rule: %w", b.ID, err)
		}
	}
	return nil
}

func validateScenario(sc *model.Scenario) error {
	if sc.ID == "" {
		return fmt.Errorf("scenario id is required")
	}
	if err := validateRisk(sc.Risk); err != nil {
		return fmt.Errorf("scenario %q: %w", sc.ID, err)
	}
	switch sc.BaseMood {
	case model.MoodProfessional, model.MoodSkeptical, model.MoodHostile, model.MoodSympathetic:
	default:
		return fmt.Errorf("scenario %q: unknown base mood %q", sc.ID, sc.BaseMood)
	}
	for _, tone := range sc.ForbiddenTones {
		if err := validateTone(tone); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.ID, err)
		}
	}
	return nil
}
