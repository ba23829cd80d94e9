package service

import (
	"context"
	"sort"

	"coalition/internal/cache"
	"coalition/internal/model"
	"coalition/internal/repository"
)

// SummaryService aggregates finished interviews per scenario.
type SummaryService struct {
	resultRepo   repository.ResultRepo
	scenarioRepo repository.ScenarioRepo
	leaderboard  cache.LeaderboardCache
}

// NewSummaryService creates a new summary service
func NewSummaryService(resultRepo repository.ResultRepo, scenarioRepo repository.ScenarioRepo, leaderboard cache.LeaderboardCache) *SummaryService {
	return &SummaryService{
		resultRepo:   resultRepo,
		scenarioRepo: scenarioRepo,
		leaderboard:  leaderboard,
	}
}

// Leaderboard returns the top finished interviews for a scenario.
func (s *SummaryService) Leaderboard(ctx context.Context, scenarioID string, limit int) ([]cache.LeaderboardEntry, error) {
	if err := s.requireScenario(ctx, scenarioID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.leaderboard.GetTop(ctx, scenarioID, limit)
}

// Summary computes aggregate statistics over every finished interview for a
// scenario: grade distribution, average scores and the most common
// contradictions.
func (s *SummaryService) Summary(ctx context.Context, scenarioID string) (*model.ScenarioSummary, error) {
	if err := s.requireScenario(ctx, scenarioID); err != nil {
		return nil, err
	}

	results, err := s.resultRepo.GetByScenario(ctx, scenarioID, 0)
	if err != nil {
		return nil, err
	}

	summary := &model.ScenarioSummary{
		ScenarioID:  scenarioID,
		Interviews:  len(results),
		GradeCounts: make(map[string]int),
	}
	if len(results) == 0 {
		return summary, nil
	}

	var sumCons, sumConf, sumAuth int
	tallies := make(map[string]int)
	for _, r := range results {
		summary.GradeCounts[r.Rating.Grade]++
		sumCons += r.Scores.Consistency
		sumConf += r.Scores.Confidence
		sumAuth += r.Scores.Authenticity
		for _, key := range r.Contradictions {
			tallies[key]++
		}
	}

	n := len(results)
	summary.AverageScores = model.ScoreSet{
		Consistency:  sumCons / n,
		Confidence:   sumConf / n,
		Authenticity: sumAuth / n,
	}

	for key, count := range tallies {
		summary.TopContradictions = append(summary.TopContradictions, model.ContradictionTally{Key: key, Count: count})
	}
	sort.Slice(summary.TopContradictions, func(i, j int) bool {
		a, b := summary.TopContradictions[i], summary.TopContradictions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
	if len(summary.TopContradictions) > 5 {
		summary.TopContradictions = summary.TopContradictions[:5]
	}
	return summary, nil
}

func (s *SummaryService) requireScenario(ctx context.Context, scenarioID string) error {
	scenario, err := s.scenarioRepo.GetByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	if scenario == nil {
		return ErrUnknownScenario
	}
	return nil
}
