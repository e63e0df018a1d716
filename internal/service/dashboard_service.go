package service

import (
	"context"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
)

type DashboardService struct {
	CharRepo     *repository.CharacterRepository
	ProgressRepo *repository.ProgressRepository
	Cache        *DashboardCache
}

func NewDashboardService(
	charRepo *repository.CharacterRepository,
	progressRepo *repository.ProgressRepository,
	cache *DashboardCache,
) *DashboardService {
	return &DashboardService{
		CharRepo:     charRepo,
		ProgressRepo: progressRepo,
		Cache:        cache,
	}
}

type CharacterStat struct {
	model.Character
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Accuracy  int `json:"accuracy"`
}

type Dashboard struct {
	Characters      []CharacterStat `json:"characters"`
	TotalCharacters int             `json:"totalCharacters"`
	TotalCorrect    int             `json:"totalCorrect"`
	TotalIncorrect  int             `json:"totalIncorrect"`
	OverallAccuracy int             `json:"overallAccuracy"`
}

// GetDashboard 把生字本和进度表连起来算正确率。
// 总体正确率按总作答次数加权，不是各字正确率的平均。
func (s *DashboardService) GetDashboard(ctx context.Context, username string) (*Dashboard, error) {
	if cached := s.Cache.Get(ctx, username); cached != nil {
		return cached, nil
	}

	chars, err := s.CharRepo.List(username)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.GetAll(username)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Characters:      make([]CharacterStat, 0, len(chars)),
		TotalCharacters: len(chars),
	}

	for _, ch := range chars {
		rec := progress[ch.ID]
		dashboard.Characters = append(dashboard.Characters, CharacterStat{
			Character: ch,
			Correct:   rec.Correct,
			Incorrect: rec.Incorrect,
			Accuracy:  rec.Accuracy(),
		})
		dashboard.TotalCorrect += rec.Correct
		dashboard.TotalIncorrect += rec.Incorrect
	}

	dashboard.OverallAccuracy = model.RoundAccuracy(
		dashboard.TotalCorrect,
		dashboard.TotalCorrect+dashboard.TotalIncorrect,
	)

	s.Cache.Set(ctx, username, dashboard)
	return dashboard, nil
}
