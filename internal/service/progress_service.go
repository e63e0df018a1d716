package service

import (
	"context"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/internal/util"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	Cache        *DashboardCache
}

func NewProgressService(progressRepo *repository.ProgressRepository, cache *DashboardCache) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo, Cache: cache}
}

func (s *ProgressService) GetAll(username string) (map[string]model.ProgressRecord, error) {
	return s.ProgressRepo.GetAll(username)
}

// MergeAdd 累加一批增量；计数只增不减，负增量视为非法输入
func (s *ProgressService) MergeAdd(ctx context.Context, username string, deltas map[string]model.ProgressDelta) error {
	for id, d := range deltas {
		if id == "" {
			return util.ValidationError("characterId 不能为空")
		}
		if d.Correct < 0 || d.Incorrect < 0 {
			return util.ValidationError("计数增量不能为负")
		}
	}
	if err := s.ProgressRepo.MergeAdd(username, deltas); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, username)
	return nil
}

func (s *ProgressService) Clear(ctx context.Context, username string) error {
	if err := s.ProgressRepo.Clear(username); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, username)
	return nil
}
