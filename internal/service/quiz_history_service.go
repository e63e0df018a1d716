package service

import (
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
)

type QuizHistoryService struct {
	HistoryRepo *repository.QuizHistoryRepository
}

func NewQuizHistoryService(historyRepo *repository.QuizHistoryRepository) *QuizHistoryService {
	return &QuizHistoryService{HistoryRepo: historyRepo}
}

func (s *QuizHistoryService) List(username string, limit int) ([]model.QuizHistoryEntry, error) {
	return s.HistoryRepo.List(username, limit)
}

func (s *QuizHistoryService) Clear(username string) error {
	return s.HistoryRepo.Clear(username)
}
