package repository

import (
	"testing"
	"time"

	"hanzi_learn_backend/internal/model"
)

func TestHistoryCappedAtLimitOldestEvicted(t *testing.T) {
	repo := NewQuizHistoryRepository(newTestEngine(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < model.QuizHistoryLimit+1; i++ {
		err := repo.Append("lin", model.QuizHistoryEntry{
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			QuizType:       model.QuizRecognition,
			TotalQuestions: 5,
			CorrectAnswers: 4,
			Accuracy:       80,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := repo.List("lin", model.QuizHistoryLimit+10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != model.QuizHistoryLimit {
		t.Fatalf("expected %d entries, got %d", model.QuizHistoryLimit, len(entries))
	}
	// 最旧的一条（base 时刻）必须已被淘汰
	for _, e := range entries {
		if e.Timestamp.Equal(base) {
			t.Fatalf("oldest entry still present")
		}
	}
}

func TestHistoryListNewestFirstWithDefaultLimit(t *testing.T) {
	repo := NewQuizHistoryRepository(newTestEngine(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		err := repo.Append("lin", model.QuizHistoryEntry{
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
			QuizType:       model.QuizMultipleChoice,
			TotalQuestions: 10,
			CorrectAnswers: i,
			Accuracy:       model.RoundAccuracy(i, 10),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := repo.List("lin", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected default limit of 10, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Fatalf("entries not newest-first at %d", i)
		}
	}
	if entries[0].CorrectAnswers != 14 {
		t.Fatalf("expected newest entry first, got %+v", entries[0])
	}
}
