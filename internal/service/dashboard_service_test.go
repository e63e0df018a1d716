package service

import (
	"context"
	"testing"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/pkg/csvtable"
)

type testStores struct {
	engine   *csvtable.Engine
	chars    *repository.CharacterRepository
	progress *repository.ProgressRepository
	history  *repository.QuizHistoryRepository
	cache    *DashboardCache
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	engine, err := csvtable.NewEngine(t.TempDir())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return &testStores{
		engine:   engine,
		chars:    repository.NewCharacterRepository(engine),
		progress: repository.NewProgressRepository(engine),
		history:  repository.NewQuizHistoryRepository(engine),
		cache:    NewDashboardCache(nil),
	}
}

// 场景：A 答对8错2，B 没答过 → A 80%，B 0%，总体 80%（按次数加权）
func TestDashboardAccuracyScenario(t *testing.T) {
	st := newTestStores(t)
	svc := NewDashboardService(st.chars, st.progress, st.cache)

	if _, _, err := st.chars.BulkAdd("lin", []model.Character{
		{ID: "a", Glyph: "水", Pinyin: "shuǐ", Meaning: "water"},
		{ID: "b", Glyph: "火", Pinyin: "huǒ", Meaning: "fire"},
	}); err != nil {
		t.Fatalf("seed chars: %v", err)
	}
	if err := st.progress.MergeAdd("lin", map[string]model.ProgressDelta{
		"a": {Correct: 8, Incorrect: 2},
	}); err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	d, err := svc.GetDashboard(context.Background(), "lin")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	byID := map[string]CharacterStat{}
	for _, c := range d.Characters {
		byID[c.ID] = c
	}
	if byID["a"].Accuracy != 80 {
		t.Fatalf("A accuracy: got %d, want 80", byID["a"].Accuracy)
	}
	if byID["b"].Accuracy != 0 {
		t.Fatalf("B accuracy: got %d, want 0", byID["b"].Accuracy)
	}
	if d.OverallAccuracy != 80 {
		t.Fatalf("overall accuracy: got %d, want 80", d.OverallAccuracy)
	}
	if d.TotalCharacters != 2 {
		t.Fatalf("total characters: got %d", d.TotalCharacters)
	}
}

func TestDashboardEmptyStoreIsAllZero(t *testing.T) {
	st := newTestStores(t)
	svc := NewDashboardService(st.chars, st.progress, st.cache)

	d, err := svc.GetDashboard(context.Background(), "lin")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.OverallAccuracy != 0 || d.TotalCharacters != 0 || len(d.Characters) != 0 {
		t.Fatalf("expected zeroed dashboard, got %+v", d)
	}
}

// 总体正确率是按作答次数加权的，不是各字正确率的平均
func TestOverallAccuracyIsAttemptWeighted(t *testing.T) {
	st := newTestStores(t)
	svc := NewDashboardService(st.chars, st.progress, st.cache)

	if _, _, err := st.chars.BulkAdd("lin", []model.Character{
		{ID: "a", Glyph: "水", Pinyin: "shuǐ"},
		{ID: "b", Glyph: "火", Pinyin: "huǒ"},
	}); err != nil {
		t.Fatalf("seed chars: %v", err)
	}
	// a: 1/10 = 10%，b: 1/1 = 100%；平均是55%，加权是 2/11 ≈ 18%
	if err := st.progress.MergeAdd("lin", map[string]model.ProgressDelta{
		"a": {Correct: 1, Incorrect: 9},
		"b": {Correct: 1},
	}); err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	d, err := svc.GetDashboard(context.Background(), "lin")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.OverallAccuracy != 18 {
		t.Fatalf("overall accuracy: got %d, want 18", d.OverallAccuracy)
	}
}
