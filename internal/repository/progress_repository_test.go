package repository

import (
	"sync"
	"testing"

	"hanzi_learn_backend/internal/model"
)

func TestMergeAddIsAdditive(t *testing.T) {
	repo := NewProgressRepository(newTestEngine(t))

	if err := repo.MergeAdd("lin", map[string]model.ProgressDelta{
		"c1": {Correct: 2, Incorrect: 1},
	}); err != nil {
		t.Fatalf("merge 1: %v", err)
	}
	if err := repo.MergeAdd("lin", map[string]model.ProgressDelta{
		"c1": {Correct: 3},
		"c2": {Incorrect: 4},
	}); err != nil {
		t.Fatalf("merge 2: %v", err)
	}

	records, err := repo.GetAll("lin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r := records["c1"]; r.Correct != 5 || r.Incorrect != 1 {
		t.Fatalf("c1: got %+v", r)
	}
	if r := records["c2"]; r.Correct != 0 || r.Incorrect != 4 {
		t.Fatalf("c2: got %+v", r)
	}
}

// 并发提交的最终计数必须等于全部增量之和，顺序无关
func TestMergeAddConcurrentSubmissions(t *testing.T) {
	repo := NewProgressRepository(newTestEngine(t))

	const submissions = 25
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.MergeAdd("lin", map[string]model.ProgressDelta{
				"c1": {Correct: 1, Incorrect: 2},
			})
			if err != nil {
				t.Errorf("merge: %v", err)
			}
		}()
	}
	wg.Wait()

	records, err := repo.GetAll("lin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r := records["c1"]; r.Correct != submissions || r.Incorrect != 2*submissions {
		t.Fatalf("lost updates: got %+v", r)
	}
}

func TestClearResetsProgress(t *testing.T) {
	repo := NewProgressRepository(newTestEngine(t))
	if err := repo.MergeAdd("lin", map[string]model.ProgressDelta{"c1": {Correct: 1}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := repo.Clear("lin"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	records, err := repo.GetAll("lin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty progress, got %v", records)
	}
}
