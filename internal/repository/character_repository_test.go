package repository

import (
	"errors"
	"testing"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"
)

func newTestEngine(t *testing.T) *csvtable.Engine {
	t.Helper()
	engine, err := csvtable.NewEngine(t.TempDir())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func TestBulkAddDedupsByGlyph(t *testing.T) {
	repo := NewCharacterRepository(newTestEngine(t))

	added, skipped, err := repo.BulkAdd("lin", []model.Character{
		{Glyph: "水", Pinyin: "shuǐ", Meaning: "water", Phrase: "喝水"},
		{Glyph: "火", Pinyin: "huǒ", Meaning: "fire", Phrase: "火车"},
	})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if added != 2 || skipped != 0 {
		t.Fatalf("first add: got added=%d skipped=%d", added, skipped)
	}

	// 再传一次已有的字，必须全部跳过
	added, skipped, err = repo.BulkAdd("lin", []model.Character{
		{Glyph: "水", Pinyin: "shuǐ", Meaning: "water"},
		{Glyph: "山", Pinyin: "shān", Meaning: "mountain"},
	})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added != 1 || skipped != 1 {
		t.Fatalf("second add: got added=%d skipped=%d", added, skipped)
	}

	chars, err := repo.List("lin")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chars) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(chars))
	}
	for _, ch := range chars {
		if ch.ID == "" {
			t.Fatalf("character %q has empty id", ch.Glyph)
		}
	}
}

func TestDeleteByID(t *testing.T) {
	repo := NewCharacterRepository(newTestEngine(t))
	if _, _, err := repo.BulkAdd("lin", []model.Character{
		{ID: "c1", Glyph: "水", Pinyin: "shuǐ", Meaning: "water"},
		{ID: "c2", Glyph: "火", Pinyin: "huǒ", Meaning: "fire"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.DeleteByID("lin", "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteByID("lin", "c1"); !errors.Is(err, util.ErrCharacterNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}

	chars, _ := repo.List("lin")
	if len(chars) != 1 || chars[0].ID != "c2" {
		t.Fatalf("unexpected remainder: %v", chars)
	}
}

func TestDeleteAllLeavesEmptyStore(t *testing.T) {
	repo := NewCharacterRepository(newTestEngine(t))
	if _, _, err := repo.BulkAdd("lin", []model.Character{{Glyph: "水", Pinyin: "shuǐ"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.DeleteAll("lin"); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	chars, err := repo.List("lin")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chars) != 0 {
		t.Fatalf("expected empty store, got %v", chars)
	}
}
