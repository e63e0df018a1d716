package repository

import (
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

type QuizHistoryRepository struct {
	Engine *csvtable.Engine
}

func NewQuizHistoryRepository(engine *csvtable.Engine) *QuizHistoryRepository {
	return &QuizHistoryRepository{Engine: engine}
}

func (r *QuizHistoryRepository) path(username string) string {
	return filepath.Join(r.Engine.UserDir(username), util.QuizHistoryFile)
}

// List 返回最新的 limit 条记录，时间倒序；limit <= 0 时用默认值
func (r *QuizHistoryRepository) List(username string, limit int) ([]model.QuizHistoryEntry, error) {
	rows, err := csvtable.ReadTable(r.path(username), util.QuizHistoryHeader)
	if err != nil {
		return nil, util.StorageError(err)
	}
	entries := make([]model.QuizHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	sortNewestFirst(entries)

	if limit <= 0 {
		limit = util.DefaultHistoryLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Append 追加一条会话摘要；超过上限时按时间戳淘汰最旧的
func (r *QuizHistoryRepository) Append(username string, entry model.QuizHistoryEntry) error {
	return r.Engine.WithLock(username, func() error {
		rows, err := csvtable.ReadTable(r.path(username), util.QuizHistoryHeader)
		if err != nil {
			return util.StorageError(err)
		}
		entries := make([]model.QuizHistoryEntry, 0, len(rows)+1)
		for _, row := range rows {
			entries = append(entries, rowToEntry(row))
		}
		entries = append(entries, entry)

		if len(entries) > model.QuizHistoryLimit {
			sortNewestFirst(entries)
			entries = entries[:model.QuizHistoryLimit]
		}

		out := make([][]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryToRow(e))
		}
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.QuizHistoryHeader, out); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}

func (r *QuizHistoryRepository) Clear(username string) error {
	return r.Engine.WithLock(username, func() error {
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.QuizHistoryHeader, nil); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}

func sortNewestFirst(entries []model.QuizHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

func rowToEntry(row []string) model.QuizHistoryEntry {
	ts, _ := time.Parse(time.RFC3339, row[0])
	return model.QuizHistoryEntry{
		Timestamp:      ts,
		QuizType:       model.QuizType(row[1]),
		TotalQuestions: util.MustParseInt(row[2]),
		CorrectAnswers: util.MustParseInt(row[3]),
		Accuracy:       util.MustParseInt(row[4]),
	}
}

func entryToRow(e model.QuizHistoryEntry) []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.QuizType),
		strconv.Itoa(e.TotalQuestions),
		strconv.Itoa(e.CorrectAnswers),
		strconv.Itoa(e.Accuracy),
	}
}
