package repository

import (
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"
	"path/filepath"
	"sort"
	"strconv"
)

type ProgressRepository struct {
	Engine *csvtable.Engine
}

func NewProgressRepository(engine *csvtable.Engine) *ProgressRepository {
	return &ProgressRepository{Engine: engine}
}

func (r *ProgressRepository) path(username string) string {
	return filepath.Join(r.Engine.UserDir(username), util.ProgressFile)
}

func (r *ProgressRepository) GetAll(username string) (map[string]model.ProgressRecord, error) {
	rows, err := csvtable.ReadTable(r.path(username), util.ProgressHeader)
	if err != nil {
		return nil, util.StorageError(err)
	}
	records := make(map[string]model.ProgressRecord, len(rows))
	for _, row := range rows {
		records[row[0]] = model.ProgressRecord{
			CharacterID: row[0],
			Correct:     util.MustParseInt(row[1]),
			Incorrect:   util.MustParseInt(row[2]),
		}
	}
	return records, nil
}

// MergeAdd 把增量按 characterId 加到磁盘上的计数里再整体写回。
// 全程持有用户锁，合并满足可加性：最终计数等于所有增量之和，与提交顺序无关。
func (r *ProgressRepository) MergeAdd(username string, deltas map[string]model.ProgressDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	return r.Engine.WithLock(username, func() error {
		records, err := r.GetAll(username)
		if err != nil {
			return err
		}
		for id, d := range deltas {
			rec := records[id]
			rec.CharacterID = id
			rec.Correct += d.Correct
			rec.Incorrect += d.Incorrect
			records[id] = rec
		}

		ids := make([]string, 0, len(records))
		for id := range records {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		rows := make([][]string, 0, len(records))
		for _, id := range ids {
			rec := records[id]
			rows = append(rows, []string{
				rec.CharacterID,
				strconv.Itoa(rec.Correct),
				strconv.Itoa(rec.Incorrect),
			})
		}
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.ProgressHeader, rows); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}

func (r *ProgressRepository) Clear(username string) error {
	return r.Engine.WithLock(username, func() error {
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.ProgressHeader, nil); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}
