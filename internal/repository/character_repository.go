package repository

import (
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type CharacterRepository struct {
	Engine *csvtable.Engine
}

func NewCharacterRepository(engine *csvtable.Engine) *CharacterRepository {
	return &CharacterRepository{Engine: engine}
}

func (r *CharacterRepository) path(username string) string {
	return filepath.Join(r.Engine.UserDir(username), util.CharactersFile)
}

func (r *CharacterRepository) List(username string) ([]model.Character, error) {
	rows, err := csvtable.ReadTable(r.path(username), util.CharactersHeader)
	if err != nil {
		return nil, util.StorageError(err)
	}
	chars := make([]model.Character, 0, len(rows))
	for _, row := range rows {
		chars = append(chars, rowToCharacter(row))
	}
	return chars, nil
}

// BulkAdd 批量添加，按字形去重：已存在的字跳过，只追加真正的新字。
// 返回 (添加数, 跳过数)。传入记录没有 ID 时由仓库生成。
func (r *CharacterRepository) BulkAdd(username string, incoming []model.Character) (added, skipped int, err error) {
	err = r.Engine.WithLock(username, func() error {
		rows, err := csvtable.ReadTable(r.path(username), util.CharactersHeader)
		if err != nil {
			return util.StorageError(err)
		}

		seen := make(map[string]bool, len(rows))
		for _, row := range rows {
			seen[row[1]] = true
		}

		for _, ch := range incoming {
			glyph := csvtable.Sanitize(ch.Glyph)
			if glyph == "" || seen[glyph] {
				skipped++
				continue
			}
			if ch.ID == "" {
				id, err := gonanoid.New()
				if err != nil {
					return err
				}
				ch.ID = id
			}
			ch.Glyph = glyph
			rows = append(rows, characterToRow(ch))
			seen[glyph] = true
			added++
		}

		if added == 0 {
			return nil
		}
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.CharactersHeader, rows); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}

func (r *CharacterRepository) DeleteByID(username, id string) error {
	return r.Engine.WithLock(username, func() error {
		rows, err := csvtable.ReadTable(r.path(username), util.CharactersHeader)
		if err != nil {
			return util.StorageError(err)
		}
		kept := rows[:0]
		found := false
		for _, row := range rows {
			if row[0] == id {
				found = true
				continue
			}
			kept = append(kept, row)
		}
		if !found {
			return util.ErrCharacterNotFound
		}
		if err := csvtable.WriteTable(r.path(username), util.CharactersHeader, kept); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}

func (r *CharacterRepository) DeleteAll(username string) error {
	return r.Engine.WithLock(username, func() error {
		if err := r.Engine.EnsureUserDir(username); err != nil {
			return util.StorageError(err)
		}
		if err := csvtable.WriteTable(r.path(username), util.CharactersHeader, nil); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}

func rowToCharacter(row []string) model.Character {
	return model.Character{
		ID:      row[0],
		Glyph:   row[1],
		Pinyin:  row[2],
		Meaning: row[3],
		Phrase:  row[4],
	}
}

func characterToRow(ch model.Character) []string {
	return []string{ch.ID, ch.Glyph, ch.Pinyin, ch.Meaning, ch.Phrase}
}
