package service

import (
	"bufio"
	"context"
	"io"
	"strings"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/internal/util"
)

type CharacterService struct {
	CharRepo *repository.CharacterRepository
	Cache    *DashboardCache
}

func NewCharacterService(charRepo *repository.CharacterRepository, cache *DashboardCache) *CharacterService {
	return &CharacterService{CharRepo: charRepo, Cache: cache}
}

func (s *CharacterService) List(username string) ([]model.Character, error) {
	return s.CharRepo.List(username)
}

// ImportResult 批量导入的统计，skipped 含重复字与脏行
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// BulkAdd 手工批量添加；每条记录必须有字形和拼音
func (s *CharacterService) BulkAdd(ctx context.Context, username string, chars []model.Character) (*ImportResult, error) {
	for _, ch := range chars {
		if strings.TrimSpace(ch.Glyph) == "" || strings.TrimSpace(ch.Pinyin) == "" {
			return nil, util.ValidationError("每条记录必须包含汉字和拼音")
		}
	}
	added, skipped, err := s.CharRepo.BulkAdd(username, chars)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, username)
	return &ImportResult{Added: added, Skipped: skipped}, nil
}

// ImportCSV 解析上传的 CSV 模板并去重入库。
// 支持带 id 的五列格式和模板的四列格式（character,pinyin,meaning,phrase），
// 表头行可有可无；列数不够或缺字形/拼音的行计入 skipped。
func (s *CharacterService) ImportCSV(ctx context.Context, username string, r io.Reader) (*ImportResult, error) {
	var incoming []model.Character
	dirty := 0

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" {
			continue
		}
		if first {
			first = false
			if line == util.CharactersHeader || line == "character,pinyin,meaning,phrase" {
				continue
			}
		}

		fields := strings.Split(line, ",")
		var ch model.Character
		switch len(fields) {
		case 5:
			ch = model.Character{ID: fields[0], Glyph: fields[1], Pinyin: fields[2], Meaning: fields[3], Phrase: fields[4]}
		case 4:
			ch = model.Character{Glyph: fields[0], Pinyin: fields[1], Meaning: fields[2], Phrase: fields[3]}
		default:
			dirty++
			continue
		}
		if strings.TrimSpace(ch.Glyph) == "" || strings.TrimSpace(ch.Pinyin) == "" {
			dirty++
			continue
		}
		incoming = append(incoming, ch)
	}
	if err := scanner.Err(); err != nil {
		return nil, util.ValidationError("无法读取上传文件: %v", err)
	}
	if len(incoming) == 0 && dirty == 0 {
		return nil, util.ValidationError("文件中没有可导入的记录")
	}

	added, skipped, err := s.CharRepo.BulkAdd(username, incoming)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		s.Cache.Invalidate(ctx, username)
	}
	return &ImportResult{Added: added, Skipped: skipped + dirty}, nil
}

func (s *CharacterService) Delete(ctx context.Context, username, id string) error {
	if err := s.CharRepo.DeleteByID(username, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, username)
	return nil
}

func (s *CharacterService) DeleteAll(ctx context.Context, username string) error {
	if err := s.CharRepo.DeleteAll(username); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, username)
	return nil
}
