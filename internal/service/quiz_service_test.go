package service

import (
	"errors"
	"testing"
	"time"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
)

func newQuizService(t *testing.T) (*QuizService, *testStores) {
	t.Helper()
	st := newTestStores(t)
	svc := NewQuizService(st.chars, st.progress, st.history, st.cache, 5*time.Millisecond, time.Minute)
	return svc, st
}

func seedCharacters(t *testing.T, st *testStores, username string) map[string]model.Character {
	t.Helper()
	chars := []model.Character{
		{ID: "c1", Glyph: "水", Pinyin: "shuǐ", Meaning: "water", Phrase: "喝水"},
		{ID: "c2", Glyph: "火", Pinyin: "huǒ", Meaning: "fire", Phrase: "火车"},
		{ID: "c3", Glyph: "山", Pinyin: "shān", Meaning: "mountain", Phrase: "爬山"},
		{ID: "c4", Glyph: "人", Pinyin: "rén", Meaning: "person", Phrase: "人们"},
		{ID: "c5", Glyph: "口", Pinyin: "kǒu", Meaning: "mouth", Phrase: ""},
	}
	if _, _, err := st.chars.BulkAdd(username, chars); err != nil {
		t.Fatalf("seed: %v", err)
	}
	byGlyph := make(map[string]model.Character, len(chars))
	for _, ch := range chars {
		byGlyph[ch.Glyph] = ch
	}
	return byGlyph
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// 场景：5道选择题答对4道 → 一条历史记录 total=5 correct=4 accuracy=80
func TestMultipleChoiceSessionEndToEnd(t *testing.T) {
	svc, st := newQuizService(t)
	byGlyph := seedCharacters(t, st, "lin")

	view, err := svc.StartSession("lin")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	sid := view.ID
	if view.State != string(model.StateTypeSelection) {
		t.Fatalf("initial state: %s", view.State)
	}

	// 未选模式就答题必须被拒绝
	if _, err := svc.Answer("lin", sid, AnswerSubmission{}); !errors.Is(err, util.ErrBadTransition) {
		t.Fatalf("expected bad transition, got %v", err)
	}

	if _, err := svc.SelectType("lin", sid, model.QuizMultipleChoice); err != nil {
		t.Fatalf("select type: %v", err)
	}
	if _, err := svc.SelectCount("lin", sid, 7); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected count validation error, got %v", err)
	}
	view, err = svc.SelectCount("lin", sid, 5)
	if err != nil {
		t.Fatalf("select count: %v", err)
	}
	if view.State != string(model.StateQuestionLoop) || view.TotalQuestions != 5 {
		t.Fatalf("unexpected view after count: %+v", view)
	}

	for i := 0; i < 5; i++ {
		view, err := svc.Get("lin", sid)
		if err != nil {
			t.Fatalf("get q%d: %v", i, err)
		}
		q := view.Question
		if q == nil || q.Index != i {
			t.Fatalf("unexpected question view at %d: %+v", i, view)
		}
		if len(q.Options) < 2 || len(q.Options) > 4 {
			t.Fatalf("q%d has %d options", i, len(q.Options))
		}

		target := byGlyph[q.Character]
		sub := AnswerSubmission{CandidateID: target.ID}
		if i == 4 {
			sub.CandidateID = "wrong-on-purpose"
		}
		fb, err := svc.Answer("lin", sid, sub)
		if err != nil {
			t.Fatalf("answer q%d: %v", i, err)
		}
		if fb.Correct != (i != 4) {
			t.Fatalf("q%d feedback: %+v", i, fb)
		}
		if fb.Target.ID != target.ID {
			t.Fatalf("q%d feedback target: %+v", i, fb.Target)
		}

		// 反馈阶段重复作答必须被拒绝
		if _, err := svc.Answer("lin", sid, sub); !errors.Is(err, util.ErrBadTransition) {
			t.Fatalf("expected bad transition during feedback, got %v", err)
		}

		next := i + 1
		waitFor(t, "auto advance", func() bool {
			v, err := svc.Get("lin", sid)
			if err != nil {
				return false
			}
			if next == 5 {
				return v.State == string(model.StateCompletion)
			}
			return v.Question != nil && v.Question.Index == next
		})
	}

	view, err = svc.Get("lin", sid)
	if err != nil {
		t.Fatalf("final get: %v", err)
	}
	res := view.Result
	if res == nil {
		t.Fatalf("missing result: %+v", view)
	}
	if res.TotalQuestions != 5 || res.CorrectAnswers != 4 || res.Accuracy != 80 || !res.Persisted {
		t.Fatalf("unexpected result: %+v", res)
	}

	entries, err := st.history.List("lin", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.QuizType != model.QuizMultipleChoice || e.TotalQuestions != 5 || e.CorrectAnswers != 4 || e.Accuracy != 80 {
		t.Fatalf("unexpected history entry: %+v", e)
	}

	progress, err := st.progress.GetAll("lin")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	correct, incorrect := 0, 0
	for _, rec := range progress {
		correct += rec.Correct
		incorrect += rec.Incorrect
	}
	if correct != 4 || incorrect != 1 {
		t.Fatalf("progress totals: correct=%d incorrect=%d", correct, incorrect)
	}
}

func TestRecognitionAnswerIsExactPinyinMatch(t *testing.T) {
	svc, st := newQuizService(t)
	byGlyph := seedCharacters(t, st, "lin")

	view, _ := svc.StartSession("lin")
	sid := view.ID
	if _, err := svc.SelectType("lin", sid, model.QuizRecognition); err != nil {
		t.Fatalf("select type: %v", err)
	}
	if _, err := svc.SelectCount("lin", sid, 5); err != nil {
		t.Fatalf("select count: %v", err)
	}

	view, _ = svc.Get("lin", sid)
	q := view.Question
	target := byGlyph[q.Character]

	found := 0
	for _, opt := range q.Options {
		if opt.Text == target.Pinyin {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("target pinyin appears %d times in options %v", found, q.Options)
	}

	fb, err := svc.Answer("lin", sid, AnswerSubmission{Answer: target.Pinyin})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !fb.Correct {
		t.Fatalf("exact pinyin should be correct")
	}
}

func TestWritingModeIsSelfAssessed(t *testing.T) {
	svc, st := newQuizService(t)
	seedCharacters(t, st, "lin")

	view, _ := svc.StartSession("lin")
	sid := view.ID
	svc.SelectType("lin", sid, model.QuizWriting)
	svc.SelectCount("lin", sid, 5)

	view, _ = svc.Get("lin", sid)
	if view.Question.Hint == "" {
		t.Fatalf("writing question has no hint")
	}

	// 不带自评结果的提交是非法输入
	if _, err := svc.Answer("lin", sid, AnswerSubmission{}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	yes := true
	fb, err := svc.Answer("lin", sid, AnswerSubmission{SelfCorrect: &yes})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !fb.Correct {
		t.Fatalf("self-assessed pass should count as correct")
	}
}

func TestAbandonCancelsTimerAndPersistsNothing(t *testing.T) {
	svc, st := newQuizService(t)
	byGlyph := seedCharacters(t, st, "lin")

	view, _ := svc.StartSession("lin")
	sid := view.ID
	svc.SelectType("lin", sid, model.QuizMultipleChoice)
	svc.SelectCount("lin", sid, 5)

	v, _ := svc.Get("lin", sid)
	target := byGlyph[v.Question.Character]
	if _, err := svc.Answer("lin", sid, AnswerSubmission{CandidateID: target.ID}); err != nil {
		t.Fatalf("answer: %v", err)
	}

	// 反馈定时器还没触发就放弃会话
	if err := svc.Abandon("lin", sid); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := svc.Get("lin", sid); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	entries, err := st.history.List("lin", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("abandoned session must not write history, got %v", entries)
	}
	progress, err := st.progress.GetAll("lin")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress) != 0 {
		t.Fatalf("abandoned session must not write progress, got %v", progress)
	}
}

func TestCountClampedToPoolSize(t *testing.T) {
	svc, st := newQuizService(t)
	if _, _, err := st.chars.BulkAdd("lin", []model.Character{
		{ID: "c1", Glyph: "水", Pinyin: "shuǐ"},
		{ID: "c2", Glyph: "火", Pinyin: "huǒ"},
		{ID: "c3", Glyph: "山", Pinyin: "shān"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	view, _ := svc.StartSession("lin")
	sid := view.ID
	svc.SelectType("lin", sid, model.QuizRecognition)
	view, err := svc.SelectCount("lin", sid, 10)
	if err != nil {
		t.Fatalf("select count: %v", err)
	}
	if view.TotalQuestions != 3 {
		t.Fatalf("expected clamp to 3, got %d", view.TotalQuestions)
	}
}

func TestEmptyPoolRejectsQuizStart(t *testing.T) {
	svc, _ := newQuizService(t)
	view, _ := svc.StartSession("lin")
	svc.SelectType("lin", view.ID, model.QuizRecognition)
	if _, err := svc.SelectCount("lin", view.ID, 5); !errors.Is(err, util.ErrEmptyPool) {
		t.Fatalf("expected empty pool error, got %v", err)
	}
}

func TestSessionIsOwnerScoped(t *testing.T) {
	svc, st := newQuizService(t)
	seedCharacters(t, st, "lin")

	view, _ := svc.StartSession("lin")
	if _, err := svc.Get("mallory", view.ID); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestWritingHint(t *testing.T) {
	cases := []struct {
		name string
		ch   model.Character
		want string
	}{
		{
			name: "phrase with one occurrence",
			ch:   model.Character{Glyph: "水", Pinyin: "shuǐ", Phrase: "喝水"},
			want: "喝(shuǐ)",
		},
		{
			name: "phrase with repeated glyph",
			ch:   model.Character{Glyph: "人", Pinyin: "rén", Phrase: "人山人海"},
			want: "(rén)山(rén)海",
		},
		{
			name: "no phrase falls back to bare pinyin",
			ch:   model.Character{Glyph: "口", Pinyin: "kǒu"},
			want: "(kǒu)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := writingHint(tc.ch); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
