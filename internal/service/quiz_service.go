package service

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/repository"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/logger"
	"hanzi_learn_backend/pkg/monitoring"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// 每道题除正确项外最多的干扰项数量
const maxDistractors = 3

// QuizService 持有服务端测验会话并驱动状态机：
// type-selection → count-selection → question-loop → completion。
// 完成时把会话内的计数合并进进度表并追加一条历史记录。
type QuizService struct {
	CharRepo     *repository.CharacterRepository
	ProgressRepo *repository.ProgressRepository
	HistoryRepo  *repository.QuizHistoryRepository
	Cache        *DashboardCache

	advanceDelay time.Duration
	sessionTTL   time.Duration

	mu       sync.RWMutex
	sessions map[string]*QuizSession
}

func NewQuizService(
	charRepo *repository.CharacterRepository,
	progressRepo *repository.ProgressRepository,
	historyRepo *repository.QuizHistoryRepository,
	cache *DashboardCache,
	advanceDelay time.Duration,
	sessionTTL time.Duration,
) *QuizService {
	return &QuizService{
		CharRepo:     charRepo,
		ProgressRepo: progressRepo,
		HistoryRepo:  historyRepo,
		Cache:        cache,
		advanceDelay: advanceDelay,
		sessionTTL:   sessionTTL,
		sessions:     make(map[string]*QuizSession),
	}
}

type QuizOption struct {
	CharacterID string `json:"characterId,omitempty"`
	Text        string `json:"text"`
}

// quizQuestion 单道题：目标汉字加按模式准备好的选项/提示
type quizQuestion struct {
	target  model.Character
	options []QuizOption
	hint    string
}

type QuizSession struct {
	ID       string
	Username string

	mu         sync.Mutex
	state      model.SessionState
	phase      model.QuestionPhase
	quizType   model.QuizType
	questions  []quizQuestion
	index      int
	correct    int
	tally      map[string]*model.SessionStat
	advance    *time.Timer
	lastActive time.Time
	result     *QuizResult
}

// QuestionView 是题目的出题视图，不含答案
type QuestionView struct {
	Index     int          `json:"index"`
	Total     int          `json:"total"`
	Phase     string       `json:"phase"`
	Character string       `json:"character,omitempty"`
	Meaning   string       `json:"meaning,omitempty"`
	Hint      string       `json:"hint,omitempty"`
	Options   []QuizOption `json:"options,omitempty"`
}

type SessionView struct {
	ID             string        `json:"id"`
	State          string        `json:"state"`
	QuizType       string        `json:"quizType,omitempty"`
	CountOptions   []int         `json:"countOptions,omitempty"`
	TotalQuestions int           `json:"totalQuestions,omitempty"`
	Question       *QuestionView `json:"question,omitempty"`
	Result         *QuizResult   `json:"result,omitempty"`
}

type QuizResult struct {
	QuizType       string              `json:"quizType"`
	TotalQuestions int                 `json:"totalQuestions"`
	CorrectAnswers int                 `json:"correctAnswers"`
	Accuracy       int                 `json:"accuracy"`
	Stats          []model.SessionStat `json:"stats"`
	Persisted      bool                `json:"persisted"`
}

// AnswerSubmission 三种模式共用的作答载荷：
// 认读交 answer（拼音），选择交 candidateId，书写交 selfCorrect 自评
type AnswerSubmission struct {
	Answer      string `json:"answer"`
	CandidateID string `json:"candidateId"`
	SelfCorrect *bool  `json:"selfCorrect"`
}

type AnswerFeedback struct {
	Correct       bool            `json:"correct"`
	Target        model.Character `json:"target"`
	LastQuestion  bool            `json:"lastQuestion"`
	AutoAdvanceMS int             `json:"autoAdvanceMs"`
}

// StartSession 建立一个新的测验会话，初始状态为选择模式
func (s *QuizService) StartSession(username string) (*SessionView, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	session := &QuizSession{
		ID:         id,
		Username:   username,
		state:      model.StateTypeSelection,
		tally:      make(map[string]*model.SessionStat),
		lastActive: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session.view(), nil
}

func (s *QuizService) lookup(username, sid string) (*QuizSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok || session.Username != username {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// SelectType 选定测验模式。从数量选择页回退重选也走这里（显式 back）。
func (s *QuizService) SelectType(username, sid string, quizType model.QuizType) (*SessionView, error) {
	if !quizType.Valid() {
		return nil, util.ValidationError("未知的测验模式 %q", quizType)
	}
	session, err := s.lookup(username, sid)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != model.StateTypeSelection && session.state != model.StateCountSelection {
		return nil, util.ErrBadTransition
	}
	session.quizType = quizType
	session.state = model.StateCountSelection
	session.lastActive = time.Now()
	return session.viewLocked(), nil
}

// SelectCount 选定题量并生成题目，进入答题循环。
// 题量从固定档位里选，超过生字本容量时收缩到容量。
func (s *QuizService) SelectCount(username, sid string, count int) (*SessionView, error) {
	if !model.ValidQuizCount(count) {
		return nil, util.ValidationError("题量只能为 %v 之一", model.QuizCountOptions)
	}
	session, err := s.lookup(username, sid)
	if err != nil {
		return nil, err
	}

	pool, err := s.CharRepo.List(username)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrEmptyPool
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != model.StateCountSelection {
		return nil, util.ErrBadTransition
	}

	if count > len(pool) {
		count = len(pool)
	}
	session.questions = buildQuestions(session.quizType, pool, count)
	session.index = 0
	session.state = model.StateQuestionLoop
	session.phase = model.PhasePresented
	session.lastActive = time.Now()
	return session.viewLocked(), nil
}

// Get 返回会话当前状态和（答题中的）当前题目视图
func (s *QuizService) Get(username, sid string) (*SessionView, error) {
	session, err := s.lookup(username, sid)
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

// Answer 提交当前题目的作答，立即返回对错反馈，
// 并安排固定延迟后的自动进题
func (s *QuizService) Answer(username, sid string, sub AnswerSubmission) (*AnswerFeedback, error) {
	session, err := s.lookup(username, sid)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != model.StateQuestionLoop || session.phase != model.PhasePresented {
		return nil, util.ErrBadTransition
	}

	q := session.questions[session.index]
	var correct bool
	switch session.quizType {
	case model.QuizRecognition:
		correct = sub.Answer == q.target.Pinyin
	case model.QuizMultipleChoice:
		correct = sub.CandidateID == q.target.ID
	case model.QuizWriting:
		// 书写题不自动判分，由用户自评
		if sub.SelfCorrect == nil {
			return nil, util.ValidationError("书写题需要提交自评结果 selfCorrect")
		}
		correct = *sub.SelfCorrect
	}

	now := time.Now()
	stat, ok := session.tally[q.target.ID]
	if !ok {
		stat = &model.SessionStat{CharacterID: q.target.ID}
		session.tally[q.target.ID] = stat
	}
	if correct {
		stat.Correct++
		session.correct++
	} else {
		stat.Incorrect++
	}
	stat.LastAttempt = now

	monitoring.QuizQuestionsAnswered.WithLabelValues(
		string(session.quizType),
		strconv.FormatBool(correct),
	).Inc()

	session.phase = model.PhaseFeedback
	session.lastActive = now

	// 反馈展示固定时长后无条件进题；会话被放弃时该定时器必须被取消
	session.advance = time.AfterFunc(s.advanceDelay, func() {
		s.autoAdvance(session)
	})

	return &AnswerFeedback{
		Correct:       correct,
		Target:        q.target,
		LastQuestion:  session.index == len(session.questions)-1,
		AutoAdvanceMS: int(s.advanceDelay / time.Millisecond),
	}, nil
}

// autoAdvance 反馈计时器到点后推进状态机；最后一题之后收尾并落盘
func (s *QuizService) autoAdvance(session *QuizSession) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.state != model.StateQuestionLoop || session.phase != model.PhaseFeedback {
		return
	}

	session.index++
	session.lastActive = time.Now()
	if session.index < len(session.questions) {
		session.phase = model.PhasePresented
		return
	}
	s.completeLocked(session)
}

// completeLocked 结算会话：合并进度、写一条历史、作废缓存。
// 调用方必须已持有 session.mu。
func (s *QuizService) completeLocked(session *QuizSession) {
	session.state = model.StateCompletion

	total := len(session.questions)
	result := &QuizResult{
		QuizType:       string(session.quizType),
		TotalQuestions: total,
		CorrectAnswers: session.correct,
		Accuracy:       model.RoundAccuracy(session.correct, total),
		Stats:          make([]model.SessionStat, 0, len(session.tally)),
	}

	deltas := make(map[string]model.ProgressDelta, len(session.tally))
	for id, stat := range session.tally {
		result.Stats = append(result.Stats, *stat)
		deltas[id] = model.ProgressDelta{Correct: stat.Correct, Incorrect: stat.Incorrect}
	}

	result.Persisted = true
	if err := s.ProgressRepo.MergeAdd(session.Username, deltas); err != nil {
		logger.Log.Error("quiz progress merge failed",
			zap.String("username", session.Username), zap.Error(err))
		result.Persisted = false
	}
	if err := s.HistoryRepo.Append(session.Username, model.QuizHistoryEntry{
		Timestamp:      time.Now(),
		QuizType:       session.quizType,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Accuracy:       result.Accuracy,
	}); err != nil {
		logger.Log.Error("quiz history append failed",
			zap.String("username", session.Username), zap.Error(err))
		result.Persisted = false
	}
	s.Cache.Invalidate(context.Background(), session.Username)
	monitoring.QuizSessionsCompleted.WithLabelValues(string(session.quizType)).Inc()

	session.result = result
}

// Abandon 放弃会话：取消未触发的进题定时器并丢弃全部临时计数
func (s *QuizService) Abandon(username, sid string) error {
	session, err := s.lookup(username, sid)
	if err != nil {
		return err
	}

	session.mu.Lock()
	if session.advance != nil {
		session.advance.Stop()
	}
	// 置为完成态，晚到的定时器回调不会再改任何东西
	session.state = model.StateCompletion
	session.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}

// SweepIdle 回收闲置过久的会话，由后台定时任务调用
func (s *QuizService) SweepIdle() {
	cutoff := time.Now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, session := range s.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff)
		if idle && session.advance != nil {
			session.advance.Stop()
		}
		session.mu.Unlock()
		if idle {
			delete(s.sessions, sid)
		}
	}
}

func (session *QuizSession) view() *SessionView {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.viewLocked()
}

func (session *QuizSession) viewLocked() *SessionView {
	v := &SessionView{
		ID:       session.ID,
		State:    string(session.state),
		QuizType: string(session.quizType),
	}
	switch session.state {
	case model.StateCountSelection:
		v.CountOptions = model.QuizCountOptions
	case model.StateQuestionLoop:
		v.TotalQuestions = len(session.questions)
		v.Question = session.questionViewLocked()
	case model.StateCompletion:
		v.TotalQuestions = len(session.questions)
		v.Result = session.result
	}
	return v
}

func (session *QuizSession) questionViewLocked() *QuestionView {
	q := session.questions[session.index]
	view := &QuestionView{
		Index: session.index,
		Total: len(session.questions),
		Phase: string(session.phase),
	}
	switch session.quizType {
	case model.QuizRecognition:
		view.Character = q.target.Glyph
		view.Meaning = q.target.Meaning
		view.Options = q.options
	case model.QuizMultipleChoice:
		view.Character = q.target.Glyph
		view.Options = q.options
	case model.QuizWriting:
		view.Hint = q.hint
		view.Meaning = q.target.Meaning
	}
	return view
}

// buildQuestions 洗牌取前缀作为题目（不放回、不加权），并为每题备好干扰项
func buildQuestions(quizType model.QuizType, pool []model.Character, count int) []quizQuestion {
	shuffled := make([]model.Character, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	questions := make([]quizQuestion, 0, count)
	for _, target := range shuffled[:count] {
		q := quizQuestion{target: target}
		switch quizType {
		case model.QuizRecognition:
			q.options = pinyinOptions(target, pool)
		case model.QuizMultipleChoice:
			q.options = meaningOptions(target, pool)
		case model.QuizWriting:
			q.hint = writingHint(target)
		}
		questions = append(questions, q)
	}
	return questions
}

// pinyinOptions 正确拼音加最多3个去重后的干扰拼音，整体打乱
func pinyinOptions(target model.Character, pool []model.Character) []QuizOption {
	seen := map[string]bool{target.Pinyin: true}
	var candidates []string
	for _, ch := range pool {
		if ch.ID == target.ID || seen[ch.Pinyin] || ch.Pinyin == "" {
			continue
		}
		seen[ch.Pinyin] = true
		candidates = append(candidates, ch.Pinyin)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > maxDistractors {
		candidates = candidates[:maxDistractors]
	}

	options := make([]QuizOption, 0, len(candidates)+1)
	options = append(options, QuizOption{Text: target.Pinyin})
	for _, p := range candidates {
		options = append(options, QuizOption{Text: p})
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// meaningOptions 正确字义加最多3个其他字的字义，按 characterId 判卷
func meaningOptions(target model.Character, pool []model.Character) []QuizOption {
	var candidates []model.Character
	for _, ch := range pool {
		if ch.ID == target.ID {
			continue
		}
		candidates = append(candidates, ch)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > maxDistractors {
		candidates = candidates[:maxDistractors]
	}

	options := make([]QuizOption, 0, len(candidates)+1)
	options = append(options, QuizOption{CharacterID: target.ID, Text: target.Meaning})
	for _, ch := range candidates {
		options = append(options, QuizOption{CharacterID: ch.ID, Text: ch.Meaning})
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// writingHint 把例句里的目标字全部替换为 "(拼音)"；没有例句时只给 "(拼音)"
func writingHint(ch model.Character) string {
	masked := "(" + ch.Pinyin + ")"
	if ch.Phrase == "" {
		return masked
	}
	out := make([]rune, 0, len(ch.Phrase))
	for _, r := range ch.Phrase {
		if string(r) == ch.Glyph {
			out = append(out, []rune(masked)...)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
