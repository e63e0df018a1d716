package model

import "time"

// QuizType 测验模式，会话创建后选定一次，整场不变
type QuizType string

const (
	QuizRecognition    QuizType = "recognition"     // 看字义选拼音
	QuizWriting        QuizType = "writing"         // 看提示写字，自评对错
	QuizMultipleChoice QuizType = "multiple-choice" // 看字选义
)

func (t QuizType) Valid() bool {
	switch t {
	case QuizRecognition, QuizWriting, QuizMultipleChoice:
		return true
	}
	return false
}

// SessionState 测验会话状态机的状态
type SessionState string

const (
	StateTypeSelection  SessionState = "type-selection"
	StateCountSelection SessionState = "count-selection"
	StateQuestionLoop   SessionState = "question-loop"
	StateCompletion     SessionState = "completion"
)

// QuestionPhase 单题的子状态
type QuestionPhase string

const (
	PhasePresented QuestionPhase = "presented"
	PhaseFeedback  QuestionPhase = "feedback"
)

// 可选择的出题数量档位
var QuizCountOptions = []int{5, 10, 20, 30}

func ValidQuizCount(n int) bool {
	for _, c := range QuizCountOptions {
		if n == c {
			return true
		}
	}
	return false
}

// SessionStat 一场会话内某个汉字的临时计数，完成时合并进累计进度
type SessionStat struct {
	CharacterID string    `json:"characterId"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	LastAttempt time.Time `json:"lastAttempt"`
}
