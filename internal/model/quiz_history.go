package model

import "time"

// 历史记录最多保留的条数，超出后按时间戳淘汰最旧的
const QuizHistoryLimit = 50

// QuizHistoryEntry 一次完整测验的摘要，写入后不再修改
type QuizHistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	QuizType       QuizType  `json:"quizType"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Accuracy       int       `json:"accuracy"`
}
