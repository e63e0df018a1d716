package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 各 CSV 存储文件的文件名与固定表头
const (
	UsersFile   = "users.csv"
	UsersHeader = "username,passwordHash"

	CharactersFile   = "characters.csv"
	CharactersHeader = "id,character,pinyin,meaning,phrase"

	ProgressFile   = "progress.csv"
	ProgressHeader = "characterId,correct,incorrect"

	QuizHistoryFile   = "quiz-history.csv"
	QuizHistoryHeader = "timestamp,quizType,totalQuestions,correctAnswers,accuracy"
)

// 历史查询的默认条数
const DefaultHistoryLimit = 10
