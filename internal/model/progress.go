package model

// ProgressRecord 某个汉字的累计答题计数，只增不减，显式重置时清空
type ProgressRecord struct {
	CharacterID string `json:"characterId"`
	Correct     int    `json:"correct"`
	Incorrect   int    `json:"incorrect"`
}

// ProgressDelta 一次测验提交的增量
type ProgressDelta struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Accuracy 正确率（四舍五入的百分数），无作答时为 0
func (p ProgressRecord) Accuracy() int {
	return RoundAccuracy(p.Correct, p.Correct+p.Incorrect)
}

// RoundAccuracy = round(correct/total × 100)，total 为 0 时返回 0
func RoundAccuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
