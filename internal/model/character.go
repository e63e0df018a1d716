package model

// Character 用户生字本中的一个汉字
type Character struct {
	ID      string `json:"id"`
	Glyph   string `json:"character"` // 汉字本身，同一用户内不允许重复
	Pinyin  string `json:"pinyin"`
	Meaning string `json:"meaning"`
	Phrase  string `json:"phrase"`
}
