package model

// User 账号记录，持久化在全局 users.csv
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
