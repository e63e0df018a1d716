package repository

import (
	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"
	"path/filepath"
)

// users.csv 是全局文件，用独立的锁键，避免和某个用户名撞上
// （用户名只允许 [A-Za-z0-9_]，"@" 开头不可能出现）
const usersLockOwner = "@users"

type UserRepository struct {
	Engine *csvtable.Engine
}

func NewUserRepository(engine *csvtable.Engine) *UserRepository {
	return &UserRepository{Engine: engine}
}

func (r *UserRepository) path() string {
	return filepath.Join(r.Engine.Root(), util.UsersFile)
}

// FindByUsername 查找账号，不存在时返回 (nil, nil)
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	rows, err := csvtable.ReadTable(r.path(), util.UsersHeader)
	if err != nil {
		return nil, util.StorageError(err)
	}
	for _, row := range rows {
		if row[0] == username {
			return &model.User{Username: row[0], PasswordHash: row[1]}, nil
		}
	}
	return nil, nil
}

// Create 注册新账号并建立用户数据目录；用户名已存在时返回 ErrDuplicateUser
func (r *UserRepository) Create(user *model.User) error {
	return r.Engine.WithLock(usersLockOwner, func() error {
		rows, err := csvtable.ReadTable(r.path(), util.UsersHeader)
		if err != nil {
			return util.StorageError(err)
		}
		for _, row := range rows {
			if row[0] == user.Username {
				return util.ErrDuplicateUser
			}
		}
		rows = append(rows, []string{user.Username, user.PasswordHash})
		if err := csvtable.WriteTable(r.path(), util.UsersHeader, rows); err != nil {
			return util.StorageError(err)
		}
		if err := r.Engine.EnsureUserDir(user.Username); err != nil {
			return util.StorageError(err)
		}
		return nil
	})
}
