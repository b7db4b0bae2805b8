package repository

import (
	"context"
	"errors"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("USER_NOT_FOUND")
var ErrUserDuplicate = errors.New("USER_DUPLICATE")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(id int64) (*model.User, error)
	List(search string, limit int) ([]model.User, error)
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
}

type User struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &User{db: db}
}

func (u *User) Create(ctx context.Context, user *model.User) error {
	db := GetTx(ctx, u.db)
	err := db.Create(user).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrUserDuplicate
	}

	return err
}

func (u *User) GetByID(id int64) (*model.User, error) {
	var user model.User

	err := u.db.Where("id = ?", id).First(&user).Error
	if err == nil {
		return &user, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return nil, err
}

func (u *User) List(search string, limit int) ([]model.User, error) {
	var users []model.User

	query := u.db.Model(&model.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", pattern, pattern)
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (u *User) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	db := GetTx(ctx, u.db)

	result := db.Model(&model.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
