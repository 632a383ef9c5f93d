package persistence

import (
	"context"
	"time"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"github.com/wyfcoding/corepnl/pkg/db"
	"gorm.io/gorm"
)

// UserModel users 表
type UserModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Password  string    `gorm:"column:password;type:varchar(255);not null"`
	Fullname  string    `gorm:"column:fullname;type:varchar(255)"`
	Address   string    `gorm:"column:address;type:varchar(512)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserModel) TableName() string { return "users" }

func toUser(m *UserModel) *domain.User {
	return &domain.User{
		Email:     m.Email,
		Password:  m.Password,
		Fullname:  m.Fullname,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}

func toUserModel(u *domain.User) *UserModel {
	return &UserModel{
		Email:     u.Email,
		Password:  u.Password,
		Fullname:  u.Fullname,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&m).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toUser(&m), nil
}

// Save 插入用户；email 唯一索引冲突映射为 ErrUserExists
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(user)).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}
