package repo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fiber/dvp/app/model"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEnrollmentNo(enrlNo string) (*model.User, error)
}

type UserRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? AND is_active = true", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByEnrollmentNo(enrlNo string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("role = ? AND enrollment_no = ?", model.RoleStudent, enrlNo).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
