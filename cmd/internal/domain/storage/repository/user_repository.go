package repository

import (
	"clinic/cmd/internal/domain"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils"
	"errors"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("email = ?", utils.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := u.db.Model(&entity.User{}).
		Where("email = ?", utils.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// FindAll returns every user, newest first.
func (u *DefaultUserRepository) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Order("id desc").Find(&users).Error
	return users, err
}

func (u *DefaultUserRepository) FindByRole(role entity.Role) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Where("role = ?", role).Order("id desc").Find(&users).Error
	return users, err
}

// Create inserts a new user. The email is canonicalized first, and a unique
// index violation is reported as domain.ErrDuplicateEmail.
func (u *DefaultUserRepository) Create(user *entity.User) error {
	user.Email = utils.NormalizeEmail(user.Email)
	err := u.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateEmail
	}
	return err
}

// Delete removes the user along with every appointment where they are the
// doctor or the patient. Deleting an unknown id is not an error.
func (u *DefaultUserRepository) Delete(id int) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("doctor_id = ? OR patient_id = ?", id, id).
			Delete(&entity.Appointment{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&entity.User{}, id).Error
	})
}
