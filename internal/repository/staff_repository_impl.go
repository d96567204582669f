package repository

import (
	"errors"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct{}

func NewStaffRepository() domainRepo.StaffRepository {
	return &staffRepository{}
}

func (r *staffRepository) Create(db *gorm.DB, staff *entity.Staff) error {
	return translateError(db.Create(staff).Error)
}

func (r *staffRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := db.Preload("Role").Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindByUsername(db *gorm.DB, username string) (*entity.Staff, error) {
	var staff entity.Staff
	err := db.Preload("Role").Where("username = ?", username).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll(db *gorm.DB, roleID int, activeOnly bool) ([]entity.Staff, error) {
	var staff []entity.Staff
	query := db.Preload("Role")
	if roleID != 0 {
		query = query.Where("role_id = ?", roleID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("full_name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) SetActive(db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	result := db.Model(&entity.Staff{}).
		Where("id = ?", id).
		Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *staffRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) (int64, error) {
	result := db.Model(&entity.Staff{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}
