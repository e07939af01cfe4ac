package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
)

func (s *gormStore) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create assignment for inscription %s: %w", a.InscriptionID, err)
	}
	return nil
}

func (s *gormStore) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	if err := s.db.WithContext(ctx).Preload("Dormitory").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *gormStore) GetAssignmentByInscription(ctx context.Context, inscriptionID string) (*model.Assignment, error) {
	var a model.Assignment
	if err := s.db.WithContext(ctx).Preload("Dormitory").
		First(&a, "inscription_id = ?", inscriptionID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *gormStore) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error) {
	q := s.db.WithContext(ctx).Preload("Dormitory").Order("assigned_at ASC")
	if filter.DormitoryID != 0 {
		q = q.Where("dormitory_id = ?", filter.DormitoryID)
	}
	if filter.Gender != "" {
		q = q.Joins("JOIN dormitories ON dormitories.id = assignments.dormitory_id").
			Where("dormitories.gender = ?", filter.Gender)
	}
	var assignments []model.Assignment
	if err := q.Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *gormStore) CountAssignments(ctx context.Context, dormitoryID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("dormitory_id = ?", dormitoryID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments for dormitory %d: %w", dormitoryID, err)
	}
	return count, nil
}

func (s *gormStore) DeleteAssignment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Assignment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete assignment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) MoveAssignment(ctx context.Context, id string, dormitoryID int64) error {
	res := s.db.WithContext(ctx).Model(&model.Assignment{}).Where("id = ?", id).
		UpdateColumn("dormitory_id", dormitoryID)
	if res.Error != nil {
		return fmt.Errorf("failed to move assignment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
