package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
)

func (s *gormStore) CreateInscription(ctx context.Context, i *model.Inscription) error {
	if err := s.db.WithContext(ctx).Create(i).Error; err != nil {
		return fmt.Errorf("failed to create inscription: %w", err)
	}
	return nil
}

func (s *gormStore) GetInscription(ctx context.Context, id string) (*model.Inscription, error) {
	var i model.Inscription
	if err := s.db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *gormStore) SetInscriptionStatus(ctx context.Context, id string, status model.InscriptionStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Inscription{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of inscription %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteInscription(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Inscription{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete inscription %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payment for inscription %s: %w", p.InscriptionID, err)
	}
	return nil
}

func (s *gormStore) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var p model.Payment
	if err := s.db.WithContext(ctx).First(&p, "reference_code = ?", reference).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) HasSuccessfulPayment(ctx context.Context, inscriptionID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("inscription_id = ? AND status = ?", inscriptionID, model.PaymentSuccess).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up payments for inscription %s: %w", inscriptionID, err)
	}
	return count > 0, nil
}

func (s *gormStore) MarkPayment(ctx context.Context, id string, status model.PaymentStatus, paidAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "payment_date": paidAt})
	if res.Error != nil {
		return fmt.Errorf("failed to mark payment %s as %s: %w", id, status, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) CreateReceipt(ctx context.Context, r *model.Receipt) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create receipt for payment %s: %w", r.PaymentID, err)
	}
	return nil
}
