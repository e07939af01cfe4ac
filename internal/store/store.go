package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
)

// Store defines the interface for all database operations. The
// assignment and payment services depend on this interface rather than
// on *gorm.DB so they can be exercised against any backing database.
type Store interface {
	// DB exposes the underlying handle for read-only reporting queries.
	DB() *gorm.DB
	// Transaction runs fn against a store scoped to one database
	// transaction; any error rolls the whole unit back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// Capacity store
	CreateDormitory(ctx context.Context, d *model.Dormitory) error
	GetDormitory(ctx context.Context, id int64) (*model.Dormitory, error)
	ListDormitories(ctx context.Context, gender model.Gender) ([]model.Dormitory, error)
	ListOpenDormitories(ctx context.Context, gender model.Gender) ([]model.Dormitory, error)
	SetCapacity(ctx context.Context, id int64, total, available int) error
	SetAvailableSlots(ctx context.Context, id int64, available int) error
	DeleteDormitory(ctx context.Context, id int64) error
	ReserveSlot(ctx context.Context, dormitoryID int64) (bool, error)
	ReleaseSlot(ctx context.Context, dormitoryID int64) (bool, error)

	// Assignment ledger
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	GetAssignmentByInscription(ctx context.Context, inscriptionID string) (*model.Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	CountAssignments(ctx context.Context, dormitoryID int64) (int64, error)
	DeleteAssignment(ctx context.Context, id string) error
	MoveAssignment(ctx context.Context, id string, dormitoryID int64) error

	// Inscriptions and payments
	CreateInscription(ctx context.Context, i *model.Inscription) error
	GetInscription(ctx context.Context, id string) (*model.Inscription, error)
	SetInscriptionStatus(ctx context.Context, id string, status model.InscriptionStatus) error
	DeleteInscription(ctx context.Context, id string) error
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error)
	HasSuccessfulPayment(ctx context.Context, inscriptionID string) (bool, error)
	MarkPayment(ctx context.Context, id string, status model.PaymentStatus, paidAt time.Time) error
	CreateReceipt(ctx context.Context, r *model.Receipt) error
}

// AssignmentFilter narrows ListAssignments. Zero values mean "all".
type AssignmentFilter struct {
	DormitoryID int64
	Gender      model.Gender
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) CreateDormitory(ctx context.Context, d *model.Dormitory) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create dormitory %q: %w", d.Name, err)
	}
	return nil
}

func (s *gormStore) GetDormitory(ctx context.Context, id int64) (*model.Dormitory, error) {
	var d model.Dormitory
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *gormStore) ListDormitories(ctx context.Context, gender model.Gender) ([]model.Dormitory, error) {
	var dorms []model.Dormitory
	q := s.db.WithContext(ctx).Order("name ASC")
	if gender != "" {
		q = q.Where("gender = ?", gender)
	}
	if err := q.Find(&dorms).Error; err != nil {
		return nil, fmt.Errorf("failed to list dormitories: %w", err)
	}
	return dorms, nil
}

// ListOpenDormitories returns the dormitories of the given gender that
// still have free slots, least-full first. Ties are broken by id so the
// selection order is deterministic.
func (s *gormStore) ListOpenDormitories(ctx context.Context, gender model.Gender) ([]model.Dormitory, error) {
	var dorms []model.Dormitory
	err := s.db.WithContext(ctx).
		Where("gender = ? AND available_slots > 0", gender).
		Order("available_slots DESC, id ASC").
		Find(&dorms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open dormitories: %w", err)
	}
	return dorms, nil
}

func (s *gormStore) SetCapacity(ctx context.Context, id int64, total, available int) error {
	res := s.db.WithContext(ctx).Model(&model.Dormitory{}).Where("id = ?", id).
		Updates(map[string]any{"total_capacity": total, "available_slots": available})
	if res.Error != nil {
		return fmt.Errorf("failed to update capacity for dormitory %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) SetAvailableSlots(ctx context.Context, id int64, available int) error {
	res := s.db.WithContext(ctx).Model(&model.Dormitory{}).Where("id = ?", id).
		UpdateColumn("available_slots", available)
	if res.Error != nil {
		return fmt.Errorf("failed to set available_slots for dormitory %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteDormitory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Dormitory{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete dormitory %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReserveSlot claims one slot in the dormitory with a guarded
// single-statement decrement. It returns false when the guard did not
// match, meaning the dormitory had no free slot by the time the update
// ran; callers treat that as losing the race, not as a fault.
func (s *gormStore) ReserveSlot(ctx context.Context, dormitoryID int64) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Dormitory{}).
		Where("id = ? AND available_slots > 0", dormitoryID).
		UpdateColumn("available_slots", gorm.Expr("available_slots - 1"))
	if res.Error != nil {
		return false, fmt.Errorf("failed to reserve slot in dormitory %d: %w", dormitoryID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSlot returns one slot to the dormitory. The guard keeps
// available_slots from ever exceeding total_capacity, so a duplicate
// release is absorbed rather than corrupting the counter.
func (s *gormStore) ReleaseSlot(ctx context.Context, dormitoryID int64) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Dormitory{}).
		Where("id = ? AND available_slots < total_capacity", dormitoryID).
		UpdateColumn("available_slots", gorm.Expr("available_slots + 1"))
	if res.Error != nil {
		return false, fmt.Errorf("failed to release slot in dormitory %d: %w", dormitoryID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
