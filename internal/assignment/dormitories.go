package assignment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/store"
)

// CreateDormitory opens a new capacity pool with every slot available.
func (s *Service) CreateDormitory(ctx context.Context, name string, gender model.Gender, totalCapacity int) (*model.Dormitory, error) {
	if !gender.Valid() {
		return nil, fmt.Errorf("gender %q: %w", gender, ErrInvalidGender)
	}
	if totalCapacity <= 0 {
		return nil, fmt.Errorf("total capacity must be positive, got %d", totalCapacity)
	}

	d := model.Dormitory{
		Name:           name,
		Gender:         gender,
		TotalCapacity:  totalCapacity,
		AvailableSlots: totalCapacity,
	}
	if err := s.store.CreateDormitory(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SetTotalCapacity changes a dormitory's total capacity and recomputes
// available_slots from live occupancy. Edits that would leave fewer
// beds than current occupants are rejected.
func (s *Service) SetTotalCapacity(ctx context.Context, dormitoryID int64, totalCapacity int) (*model.Dormitory, error) {
	if _, err := s.store.GetDormitory(ctx, dormitoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dormitory %d: %w", dormitoryID, ErrNotFound)
		}
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		occupied, err := tx.CountAssignments(ctx, dormitoryID)
		if err != nil {
			return err
		}
		if int64(totalCapacity) < occupied {
			return fmt.Errorf("dormitory %d has %d occupants: %w", dormitoryID, occupied, ErrCapacityBelowOccupancy)
		}
		return tx.SetCapacity(ctx, dormitoryID, totalCapacity, totalCapacity-int(occupied))
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetDormitory(ctx, dormitoryID)
}

// DeleteDormitory removes an empty dormitory. Deletion is forbidden
// while any assignment references it.
func (s *Service) DeleteDormitory(ctx context.Context, dormitoryID int64) error {
	occupied, err := s.store.CountAssignments(ctx, dormitoryID)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return fmt.Errorf("dormitory %d: %w", dormitoryID, ErrDormitoryOccupied)
	}
	if err := s.store.DeleteDormitory(ctx, dormitoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("dormitory %d: %w", dormitoryID, ErrNotFound)
		}
		return err
	}
	return nil
}

// CapacityReport describes one dormitory's stored availability against
// the recount from the assignment ledger.
type CapacityReport struct {
	DormitoryID int64  `json:"dormitory_id"`
	Name        string `json:"name"`
	Stored      int    `json:"stored"`
	Actual      int    `json:"actual"`
	Corrected   bool   `json:"corrected"`
}

// RecomputeCapacities recounts assignment rows per dormitory, rewrites
// any drifted available_slots to total_capacity minus the recount, and
// reports every dormitory checked. Safety net for the rare paths where
// the paired writes could not run in one transaction; safe to run at
// any time.
func (s *Service) RecomputeCapacities(ctx context.Context) ([]CapacityReport, error) {
	dorms, err := s.store.ListDormitories(ctx, "")
	if err != nil {
		return nil, err
	}

	reports := make([]CapacityReport, 0, len(dorms))
	for _, d := range dorms {
		count, err := s.store.CountAssignments(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		actual := d.TotalCapacity - int(count)

		report := CapacityReport{
			DormitoryID: d.ID,
			Name:        d.Name,
			Stored:      d.AvailableSlots,
			Actual:      actual,
		}
		if actual != d.AvailableSlots {
			if err := s.store.SetAvailableSlots(ctx, d.ID, actual); err != nil {
				return nil, err
			}
			report.Corrected = true
			log.Printf("capacity drift corrected for dormitory %q: %d -> %d", d.Name, d.AvailableSlots, actual)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
