package assignment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/store"
)

// Service is the capacity-constrained assignment engine. All mutations
// of dormitory capacity go through it, paired with assignment ledger
// writes inside one transaction.
type Service struct {
	store store.Store
}

// NewService creates an assignment service on top of the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Result is the outcome of a successful Assign call.
type Result struct {
	Dormitory       model.Dormitory  `json:"dormitory"`
	Assignment      model.Assignment `json:"assignment"`
	AlreadyAssigned bool             `json:"already_assigned"`
}

// Assign ensures the inscription holds exactly one bed in a dormitory
// matching its gender. It is idempotent: a second call for the same
// inscription returns the existing assignment with AlreadyAssigned set
// and changes nothing, which makes duplicate payment callbacks safe.
//
// The gender is read from the inscription row, never trusted from the
// caller. The least-full open dormitory is preferred, ties broken by
// lowest id; losing the slot race on one candidate moves on to the
// next.
func (s *Service) Assign(ctx context.Context, inscriptionID string) (*Result, error) {
	inscription, err := s.store.GetInscription(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inscription %s: %w", inscriptionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inscription %s: %w", inscriptionID, err)
	}

	if !inscription.Gender.Valid() {
		return nil, fmt.Errorf("inscription %s: %w", inscriptionID, ErrInvalidGender)
	}

	if existing, err := s.store.GetAssignmentByInscription(ctx, inscriptionID); err == nil {
		return &Result{
			Dormitory:       existing.Dormitory,
			Assignment:      *existing,
			AlreadyAssigned: true,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}

	candidates, err := s.store.ListOpenDormitories(ctx, inscription.Gender)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("gender %s: %w", inscription.Gender, ErrCapacityExhausted)
	}

	for _, candidate := range candidates {
		assignment := model.Assignment{
			ID:            uuid.NewString(),
			InscriptionID: inscriptionID,
			DormitoryID:   candidate.ID,
			AssignedAt:    time.Now().UTC(),
		}

		err := s.store.Transaction(ctx, func(tx store.Store) error {
			if err := tx.CreateAssignment(ctx, &assignment); err != nil {
				return err
			}
			reserved, err := tx.ReserveSlot(ctx, candidate.ID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCapacityUpdate, err)
			}
			if !reserved {
				return errSlotRaceLost
			}
			return nil
		})

		switch {
		case err == nil:
			dorm, derr := s.store.GetDormitory(ctx, candidate.ID)
			if derr != nil {
				dorm = &candidate
				dorm.AvailableSlots--
			}
			log.Printf("assigned inscription %s to dormitory %q (%d slots left)",
				inscriptionID, dorm.Name, dorm.AvailableSlots)
			return &Result{Dormitory: *dorm, Assignment: assignment}, nil

		case errors.Is(err, errSlotRaceLost):
			log.Printf("dormitory %q filled up during assignment of %s, trying next candidate",
				candidate.Name, inscriptionID)
			continue

		default:
			// A concurrent Assign for the same inscription may have won
			// the unique index on inscription_id; converge on its result
			// instead of reporting the violation.
			if existing, gerr := s.store.GetAssignmentByInscription(ctx, inscriptionID); gerr == nil {
				return &Result{
					Dormitory:       existing.Dormitory,
					Assignment:      *existing,
					AlreadyAssigned: true,
				}, nil
			}
			return nil, err
		}
	}

	return nil, fmt.Errorf("gender %s: %w", inscription.Gender, ErrCapacityExhausted)
}

// Unassign deletes one assignment and releases its slot as a single
// transactional unit.
func (s *Service) Unassign(ctx context.Context, assignmentID string) error {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assignment %s: %w", assignmentID, ErrNotFound)
		}
		return fmt.Errorf("failed to load assignment %s: %w", assignmentID, err)
	}

	return s.release(ctx, a)
}

func (s *Service) release(ctx context.Context, a *model.Assignment) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteAssignment(ctx, a.ID); err != nil {
			return err
		}
		released, err := tx.ReleaseSlot(ctx, a.DormitoryID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityUpdate, err)
		}
		if !released {
			// Counter already at total_capacity: drift from an earlier
			// partial failure. The delete still stands; reconciliation
			// will agree with the counter as it is now.
			log.Printf("release of assignment %s found dormitory %d already at full availability",
				a.ID, a.DormitoryID)
		}
		return nil
	})
}

// Reassign moves an inscription's assignment to the given dormitory,
// claiming a destination slot with the same guarded decrement as Assign
// and releasing the source slot in the same transaction. Gender match
// against the destination is deliberately not re-checked; callers offer
// only matching destinations.
func (s *Service) Reassign(ctx context.Context, inscriptionID string, newDormitoryID int64) (*Result, error) {
	current, err := s.store.GetAssignmentByInscription(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inscription %s: %w", inscriptionID, ErrNoActiveAssignment)
		}
		return nil, fmt.Errorf("failed to load assignment for inscription %s: %w", inscriptionID, err)
	}

	if current.DormitoryID == newDormitoryID {
		return &Result{Dormitory: current.Dormitory, Assignment: *current, AlreadyAssigned: true}, nil
	}

	dest, err := s.store.GetDormitory(ctx, newDormitoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dormitory %d: %w", newDormitoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load dormitory %d: %w", newDormitoryID, err)
	}
	if dest.AvailableSlots <= 0 {
		return nil, fmt.Errorf("dormitory %q: %w", dest.Name, ErrCapacityExhausted)
	}

	sourceID := current.DormitoryID
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.MoveAssignment(ctx, current.ID, newDormitoryID); err != nil {
			return err
		}
		reserved, err := tx.ReserveSlot(ctx, newDormitoryID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityUpdate, err)
		}
		if !reserved {
			return fmt.Errorf("dormitory %q: %w", dest.Name, ErrCapacityExhausted)
		}
		if _, err := tx.ReleaseSlot(ctx, sourceID); err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityUpdate, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	moved, err := s.store.GetAssignment(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload assignment %s: %w", current.ID, err)
	}
	log.Printf("reassigned inscription %s from dormitory %d to %q", inscriptionID, sourceID, dest.Name)
	return &Result{Dormitory: moved.Dormitory, Assignment: *moved}, nil
}

// ReleaseForInscription releases any assignment held by the inscription
// and reports whether one existed. Called before an inscription row is
// deleted, while the assignment's dormitory_id is still resolvable; a
// later failure of the inscription delete leaves the slot correctly
// freed rather than occupied by a ghost.
func (s *Service) ReleaseForInscription(ctx context.Context, inscriptionID string) (bool, error) {
	a, err := s.store.GetAssignmentByInscription(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load assignment for inscription %s: %w", inscriptionID, err)
	}
	if err := s.release(ctx, a); err != nil {
		return false, err
	}
	return true, nil
}
