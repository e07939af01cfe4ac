package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seminar-registration-backend/config"
	"seminar-registration-backend/internal/assignment"
	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/store"
)

// Lifecycle errors, matched with errors.Is at the API boundary.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyPaid = errors.New("inscription already has a successful payment")
	ErrTerminal    = errors.New("payment already in a terminal state")
)

// Assigner is the slice of the assignment service the payment flow
// needs. Kept narrow so tests can capture trigger calls with a fake.
type Assigner interface {
	Assign(ctx context.Context, inscriptionID string) (*assignment.Result, error)
}

// Service drives the payment state machine and emits the "assign now"
// trigger when a payment reaches success.
type Service struct {
	store    store.Store
	assigner Assigner
	cfg      config.PaymentConfig
}

// NewService creates a payment service.
func NewService(s store.Store, a Assigner, cfg config.PaymentConfig) *Service {
	return &Service{store: s, assigner: a, cfg: cfg}
}

// Confirmation is the outcome of a payment reaching a terminal state.
type Confirmation struct {
	Payment model.Payment      `json:"payment"`
	Receipt *model.Receipt     `json:"receipt,omitempty"`
	Housing *assignment.Result `json:"housing,omitempty"`
	// HousingMessage reports a recoverable assignment problem (for
	// example a full gender pool) without failing the payment.
	HousingMessage string `json:"housing_message,omitempty"`
}

// Initiate opens a pending payment of the fixed seminar fee for the
// inscription. An inscription that already paid successfully is
// rejected.
func (s *Service) Initiate(ctx context.Context, inscriptionID string, method model.PaymentMethod) (*model.Payment, error) {
	if _, err := s.store.GetInscription(ctx, inscriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inscription %s: %w", inscriptionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load inscription %s: %w", inscriptionID, err)
	}

	paid, err := s.store.HasSuccessfulPayment(ctx, inscriptionID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, fmt.Errorf("inscription %s: %w", inscriptionID, ErrAlreadyPaid)
	}

	p := model.Payment{
		ID:            uuid.NewString(),
		InscriptionID: inscriptionID,
		Amount:        s.cfg.FeeAmount,
		Currency:      s.cfg.Currency,
		Method:        method,
		Status:        model.PaymentPending,
		ReferenceCode: uuid.NewString(),
	}
	if err := s.store.CreatePayment(ctx, &p); err != nil {
		return nil, err
	}
	log.Printf("payment %s initiated for inscription %s (%d %s via %s)",
		p.ID, inscriptionID, p.Amount, p.Currency, method)
	return &p, nil
}

// HandleCallback processes the gateway's notification for the payment
// identified by its reference code. The transition is terminal: the
// gateway's success code moves the payment to success, anything else to
// failed. A payment already in a terminal state is left untouched and
// reported as ErrTerminal so redelivered callbacks stay harmless.
func (s *Service) HandleCallback(ctx context.Context, reference, statusCode string) (*Confirmation, error) {
	p, err := s.store.GetPaymentByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment reference %s: %w", reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payment by reference %s: %w", reference, err)
	}

	if p.Status != model.PaymentPending {
		return &Confirmation{Payment: *p}, fmt.Errorf("payment %s is %s: %w", p.ID, p.Status, ErrTerminal)
	}

	if statusCode != s.cfg.SuccessCode {
		if err := s.store.MarkPayment(ctx, p.ID, model.PaymentFailed, time.Now().UTC()); err != nil {
			return nil, err
		}
		p.Status = model.PaymentFailed
		log.Printf("payment %s failed (gateway status %q)", p.ID, statusCode)
		return &Confirmation{Payment: *p}, nil
	}

	return s.settle(ctx, p)
}

// ValidateCash confirms a cash payment after an operator counted the
// money. Only pending payments can be validated.
func (s *Service) ValidateCash(ctx context.Context, paymentID string) (*Confirmation, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if p.Status != model.PaymentPending {
		return nil, fmt.Errorf("payment %s is %s: %w", p.ID, p.Status, ErrTerminal)
	}
	return s.settle(ctx, p)
}

// Simulate creates and immediately settles a payment for the
// inscription. Operator tooling for rehearsals and manual repair.
func (s *Service) Simulate(ctx context.Context, inscriptionID string) (*Confirmation, error) {
	p, err := s.Initiate(ctx, inscriptionID, model.PaymentCash)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, p)
}

// settle moves a pending payment to success and runs the success side
// effects: confirm the inscription, issue a receipt, and trigger the
// dormitory assignment. A full gender pool is reported in the
// confirmation but never fails the settled payment.
func (s *Service) settle(ctx context.Context, p *model.Payment) (*Confirmation, error) {
	now := time.Now().UTC()
	if err := s.store.MarkPayment(ctx, p.ID, model.PaymentSuccess, now); err != nil {
		return nil, err
	}
	p.Status = model.PaymentSuccess
	p.PaymentDate = &now

	if err := s.store.SetInscriptionStatus(ctx, p.InscriptionID, model.InscriptionConfirmed); err != nil {
		return nil, err
	}

	receipt := model.Receipt{
		ID:            uuid.NewString(),
		PaymentID:     p.ID,
		ReceiptNumber: fmt.Sprintf("%s%d", s.cfg.ReceiptPrefix, now.UnixMilli()),
	}
	if err := s.store.CreateReceipt(ctx, &receipt); err != nil {
		return nil, err
	}

	confirmation := &Confirmation{Payment: *p, Receipt: &receipt}

	housing, err := s.assigner.Assign(ctx, p.InscriptionID)
	switch {
	case err == nil:
		confirmation.Housing = housing
	case errors.Is(err, assignment.ErrCapacityExhausted),
		errors.Is(err, assignment.ErrInvalidGender):
		confirmation.HousingMessage = err.Error()
		log.Printf("payment %s settled but dormitory assignment deferred: %v", p.ID, err)
	default:
		// Infrastructure failure: the payment stays settled, the
		// operator retries the idempotent assign later.
		confirmation.HousingMessage = "dormitory assignment failed, retry pending"
		log.Printf("payment %s settled but dormitory assignment errored: %v", p.ID, err)
	}

	log.Printf("payment %s settled, receipt %s issued", p.ID, receipt.ReceiptNumber)
	return confirmation, nil
}
