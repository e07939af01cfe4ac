package payment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seminar-registration-backend/config"
	"seminar-registration-backend/internal/assignment"
	"seminar-registration-backend/internal/db"
	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/store"
)

var testPaymentConfig = config.PaymentConfig{
	FeeAmount:     25000,
	Currency:      "XOF",
	ReceiptPrefix: "TST-",
	SuccessCode:   "00",
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))
	return store.NewGormStore(testDB)
}

func newTestServices(t *testing.T) (*Service, *assignment.Service, store.Store) {
	t.Helper()
	s := newTestStore(t)
	assignments := assignment.NewService(s)
	return NewService(s, assignments, testPaymentConfig), assignments, s
}

func seedInscription(t *testing.T, s store.Store, gender model.Gender) model.Inscription {
	t.Helper()
	i := model.Inscription{
		ID:        uuid.NewString(),
		FirstName: "Awa",
		LastName:  "Diop",
		Gender:    gender,
		Status:    model.InscriptionPending,
	}
	require.NoError(t, s.CreateInscription(context.Background(), &i))
	return i
}

func seedDormitory(t *testing.T, s store.Store, gender model.Gender, total int) model.Dormitory {
	t.Helper()
	d := model.Dormitory{Name: "Dorm " + string(gender), Gender: gender, TotalCapacity: total, AvailableSlots: total}
	require.NoError(t, s.CreateDormitory(context.Background(), &d))
	return d
}

func TestCallbackSettlesPaymentAndAssigns(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	dorm := seedDormitory(t, s, model.GenderFemale, 2)
	inscription := seedInscription(t, s, model.GenderFemale)

	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, int64(25000), p.Amount)

	confirmation, err := svc.HandleCallback(ctx, p.ReferenceCode, "00")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, confirmation.Payment.Status)
	require.NotNil(t, confirmation.Receipt)
	assert.Contains(t, confirmation.Receipt.ReceiptNumber, "TST-")
	require.NotNil(t, confirmation.Housing)
	assert.Equal(t, dorm.ID, confirmation.Housing.Assignment.DormitoryID)

	updated, err := s.GetInscription(ctx, inscription.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InscriptionConfirmed, updated.Status)

	d, err := s.GetDormitory(ctx, dorm.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.AvailableSlots)
}

func TestCallbackFailureCodeMarksPaymentFailed(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	seedDormitory(t, s, model.GenderMale, 2)
	inscription := seedInscription(t, s, model.GenderMale)

	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	require.NoError(t, err)

	confirmation, err := svc.HandleCallback(ctx, p.ReferenceCode, "05")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, confirmation.Payment.Status)
	assert.Nil(t, confirmation.Housing)

	// No assignment was triggered.
	_, err = s.GetAssignmentByInscription(ctx, inscription.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCallbackRedeliveryIsHarmless(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	dorm := seedDormitory(t, s, model.GenderMale, 3)
	inscription := seedInscription(t, s, model.GenderMale)

	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	require.NoError(t, err)

	_, err = svc.HandleCallback(ctx, p.ReferenceCode, "00")
	require.NoError(t, err)

	confirmation, err := svc.HandleCallback(ctx, p.ReferenceCode, "00")
	assert.ErrorIs(t, err, ErrTerminal)
	require.NotNil(t, confirmation)
	assert.Equal(t, model.PaymentSuccess, confirmation.Payment.Status)

	d, err := s.GetDormitory(ctx, dorm.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.AvailableSlots, "redelivery must not decrement again")
}

func TestCallbackUnknownReference(t *testing.T) {
	svc, _, _ := newTestServices(t)

	_, err := svc.HandleCallback(context.Background(), uuid.NewString(), "00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFullPoolDoesNotFailPayment(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	// No dormitory of the participant's gender exists at all.
	inscription := seedInscription(t, s, model.GenderFemale)

	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	require.NoError(t, err)

	confirmation, err := svc.HandleCallback(ctx, p.ReferenceCode, "00")
	require.NoError(t, err, "a full pool must not crash the payment flow")
	assert.Equal(t, model.PaymentSuccess, confirmation.Payment.Status)
	assert.Nil(t, confirmation.Housing)
	assert.NotEmpty(t, confirmation.HousingMessage)

	updated, err := s.GetInscription(ctx, inscription.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InscriptionConfirmed, updated.Status, "payment success is recorded regardless")
}

func TestInitiateRejectsAlreadyPaidInscription(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	seedDormitory(t, s, model.GenderMale, 2)
	inscription := seedInscription(t, s, model.GenderMale)

	_, err := svc.Simulate(ctx, inscription.ID)
	require.NoError(t, err)

	_, err = svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestValidateCash(t *testing.T) {
	svc, _, s := newTestServices(t)
	ctx := context.Background()

	seedDormitory(t, s, model.GenderMale, 2)
	inscription := seedInscription(t, s, model.GenderMale)

	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentCash)
	require.NoError(t, err)

	confirmation, err := svc.ValidateCash(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, confirmation.Payment.Status)
	require.NotNil(t, confirmation.Housing)

	_, err = svc.ValidateCash(ctx, p.ID)
	assert.ErrorIs(t, err, ErrTerminal)
}

// recordingAssigner captures the trigger calls the lifecycle emits.
type recordingAssigner struct {
	calls []string
}

func (r *recordingAssigner) Assign(_ context.Context, inscriptionID string) (*assignment.Result, error) {
	r.calls = append(r.calls, inscriptionID)
	return &assignment.Result{}, nil
}

func TestSettleEmitsOneAssignTrigger(t *testing.T) {
	s := newTestStore(t)
	recorder := &recordingAssigner{}
	svc := NewService(s, recorder, testPaymentConfig)
	ctx := context.Background()

	inscription := seedInscription(t, s, model.GenderMale)
	p, err := svc.Initiate(ctx, inscription.ID, model.PaymentOnline)
	require.NoError(t, err)

	_, err = svc.HandleCallback(ctx, p.ReferenceCode, "00")
	require.NoError(t, err)

	_, err = svc.HandleCallback(ctx, p.ReferenceCode, "00")
	assert.ErrorIs(t, err, ErrTerminal)

	assert.Equal(t, []string{inscription.ID}, recorder.calls,
		"one settled payment emits exactly one assign trigger")
}
