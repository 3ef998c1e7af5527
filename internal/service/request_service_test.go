package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRequestStore struct {
	mock.Mock
}

func (m *MockRequestStore) Create(ctx context.Context, req *model.BloodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestStore) GetByID(ctx context.Context, id string) (*model.BloodRequest, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.BloodRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRequestStore) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]model.BloodRequest, int, error) {
	args := m.Called(ctx, hospitalID, limit, offset)
	return args.Get(0).([]model.BloodRequest), args.Int(1), args.Error(2)
}

func (m *MockRequestStore) ListAll(ctx context.Context, limit, offset int) ([]model.BloodRequest, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.BloodRequest), args.Int(1), args.Error(2)
}

func (m *MockRequestStore) UpdateStatus(ctx context.Context, id string, newStatus model.RequestStatus, fulfilledBy *string, expectedVersion int) (*model.BloodRequest, error) {
	args := m.Called(ctx, id, newStatus, fulfilledBy, expectedVersion)
	if v := args.Get(0); v != nil {
		return v.(*model.BloodRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDonorStore struct {
	mock.Mock
}

func (m *MockDonorStore) GetByID(ctx context.Context, id string) (*model.Donor, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Donor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDonorStore) GetByUserID(ctx context.Context, userID string) (*model.Donor, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*model.Donor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDonorStore) GetDonors(ctx context.Context, filter model.DonorFilter) ([]model.Donor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Donor), args.Error(1)
}

func (m *MockDonorStore) SetAvailability(ctx context.Context, donorID string, available bool) error {
	args := m.Called(ctx, donorID, available)
	return args.Error(0)
}

func (m *MockDonorStore) RecordDonation(ctx context.Context, donorID string, donatedAt time.Time) error {
	args := m.Called(ctx, donorID, donatedAt)
	return args.Error(0)
}

type MockHospitalStore struct {
	mock.Mock
}

func (m *MockHospitalStore) GetByID(ctx context.Context, id string) (*model.Hospital, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Hospital), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHospitalStore) GetByUserID(ctx context.Context, userID string) (*model.Hospital, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.(*model.Hospital), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRewardStore struct {
	mock.Mock
}

func (m *MockRewardStore) GetByDonor(ctx context.Context, donorID string) (*model.Reward, error) {
	args := m.Called(ctx, donorID)
	if v := args.Get(0); v != nil {
		return v.(*model.Reward), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRewardStore) AddPoints(ctx context.Context, donorID string, points int) (*model.Reward, error) {
	args := m.Called(ctx, donorID, points)
	if v := args.Get(0); v != nil {
		return v.(*model.Reward), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, notificationType, title, message string, relatedRequestID *string) {
	m.Called(ctx, userID, notificationType, title, message, relatedRequestID)
}

type serviceMocks struct {
	requests  *MockRequestStore
	donors    *MockDonorStore
	hospitals *MockHospitalStore
	rewards   *MockRewardStore
	notifier  *MockNotifier
}

func newTestService(t *testing.T) (*RequestService, *serviceMocks) {
	t.Helper()

	m := &serviceMocks{
		requests:  new(MockRequestStore),
		donors:    new(MockDonorStore),
		hospitals: new(MockHospitalStore),
		rewards:   new(MockRewardStore),
		notifier:  new(MockNotifier),
	}

	svc := NewRequestService(m.requests, m.donors, m.hospitals, m.rewards, m.notifier, zap.NewNop())
	return svc, m
}

var testHospital = &model.Hospital{
	ID:     "hosp-1",
	UserID: "hosp-user-1",
	City:   "Mumbai",
	State:  "Maharashtra",
}

func TestCreateRequestCriticalDeadline(t *testing.T) {
	svc, m := newTestService(t)

	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return createdAt }

	m.hospitals.On("GetByUserID", mock.Anything, "hosp-user-1").Return(testHospital, nil)
	m.requests.On("Create", mock.Anything, mock.AnythingOfType("*model.BloodRequest")).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(*model.BloodRequest)
			req.ID = "req-1"
			req.Status = model.StatusPending
			req.Version = 1
		}).
		Return(nil)

	matchedDonor := model.Donor{
		ID:        "donor-1",
		UserID:    "donor-user-1",
		BloodType: model.BloodTypeOPositive,
		City:      "Mumbai",
		State:     "Maharashtra",
		Available: true,
	}
	m.donors.On("GetDonors", mock.Anything, mock.Anything).Return([]model.Donor{matchedDonor}, nil)
	m.notifier.On("Notify", mock.Anything, "donor-user-1", model.NotificationTypeMatchFound,
		mock.Anything, mock.Anything, mock.Anything).Return()

	req, candidates, err := svc.CreateRequest(context.Background(), "hosp-user-1", &model.BloodRequestCreate{
		PatientName: "Asha Rao",
		BloodType:   "O+",
		UnitsNeeded: 2,
		Urgency:     "critical",
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, createdAt, req.CreatedAt)
	assert.Equal(t, createdAt.Add(1*time.Hour), req.RequiredBy)
	assert.True(t, req.RequiredBy.After(req.CreatedAt))

	require.Len(t, candidates, 1)
	assert.Equal(t, "donor-1", candidates[0].Donor.ID)
	m.notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestCreateRequestRejectsBadEnums(t *testing.T) {
	svc, m := newTestService(t)
	m.hospitals.On("GetByUserID", mock.Anything, "hosp-user-1").Return(testHospital, nil)

	_, _, err := svc.CreateRequest(context.Background(), "hosp-user-1", &model.BloodRequestCreate{
		PatientName: "Asha Rao",
		BloodType:   "Z+",
		UnitsNeeded: 1,
		Urgency:     "high",
	})
	assert.ErrorIs(t, err, model.ErrInvalidBloodType)

	_, _, err = svc.CreateRequest(context.Background(), "hosp-user-1", &model.BloodRequestCreate{
		PatientName: "Asha Rao",
		BloodType:   "O+",
		UnitsNeeded: 1,
		Urgency:     "asap",
	})
	assert.ErrorIs(t, err, model.ErrInvalidUrgency)

	m.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequestWithoutHospitalProfile(t *testing.T) {
	svc, m := newTestService(t)
	m.hospitals.On("GetByUserID", mock.Anything, "someone").Return(nil, nil)

	_, _, err := svc.CreateRequest(context.Background(), "someone", &model.BloodRequestCreate{
		PatientName: "Asha Rao",
		BloodType:   "O+",
		UnitsNeeded: 1,
		Urgency:     "low",
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDonorRespondMovesRequestToMatched(t *testing.T) {
	svc, m := newTestService(t)

	donor := &model.Donor{ID: "donor-1", UserID: "donor-user-1", BloodType: model.BloodTypeAPositive, City: "Mumbai"}
	pending := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		Status: model.StatusPending, Version: 1,
	}
	matched := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		Status: model.StatusMatched, Version: 2,
	}

	m.donors.On("GetByUserID", mock.Anything, "donor-user-1").Return(donor, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(pending, nil)
	m.requests.On("UpdateStatus", mock.Anything, "req-1", model.StatusMatched, (*string)(nil), 1).
		Return(matched, nil)
	m.hospitals.On("GetByID", mock.Anything, "hosp-1").Return(testHospital, nil)
	m.notifier.On("Notify", mock.Anything, "hosp-user-1", model.NotificationTypeDonorResponded,
		mock.Anything, mock.Anything, mock.Anything).Return()

	req, err := svc.DonorRespond(context.Background(), "req-1", "donor-user-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusMatched, req.Status)
	m.notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestFulfillSetsFulfilledByAtomically(t *testing.T) {
	svc, m := newTestService(t)

	donatedAt := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return donatedAt }

	donor := &model.Donor{ID: "donor-1", UserID: "donor-user-1", BloodType: model.BloodTypeOPositive}
	matched := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		BloodType: model.BloodTypeOPositive, UnitsNeeded: 2,
		Status: model.StatusMatched, Version: 2,
	}
	donorID := "donor-1"
	fulfilled := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		BloodType: model.BloodTypeOPositive, UnitsNeeded: 2,
		Status: model.StatusFulfilled, FulfilledBy: &donorID, Version: 3,
	}

	m.donors.On("GetByID", mock.Anything, "donor-1").Return(donor, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(matched, nil)
	m.requests.On("UpdateStatus", mock.Anything, "req-1", model.StatusFulfilled, &donorID, 2).
		Return(fulfilled, nil)
	m.donors.On("RecordDonation", mock.Anything, "donor-1", donatedAt).Return(nil)
	m.rewards.On("AddPoints", mock.Anything, "donor-1", 200).
		Return(&model.Reward{DonorID: "donor-1", Points: 200, Level: 1}, nil)
	m.hospitals.On("GetByID", mock.Anything, "hosp-1").Return(testHospital, nil)
	m.notifier.On("Notify", mock.Anything, mock.Anything, model.NotificationTypeRequestFulfilled,
		mock.Anything, mock.Anything, mock.Anything).Return()

	req, err := svc.Fulfill(context.Background(), "req-1", "donor-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFulfilled, req.Status)
	require.NotNil(t, req.FulfilledBy)
	assert.Equal(t, "donor-1", *req.FulfilledBy)

	m.donors.AssertCalled(t, "RecordDonation", mock.Anything, "donor-1", donatedAt)
	m.rewards.AssertCalled(t, "AddPoints", mock.Anything, "donor-1", 200)
	// Donor and hospital are both told.
	m.notifier.AssertNumberOfCalls(t, "Notify", 2)
}

func TestFulfillCancelledRequestIsIllegal(t *testing.T) {
	svc, m := newTestService(t)

	donor := &model.Donor{ID: "donor-1", UserID: "donor-user-1"}
	cancelled := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusCancelled, Version: 3,
	}

	m.donors.On("GetByID", mock.Anything, "donor-1").Return(donor, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(cancelled, nil)

	_, err := svc.Fulfill(context.Background(), "req-1", "donor-1")
	require.Error(t, err)
	require.True(t, model.IsIllegalTransition(err))

	var ite *model.IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.StatusCancelled, ite.From)
	assert.Equal(t, model.StatusFulfilled, ite.To)

	m.requests.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A fulfill racing a cancel: the version check loses, and the re-read shows
// the request already in a terminal state, so the loser gets an illegal
// transition rather than a bare conflict.
func TestFulfillLosesRaceAgainstCancel(t *testing.T) {
	svc, m := newTestService(t)

	donor := &model.Donor{ID: "donor-1", UserID: "donor-user-1"}
	matched := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusMatched, Version: 2,
	}
	nowCancelled := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusCancelled, Version: 3,
	}
	donorID := "donor-1"

	m.donors.On("GetByID", mock.Anything, "donor-1").Return(donor, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(matched, nil).Once()
	m.requests.On("UpdateStatus", mock.Anything, "req-1", model.StatusFulfilled, &donorID, 2).
		Return(nil, model.ErrConflict)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(nowCancelled, nil).Once()

	_, err := svc.Fulfill(context.Background(), "req-1", "donor-1")
	require.Error(t, err)
	require.True(t, model.IsIllegalTransition(err))

	var ite *model.IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.StatusCancelled, ite.From)
}

func TestTransitionConflictWhenStillLegal(t *testing.T) {
	svc, m := newTestService(t)

	donor := &model.Donor{ID: "donor-1", UserID: "donor-user-1"}
	matchedV2 := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusMatched, Version: 2,
	}
	matchedV3 := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusMatched, Version: 3,
	}
	donorID := "donor-1"

	m.donors.On("GetByID", mock.Anything, "donor-1").Return(donor, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(matchedV2, nil).Once()
	m.requests.On("UpdateStatus", mock.Anything, "req-1", model.StatusFulfilled, &donorID, 2).
		Return(nil, model.ErrConflict)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(matchedV3, nil).Once()

	_, err := svc.Fulfill(context.Background(), "req-1", "donor-1")
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestCancelByOwningHospital(t *testing.T) {
	svc, m := newTestService(t)

	pending := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		Status: model.StatusPending, Version: 1,
	}
	cancelled := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1", PatientName: "Asha Rao",
		Status: model.StatusCancelled, Version: 2,
	}

	m.hospitals.On("GetByUserID", mock.Anything, "hosp-user-1").Return(testHospital, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(pending, nil)
	m.requests.On("UpdateStatus", mock.Anything, "req-1", model.StatusCancelled, (*string)(nil), 1).
		Return(cancelled, nil)
	m.notifier.On("Notify", mock.Anything, "hosp-user-1", model.NotificationTypeRequestCancelled,
		mock.Anything, mock.Anything, mock.Anything).Return()

	req, err := svc.Cancel(context.Background(), "req-1", "hosp-user-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, req.Status)
}

func TestCancelByOtherHospitalNotFound(t *testing.T) {
	svc, m := newTestService(t)

	otherHospital := &model.Hospital{ID: "hosp-2", UserID: "hosp-user-2"}
	pending := &model.BloodRequest{
		ID: "req-1", HospitalID: "hosp-1",
		Status: model.StatusPending, Version: 1,
	}

	m.hospitals.On("GetByUserID", mock.Anything, "hosp-user-2").Return(otherHospital, nil)
	m.requests.On("GetByID", mock.Anything, "req-1").Return(pending, nil)

	_, err := svc.Cancel(context.Background(), "req-1", "hosp-user-2")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFindCandidatesUnknownRequest(t *testing.T) {
	svc, m := newTestService(t)
	m.requests.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.FindCandidates(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
