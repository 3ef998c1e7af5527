package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourorg/lifelink/internal/lifecycle"
	"github.com/yourorg/lifelink/internal/matching"
	"github.com/yourorg/lifelink/internal/model"

	"go.uber.org/zap"
)

// RequestService orchestrates the emergency blood request lifecycle: it
// stamps deadlines at creation, drives status transitions through the state
// machine, runs the matching engine, and hands events to the notifier.
type RequestService struct {
	requestStore  RequestStore
	donorStore    DonorStore
	hospitalStore HospitalStore
	rewardStore   RewardStore
	notifier      Notifier
	logger        *zap.Logger
	now           func() time.Time
}

// NewRequestService creates a new blood request service
func NewRequestService(
	requestStore RequestStore,
	donorStore DonorStore,
	hospitalStore HospitalStore,
	rewardStore RewardStore,
	notifier Notifier,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestStore:  requestStore,
		donorStore:    donorStore,
		hospitalStore: hospitalStore,
		rewardStore:   rewardStore,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateRequest validates the input enums, derives the fulfillment deadline,
// persists the request as pending, and runs an initial matching pass,
// notifying every candidate donor. A request with no candidates is still
// created; matching can be re-run at any time.
func (s *RequestService) CreateRequest(ctx context.Context, userID string, input *model.BloodRequestCreate) (*model.BloodRequest, []matching.Candidate, error) {
	hospital, err := s.hospitalStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if hospital == nil {
		return nil, nil, model.ErrNotFound
	}

	bloodType, err := model.ParseBloodType(input.BloodType)
	if err != nil {
		return nil, nil, err
	}

	urgency, err := model.ParseUrgencyLevel(input.Urgency)
	if err != nil {
		return nil, nil, err
	}

	createdAt := s.now()
	requiredBy, err := lifecycle.ComputeRequiredBy(createdAt, urgency)
	if err != nil {
		return nil, nil, err
	}

	req := &model.BloodRequest{
		HospitalID:  hospital.ID,
		PatientName: input.PatientName,
		BloodType:   bloodType,
		UnitsNeeded: input.UnitsNeeded,
		Urgency:     urgency,
		Notes:       input.Notes,
		RequiredBy:  requiredBy,
		CreatedAt:   createdAt,
	}

	if err := s.requestStore.Create(ctx, req); err != nil {
		return nil, nil, err
	}

	candidates, err := s.matchCandidates(ctx, req, hospital)
	if err != nil {
		// The request exists; a failed matching pass is reported but can
		// be retried via FindCandidates.
		s.logger.Warn("Initial matching pass failed",
			zap.String("request_id", req.ID),
			zap.Error(err))
		return req, nil, nil
	}

	for _, candidate := range candidates {
		s.notifier.Notify(
			ctx,
			candidate.Donor.UserID,
			model.NotificationTypeMatchFound,
			"Blood request matches your profile",
			fmt.Sprintf("A hospital in %s urgently needs %s blood (%d units, needed by %s).",
				hospital.City, req.BloodType, req.UnitsNeeded, req.RequiredBy.Format(time.RFC1123)),
			&req.ID,
		)
	}

	s.logger.Info("Blood request created",
		zap.String("request_id", req.ID),
		zap.String("hospital_id", hospital.ID),
		zap.String("urgency", urgency.String()),
		zap.Int("candidates", len(candidates)))

	return req, candidates, nil
}

// GetRequest retrieves a blood request by id
func (s *RequestService) GetRequest(ctx context.Context, id string) (*model.BloodRequest, error) {
	req, err := s.requestStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, model.ErrNotFound
	}
	return req, nil
}

// ListRequests retrieves blood requests for the acting hospital user
func (s *RequestService) ListRequests(ctx context.Context, userID string, limit, offset int) (*model.BloodRequestListResponse, error) {
	hospital, err := s.hospitalStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, model.ErrNotFound
	}

	requests, total, err := s.requestStore.ListByHospital(ctx, hospital.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &model.BloodRequestListResponse{Requests: requests, Total: total}, nil
}

// ListAllRequests retrieves all blood requests (admin view)
func (s *RequestService) ListAllRequests(ctx context.Context, limit, offset int) (*model.BloodRequestListResponse, error) {
	requests, total, err := s.requestStore.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &model.BloodRequestListResponse{Requests: requests, Total: total}, nil
}

// FindCandidates re-runs the matching engine for a request against the
// current donor pool. It is a pure query: no notifications are sent and no
// state changes, so it is safe to call repeatedly.
func (s *RequestService) FindCandidates(ctx context.Context, requestID string) ([]matching.Candidate, error) {
	req, err := s.requestStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, model.ErrNotFound
	}

	hospital, err := s.hospitalStore.GetByID(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, model.ErrNotFound
	}

	return s.matchCandidates(ctx, req, hospital)
}

// DonorRespond records a donor accepting a pending request, moving it to
// matched and notifying the owning hospital
func (s *RequestService) DonorRespond(ctx context.Context, requestID, userID string) (*model.BloodRequest, error) {
	donor, err := s.donorStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, model.ErrNotFound
	}

	req, err := s.transition(ctx, requestID, model.StatusMatched, nil)
	if err != nil {
		return nil, err
	}

	hospital, err := s.hospitalStore.GetByID(ctx, req.HospitalID)
	if err == nil && hospital != nil {
		s.notifier.Notify(
			ctx,
			hospital.UserID,
			model.NotificationTypeDonorResponded,
			"A donor responded to your request",
			fmt.Sprintf("A %s donor in %s accepted the request for %s.",
				donor.BloodType, donor.City, req.PatientName),
			&req.ID,
		)
	}

	return req, nil
}

// Fulfill confirms a donor's contribution: the request moves from matched to
// fulfilled with the donor id attached atomically, the donor's record gains
// the donation, and reward points are credited.
func (s *RequestService) Fulfill(ctx context.Context, requestID, donorID string) (*model.BloodRequest, error) {
	donor, err := s.donorStore.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if donor == nil {
		return nil, model.ErrNotFound
	}

	req, err := s.transition(ctx, requestID, model.StatusFulfilled, &donorID)
	if err != nil {
		return nil, err
	}

	if err := s.donorStore.RecordDonation(ctx, donorID, s.now()); err != nil {
		s.logger.Error("Failed to record donation on donor profile",
			zap.String("donor_id", donorID),
			zap.Error(err))
	}

	if _, err := s.rewardStore.AddPoints(ctx, donorID, model.RewardPointsPerUnit*req.UnitsNeeded); err != nil {
		s.logger.Error("Failed to credit reward points",
			zap.String("donor_id", donorID),
			zap.Error(err))
	}

	s.notifier.Notify(
		ctx,
		donor.UserID,
		model.NotificationTypeRequestFulfilled,
		"Thank you for donating",
		fmt.Sprintf("Your donation of %s blood for %s has been confirmed.", req.BloodType, req.PatientName),
		&req.ID,
	)

	hospital, err := s.hospitalStore.GetByID(ctx, req.HospitalID)
	if err == nil && hospital != nil {
		s.notifier.Notify(
			ctx,
			hospital.UserID,
			model.NotificationTypeRequestFulfilled,
			"Blood request fulfilled",
			fmt.Sprintf("The request for %s (%s) has been fulfilled.", req.PatientName, req.BloodType),
			&req.ID,
		)
	}

	return req, nil
}

// Cancel withdraws a request on behalf of its owning hospital. Fulfilled
// requests can no longer be cancelled; cancellation is terminal and the
// record is retained for audit.
func (s *RequestService) Cancel(ctx context.Context, requestID, userID string) (*model.BloodRequest, error) {
	hospital, err := s.hospitalStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, model.ErrNotFound
	}

	current, err := s.requestStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrNotFound
	}
	if current.HospitalID != hospital.ID {
		return nil, model.ErrNotFound
	}

	req, err := s.transition(ctx, requestID, model.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(
		ctx,
		hospital.UserID,
		model.NotificationTypeRequestCancelled,
		"Blood request cancelled",
		fmt.Sprintf("The request for %s (%s) has been cancelled.", req.PatientName, req.BloodType),
		&req.ID,
	)

	return req, nil
}

// transition applies one state-machine step with optimistic concurrency:
// read the current status and version, validate the step, then update
// conditionally on that version. A concurrent writer surfaces as
// ErrConflict; the re-read distinguishes a genuine lost update from a race
// that already drove the request into a state the step is illegal from.
func (s *RequestService) transition(ctx context.Context, requestID string, to model.RequestStatus, fulfilledBy *string) (*model.BloodRequest, error) {
	current, err := s.requestStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrNotFound
	}

	if err := lifecycle.ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.requestStore.UpdateStatus(ctx, requestID, to, fulfilledBy, current.Version)
	if errors.Is(err, model.ErrConflict) {
		latest, readErr := s.requestStore.GetByID(ctx, requestID)
		if readErr == nil && latest != nil && !lifecycle.CanTransition(latest.Status, to) {
			return nil, &model.IllegalTransitionError{From: latest.Status, To: to}
		}
		return nil, model.ErrConflict
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Request status changed",
		zap.String("request_id", requestID),
		zap.String("from", current.Status.String()),
		zap.String("to", to.String()))

	return updated, nil
}

// matchCandidates runs the matching engine over a snapshot of available
// donors in the hospital's state
func (s *RequestService) matchCandidates(ctx context.Context, req *model.BloodRequest, hospital *model.Hospital) ([]matching.Candidate, error) {
	donors, err := s.donorStore.GetDonors(ctx, model.DonorFilter{
		BloodTypes:    []model.BloodType{req.BloodType},
		State:         hospital.State,
		AvailableOnly: true,
	})
	if err != nil {
		return nil, err
	}

	query := matching.Query{
		BloodType: req.BloodType,
		City:      hospital.City,
		State:     hospital.State,
		CreatedAt: req.CreatedAt,
	}

	return matching.FindCandidates(query, donors), nil
}
