package service

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"labsite/internal/model"
	"labsite/internal/notify"
	"strings"

	"github.com/sirupsen/logrus"
)

// AccessSettings 包含通知所需的站点信息
type AccessSettings struct {
	// Inbox receives "new request" notices. Empty disables them.
	Inbox   string
	SiteURL string
}

// AccessService runs the account request workflow:
// pending -> approved | rejected, each request reviewed exactly once.
type AccessService struct {
	repo     model.Repository
	authz    *Authorizer
	notifier notify.Notifier
	clock    Clock
	settings AccessSettings
}

func NewAccessService(repo model.Repository, authz *Authorizer, notifier notify.Notifier, clock Clock, settings AccessSettings) *AccessService {
	return &AccessService{
		repo:     repo,
		authz:    authz,
		notifier: notifier,
		clock:    clockOrSystem(clock),
		settings: settings,
	}
}

// Submit stores a new pending request and returns its id.
func (s *AccessService) Submit(ctx context.Context, req entity.AccessRequestCreateRequest) (uint, error) {
	record := entity.DbAccessRequest{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Organization: strings.TrimSpace(req.Organization),
		Reason:       strings.TrimSpace(req.Reason),
		Status:       entity.AccessStatusPending,
	}
	if record.Name == "" || record.Email == "" || record.Reason == "" {
		return 0, errValidation("name, email and reason are required")
	}
	if !validEmail(record.Email) {
		return 0, errValidation("email must be a valid email address")
	}
	record.CreatedAt = s.clock.Now()

	if err := s.repo.CreateAccessRequest(ctx, &record); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return 0, errConflict("an access request for this email already exists")
		}
		logrus.WithError(err).Error("failed to create access request")
		return 0, errInternal("failed to create access request", err)
	}

	notify.Deliver(ctx, s.notifier, notify.AccessRequestedMessage(
		s.settings.Inbox, record.Name, record.Email, record.Organization, record.Reason, s.settings.SiteURL))
	return record.ID, nil
}

// List returns every request, optionally filtered by status.
func (s *AccessService) List(ctx context.Context, reviewer *entity.Identity, status string) ([]entity.DbAccessRequest, error) {
	if err := s.authz.requireSuperAdmin(ctx, reviewer); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	switch status {
	case "", entity.AccessStatusPending, entity.AccessStatusApproved, entity.AccessStatusRejected:
	default:
		return nil, errValidation("unknown status %q", status)
	}
	items, err := s.repo.ListAccessRequests(ctx, status)
	if err != nil {
		logrus.WithError(err).Error("failed to list access requests")
		return nil, errInternal("failed to list access requests", err)
	}
	return items, nil
}

// Review approves or rejects a pending request.
//
// Approval provisions an active account with role pending; promotion to admin
// is a separate action. The account is created before the request is marked,
// and is removed again if another reviewer got to the request first.
func (s *AccessService) Review(ctx context.Context, reviewer *entity.Identity, in entity.AccessRequestReviewRequest) (*entity.DbAccessRequest, error) {
	if err := s.authz.requireSuperAdmin(ctx, reviewer); err != nil {
		return nil, err
	}
	action := strings.ToLower(strings.TrimSpace(in.Action))
	if action != entity.ReviewActionApprove && action != entity.ReviewActionReject {
		return nil, errValidation("action must be approve or reject")
	}
	if in.RequestID == 0 {
		return nil, errValidation("requestId is required")
	}

	request, err := s.repo.GetAccessRequest(ctx, in.RequestID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errNotFound("access request not found")
		}
		return nil, errInternal("failed to load access request", err)
	}
	if !request.IsPending() {
		return nil, errConflict("access request has already been reviewed")
	}

	review := entity.AccessReview{
		ReviewedBy: reviewer.ID,
		ReviewedAt: s.clock.Now(),
		Notes:      trimmedOrNil(in.ReviewNotes),
	}

	if action == entity.ReviewActionReject {
		review.Status = entity.AccessStatusRejected
		if err := s.markReviewed(ctx, request.ID, review); err != nil {
			return nil, err
		}
		notify.Deliver(ctx, s.notifier, notify.AccessRejectedMessage(request.Name, request.Email, review.Notes))
		return applyReview(request, review), nil
	}

	review.Status = entity.AccessStatusApproved
	if err := auth.ValidatePassword(in.TempPassword); err != nil {
		return nil, errValidation("tempPassword: %v", err)
	}
	account, err := s.provisionAccount(ctx, request, in.TempPassword)
	if err != nil {
		return nil, err
	}
	if err := s.markReviewed(ctx, request.ID, review); err != nil {
		if delErr := s.repo.DeleteUser(ctx, account.ID); delErr != nil {
			logrus.WithError(delErr).WithField("user_id", account.ID).Error("failed to remove account after lost review race")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"user_id":     account.ID,
		"reviewed_by": reviewer.ID,
	}).Info("access request approved")

	notify.Deliver(ctx, s.notifier, notify.AccessApprovedMessage(request.Name, request.Email, in.TempPassword, s.settings.SiteURL))
	return applyReview(request, review), nil
}

func (s *AccessService) provisionAccount(ctx context.Context, request *entity.DbAccessRequest, tempPassword string) (*entity.DbUser, error) {
	_, err := s.repo.GetUserByEmail(ctx, request.Email)
	if err == nil {
		return nil, errConflict("an account with this email already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, errInternal("failed to check existing account", err)
	}

	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, errInternal("failed to hash password", err)
	}
	account := &entity.DbUser{
		Email:        request.Email,
		DisplayName:  request.Name,
		PasswordHash: hash,
		Role:         entity.UserRolePending,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, account); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return nil, errConflict("an account with this email already exists")
		}
		logrus.WithError(err).WithField("request_id", request.ID).Error("failed to create account for approved request")
		return nil, errInternal("failed to create account", err)
	}
	return account, nil
}

func (s *AccessService) markReviewed(ctx context.Context, id uint, review entity.AccessReview) error {
	err := s.repo.ReviewAccessRequest(ctx, id, review)
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return errConflict("access request has already been reviewed")
	}
	logrus.WithError(err).WithField("request_id", id).Error("failed to update access request")
	return errInternal("failed to update access request", err)
}

func applyReview(request *entity.DbAccessRequest, review entity.AccessReview) *entity.DbAccessRequest {
	out := *request
	reviewedBy := review.ReviewedBy
	reviewedAt := review.ReviewedAt
	out.Status = review.Status
	out.ReviewedBy = &reviewedBy
	out.ReviewedAt = &reviewedAt
	out.ReviewNotes = review.Notes
	return &out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
