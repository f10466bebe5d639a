package service

import (
	"context"
	"labsite/internal/entity"
	"labsite/internal/model"
	"labsite/internal/notify"
	"strings"

	"github.com/sirupsen/logrus"
)

// ContactService stores contact form messages and forwards them to the lab.
type ContactService struct {
	repo     model.Repository
	notifier notify.Notifier
	clock    Clock
	inbox    string
}

func NewContactService(repo model.Repository, notifier notify.Notifier, clock Clock, inbox string) *ContactService {
	return &ContactService{repo: repo, notifier: notifier, clock: clockOrSystem(clock), inbox: inbox}
}

// Submit inserts the message, then tries to mail it. Mail failure does not
// fail the submission.
func (s *ContactService) Submit(ctx context.Context, req entity.ContactRequest) error {
	msg := entity.DbContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return errValidation("name, email and message are required")
	}
	if !validEmail(msg.Email) {
		return errValidation("email must be a valid email address")
	}
	msg.CreatedAt = s.clock.Now()

	if err := s.repo.CreateContactMessage(ctx, &msg); err != nil {
		logrus.WithError(err).Error("failed to store contact message")
		return errInternal("failed to store message", err)
	}

	notify.Deliver(ctx, s.notifier, notify.ContactMessage(s.inbox, msg.Name, msg.Email, msg.Subject, msg.Message))
	return nil
}

// List returns the latest messages; limit <= 0 uses the store default.
func (s *ContactService) List(ctx context.Context, limit int) ([]entity.DbContactMessage, error) {
	items, err := s.repo.ListContactMessages(ctx, limit)
	if err != nil {
		logrus.WithError(err).Error("failed to list contact messages")
		return nil, errInternal("failed to list contact messages", err)
	}
	if items == nil {
		items = []entity.DbContactMessage{}
	}
	return items, nil
}
