// Package notify delivers out-of-band messages (approval mails, contact
// forwards). Delivery is best effort: callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"labsite/internal/config"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	KindAccessRequested = "access_requested"
	KindAccessApproved  = "access_approved"
	KindAccessRejected  = "access_rejected"
	KindContact         = "contact_message"
)

// DeliveryTimeout bounds a single notification attempt.
const DeliveryTimeout = 10 * time.Second

// Message is a plain-text notification addressed to one recipient.
type Message struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	ReplyTo string `json:"replyTo,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends a message over some channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Deliver sends msg with a bounded timeout. Errors are logged and dropped so
// a broken mail relay never changes the outcome of the calling operation.
func Deliver(ctx context.Context, n Notifier, msg Message) {
	if n == nil {
		return
	}
	if strings.TrimSpace(msg.To) == "" {
		logrus.WithField("kind", msg.Kind).Debug("notification skipped: no recipient")
		return
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DeliveryTimeout)
	defer cancel()

	if err := n.Notify(sendCtx, msg); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind": msg.Kind,
			"to":   msg.To,
		}).Warn("failed to deliver notification")
	}
}

// NewFromConfig 根据配置创建通知渠道
func NewFromConfig(cfg *config.Config) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.NotifierType)) {
	case "", "log":
		return NewLogNotifier(), nil
	case "smtp":
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.NotifyFrom,
		})
	case "amqp":
		return NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", cfg.NotifierType)
	}
}
