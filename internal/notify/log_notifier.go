package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the log instead of sending them.
// Useful in development, where approval mails would otherwise go nowhere.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logrus.StandardLogger()}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.WithFields(logrus.Fields{
		"kind":    msg.Kind,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("notification")
	return nil
}
