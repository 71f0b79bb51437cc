// Package notifications is the seam to the external notification dispatcher.
// Delivery is best-effort and fires after commit; a failed notification is
// logged and never rolled back against.
package notifications

import (
	"github.com/sirupsen/logrus"

	"github.com/shoplite/commerce-core/internal/models"
)

// Notifier dispatches user-facing notifications. Implementations must not
// block the caller for long; the usecases invoke them fire-and-forget.
type Notifier interface {
	TopUpApproved(req *models.WalletTopUpRequest) error
	TopUpRejected(req *models.WalletTopUpRequest, reason string) error
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier returns a Notifier that only records the event. It stands in
// for the real email/SMS dispatcher, which lives outside this service.
func NewLogNotifier(log *logrus.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) TopUpApproved(req *models.WalletTopUpRequest) error {
	n.log.WithFields(logrus.Fields{
		"tenant_id":  req.TenantID,
		"user_id":    req.UserID,
		"request_id": req.ID,
		"amount":     req.Amount.StringFixed(2),
	}).Info("top-up approved notification")
	return nil
}

func (n *logNotifier) TopUpRejected(req *models.WalletTopUpRequest, reason string) error {
	n.log.WithFields(logrus.Fields{
		"tenant_id":  req.TenantID,
		"user_id":    req.UserID,
		"request_id": req.ID,
		"reason":     reason,
	}).Info("top-up rejected notification")
	return nil
}
