package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/events"
)

// AuditService writes an audit trail of account and CV events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handle)
	a.dispatcher.Subscribe(events.EventSessionStarted, a.handle)
	a.dispatcher.Subscribe(events.EventCVSaved, a.handle)
	a.dispatcher.Subscribe(events.EventCVShared, a.handle)
	a.dispatcher.Subscribe(events.EventCVDeleted, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("account_id", event.AccountID),
		zap.Time("at", event.Timestamp),
	}
	if event.CVID != "" {
		fields = append(fields, zap.String("cv_id", event.CVID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}
