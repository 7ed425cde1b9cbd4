package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/domain"
	"github.com/resumekit/cv-service/internal/events"
	"github.com/resumekit/cv-service/internal/repository"
)

var (
	ErrCVNotFound = errors.New("cv not found")
	ErrNotOwner   = errors.New("cv belongs to another account")
	ErrPrimaryCV  = errors.New("primary cv cannot be deleted")
)

// CVService coordinates CV workflows. Every write is scoped to the owner id
// the caller resolved from the session.
type CVService struct {
	cvs        repository.CVRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CVDependencies bundles repositories for the CV service.
type CVDependencies struct {
	CVRepo     repository.CVRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewCVService constructs the service.
func NewCVService(deps CVDependencies) *CVService {
	return &CVService{cvs: deps.CVRepo, dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)}
}

// GetOwn returns the primary CV of ownerID.
func (s *CVService) GetOwn(ctx context.Context, ownerID string) (*domain.CV, error) {
	cv, err := s.cvs.GetPrimary(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCVNotFound
	}
	return cv, err
}

// SaveOwn creates or replaces the primary CV of ownerID with content. Any
// identifiers carried by content are discarded; child collections replace
// the stored ones wholesale.
func (s *CVService) SaveOwn(ctx context.Context, ownerID string, content *domain.CV) (*domain.CV, error) {
	cv := content.CopyContent()
	cv.OwnerID = ownerID
	if err := s.cvs.UpsertPrimary(ctx, cv); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCVSaved, ownerID, cv.ID, events.CVSavedPayload{
		Education:  len(cv.Education),
		Skills:     len(cv.Skills),
		Experience: len(cv.Experience),
		Projects:   len(cv.Projects),
	}))
	return cv, nil
}

// Get returns any CV by id. Reads by id are public.
func (s *CVService) Get(ctx context.Context, id string) (*domain.CV, error) {
	cv, err := s.cvs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCVNotFound
	}
	return cv, err
}

// Share stores an independent snapshot owned by ownerID. With nil content
// the snapshot copies the owner's saved primary CV.
func (s *CVService) Share(ctx context.Context, ownerID string, content *domain.CV) (*domain.CV, error) {
	if content == nil {
		primary, err := s.GetOwn(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		content = primary
	}

	snapshot := content.CopyContent()
	snapshot.OwnerID = ownerID
	if err := s.cvs.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCVShared, ownerID, snapshot.ID, nil))
	return snapshot, nil
}

// DeleteSnapshot removes a snapshot owned by ownerID.
func (s *CVService) DeleteSnapshot(ctx context.Context, ownerID, id string) error {
	cv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if cv.OwnerID != ownerID {
		return ErrNotOwner
	}
	if cv.Kind == domain.CVKindPrimary {
		return ErrPrimaryCV
	}

	if err := s.cvs.DeleteSnapshot(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCVNotFound
		}
		return err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCVDeleted, ownerID, id, nil))
	return nil
}
