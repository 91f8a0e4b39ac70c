package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter dto.SessionFilter) ([]models.SessionEvent, error)
	Create(ctx context.Context, session *models.SessionEvent) error
}

type groupGetter interface {
	Get(ctx context.Context, id string) (*models.Group, error)
}

// SessionService handles manually entered sport sessions.
type SessionService struct {
	repo      sessionRepository
	groups    groupGetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, groups groupGetter, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, groups: groups, validator: validate, logger: logger}
}

// List returns sessions matching the filter.
func (s *SessionService) List(ctx context.Context, filter dto.SessionFilter) ([]models.SessionEvent, error) {
	if filter.Date != "" {
		if _, err := time.Parse(models.DateLayout, filter.Date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
	}
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	if sessions == nil {
		sessions = []models.SessionEvent{}
	}
	return sessions, nil
}

// Create stores a custom session. It starts PENDING and overrides a template
// activity of the same group at the same start time on that day.
func (s *SessionService) Create(ctx context.Context, req dto.CreateSessionRequest, actorID string) (*models.SessionEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if req.EndTime != nil && *req.EndTime != "" {
		if req.StartTime == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endTime requires startTime")
		}
		if *req.EndTime <= req.StartTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
		}
	}

	group, err := s.groups.Get(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	var notes *string
	if req.Notes != nil {
		if trimmed := strings.TrimSpace(*req.Notes); trimmed != "" {
			notes = &trimmed
		}
	}
	session := &models.SessionEvent{
		GroupID:   group.ID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  strings.TrimSpace(req.Location),
		Type:      models.SessionType(req.Type),
		Status:    models.SessionStatusPending,
		Notes:     notes,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("group_id", session.GroupID), zap.String("type", string(session.Type)))
	return session, nil
}
