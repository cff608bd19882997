package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/studysmarter/studysmarter-api/internal/dto"
	"github.com/studysmarter/studysmarter-api/internal/models"
	"github.com/studysmarter/studysmarter-api/internal/validation"
	appErrors "github.com/studysmarter/studysmarter-api/pkg/errors"
)

type roomRepository interface {
	Create(ctx context.Context, room *models.StudyRoom) error
	FindByID(ctx context.Context, id int64) (*models.StudyRoom, error)
	List(ctx context.Context) ([]models.StudyRoom, error)
	Update(ctx context.Context, id int64, changes dto.RoomChanges) (*models.StudyRoom, error)
}

// creatorLookup resolves the user referenced by creator_id. Serialization
// depends on it explicitly rather than assuming the join always succeeds.
type creatorLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// RoomService coordinates study-room operations: payload validation,
// persistence and response assembly.
type RoomService struct {
	repo   roomRepository
	users  creatorLookup
	logger *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, users creatorLookup, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, users: users, logger: logger}
}

// Create validates the payload and persists a new study room.
func (s *RoomService) Create(ctx context.Context, payload dto.RoomPayload) (*dto.RoomResponse, error) {
	room, err := validation.ParseCreate(payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "Creation failed")
	}

	resp, err := s.serialize(ctx, *room)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Creation failed")
	}
	return resp, nil
}

// Get returns the serialized room for the given ID.
func (s *RoomService) Get(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "Error fetching room")
	}

	resp, err := s.serialize(ctx, *room)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error fetching room")
	}
	return resp, nil
}

// List returns all rooms in insertion order.
func (s *RoomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "Error fetching rooms")
	}

	responses := make([]dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp, err := s.serialize(ctx, room)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error fetching rooms")
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// Update applies the fields present in the payload to an existing room. An
// empty payload is a no-op that still returns the stored record.
func (s *RoomService) Update(ctx context.Context, id int64, payload dto.RoomPayload) (*dto.RoomResponse, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "Update failed")
	}

	changes, err := validation.ParseUpdate(payload, *current)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "Update failed")
	}

	resp, err := s.serialize(ctx, *updated)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Update failed")
	}
	return resp, nil
}

// serialize builds the external representation, resolving the creator
// summary. It fails when the creator identity no longer exists.
func (s *RoomService) serialize(ctx context.Context, room models.StudyRoom) (*dto.RoomResponse, error) {
	creator, err := s.users.FindByID(ctx, room.CreatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("room creator no longer exists",
				zap.Int64("room_id", room.RoomID),
				zap.Int64("creator_id", room.CreatorID))
			return nil, fmt.Errorf("creator %d not found", room.CreatorID)
		}
		return nil, fmt.Errorf("resolve creator %d: %w", room.CreatorID, err)
	}

	return &dto.RoomResponse{
		RoomID:      room.RoomID,
		Name:        room.Name,
		Description: room.Description,
		Capacity:    room.Capacity,
		CreatorID:   room.CreatorID,
		Creator: dto.CreatorInfo{
			ID:       creator.ID,
			Username: creator.Username,
			Email:    creator.Email,
		},
		Date:      room.Date.Format("2006-01-02"),
		StartTime: room.StartTime.Format("15:04"),
		EndTime:   room.EndTime.Format("15:04"),
		Location:  room.Location,
		Mode:      room.Mode,
	}, nil
}
