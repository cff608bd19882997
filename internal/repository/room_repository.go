package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studysmarter/studysmarter-api/internal/dto"
	"github.com/studysmarter/studysmarter-api/internal/models"
)

const roomColumns = `room_id, name, description, capacity, creator_id, date, start_time, end_time, location, mode, created_at`

// QueryObserver records the duration of database operations. A nil observer
// disables instrumentation.
type QueryObserver interface {
	ObserveDBQuery(operation string, duration time.Duration)
}

// RoomRepository manages persistence for study rooms. Create and Update run
// inside a single transaction each; on any fault the transaction is rolled
// back and nothing is written.
type RoomRepository struct {
	db  *sqlx.DB
	obs QueryObserver
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB, obs QueryObserver) *RoomRepository {
	return &RoomRepository{db: db, obs: obs}
}

func (r *RoomRepository) observe(operation string, start time.Time) {
	if r.obs != nil {
		r.obs.ObserveDBQuery(operation, time.Since(start))
	}
}

// Create inserts a new study room, assigning room_id and created_at on the
// passed record.
func (r *RoomRepository) Create(ctx context.Context, room *models.StudyRoom) error {
	defer r.observe("room_create", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create study room: %w", err)
	}

	room.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO study_rooms (name, description, capacity, creator_id, date, start_time, end_time, location, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING room_id`
	if err := tx.QueryRowxContext(ctx, query,
		room.Name,
		room.Description,
		room.Capacity,
		room.CreatorID,
		room.Date,
		room.StartTime,
		room.EndTime,
		room.Location,
		room.Mode,
		room.CreatedAt,
	).Scan(&room.RoomID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create study room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit study room: %w", err)
	}
	return nil
}

// FindByID fetches a study room by ID. sql.ErrNoRows passes through when the
// room does not exist.
func (r *RoomRepository) FindByID(ctx context.Context, id int64) (*models.StudyRoom, error) {
	defer r.observe("room_find_by_id", time.Now())

	query := fmt.Sprintf("SELECT %s FROM study_rooms WHERE room_id = $1", roomColumns)
	var room models.StudyRoom
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all study rooms in insertion order.
func (r *RoomRepository) List(ctx context.Context) ([]models.StudyRoom, error) {
	defer r.observe("room_list", time.Now())

	query := fmt.Sprintf("SELECT %s FROM study_rooms ORDER BY room_id", roomColumns)
	var rooms []models.StudyRoom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list study rooms: %w", err)
	}
	return rooms, nil
}

// Update loads the stored record, applies the present fields and persists the
// result, all within one transaction. sql.ErrNoRows passes through when the
// room does not exist; nothing is written in that case.
func (r *RoomRepository) Update(ctx context.Context, id int64, changes dto.RoomChanges) (*models.StudyRoom, error) {
	defer r.observe("room_update", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update study room: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM study_rooms WHERE room_id = $1 FOR UPDATE", roomColumns)
	var room models.StudyRoom
	if err := tx.GetContext(ctx, &room, query, id); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	applyChanges(&room, changes)

	const update = `UPDATE study_rooms SET name = :name, description = :description, capacity = :capacity,
		date = :date, start_time = :start_time, end_time = :end_time, location = :location, mode = :mode
		WHERE room_id = :room_id`
	if _, err := tx.NamedExecContext(ctx, update, room); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("update study room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit study room update: %w", err)
	}
	return &room, nil
}

func applyChanges(room *models.StudyRoom, changes dto.RoomChanges) {
	if changes.Name != nil {
		room.Name = *changes.Name
	}
	if changes.SetDescription {
		room.Description = changes.Description
	}
	if changes.Capacity != nil {
		room.Capacity = *changes.Capacity
	}
	if changes.Date != nil {
		room.Date = *changes.Date
	}
	if changes.StartTime != nil {
		room.StartTime = *changes.StartTime
	}
	if changes.EndTime != nil {
		room.EndTime = *changes.EndTime
	}
	if changes.Location != nil {
		room.Location = *changes.Location
	}
	if changes.Mode != nil {
		room.Mode = *changes.Mode
	}
}
