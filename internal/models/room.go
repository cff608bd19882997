package models

import "time"

// StudyRoom represents a study-room reservation stored in the study_rooms
// table. Date carries the calendar day; StartTime and EndTime are full
// timestamps derived from Date plus a wall-clock HH:MM.
type StudyRoom struct {
	RoomID      int64     `db:"room_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Capacity    int       `db:"capacity"`
	CreatorID   int64     `db:"creator_id"`
	Date        time.Time `db:"date"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Location    string    `db:"location"`
	Mode        string    `db:"mode"`
	CreatedAt   time.Time `db:"created_at"`
}
