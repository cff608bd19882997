package dto

import (
	"encoding/json"
	"time"
)

// RoomPayload is the loosely typed create/update body. Fields are kept as raw
// JSON so that an absent field (nil) is distinguishable from a present one,
// and so that values like a numeric capacity sent as "4" or 4 reach the
// validator untouched.
type RoomPayload struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Capacity    json.RawMessage `json:"capacity"`
	CreatorID   json.RawMessage `json:"creator_id"`
	Date        json.RawMessage `json:"date"`
	StartTime   json.RawMessage `json:"start_time"`
	EndTime     json.RawMessage `json:"end_time"`
	Location    json.RawMessage `json:"location"`
	Mode        json.RawMessage `json:"mode"`
}

// RoomChanges is the validated subset of fields present in an update payload.
// A nil field means the stored value is left untouched. SetDescription is
// needed because a present description may legitimately be empty.
type RoomChanges struct {
	Name           *string
	Description    *string
	SetDescription bool
	Capacity       *int
	Date           *time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	Location       *string
	Mode           *string
}

// Empty reports whether the update carries no field at all.
func (c RoomChanges) Empty() bool {
	return c.Name == nil && !c.SetDescription && c.Capacity == nil &&
		c.Date == nil && c.StartTime == nil && c.EndTime == nil &&
		c.Location == nil && c.Mode == nil
}

// CreatorInfo is the nested creator summary embedded in serialized rooms.
type CreatorInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RoomResponse is the external representation of a study room.
type RoomResponse struct {
	RoomID      int64       `json:"room_id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Capacity    int         `json:"capacity"`
	CreatorID   int64       `json:"creator_id"`
	Creator     CreatorInfo `json:"creator"`
	Date        string      `json:"date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Location    string      `json:"location"`
	Mode        string      `json:"mode"`
}
