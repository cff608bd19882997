// Package validation turns loosely typed room payloads into typed records.
// Rules run in a fixed order and stop at the first failing field, so every
// rejection carries exactly one field-specific message.
package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/studysmarter/studysmarter-api/internal/dto"
	"github.com/studysmarter/studysmarter-api/internal/models"
	appErrors "github.com/studysmarter/studysmarter-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseCreate validates a full create payload and returns the candidate
// record. RoomID and CreatedAt are left for the repository to assign.
func ParseCreate(p dto.RoomPayload) (*models.StudyRoom, error) {
	required := []json.RawMessage{
		p.Name, p.Capacity, p.CreatorID, p.Date,
		p.StartTime, p.EndTime, p.Location, p.Mode,
	}
	for _, field := range required {
		if field == nil {
			return nil, appErrors.ErrMissingFields
		}
	}

	name := trimmedString(p.Name)
	if name == "" {
		return nil, appErrors.ErrInvalidName
	}

	capacity, ok := intField(p.Capacity)
	if !ok {
		return nil, appErrors.ErrInvalidCapacityType
	}
	if capacity <= 0 {
		return nil, appErrors.ErrInvalidCapacityValue
	}

	creatorID, ok := intField(p.CreatorID)
	if !ok {
		return nil, appErrors.ErrInvalidCreatorID
	}

	date, err := parseDate(p.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := parseClock(p.StartTime, date, appErrors.ErrMissingStartTime, appErrors.ErrInvalidStartTimeFormat)
	if err != nil {
		return nil, err
	}

	endTime, err := parseClock(p.EndTime, date, appErrors.ErrMissingEndTime, appErrors.ErrInvalidEndTimeFormat)
	if err != nil {
		return nil, err
	}

	location := trimmedString(p.Location)
	if location == "" {
		return nil, appErrors.ErrMissingLocation
	}

	mode := trimmedString(p.Mode)
	if mode == "" {
		return nil, appErrors.ErrMissingMode
	}

	room := &models.StudyRoom{
		Name:      name,
		Capacity:  capacity,
		CreatorID: int64(creatorID),
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Location:  location,
		Mode:      mode,
	}

	// Optional. An empty-after-trim description is kept as-is.
	if p.Description != nil {
		if s, ok := stringField(p.Description); ok {
			s = strings.TrimSpace(s)
			room.Description = &s
		}
	}

	return room, nil
}

// ParseUpdate validates the fields present in a partial payload against the
// stored record. A date change takes effect before start_time/end_time are
// combined, so new clock values attach to the new calendar day.
func ParseUpdate(p dto.RoomPayload, current models.StudyRoom) (dto.RoomChanges, error) {
	var changes dto.RoomChanges

	if p.Name != nil {
		name := trimmedString(p.Name)
		if name == "" {
			return dto.RoomChanges{}, appErrors.ErrInvalidName
		}
		changes.Name = &name
	}

	if p.Description != nil {
		changes.SetDescription = true
		if s, ok := stringField(p.Description); ok {
			s = strings.TrimSpace(s)
			changes.Description = &s
		}
	}

	if p.Capacity != nil {
		capacity, ok := intField(p.Capacity)
		if !ok {
			return dto.RoomChanges{}, appErrors.ErrInvalidCapacityType
		}
		if capacity <= 0 {
			return dto.RoomChanges{}, appErrors.ErrInvalidCapacityValue
		}
		changes.Capacity = &capacity
	}

	effectiveDate := current.Date
	if p.Date != nil {
		date, err := parseDate(p.Date)
		if err != nil {
			return dto.RoomChanges{}, err
		}
		effectiveDate = date
		changes.Date = &date
	}

	if p.StartTime != nil {
		startTime, err := parseClock(p.StartTime, effectiveDate, appErrors.ErrMissingStartTime, appErrors.ErrInvalidStartTimeFormat)
		if err != nil {
			return dto.RoomChanges{}, err
		}
		changes.StartTime = &startTime
	}

	if p.EndTime != nil {
		endTime, err := parseClock(p.EndTime, effectiveDate, appErrors.ErrMissingEndTime, appErrors.ErrInvalidEndTimeFormat)
		if err != nil {
			return dto.RoomChanges{}, err
		}
		changes.EndTime = &endTime
	}

	if p.Location != nil {
		location := trimmedString(p.Location)
		if location == "" {
			return dto.RoomChanges{}, appErrors.ErrMissingLocation
		}
		changes.Location = &location
	}

	if p.Mode != nil {
		mode := trimmedString(p.Mode)
		if mode == "" {
			return dto.RoomChanges{}, appErrors.ErrMissingMode
		}
		changes.Mode = &mode
	}

	return changes, nil
}

func parseDate(raw json.RawMessage) (time.Time, error) {
	s := trimmedString(raw)
	if s == "" {
		return time.Time{}, appErrors.ErrMissingDate
	}
	date, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, appErrors.ErrInvalidDateFormat
	}
	return date, nil
}

func parseClock(raw json.RawMessage, date time.Time, missing, invalid error) (time.Time, error) {
	s := trimmedString(raw)
	if s == "" {
		return time.Time{}, missing
	}
	clock, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, invalid
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func stringField(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func trimmedString(raw json.RawMessage) string {
	s, ok := stringField(raw)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// intField accepts a JSON number or a numeric string. Fractional numbers are
// truncated toward zero; fractional strings are rejected.
func intField(raw json.RawMessage) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, true
		}
	}
	return 0, false
}
