package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/shared"
)

// MaxTimeSpentSeconds caps a reported session length so it fits an int32 column.
const MaxTimeSpentSeconds = math.MaxInt32

var ErrInvalidProgress = errors.New("completed must be a boolean and timeSpent a number")

// UpdateProgressRequest keeps both fields as raw JSON. Their types are checked
// by Values once the lesson is known to exist.
type UpdateProgressRequest struct {
	Completed json.RawMessage `json:"completed" swaggertype:"boolean" example:"true"`
	TimeSpent json.RawMessage `json:"timeSpent" swaggertype:"number" example:"120"`
}

// Values decodes the request. Seconds are truncated toward zero, clamped at
// zero and saturate at MaxTimeSpentSeconds.
func (r UpdateProgressRequest) Values() (completed bool, seconds int, err error) {
	if isJSONNull(r.Completed) || isJSONNull(r.TimeSpent) {
		return false, 0, ErrInvalidProgress
	}
	if err := shared.JSONUnmarshal(r.Completed, &completed); err != nil {
		return false, 0, ErrInvalidProgress
	}

	var timeSpent float64
	if err := shared.JSONUnmarshal(r.TimeSpent, &timeSpent); err != nil {
		return false, 0, ErrInvalidProgress
	}
	return completed, clampSeconds(timeSpent), nil
}

func clampSeconds(v float64) int {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= MaxTimeSpentSeconds:
		return MaxTimeSpentSeconds
	}
	return int(v)
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

type ProgressResponse struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	LessonID    string     `json:"lessonId,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	TimeSpent   int        `json:"timeSpent"`
	Attempts    int        `json:"attempts"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// DefaultProgress is reported for a lesson the user never touched. It is not persisted.
func DefaultProgress(lessonID string) ProgressResponse {
	return ProgressResponse{LessonID: lessonID}
}

func MapProgressToResponse(p *model.LessonProgress) ProgressResponse {
	updatedAt := p.UpdatedAt
	return ProgressResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		LessonID:    p.LessonID,
		Completed:   p.Completed,
		CompletedAt: p.CompletedAt,
		TimeSpent:   p.TimeSpent,
		Attempts:    p.Attempts,
		UpdatedAt:   &updatedAt,
	}
}
