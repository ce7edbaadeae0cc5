package session

import (
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/workout"
)

type Status string

const (
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Session is one workout. Terminal fields stay nil until the session ends.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Status    Status     `json:"status"`
	TickCount *int64     `json:"tickCount"`
	Distance  *float64   `json:"distance"`
	Calories  *float64   `json:"calories"`
	AvgSpeed  *float64   `json:"avgSpeed"`
}

// Completion carries the terminal fields written when a session ends.
type Completion struct {
	EndTime   time.Time
	TickCount int64
	Distance  float64
	Calories  float64
	AvgSpeed  float64
}

// EndRequest identifies the session to close and the final sensor reading.
type EndRequest struct {
	CardID    string
	DeviceID  string
	TickCount int64
}

func (s Session) Active() bool {
	return s.EndTime == nil
}

// Rounded returns a copy with metrics rounded to one decimal for display.
func (s Session) Rounded() Session {
	s.Distance = round(s.Distance)
	s.Calories = round(s.Calories)
	s.AvgSpeed = round(s.AvgSpeed)
	return s
}

func round(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := workout.Round1(*v)
	return &r
}

func (s *Session) complete(c Completion) {
	end := c.EndTime
	ticks := c.TickCount
	distance := c.Distance
	calories := c.Calories
	speed := c.AvgSpeed

	s.EndTime = &end
	s.Status = StatusDone
	s.TickCount = &ticks
	s.Distance = &distance
	s.Calories = &calories
	s.AvgSpeed = &speed
}
