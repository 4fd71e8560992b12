package storage

import (
	"time"
)

type Event struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Location          string    `json:"location" db:"location"`
	Description       string    `json:"description" db:"description"`
	StartTime         time.Time `json:"startTime" db:"start_time"`
	EndTime           time.Time `json:"endTime" db:"end_time"`
	CategoryID        string    `json:"categoryId,omitempty" db:"category_id"`
	ParticipantsCount int       `json:"participantsCount" db:"participants_count"`
	SharedCount       int       `json:"sharedCount" db:"shared_count"`
	Favorite          bool      `json:"favorite" db:"favorite"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// EventPatch holds the fields of an update. Nil fields are left untouched.
type EventPatch struct {
	Title             *string
	Location          *string
	Description       *string
	StartTime         *time.Time
	EndTime           *time.Time
	CategoryID        *string
	ParticipantsCount *int
	SharedCount       *int
	Favorite          *bool
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Location == nil && p.Description == nil &&
		p.StartTime == nil && p.EndTime == nil && p.CategoryID == nil &&
		p.ParticipantsCount == nil && p.SharedCount == nil && p.Favorite == nil
}

// Apply writes the non-nil fields of the patch into e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.ParticipantsCount != nil {
		e.ParticipantsCount = *p.ParticipantsCount
	}
	if p.SharedCount != nil {
		e.SharedCount = *p.SharedCount
	}
	if p.Favorite != nil {
		e.Favorite = *p.Favorite
	}
}

type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Comment struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"eventId" db:"event_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Text      string    `json:"text" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
