package litestorage

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"strconv"
	"time"

	"github.com/lomoval/strikeboard/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	DSN string
}

type eventRow struct {
	ID                uint `gorm:"primaryKey"`
	Title             string
	Location          string
	Description       string
	StartTime         time.Time `gorm:"index"`
	EndTime           time.Time
	CategoryID        *uint `gorm:"index"`
	ParticipantsCount int   `gorm:"default:0"`
	SharedCount       int   `gorm:"default:0"`
	Favorite          bool  `gorm:"default:false"`
	CreatedAt         time.Time
}

func (eventRow) TableName() string { return "events" }

type categoryRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (categoryRow) TableName() string { return "categories" }

type commentRow struct {
	ID        uint `gorm:"primaryKey"`
	EventID   uint `gorm:"index"`
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

func (commentRow) TableName() string { return "comments" }

type Storage struct {
	dsn string
	db  *gorm.DB
}

func New(config Config) *Storage {
	dsn := config.DSN
	if dsn == "" {
		dsn = "strikeboard.db"
	}
	return &Storage{dsn: dsn}
}

func (s *Storage) Connect(ctx context.Context) error {
	dbLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(s.dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&categoryRow{}, &eventRow{}, &commentRow{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return sqlDB.Close()
}

func (s *Storage) ListEvents(ctx context.Context) ([]storage.Event, error) {
	var rows []eventRow
	if err := s.db.WithContext(ctx).Order("start_time ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	events := make([]storage.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events, nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	key, ok := parseID(id)
	if !ok {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	var row eventRow
	err := s.db.WithContext(ctx).First(&row, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, err)
	}
	return row.toEvent(), nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	row := eventRow{
		Title:             e.Title,
		Location:          e.Location,
		Description:       e.Description,
		StartTime:         e.StartTime.UTC(),
		EndTime:           e.EndTime.UTC(),
		ParticipantsCount: e.ParticipantsCount,
		SharedCount:       e.SharedCount,
		Favorite:          e.Favorite,
	}
	if e.ID != "" {
		key, ok := parseID(e.ID)
		if !ok {
			return fmt.Errorf("malformed id %q", e.ID)
		}
		var n int64
		if err := s.db.WithContext(ctx).Model(&eventRow{}).Where("id = ?", key).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to add event: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
		}
		row.ID = key
	}
	categoryID, err := s.resolveCategory(ctx, e.CategoryID)
	if err != nil {
		return err
	}
	row.CategoryID = categoryID

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	e.ID = strconv.FormatUint(uint64(row.ID), 10)
	e.CreatedAt = row.CreatedAt
	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, patch storage.EventPatch) error {
	if patch.Empty() {
		return storage.ErrEmptyPatch
	}
	key, ok := parseID(id)
	if !ok {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.StartTime != nil {
		updates["start_time"] = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		updates["end_time"] = patch.EndTime.UTC()
	}
	if patch.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, *patch.CategoryID)
		if err != nil {
			return err
		}
		updates["category_id"] = categoryID
	}
	if patch.ParticipantsCount != nil {
		updates["participants_count"] = *patch.ParticipantsCount
	}
	if patch.SharedCount != nil {
		updates["shared_count"] = *patch.SharedCount
	}
	if patch.Favorite != nil {
		updates["favorite"] = *patch.Favorite
	}

	res := s.db.WithContext(ctx).Model(&eventRow{}).Where("id = ?", key).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update event with id %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return nil
}

func (s *Storage) RemoveEvent(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&eventRow{}, key)
		if res.Error != nil {
			return fmt.Errorf("failed to remove event with id %q: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
		}
		if err := tx.Where("event_id = ?", key).Delete(&commentRow{}).Error; err != nil {
			return fmt.Errorf("failed to remove comments of event %q: %w", id, err)
		}
		return nil
	})
}

func (s *Storage) ListCategories(ctx context.Context) ([]storage.Category, error) {
	var rows []categoryRow
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]storage.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, storage.Category{
			ID:        strconv.FormatUint(uint64(r.ID), 10),
			Name:      r.Name,
			CreatedAt: r.CreatedAt,
		})
	}
	return categories, nil
}

func (s *Storage) AddCategory(ctx context.Context, c *storage.Category) error {
	row := categoryRow{Name: c.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	c.ID = strconv.FormatUint(uint64(row.ID), 10)
	c.CreatedAt = row.CreatedAt
	return nil
}

func (s *Storage) AddComment(ctx context.Context, c *storage.Comment) error {
	if _, err := s.GetEvent(ctx, c.EventID); err != nil {
		return fmt.Errorf("failed to comment event: %w", err)
	}
	key, _ := parseID(c.EventID)
	row := commentRow{EventID: key, AuthorID: c.AuthorID, Body: c.Text}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	c.ID = strconv.FormatUint(uint64(row.ID), 10)
	c.CreatedAt = row.CreatedAt
	return nil
}

func (s *Storage) ListComments(ctx context.Context, eventID string) ([]storage.Comment, error) {
	comments := make([]storage.Comment, 0)
	key, ok := parseID(eventID)
	if !ok {
		return comments, nil
	}
	var rows []commentRow
	err := s.db.WithContext(ctx).Where("event_id = ?", key).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of event %q: %w", eventID, err)
	}
	for _, r := range rows {
		comments = append(comments, storage.Comment{
			ID:        strconv.FormatUint(uint64(r.ID), 10),
			EventID:   eventID,
			AuthorID:  r.AuthorID,
			Text:      r.Body,
			CreatedAt: r.CreatedAt,
		})
	}
	return comments, nil
}

// SQLite does not enforce foreign keys by default, so the reference is checked here.
func (s *Storage) resolveCategory(ctx context.Context, id string) (*uint, error) {
	if id == "" {
		return nil, nil
	}
	key, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("unknown category %q: %w", id, storage.ErrNotFoundCategory)
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&categoryRow{}).Where("id = ?", key).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("unknown category %q: %w", id, storage.ErrNotFoundCategory)
	}
	return &key, nil
}

func (r eventRow) toEvent() storage.Event {
	e := storage.Event{
		ID:                strconv.FormatUint(uint64(r.ID), 10),
		Title:             r.Title,
		Location:          r.Location,
		Description:       r.Description,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		ParticipantsCount: r.ParticipantsCount,
		SharedCount:       r.SharedCount,
		Favorite:          r.Favorite,
		CreatedAt:         r.CreatedAt,
	}
	if r.CategoryID != nil {
		e.CategoryID = strconv.FormatUint(uint64(*r.CategoryID), 10)
	}
	return e
}

func parseID(id string) (uint, bool) {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
