package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/lomoval/strikeboard/internal/storage"
	log "github.com/sirupsen/logrus"
)

var ErrConnectionFailed = errors.New("failed to connect")

const (
	dbErrUniqueViolation     = "23505"
	dbErrForeignKeyViolation = "23503"
	dbErrInvalidText         = "22P02"
)

const eventColumns = "id, title, location, description, start_time, end_time, " +
	"COALESCE(category_id::text, '') AS category_id, participants_count, shared_count, favorite, created_at"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	config Config
	db     *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{config: config}
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.config.Host, s.config.Port, s.config.Database, s.config.Username, s.config.Password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) ListEvents(ctx context.Context) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events ORDER BY start_time ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	var e storage.Event
	err := s.db.GetContext(ctx, &e, "SELECT "+eventColumns+" FROM events WHERE id=$1", id)
	if isNotFound(err) {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, err)
	}
	return e, nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if e.ID != "" && !isKey(e.ID) {
		return fmt.Errorf("malformed id %q", e.ID)
	}
	if e.CategoryID != "" && !isKey(e.CategoryID) {
		return fmt.Errorf("unknown category %q: %w", e.CategoryID, storage.ErrNotFoundCategory)
	}

	var err error
	switch e.ID {
	case "":
		err = s.db.QueryRowxContext(
			ctx,
			"INSERT INTO events(title, location, description, start_time, end_time, category_id, "+
				"participants_count, shared_count, favorite) "+
				"VALUES($1, $2, $3, $4, $5, NULLIF($6, '')::bigint, $7, $8, $9) RETURNING id, created_at",
			e.Title, e.Location, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.CategoryID,
			e.ParticipantsCount, e.SharedCount, e.Favorite,
		).Scan(&e.ID, &e.CreatedAt)
	default:
		err = s.db.QueryRowxContext(
			ctx,
			"INSERT INTO events(id, title, location, description, start_time, end_time, category_id, "+
				"participants_count, shared_count, favorite) "+
				"VALUES($1, $2, $3, $4, $5, $6, NULLIF($7, '')::bigint, $8, $9, $10) RETURNING created_at",
			e.ID, e.Title, e.Location, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.CategoryID,
			e.ParticipantsCount, e.SharedCount, e.Favorite,
		).Scan(&e.CreatedAt)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case dbErrUniqueViolation:
			return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
		case dbErrForeignKeyViolation:
			return fmt.Errorf("unknown category %q: %w", e.CategoryID, storage.ErrNotFoundCategory)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, patch storage.EventPatch) error {
	set, args := patchClause(patch)
	if len(set) == 0 {
		return storage.ErrEmptyPatch
	}
	if patch.CategoryID != nil && *patch.CategoryID != "" && !isKey(*patch.CategoryID) {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundCategory)
	}

	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE events SET "+strings.Join(set, ", ")+" WHERE id=$1 RETURNING TRUE",
		append([]interface{}{id}, args...)...,
	)
	if isNotFound(err) || (err == nil && !found) {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrForeignKeyViolation {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundCategory)
	}
	if err != nil {
		return fmt.Errorf("failed to update event with id %q: %w", id, err)
	}
	return nil
}

func (s *Storage) RemoveEvent(ctx context.Context, id string) error {
	var found bool
	err := s.db.GetContext(ctx, &found, "DELETE FROM events WHERE id=$1 RETURNING TRUE", id)
	if isNotFound(err) || (err == nil && !found) {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	if err != nil {
		return fmt.Errorf("failed to remove event with id %q: %w", id, err)
	}
	return nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]storage.Category, error) {
	categories := make([]storage.Category, 0)
	err := s.db.SelectContext(ctx, &categories, "SELECT id, name, created_at FROM categories ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *Storage) AddCategory(ctx context.Context, c *storage.Category) error {
	err := s.db.QueryRowxContext(
		ctx,
		"INSERT INTO categories(name) VALUES($1) RETURNING id, created_at",
		c.Name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (s *Storage) AddComment(ctx context.Context, c *storage.Comment) error {
	err := s.db.QueryRowxContext(
		ctx,
		"INSERT INTO comments(event_id, author_id, body) VALUES($1, $2, $3) RETURNING id, created_at",
		c.EventID, c.AuthorID, c.Text,
	).Scan(&c.ID, &c.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == dbErrForeignKeyViolation || pqErr.Code == dbErrInvalidText) {
		return fmt.Errorf("failed to comment event with id %q: %w", c.EventID, storage.ErrNotFoundEvent)
	}
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

func (s *Storage) ListComments(ctx context.Context, eventID string) ([]storage.Comment, error) {
	comments := make([]storage.Comment, 0)
	err := s.db.SelectContext(
		ctx,
		&comments,
		"SELECT id, event_id, author_id, body, created_at FROM comments "+
			"WHERE event_id=$1 ORDER BY created_at DESC, id DESC",
		eventID,
	)
	if isNotFound(err) {
		return []storage.Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of event %q: %w", eventID, err)
	}
	return comments, nil
}

// patchClause returns SET items numbered from $2; $1 is reserved for the id.
func patchClause(patch storage.EventPatch) ([]string, []interface{}) {
	var (
		set  []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column+"=$"+strconv.Itoa(len(args)+1))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.StartTime != nil {
		add("start_time", patch.StartTime.UTC())
	}
	if patch.EndTime != nil {
		add("end_time", patch.EndTime.UTC())
	}
	if patch.CategoryID != nil {
		args = append(args, *patch.CategoryID)
		set = append(set, "category_id=NULLIF($"+strconv.Itoa(len(args)+1)+", '')::bigint")
	}
	if patch.ParticipantsCount != nil {
		add("participants_count", *patch.ParticipantsCount)
	}
	if patch.SharedCount != nil {
		add("shared_count", *patch.SharedCount)
	}
	if patch.Favorite != nil {
		add("favorite", *patch.Favorite)
	}
	return set, args
}

// isKey reports whether id can be cast to the bigint key columns.
func isKey(id string) bool {
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}

// Ids are bigint, so a malformed id can not match any row.
func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == dbErrInvalidText
}
