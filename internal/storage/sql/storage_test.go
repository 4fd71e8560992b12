package sqlstorage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/lomoval/strikeboard/internal/storage"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{
	"id", "title", "location", "description", "start_time", "end_time",
	"category_id", "participants_count", "shared_count", "favorite", "created_at",
}

func createStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	initDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("list events", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM events ORDER BY start_time ASC")).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow("1", "Paris Rally", "Paris", "", initDate, initDate.AddDate(0, 0, 9), "2", 4, 1, true, initDate).
				AddRow("2", "Lyon March", "Lyon", "desc", initDate.AddDate(0, 0, 1), initDate.AddDate(0, 0, 2), "", 0, 0, false, initDate))

		events, err := s.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, storage.Event{
			ID:                "1",
			Title:             "Paris Rally",
			Location:          "Paris",
			StartTime:         initDate,
			EndTime:           initDate.AddDate(0, 0, 9),
			CategoryID:        "2",
			ParticipantsCount: 4,
			SharedCount:       1,
			Favorite:          true,
			CreatedAt:         initDate,
		}, events[0])
		require.Empty(t, events[1].CategoryID)
	})

	t.Run("add event", func(t *testing.T) {
		s, mock := createStorage(t)
		e := storage.Event{Title: "Paris Rally", Location: "Paris", StartTime: initDate, EndTime: initDate.Add(time.Hour)}
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events(title")).
			WithArgs("Paris Rally", "Paris", "", initDate, initDate.Add(time.Hour), "", 0, 0, false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("7", initDate))

		require.NoError(t, s.AddEvent(ctx, &e))
		require.Equal(t, "7", e.ID)
		require.Equal(t, initDate, e.CreatedAt)
	})

	t.Run("update builds set clause from patch", func(t *testing.T) {
		s, mock := createStorage(t)
		count := 5
		favorite := true
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET participants_count=$2, favorite=$3 WHERE id=$1 RETURNING TRUE")).
			WithArgs("7", 5, true).
			WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))

		require.NoError(t, s.UpdateEvent(ctx, "7", storage.EventPatch{ParticipantsCount: &count, Favorite: &favorite}))
	})

	t.Run("update category", func(t *testing.T) {
		s, mock := createStorage(t)
		category := ""
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET category_id=NULLIF($2, '')::bigint WHERE id=$1")).
			WithArgs("7", "").
			WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))

		require.NoError(t, s.UpdateEvent(ctx, "7", storage.EventPatch{CategoryID: &category}))
	})

	t.Run("remove event", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM events WHERE id=$1 RETURNING TRUE")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))

		require.NoError(t, s.RemoveEvent(ctx, "7"))
	})

	t.Run("list comments", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM comments WHERE event_id=$1 ORDER BY created_at DESC")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "author_id", "body", "created_at"}).
				AddRow("2", "7", "u1", "newer", initDate.Add(time.Minute)).
				AddRow("1", "7", "u2", "older", initDate))

		comments, err := s.ListComments(ctx, "7")
		require.NoError(t, err)
		require.Len(t, comments, 2)
		require.Equal(t, "newer", comments[0].Text)
	})

	t.Run("add comment", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments(event_id, author_id, body)")).
			WithArgs("7", "u1", "see you there").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("3", initDate))

		c := storage.Comment{EventID: "7", AuthorID: "u1", Text: "see you there"}
		require.NoError(t, s.AddComment(ctx, &c))
		require.Equal(t, "3", c.ID)
	})

	t.Run("list categories", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY name ASC")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("1", "Education", initDate))

		categories, err := s.ListCategories(ctx)
		require.NoError(t, err)
		require.Equal(t, []storage.Category{{ID: "1", Name: "Education", CreatedAt: initDate}}, categories)
	})
}

func TestStorageNegativeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("add event with same id", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events(id")).
			WillReturnError(&pq.Error{Code: dbErrUniqueViolation})

		require.ErrorIs(t, s.AddEvent(ctx, &storage.Event{ID: "1"}), storage.ErrDuplicateEventID)
	})

	t.Run("add event with unknown category", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events(title")).
			WillReturnError(&pq.Error{Code: dbErrForeignKeyViolation})

		require.ErrorIs(t, s.AddEvent(ctx, &storage.Event{CategoryID: "42"}), storage.ErrNotFoundCategory)
	})

	t.Run("add event with malformed ids does not hit the database", func(t *testing.T) {
		s, _ := createStorage(t)

		err := s.AddEvent(ctx, &storage.Event{ID: "abc"})
		require.Error(t, err)
		require.NotErrorIs(t, err, storage.ErrNotFoundCategory)

		require.ErrorIs(t, s.AddEvent(ctx, &storage.Event{CategoryID: "abc"}), storage.ErrNotFoundCategory)
	})

	t.Run("update with malformed category", func(t *testing.T) {
		s, _ := createStorage(t)
		category := "abc"

		err := s.UpdateEvent(ctx, "1", storage.EventPatch{CategoryID: &category})
		require.ErrorIs(t, err, storage.ErrNotFoundCategory)
		require.NotErrorIs(t, err, storage.ErrNotFoundEvent)
	})

	t.Run("update with unknown category", func(t *testing.T) {
		s, mock := createStorage(t)
		category := "42"
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET category_id=NULLIF($2, '')::bigint WHERE id=$1")).
			WithArgs("1", "42").
			WillReturnError(&pq.Error{Code: dbErrForeignKeyViolation})

		require.ErrorIs(t, s.UpdateEvent(ctx, "1", storage.EventPatch{CategoryID: &category}), storage.ErrNotFoundCategory)
	})

	t.Run("update not exist event", func(t *testing.T) {
		s, mock := createStorage(t)
		title := "x"
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE events SET title=$2")).WillReturnError(sql.ErrNoRows)

		require.ErrorIs(t, s.UpdateEvent(ctx, "404", storage.EventPatch{Title: &title}), storage.ErrNotFoundEvent)
	})

	t.Run("empty patch does not hit the database", func(t *testing.T) {
		s, _ := createStorage(t)
		require.ErrorIs(t, s.UpdateEvent(ctx, "1", storage.EventPatch{}), storage.ErrEmptyPatch)
	})

	t.Run("delete not exist event", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM events")).WillReturnError(sql.ErrNoRows)

		require.ErrorIs(t, s.RemoveEvent(ctx, "404"), storage.ErrNotFoundEvent)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id=$1")).
			WillReturnError(&pq.Error{Code: dbErrInvalidText})

		_, err := s.GetEvent(ctx, "abc")
		require.ErrorIs(t, err, storage.ErrNotFoundEvent)
	})

	t.Run("comments of malformed id are empty", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM comments WHERE event_id=$1")).
			WillReturnError(&pq.Error{Code: dbErrInvalidText})

		comments, err := s.ListComments(ctx, "abc")
		require.NoError(t, err)
		require.Empty(t, comments)
	})

	t.Run("list failure is wrapped", func(t *testing.T) {
		s, mock := createStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM events")).WillReturnError(sql.ErrConnDone)

		_, err := s.ListEvents(ctx)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}
