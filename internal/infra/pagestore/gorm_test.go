package pagestore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-cms/internal/domain/page"
)

const pageID = "6f1c2a4e-8b3d-4c7a-9e21-0d5b7f3a9c10"

var pageColumns = []string{"id", "title", "slug", "status", "content", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormStoreGetPageByID(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pages" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow(pageID, "Home", "home", page.StatusDraft, "\n<!-- component:text-1:0:{} -->", now, now))

	p, err := store.GetPageByID(context.Background(), pageID)
	require.NoError(t, err)
	assert.Equal(t, "home", p.Slug)
	assert.Contains(t, p.Content, "component:text-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreGetPageByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pages" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(pageColumns))

	_, err := store.GetPageByID(context.Background(), "0b8e6a52-1f4c-4d2e-a9b7-3c5d6e7f8a90")
	assert.ErrorIs(t, err, page.ErrPageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCreatePage(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "pages"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := store.CreatePage(context.Background(), "Summer", "summer", "", page.CreateOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, page.StatusDraft, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreCreatePageDuplicateSlug(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "pages"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := store.CreatePage(context.Background(), "Summer", "summer", "", page.CreateOptions{})
	assert.ErrorIs(t, err, page.ErrSlugTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreUpdatePageWritesContentOnly(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	content := "\n<!-- component:banner-1000:0:{\"content\":{},\"settings\":{}} -->"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pages" SET "content"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(content, sqlmock.AnyArg(), pageID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pages" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow(pageID, "Home", "home", page.StatusPublished, content, now, now))

	p, err := store.UpdatePage(context.Background(), pageID, page.Update{Content: content})
	require.NoError(t, err)
	assert.Equal(t, content, p.Content)
	assert.Equal(t, page.StatusPublished, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreUpdatePageNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pages"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdatePage(context.Background(), "0b8e6a52-1f4c-4d2e-a9b7-3c5d6e7f8a90", page.Update{Content: ""})
	assert.ErrorIs(t, err, page.ErrPageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRejectsNonUUIDWithoutQuery(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.GetPageByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, page.ErrPageNotFound)

	_, err = store.UpdatePage(context.Background(), "home", page.Update{Content: ""})
	assert.ErrorIs(t, err, page.ErrPageNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
