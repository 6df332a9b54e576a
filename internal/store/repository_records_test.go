package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:     db,
		logger: logger.Nop(),
	}
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var recordColumns = []string{
	"id", "parent_id", "version", "updated_at", "sync_status", "asset_ref", "payload",
}

func TestRecordRepository_UpsertBatch(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	now := time.Now().UTC()
	rec := models.TrackedRecord{
		ID:         "b-1",
		Kind:       models.EntityBrewery,
		Version:    1,
		UpdatedAt:  now,
		SyncStatus: models.SyncPending,
		Payload:    []byte(`{"id":"b-1","name":"Westvleteren"}`),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WithArgs(rec.ID, rec.ParentID, rec.Version, rec.UpdatedAt, rec.SyncStatus, rec.AssetRef, string(rec.Payload)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertBatch(testContext(), models.EntityBrewery, []models.TrackedRecord{rec})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_UpsertBatch_UnknownKind(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	err := repo.UpsertBatch(testContext(), models.EntityKind("wines"), nil)
	assert.ErrorIs(t, err, ErrUnknownEntityKind)
}

func TestRecordRepository_GetByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM beers")).
		WithArgs("beer-1").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("beer-1", "b-1", int64(3), now, "synced", "", `{"id":"beer-1"}`))

	rec, err := repo.GetByID(testContext(), models.EntityBeer, "beer-1")
	require.NoError(t, err)
	assert.Equal(t, "beer-1", rec.ID)
	assert.Equal(t, "b-1", rec.ParentID)
	assert.Equal(t, int64(3), rec.Version)
	assert.Equal(t, models.EntityBeer, rec.Kind)
	assert.Equal(t, models.SyncSynced, rec.SyncStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM beers")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := repo.GetByID(testContext(), models.EntityBeer, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepository_GetAll(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM breweries")).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("b-1", "", int64(1), now, "pending", "", `{}`).
			AddRow("b-2", "", int64(2), now, "synced", "", `{}`))

	records, err := repo.GetAll(testContext(), models.EntityBrewery)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b-1", records[0].ID)
	assert.Equal(t, "b-2", records[1].ID)
}

func TestRecordRepository_CountAll(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM breweries")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountAll(testContext(), models.EntityBrewery)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRecordRepository_UpdatedAtIndex(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	t1 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, updated_at FROM beers")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).
			AddRow("beer-1", t1).
			AddRow("beer-2", t2))

	idx, err := repo.UpdatedAtIndex(testContext(), models.EntityBeer)
	require.NoError(t, err)
	assert.Equal(t, map[string]time.Time{"beer-1": t1, "beer-2": t2}, idx)
}

func TestRecordRepository_SetAssetRef(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE beers SET asset_ref")).
		WithArgs("/assets/beer-1.jpg", "beer-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetAssetRef(testContext(), models.EntityBeer, "beer-1", "/assets/beer-1.jpg")
	require.NoError(t, err)
}

func TestRecordRepository_SetAssetRef_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE beers SET asset_ref")).
		WithArgs("/assets/x.jpg", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAssetRef(testContext(), models.EntityBeer, "missing", "/assets/x.jpg")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepository_MarkSynced(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE breweries SET sync_status")).
		WithArgs(models.SyncSynced, "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSynced(testContext(), models.EntityBrewery, "b-1")
	require.NoError(t, err)
}

func TestRecordRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM beers WHERE id")).
		WithArgs("beer-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(testContext(), models.EntityBeer, "beer-1")
	require.NoError(t, err)
}

func TestRecordRepository_Delete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM breweries WHERE id")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(testContext(), models.EntityBrewery, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepository_Clear(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRecordRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM beers")).
		WillReturnResult(sqlmock.NewResult(0, 5))

	err := repo.Clear(testContext(), models.EntityBeer)
	require.NoError(t, err)
}
