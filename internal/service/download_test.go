package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avoronov/cellarsync/internal/adapter"
	"github.com/avoronov/cellarsync/internal/logger"
	"github.com/avoronov/cellarsync/internal/mock"
	"github.com/avoronov/cellarsync/models"
)

type downloadFixture struct {
	records  *mock.MockRecordRepository
	backups  *mock.MockBackupCreator
	cloud    *mock.MockCloudStore
	network  *mock.MockNetworkStatus
	gate     *runGate
	mockDB   sqlmock.Sqlmock
	assetDir string
	orch     *DownloadOrchestrator
}

func newDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, mockDB := newTxDB(t)
	f := &downloadFixture{
		records:  mock.NewMockRecordRepository(ctrl),
		backups:  mock.NewMockBackupCreator(ctrl),
		cloud:    mock.NewMockCloudStore(ctrl),
		network:  mock.NewMockNetworkStatus(ctrl),
		gate:     &runGate{},
		mockDB:   mockDB,
		assetDir: t.TempDir(),
	}
	f.orch = NewDownloadOrchestrator(
		f.records, db, f.backups, f.cloud, NewConflictResolver(), f.network, f.gate,
		2, 2, 3, f.assetDir, logger.Nop(),
	)

	return f
}

func (f *downloadFixture) online() {
	f.network.EXPECT().State().Return(models.NetworkState{Connected: true}).AnyTimes()
}

func (f *downloadFixture) localCounts(breweries, beers int) {
	f.records.EXPECT().CountAll(gomock.Any(), models.EntityBrewery).Return(breweries, nil)
	f.records.EXPECT().CountAll(gomock.Any(), models.EntityBeer).Return(beers, nil)
}

func remoteRecord(id string, kind models.EntityKind, parentID string, at time.Time) models.TrackedRecord {
	return models.TrackedRecord{
		ID:         id,
		Kind:       kind,
		ParentID:   parentID,
		Version:    1,
		UpdatedAt:  at,
		SyncStatus: models.SyncPending,
		Payload:    []byte(`{}`),
	}
}

func TestDownloadOrchestrator_UnknownStrategy(t *testing.T) {
	f := newDownloadFixture(t)

	result, err := f.orch.Download(testContext(), "coin_flip", nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, models.PhaseError, result.Phase)
	assert.Equal(t, stateIdle, f.gate.current())
}

func TestDownloadOrchestrator_Offline(t *testing.T) {
	f := newDownloadFixture(t)
	f.network.EXPECT().State().Return(models.NetworkState{Connected: false})

	_, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestDownloadOrchestrator_GateHeld(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	require.True(t, f.gate.tryBegin(stateQueueing))

	_, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.Equal(t, stateQueueing, f.gate.current())
}

func TestDownloadOrchestrator_KeepLocalOverExistingDataIsNoop(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(1, 4)

	result, err := f.orch.Download(testContext(), models.StrategyKeepLocal, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseComplete, result.Phase)
	assert.Empty(t, result.BackupID)
	require.NoError(t, f.mockDB.ExpectationsWereMet())
}

func TestDownloadOrchestrator_WakesQueueAfterRelease(t *testing.T) {
	f := newDownloadFixture(t)
	waker := mock.NewMockWaker(gomock.NewController(t))
	f.orch.Notify(waker)
	f.online()
	f.localCounts(1, 4)

	// The gate must already be free when the wake fires, so the queue pass
	// it triggers can begin instead of being skipped again.
	waker.EXPECT().Wake().Do(func() {
		assert.Equal(t, stateIdle, f.gate.current())
	})

	_, err := f.orch.Download(testContext(), models.StrategyKeepLocal, nil)
	require.NoError(t, err)
}

func TestDownloadOrchestrator_WakesQueueAfterFailedRestore(t *testing.T) {
	f := newDownloadFixture(t)
	waker := mock.NewMockWaker(gomock.NewController(t))
	f.orch.Notify(waker)
	f.online()
	f.localCounts(1, 0)

	f.backups.EXPECT().Create(gomock.Any(), models.BackupPreDownload).
		Return(models.BackupMetadata{ID: "backup-9"}, nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return(nil, "", adapter.ErrUnavailable)

	waker.EXPECT().Wake()

	_, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}

func TestDownloadOrchestrator_ReplaceAll(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(1, 2)

	at := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	b1 := remoteRecord("b-1", models.EntityBrewery, "", at)
	b2 := remoteRecord("b-2", models.EntityBrewery, "", at)
	b3 := remoteRecord("b-3", models.EntityBrewery, "", at)
	beer := remoteRecord("beer-1", models.EntityBeer, "b-1", at)
	beer.AssetRef = "https://cdn.cellarsync.app/labels/beer-1.jpg"
	orphan := remoteRecord("beer-2", models.EntityBeer, "ghost", at)

	f.backups.EXPECT().Create(gomock.Any(), models.BackupPreDownload).
		Return(models.BackupMetadata{ID: "backup-1"}, nil)

	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{b1, b2}, "page-2", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "page-2", 2).
		Return([]models.TrackedRecord{b3}, "", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBeer, "", 2).
		Return([]models.TrackedRecord{beer, orphan}, "", nil)

	f.mockDB.ExpectBegin()
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM breweries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < 3; i++ {
		f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM beers")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO beers")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectCommit()

	f.cloud.EXPECT().DownloadAsset(gomock.Any(), beer.AssetRef).Return([]byte("jpeg"), nil)
	cached := filepath.Join(f.assetDir, "beer-1.jpg")
	f.records.EXPECT().SetAssetRef(gomock.Any(), models.EntityBeer, "beer-1", cached).Return(nil)

	f.backups.EXPECT().Cleanup(gomock.Any(), 3).Return(0, nil)

	var phases []models.DownloadPhase
	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, func(p models.DownloadProgress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, models.PhaseComplete, result.Phase)
	assert.Equal(t, "backup-1", result.BackupID)
	assert.Equal(t, 3, result.Inserted[models.EntityBrewery])
	assert.Equal(t, 1, result.Inserted[models.EntityBeer])
	assert.Equal(t, 1, result.SkippedOrphans)
	assert.Equal(t, 1, result.ImagesDone)
	assert.Zero(t, result.ImagesFailed)

	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	assert.Equal(t, []models.DownloadPhase{
		models.PhasePreparing,
		models.PhaseBackingUp,
		models.PhaseFetching,
		models.PhaseValidating,
		models.PhaseInserting,
		models.PhaseDownloadingImages,
		models.PhaseComplete,
	}, phases)

	assert.Equal(t, stateIdle, f.gate.current())
	require.NoError(t, f.mockDB.ExpectationsWereMet())
}

func TestDownloadOrchestrator_MergeByDate(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(3, 0)

	base := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	localNewer := remoteRecord("b-1", models.EntityBrewery, "", base.Add(-time.Hour))
	remoteNewer := remoteRecord("b-2", models.EntityBrewery, "", base.Add(time.Hour))
	tied := remoteRecord("b-3", models.EntityBrewery, "", base)

	f.backups.EXPECT().Create(gomock.Any(), models.BackupPreDownload).
		Return(models.BackupMetadata{ID: "backup-2"}, nil)

	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{localNewer, remoteNewer}, "p2", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "p2", 2).
		Return([]models.TrackedRecord{tied}, "", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBeer, "", 2).
		Return(nil, "", nil)

	f.records.EXPECT().UpdatedAtIndex(gomock.Any(), models.EntityBrewery).Return(map[string]time.Time{
		"b-1": base, // strictly newer than the remote copy
		"b-2": base, // strictly older
		"b-3": base, // exact tie, remote wins
	}, nil)
	f.records.EXPECT().UpdatedAtIndex(gomock.Any(), models.EntityBeer).Return(map[string]time.Time{}, nil)

	f.mockDB.ExpectBegin()
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WithArgs("b-2", "", int64(1), remoteNewer.UpdatedAt, models.SyncSynced, "", `{}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WithArgs("b-3", "", int64(1), tied.UpdatedAt, models.SyncSynced, "", `{}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectCommit()

	f.backups.EXPECT().Cleanup(gomock.Any(), 3).Return(1, nil)

	result, err := f.orch.Download(testContext(), models.StrategyMergeByDate, nil)
	require.NoError(t, err)

	assert.Equal(t, models.PhaseComplete, result.Phase)
	assert.Equal(t, 2, result.Inserted[models.EntityBrewery])
	require.NoError(t, f.mockDB.ExpectationsWereMet())
}

func TestDownloadOrchestrator_FetchFailureLeavesLocalUntouched(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(1, 0)

	f.backups.EXPECT().Create(gomock.Any(), models.BackupPreDownload).
		Return(models.BackupMetadata{ID: "backup-3"}, nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return(nil, "", adapter.ErrUnavailable)

	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
	assert.Equal(t, models.PhaseError, result.Phase)
	assert.NotEmpty(t, result.ErrorMessage)

	// No transaction was ever opened.
	require.NoError(t, f.mockDB.ExpectationsWereMet())
	assert.Equal(t, stateIdle, f.gate.current())
}

func TestDownloadOrchestrator_AbortMidFetchRollsBack(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(0, 0)

	at := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{
			remoteRecord("b-1", models.EntityBrewery, "", at),
			remoteRecord("b-2", models.EntityBrewery, "", at),
		}, "more", nil)

	var sawRolledBack bool
	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, func(p models.DownloadProgress) {
		if p.Phase == models.PhaseFetching && p.Done[models.EntityBrewery] == 2 {
			f.orch.Abort()
		}
		if p.Phase == models.PhaseRolledBack {
			sawRolledBack = true
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.PhaseRolledBack, result.Phase)
	assert.True(t, sawRolledBack)
	assert.Equal(t, stateIdle, f.gate.current())
	require.NoError(t, f.mockDB.ExpectationsWereMet())
}

func TestDownloadOrchestrator_EmptyLocalSkipsBackup(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(0, 0)

	at := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{remoteRecord("b-1", models.EntityBrewery, "", at)}, "", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBeer, "", 2).
		Return(nil, "", nil)

	f.mockDB.ExpectBegin()
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM breweries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM beers")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectCommit()

	f.backups.EXPECT().Cleanup(gomock.Any(), 3).Return(0, nil)

	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	require.NoError(t, err)
	assert.Empty(t, result.BackupID)
	require.NoError(t, f.mockDB.ExpectationsWereMet())
}

func TestDownloadOrchestrator_ImageFailureDoesNotFailRestore(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(0, 0)

	at := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	brewery := remoteRecord("b-1", models.EntityBrewery, "", at)
	beer := remoteRecord("beer-1", models.EntityBeer, "b-1", at)
	beer.AssetRef = "https://cdn.cellarsync.app/labels/beer-1.jpg"

	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{brewery}, "", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBeer, "", 2).
		Return([]models.TrackedRecord{beer}, "", nil)

	f.mockDB.ExpectBegin()
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM breweries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM beers")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO beers")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectCommit()

	f.cloud.EXPECT().DownloadAsset(gomock.Any(), beer.AssetRef).Return(nil, adapter.ErrNotFound)
	f.backups.EXPECT().Cleanup(gomock.Any(), 3).Return(0, nil)

	var failedSnapshots int
	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, func(p models.DownloadProgress) {
		if p.Phase == models.PhaseDownloadingImages && p.CurrentItem == "beer-1" {
			failedSnapshots++
		}
	})
	require.NoError(t, err)

	assert.Equal(t, models.PhaseComplete, result.Phase)
	assert.Zero(t, result.ImagesDone)
	assert.Equal(t, 1, result.ImagesFailed)
	// The failed image still produces a progress snapshot.
	assert.Equal(t, 1, failedSnapshots)
}

func TestDownloadOrchestrator_CachedAssetRefNotRefetched(t *testing.T) {
	f := newDownloadFixture(t)
	f.online()
	f.localCounts(0, 0)

	at := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	brewery := remoteRecord("b-1", models.EntityBrewery, "", at)
	beer := remoteRecord("beer-1", models.EntityBeer, "b-1", at)
	// A record uploaded before its image left the device still carries the
	// local cache path.
	beer.AssetRef = filepath.Join(f.assetDir, "beer-1.jpg")

	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBrewery, "", 2).
		Return([]models.TrackedRecord{brewery}, "", nil)
	f.cloud.EXPECT().ListPage(gomock.Any(), models.EntityBeer, "", 2).
		Return([]models.TrackedRecord{beer}, "", nil)

	f.mockDB.ExpectBegin()
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_queue")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM breweries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO breweries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM beers")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO beers")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mockDB.ExpectCommit()

	f.backups.EXPECT().Cleanup(gomock.Any(), 3).Return(0, nil)

	// No DownloadAsset expectation: the local ref is neither fetched nor
	// counted as a failure.
	result, err := f.orch.Download(testContext(), models.StrategyReplaceAll, nil)
	require.NoError(t, err)

	assert.Equal(t, models.PhaseComplete, result.Phase)
	assert.Zero(t, result.ImagesDone)
	assert.Zero(t, result.ImagesFailed)
}

func TestDownloadOrchestrator_AbortWithoutRunningDownload(t *testing.T) {
	f := newDownloadFixture(t)

	// Must not panic.
	f.orch.Abort()
}
