package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qrtrack/internal/db"
	"qrtrack/internal/entities"
	"qrtrack/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	return gdb
}

func strPtr(s string) *string { return &s }

func makeQRCode(t *testing.T, repo *QRCodeRepo, slug string) *entities.QRCode {
	t.Helper()

	qr := &entities.QRCode{
		Slug:           slug,
		DestinationURL: "https://example.com/landing",
		UTMSource:      strPtr("ig"),
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(qr))
	return qr
}

func TestQRCodeLookupExcludesArchived(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewQRCodeRepo(gdb)

	qr := makeQRCode(t, repo, "abCD1234")

	got, err := repo.GetBySlug("abCD1234")
	require.NoError(t, err)
	assert.Equal(t, qr.ID, got.ID)

	require.NoError(t, repo.Archive(qr.ID))

	_, err = repo.GetBySlug("abCD1234")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByID(qr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Soft delete: the row itself survives with its archival timestamp set.
	var raw entities.QRCode
	require.NoError(t, gdb.First(&raw, qr.ID).Error)
	require.NotNil(t, raw.ArchivedAt)
}

func TestArchiveTwiceReportsNotFound(t *testing.T) {
	repo := NewQRCodeRepo(newTestDB(t))
	qr := makeQRCode(t, repo, "dupArch1")

	require.NoError(t, repo.Archive(qr.ID))
	assert.ErrorIs(t, repo.Archive(qr.ID), gorm.ErrRecordNotFound)
}

func TestSlugUniqueConstraintIsBackstop(t *testing.T) {
	repo := NewQRCodeRepo(newTestDB(t))
	makeQRCode(t, repo, "same1234")

	err := repo.Create(&entities.QRCode{
		Slug:           "same1234",
		DestinationURL: "https://example.com/other",
		CreatedAt:      time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, utils.IsUniqueConstraint(err))
}

func TestArchivedSlugCannotBeReused(t *testing.T) {
	repo := NewQRCodeRepo(newTestDB(t))
	qr := makeQRCode(t, repo, "keep1234")
	require.NoError(t, repo.Archive(qr.ID))

	// The unique index spans archived rows, so the slug stays taken.
	err := repo.Create(&entities.QRCode{
		Slug:           "keep1234",
		DestinationURL: "https://example.com/new",
		CreatedAt:      time.Now().UTC(),
	})
	assert.True(t, utils.IsUniqueConstraint(err))
}

func TestPartialUpdate(t *testing.T) {
	repo := NewQRCodeRepo(newTestDB(t))
	qr := makeQRCode(t, repo, "upd12345")

	got, err := repo.Update(qr.ID, map[string]any{
		"utm_campaign": "launch",
		"name":         nil,
	})
	require.NoError(t, err)

	require.NotNil(t, got.UTMCampaign)
	assert.Equal(t, "launch", *got.UTMCampaign)
	assert.Nil(t, got.Name)
	// Untouched fields keep their values.
	require.NotNil(t, got.UTMSource)
	assert.Equal(t, "ig", *got.UTMSource)
	assert.Equal(t, "https://example.com/landing", got.DestinationURL)
}

func TestUpdateArchivedNotFound(t *testing.T) {
	repo := NewQRCodeRepo(newTestDB(t))
	qr := makeQRCode(t, repo, "gone1234")
	require.NoError(t, repo.Archive(qr.ID))

	_, err := repo.Update(qr.ID, map[string]any{"name": "late"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListActiveWithScanTotals(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewQRCodeRepo(gdb)
	scans := NewScanRepo(gdb)

	older := &entities.QRCode{
		Slug:           "older123",
		DestinationURL: "https://example.com/a",
		CreatedAt:      time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(older))
	newer := makeQRCode(t, repo, "newer123")
	archived := makeQRCode(t, repo, "arch1234")
	require.NoError(t, repo.Archive(archived.ID))

	for i := 0; i < 3; i++ {
		require.NoError(t, scans.Create(context.Background(), &entities.ScanEvent{
			QRCodeID:   older.ID,
			IPHash:     fmt.Sprintf("hash-%d", i),
			DeviceType: "desktop",
			Browser:    "Chrome",
			ScannedAt:  time.Now().UTC(),
		}))
	}

	rows, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first, scan totals joined in.
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.EqualValues(t, 0, rows[0].TotalScans)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.EqualValues(t, 3, rows[1].TotalScans)
}
