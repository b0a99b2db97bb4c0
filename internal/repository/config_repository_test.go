package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/hotspot-portal-api/internal/models"
)

func TestConfigRepositoryGetSeedsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (id) DO NOTHING`)).
		WithArgs(models.HotspotConfigID, models.DefaultSSID, models.DefaultPassphrase).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, ssid, passphrase, is_active FROM hotspot_config WHERE id = $1`)).
		WithArgs(models.HotspotConfigID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ssid", "passphrase", "is_active"}).
			AddRow(models.HotspotConfigID, models.DefaultSSID, models.DefaultPassphrase, true))

	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSSID, cfg.SSID)
	assert.True(t, cfg.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepositoryUpdateForcesSingletonID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DO UPDATE SET ssid = EXCLUDED.ssid`)).
		WithArgs(models.HotspotConfigID, "CampusNet", "sup3rsecret", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := &models.HotspotConfig{ID: 99, SSID: "CampusNet", Passphrase: "sup3rsecret", Active: true}
	require.NoError(t, repo.Update(context.Background(), cfg))
	assert.Equal(t, models.HotspotConfigID, cfg.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
