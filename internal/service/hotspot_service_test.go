package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
)

type fakeConfigRepo struct {
	cfg      *models.HotspotConfig
	getCalls int
}

func (f *fakeConfigRepo) Get(_ context.Context) (*models.HotspotConfig, error) {
	f.getCalls++
	if f.cfg == nil {
		f.cfg = &models.HotspotConfig{
			ID:         models.HotspotConfigID,
			SSID:       models.DefaultSSID,
			Passphrase: models.DefaultPassphrase,
			Active:     true,
		}
	}
	copied := *f.cfg
	return &copied, nil
}

func (f *fakeConfigRepo) Update(_ context.Context, cfg *models.HotspotConfig) error {
	cfg.ID = models.HotspotConfigID
	stored := *cfg
	f.cfg = &stored
	return nil
}

func newHotspotServiceForTest(repo *fakeConfigRepo) *HotspotService {
	return NewHotspotService(repo, nil, validator.New(), zap.NewNop(), HotspotConfigServiceConfig{QRSize: 128})
}

func TestHotspotServiceConfigCreatesDefaults(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	cfg, err := svc.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSSID, cfg.SSID)
	assert.Equal(t, models.DefaultPassphrase, cfg.Passphrase)
	assert.True(t, cfg.Active)
}

func TestHotspotServiceUpdateRoundTrips(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	cfg, err := svc.Update(context.Background(), UpdateConfigRequest{
		SSID:       "CampusNet",
		Passphrase: "sup3rsecret",
		Active:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "CampusNet", cfg.SSID)

	got, err := svc.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CampusNet", got.SSID)
	assert.Equal(t, "sup3rsecret", got.Passphrase)
}

func TestHotspotServiceUpdateRejectsShortPassphrase(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	_, err := svc.Update(context.Background(), UpdateConfigRequest{
		SSID:       "CampusNet",
		Passphrase: "short",
		Active:     true,
	})
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestHotspotServiceWiFiPayload(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	payload, err := svc.WiFiPayload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "WIFI:T:WPA;S:SchoolHotspot;P:school123;;", payload)
}

func TestHotspotServiceQRCodeRendersPNG(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	png, err := svc.QRCode(context.Background())
	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), png[:8])
}

func TestHotspotServiceInstructionsNameTheNetwork(t *testing.T) {
	repo := &fakeConfigRepo{}
	svc := newHotspotServiceForTest(repo)

	instructions, err := svc.Instructions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSSID, instructions.SSID)
	require.Len(t, instructions.Steps, 4)
	assert.Contains(t, instructions.Steps[1], models.DefaultSSID)
	assert.Contains(t, instructions.Steps[2], models.DefaultPassphrase)
}
