package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushub/hotspot-portal-api/internal/models"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/wifi"
)

type configRepository interface {
	Get(ctx context.Context) (*models.HotspotConfig, error)
	Update(ctx context.Context, cfg *models.HotspotConfig) error
}

const configCacheKey = "hotspot:config"

// HotspotConfigServiceConfig tunes caching and QR rendering.
type HotspotConfigServiceConfig struct {
	CacheTTL time.Duration
	QRSize   int
}

// UpdateConfigRequest is the admin payload for changing the network.
type UpdateConfigRequest struct {
	SSID       string `json:"ssid" validate:"required,max=50"`
	Passphrase string `json:"passphrase" validate:"required,min=8,max=50"`
	Active     bool   `json:"is_active"`
}

// ConnectionInstructions is the connect-page payload: the network
// parameters plus the step-by-step list shown to the student.
type ConnectionInstructions struct {
	SSID       string   `json:"ssid"`
	Passphrase string   `json:"passphrase"`
	Steps      []string `json:"steps"`
}

// HotspotService serves the singleton hotspot configuration, its WiFi
// provisioning payload and the connect QR code. Reads go through an
// optional redis cache.
type HotspotService struct {
	repo      configRepository
	cache     *redis.Client
	validator *validator.Validate
	logger    *zap.Logger
	config    HotspotConfigServiceConfig
}

// NewHotspotService constructs a HotspotService. The cache client may be
// nil, in which case every read hits the database.
func NewHotspotService(repo configRepository, cache *redis.Client, validate *validator.Validate, logger *zap.Logger, config HotspotConfigServiceConfig) *HotspotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &HotspotService{repo: repo, cache: cache, validator: validate, logger: logger, config: config}
}

// Config returns the singleton configuration, creating it with defaults
// on first read.
func (s *HotspotService) Config(ctx context.Context) (*models.HotspotConfig, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hotspot config")
	}
	s.toCache(ctx, cfg)
	return cfg, nil
}

// Update rewrites the singleton configuration and drops the cache entry.
func (s *HotspotService) Update(ctx context.Context, req UpdateConfigRequest) (*models.HotspotConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hotspot config payload")
	}
	cfg := &models.HotspotConfig{
		SSID:       req.SSID,
		Passphrase: req.Passphrase,
		Active:     req.Active,
	}
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hotspot config")
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, configCacheKey).Err(); err != nil {
			s.logger.Warn("failed to invalidate hotspot config cache", zap.Error(err))
		}
	}
	return cfg, nil
}

// Instructions returns the connect-page payload for students with
// approved access.
func (s *HotspotService) Instructions(ctx context.Context) (*ConnectionInstructions, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectionInstructions{
		SSID:       cfg.SSID,
		Passphrase: cfg.Passphrase,
		Steps: []string{
			"Go to your device's WiFi settings",
			"Look for network: " + cfg.SSID,
			"Connect using password: " + cfg.Passphrase,
			"Open any browser and you'll be redirected to login",
		},
	}, nil
}

// WiFiPayload returns the provisioning string for the current network.
func (s *HotspotService) WiFiPayload(ctx context.Context) (string, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return "", err
	}
	return wifi.Payload(cfg.SSID, cfg.Passphrase), nil
}

// QRCode renders the provisioning payload as a PNG.
func (s *HotspotService) QRCode(ctx context.Context) ([]byte, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	png, err := wifi.QRCode(cfg.SSID, cfg.Passphrase, s.config.QRSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}
	return png, nil
}

func (s *HotspotService) fromCache(ctx context.Context) *models.HotspotConfig {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, configCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("hotspot config cache read failed", zap.Error(err))
		}
		return nil
	}
	var cfg models.HotspotConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil
	}
	return &cfg
}

func (s *HotspotService) toCache(ctx context.Context, cfg *models.HotspotConfig) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, configCacheKey, raw, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("hotspot config cache write failed", zap.Error(err))
	}
}
