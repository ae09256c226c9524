package bootstrap

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/address-verifier/app/config"
	"github.com/address-verifier/app/controllers"
	"github.com/address-verifier/app/models"
	"github.com/address-verifier/app/services"
	"github.com/address-verifier/internal/county"
	"github.com/address-verifier/internal/external"
	"github.com/address-verifier/internal/here"
	"github.com/address-verifier/internal/llm"
	"github.com/address-verifier/internal/parser"
	"github.com/address-verifier/internal/usps"
	"github.com/address-verifier/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// County source values
const (
	CountySourceEmbedded = "embedded"
	CountySourceMongo    = "mongodb"
)

// Container giữ các service đã wire, dùng chung cho cmd/api và cmd/worker
type Container struct {
	Config     *config.Config
	Tokens     *usps.TokenCache
	Resolution *services.ResolutionService
	Geocode    *services.GeocodeService
	Verify     *services.VerifyService
	Admin      *services.AdminService
	Counties   *county.Resolver
	Store      *services.CountyStore // nil khi không có MONGO_URL

	cache  services.ICityStateCache
	logger *zap.Logger
}

// Build wire toàn bộ dependency theo cấu hình. Redis và MongoDB là tuỳ chọn,
// kết nối lỗi thì chạy tiếp không có chúng.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	tokens := usps.NewTokenCache(httpClient, usps.OAuthConfig{
		TokenURL:     cfg.USPS.OAuthURL,
		ClientID:     cfg.USPS.ClientID,
		ClientSecret: cfg.USPS.ClientSecret,
	}, logger)
	if cfg.USPS.ClientID == "" || cfg.USPS.ClientSecret == "" {
		logger.Warn("USPS_CLIENT_ID/USPS_CLIENT_SECRET chưa cấu hình, mọi request sẽ lỗi stage oauth")
	}
	postal := usps.NewClient(httpClient, cfg.USPS.AddressesBase, newLimiter(cfg.Upstream.RPS), logger)

	geocoder := here.NewClient(httpClient, cfg.Here.GeocodeURL, cfg.Here.APIKey, newLimiter(cfg.Upstream.RPS), logger)
	if !geocoder.Configured() {
		logger.Warn("HERE_API_KEY chưa cấu hình, /here/geocode-line sẽ trả here-geocode-failed")
	}

	model := buildModel(cfg, httpClient, logger)
	extractor := parser.NewAddressExtractor(model, logger)

	c := &Container{
		Config: cfg,
		Tokens: tokens,
		logger: logger,
	}

	pingers := map[string]services.Pinger{}
	c.cache = buildCache(cfg, pingers, logger)

	records, source, err := c.loadCounties(ctx, cfg, pingers)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.Counties = county.NewResolver(records)

	enrich := services.NewEnrichmentStep(postal, c.cache, logger)
	c.Resolution = services.NewResolutionService(tokens, extractor, enrich, postal, cfg.Batch.Concurrency, logger)
	c.Geocode = services.NewGeocodeService(geocoder, parser.NewMatchClassifier(), c.Counties, logger)
	c.Verify = services.NewVerifyService(c.Resolution, c.Geocode)

	deps := services.AdminDeps{
		Resolution:   c.Resolution,
		Cache:        c.cache,
		Tokens:       tokens,
		Counties:     c.Counties,
		CountySource: source,
		Pingers:      pingers,
	}
	if c.Store != nil {
		deps.Store = c.Store
	}
	c.Admin = services.NewAdminService(deps, logger)

	logger.Info("Đã khởi tạo pipeline",
		zap.String("extractor", extractor.ModelName()),
		zap.String("usps_env", cfg.USPS.Env),
		zap.String("county_source", source),
		zap.Int("county_providers", c.Counties.Len()),
		zap.Bool("redis", pingers["redis"] != nil),
		zap.Bool("mongodb", c.Store != nil))

	return c, nil
}

// Router tạo gin engine với middleware và toàn bộ routes
func (c *Container) Router() *gin.Engine {
	router := gin.New()
	routes.SetupMiddleware(router, c.logger)
	routes.SetupAllRoutes(router,
		controllers.NewAddressController(c.Resolution, c.Verify, c.logger),
		controllers.NewGeocodeController(c.Geocode, c.Counties, c.logger),
		controllers.NewAdminController(c.Admin, c.logger),
	)
	return router
}

// Close đóng cache và kết nối MongoDB
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close(ctx))
	}
	return errors.Join(errs...)
}

// buildModel chọn model extractor theo EXTRACTOR. Trả nil khi model bị tắt,
// lúc đó mọi dòng đi thẳng vào fallback ZIP.
func buildModel(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) parser.ModelExtractor {
	switch cfg.Extractor {
	case config.ExtractorOpenAI:
		if cfg.OpenAI.APIKey == "" {
			logger.Warn("OPENAI_API_KEY chưa cấu hình, dùng fallback ZIP")
			return nil
		}
		ext, err := llm.NewOpenAIExtractor(llm.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Mode:       llm.Mode(cfg.LLM.Mode),
			Timeout:    cfg.HTTP.Timeout,
			HTTPClient: httpClient,
		}, logger)
		if err != nil {
			logger.Warn("Không khởi tạo được OpenAI extractor", zap.Error(err))
			return nil
		}
		return ext
	case config.ExtractorLibpostal:
		ext, err := external.NewLibpostalExtractor()
		if err != nil {
			logger.Warn("Không khởi tạo được libpostal extractor", zap.Error(err))
			return nil
		}
		return ext
	default:
		return nil
	}
}

// buildCache LRU L1, thêm Redis L2 khi có REDIS_URL
func buildCache(cfg *config.Config, pingers map[string]services.Pinger, logger *zap.Logger) services.ICityStateCache {
	local := services.NewCacheService(cfg.CityState.CacheSize, cfg.CityState.TTL)
	if cfg.Redis.URL == "" {
		return local
	}

	redisCache, err := services.NewRedisCacheService(cfg.Redis.URL, cfg.CityState.TTL, logger)
	if err != nil {
		logger.Warn("Không kết nối được Redis, chỉ dùng LRU cache", zap.Error(err))
		return local
	}
	pingers["redis"] = redisCache
	return services.NewHybridCacheService(local, redisCache, logger)
}

// loadCounties đọc bảng provider từ MongoDB nếu có dữ liệu, không thì dùng bảng nhúng
func (c *Container) loadCounties(ctx context.Context, cfg *config.Config, pingers map[string]services.Pinger) ([]models.CountyProviderRecord, string, error) {
	if cfg.Mongo.URL != "" {
		store, err := services.NewCountyStore(ctx, cfg.Mongo.URL, cfg.Mongo.Database, c.logger)
		if err != nil {
			c.logger.Warn("Không kết nối được MongoDB, dùng bảng county nhúng", zap.Error(err))
		} else {
			c.Store = store
			pingers["mongodb"] = store

			records, err := store.LoadAll(ctx)
			switch {
			case err != nil:
				c.logger.Warn("Không đọc được county providers từ MongoDB", zap.Error(err))
			case len(records) > 0:
				if problems := county.Validate(records); len(problems) > 0 {
					c.logger.Warn("Bảng county trong MongoDB có lỗi", zap.Strings("problems", problems))
				}
				return records, CountySourceMongo, nil
			}
		}
	}

	records, err := county.LoadEmbedded()
	if err != nil {
		return nil, "", err
	}
	return records, CountySourceEmbedded, nil
}

// newLimiter nil khi rps = 0
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
}
