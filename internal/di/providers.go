package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/schoolsuite/institute-admin-api/internal/app"
	"github.com/schoolsuite/institute-admin-api/internal/config"
	"github.com/schoolsuite/institute-admin-api/internal/database"
	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/health"
	"github.com/schoolsuite/institute-admin-api/internal/http/handler"
	"github.com/schoolsuite/institute-admin-api/internal/http/middleware"
	"github.com/schoolsuite/institute-admin-api/internal/http/router"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/security"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewGroupRepository,
	repository.NewPermissionRepository,
	repository.NewStaffRepository,
	repository.NewMealSetupRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	service.NewRBACService,
	wire.Bind(new(service.RBACAuthorizer), new(*service.RBACService)),
	provideListCacheStore,
	providePermissionResolver,
	wire.Bind(new(service.PermissionResolver), new(*service.CachedPermissionResolver)),
	provideResourceServices,
	provideStaffService,
	provideGroupService,
	service.NewPermissionService,
	provideMealSetupService,
	provideAuthService,
	provideIntentService,
	provideStorageService,
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	provideStaffHandler,
	handler.NewGroupHandler,
	handler.NewIntentHandler,
	handler.NewMealSetupHandler,
	provideGlobalRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

// ResourceServices groups one generic CRUD service per catalogue entity.
type ResourceServices struct {
	InstituteType *service.ResourceService[domain.InstituteType]
	Institute     *service.ResourceService[domain.Institute]
	Event         *service.ResourceService[domain.Event]
	FeeHead       *service.ResourceService[domain.FeeHead]
	FeeSubHead    *service.ResourceService[domain.FeeSubHead]
	FeeName       *service.ResourceService[domain.FeeName]
	FeePackage    *service.ResourceService[domain.FeePackage]
	MealName      *service.ResourceService[domain.MealName]
	MealItem      *service.ResourceService[domain.MealItem]
	Fund          *service.ResourceService[domain.Fund]
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if _, err := database.Seed(db); err != nil {
		return nil, err
	}
	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		if _, err := database.EnsureSuperAdmin(db, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL)
}

func provideListCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.ListCacheStore {
	if cfg.RedisEnabled && redisClient != nil {
		return service.NewRedisListCacheStore(redisClient, "listcache")
	}
	return service.NewInMemoryListCacheStore()
}

func providePermissionResolver(cfg *config.Config, redisClient redis.UniversalClient, groups repository.GroupRepository) *service.CachedPermissionResolver {
	var store service.PermissionCacheStore
	if cfg.RedisEnabled && redisClient != nil {
		store = service.NewRedisPermissionCacheStore(redisClient, "rbacperm")
	} else {
		store = service.NewInMemoryPermissionCacheStore()
	}
	return service.NewCachedPermissionResolver(store, groups, cfg.PermissionCacheTTL)
}

func provideResourceServices(cfg *config.Config, db *gorm.DB, cache service.ListCacheStore) *ResourceServices {
	ttl := cfg.ListCacheTTL
	return &ResourceServices{
		InstituteType: service.NewResourceService(repository.NewResourceRepository[domain.InstituteType](db, service.TagInstituteType), service.InstituteTypeDescriptor(), cache, ttl),
		Institute:     service.NewResourceService(repository.NewResourceRepository[domain.Institute](db, service.TagInstitute), service.InstituteDescriptor(), cache, ttl),
		Event:         service.NewResourceService(repository.NewResourceRepository[domain.Event](db, service.TagEvent), service.EventDescriptor(), cache, ttl),
		FeeHead:       service.NewResourceService(repository.NewResourceRepository[domain.FeeHead](db, service.TagFeeHead), service.FeeHeadDescriptor(), cache, ttl),
		FeeSubHead:    service.NewResourceService(repository.NewResourceRepository[domain.FeeSubHead](db, service.TagFeeSubHead), service.FeeSubHeadDescriptor(), cache, ttl),
		FeeName:       service.NewResourceService(repository.NewResourceRepository[domain.FeeName](db, service.TagFeeName), service.FeeNameDescriptor(), cache, ttl),
		FeePackage:    service.NewResourceService(repository.NewResourceRepository[domain.FeePackage](db, service.TagFeePackage), service.FeePackageDescriptor(), cache, ttl),
		MealName:      service.NewResourceService(repository.NewResourceRepository[domain.MealName](db, service.TagMealName), service.MealNameDescriptor(), cache, ttl),
		MealItem:      service.NewResourceService(repository.NewResourceRepository[domain.MealItem](db, service.TagMealItem), service.MealItemDescriptor(), cache, ttl),
		Fund:          service.NewResourceService(repository.NewResourceRepository[domain.Fund](db, service.TagFund), service.FundDescriptor(), cache, ttl),
	}
}

func provideStaffService(cfg *config.Config, staff repository.StaffRepository, cache service.ListCacheStore) *service.StaffService {
	return service.NewStaffService(staff, cache, cfg.ListCacheTTL)
}

func provideGroupService(groups repository.GroupRepository, resolver service.PermissionResolver, cache service.ListCacheStore) *service.GroupService {
	return service.NewGroupService(groups, resolver, cache)
}

func provideMealSetupService(cfg *config.Config, repo repository.MealSetupRepository, cache service.ListCacheStore) *service.MealSetupService {
	return service.NewMealSetupService(repo, cache, cfg.ListCacheTTL)
}

func provideAuthService(cfg *config.Config, users repository.UserRepository, rbac *service.RBACService, jwt *security.JWTManager) *service.AuthService {
	return service.NewAuthService(users, rbac, jwt, cfg.JWTAccessTTL)
}

func provideIntentService(
	cfg *config.Config,
	redisClient redis.UniversalClient,
	rbac service.RBACAuthorizer,
	resolver service.PermissionResolver,
	resources *ResourceServices,
	staff *service.StaffService,
	mealSetups *service.MealSetupService,
) *service.IntentService {
	var store service.IntentStore
	if cfg.RedisEnabled && redisClient != nil {
		store = service.NewRedisIntentStore(redisClient, "intent")
	} else {
		store = service.NewInMemoryIntentStore()
	}
	svc := service.NewIntentService(store, rbac, resolver, cfg.IntentTTL)
	svc.RegisterExecutor(service.TagInstituteType, resources.InstituteType)
	svc.RegisterExecutor(service.TagInstitute, resources.Institute)
	svc.RegisterExecutor(service.TagEvent, resources.Event)
	svc.RegisterExecutor(service.TagFeeHead, resources.FeeHead)
	svc.RegisterExecutor(service.TagFeeSubHead, resources.FeeSubHead)
	svc.RegisterExecutor(service.TagFeeName, resources.FeeName)
	svc.RegisterExecutor(service.TagFeePackage, resources.FeePackage)
	svc.RegisterExecutor(service.TagMealName, resources.MealName)
	svc.RegisterExecutor(service.TagMealItem, resources.MealItem)
	svc.RegisterExecutor(service.TagFund, resources.Fund)
	svc.RegisterExecutor(service.TagStaff, staff)
	svc.RegisterExecutor(service.TagMealSetup, mealSetups)
	return svc
}

func provideStorageService(cfg *config.Config) (service.StorageService, error) {
	if cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
		return nil, nil
	}
	return service.NewMinIOStorageService(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StorageUseSSL)
}

// The API window fails open when Redis is unreachable so an outage does not
// take the whole surface down; the login window fails closed because it
// guards credential guessing.
func provideGlobalRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.GlobalRateLimiterFunc {
	if cfg.RedisEnabled && redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, "ratelimit:api")
		return middleware.NewDistributedRateLimiter(limiter, cfg.APIRateLimitPerMin, time.Minute, middleware.FailOpen, "api").Middleware()
	}
	return middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute).Middleware()
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if cfg.RedisEnabled && redisClient != nil {
		limiter := middleware.NewRedisFixedWindowLimiter(redisClient, "ratelimit:auth")
		return middleware.NewDistributedRateLimiter(limiter, cfg.AuthRateLimitPerMin, time.Minute, middleware.FailClosed, "auth").Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute).Middleware()
}

func provideAuthHandler(auth *service.AuthService, resolver service.PermissionResolver) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, resolver)
}

func provideStaffHandler(staff *service.StaffService, storage service.StorageService) *handler.StaffHandler {
	return handler.NewStaffHandler(staff, storage)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	staffHandler *handler.StaffHandler,
	groupHandler *handler.GroupHandler,
	intentHandler *handler.IntentHandler,
	mealSetupHandler *handler.MealSetupHandler,
	resources *ResourceServices,
	jwt *security.JWTManager,
	rbac service.RBACAuthorizer,
	resolver service.PermissionResolver,
	globalLimiter router.GlobalRateLimiterFunc,
	authLimiter router.AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		StaffHandler:     staffHandler,
		GroupHandler:     groupHandler,
		IntentHandler:    intentHandler,
		MealSetupHandler: mealSetupHandler,

		InstituteType: handler.NewResourceHandler(resources.InstituteType),
		Institute:     handler.NewResourceHandler(resources.Institute),
		Event:         handler.NewResourceHandler(resources.Event),
		FeeHead:       handler.NewResourceHandler(resources.FeeHead),
		FeeSubHead:    handler.NewResourceHandler(resources.FeeSubHead),
		FeeName:       handler.NewResourceHandler(resources.FeeName),
		FeePackage:    handler.NewResourceHandler(resources.FeePackage),
		MealName:      handler.NewResourceHandler(resources.MealName),
		MealItem:      handler.NewResourceHandler(resources.MealItem),
		Fund:          handler.NewResourceHandler(resources.Fund),

		JWTManager:         jwt,
		RBACService:        rbac,
		PermissionResolver: resolver,

		CORSOrigins:       cfg.CORSAllowedOrigins,
		GlobalRateLimiter: globalLimiter,
		AuthRateLimiter:   authLimiter,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := make([]health.Checker, 0, 2)
	if c := health.NewDBChecker(db); c != nil {
		checkers = append(checkers, c)
	}
	if cfg.RedisEnabled {
		if c := health.NewRedisChecker(redisClient); c != nil {
			checkers = append(checkers, c)
		}
	}
	return health.NewProbeRunner(time.Second, 0, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, readiness)
}
