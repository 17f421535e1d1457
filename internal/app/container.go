package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/config"
	"corporate-checkout/internal/http/handlers"
	"corporate-checkout/internal/http/middleware"
	"corporate-checkout/internal/http/middleware/ratelimit"
	"corporate-checkout/internal/http/pprofserver"
	"corporate-checkout/internal/http/router"
	"corporate-checkout/internal/logx"
	"corporate-checkout/internal/metrics"
	"corporate-checkout/internal/service/checkout"
	"corporate-checkout/internal/service/policy"
	"corporate-checkout/internal/service/proof"
	"corporate-checkout/internal/service/route"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithConfigLoader replaces config.Load
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		func(cfg *config.Config) (logx.Logger, error) { return NewLogger(cfg.LogLevel) },
		prometheus.NewRegistry,
		provideMetrics,
	)
}

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	Checkout               *metrics.Checkout
	HTTP                   *middleware.HTTPMetrics
}

func provideMetrics(reg *prometheus.Registry) (metricsOut, error) {
	rl, err := registerCounter(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	cm := metrics.NewCheckout()
	if err := cm.Register(reg); err != nil {
		return metricsOut{}, fmt.Errorf("register checkout metrics: %w", err)
	}
	hm := middleware.NewHTTPMetrics()
	if err := hm.Register(reg); err != nil {
		return metricsOut{}, fmt.Errorf("register http metrics: %w", err)
	}
	return metricsOut{RateLimitExceededTotal: rl, Checkout: cm, HTTP: hm}, nil
}

// registerCounter returns the already registered collector on a name clash.
func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// EngineConfig maps service settings onto the checkout engine.
func EngineConfig(cfg *config.Config) checkout.Config {
	return checkout.Config{
		PolicyVersion: cfg.Policy.Version,
		Policy: policy.Thresholds{
			Approval:  cfg.Policy.ApprovalThreshold,
			HighValue: cfg.Policy.HighValueThreshold,
		},
		Proof: proof.Thresholds{
			Signature: cfg.Policy.SignatureThreshold,
			HighValue: cfg.Policy.HighValueThreshold,
		},
		Route: route.Config{
			MaxDistanceKm:   cfg.Route.MaxDistanceKm,
			OpenHour:        cfg.Route.OpenHour,
			CloseHour:       cfg.Route.CloseHour,
			RestrictedZones: cfg.Route.RestrictedZones,
		},
		SubmissionDelay: cfg.Checkout.SubmissionDelay,
		ProvisionDelay:  cfg.Checkout.ProvisionDelay,
	}
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		catalog.Default,
		EngineConfig,
		checkout.NewEngine,
		newRegistry,
	)
}

// newRegistry applies the session retention settings to the registry.
func newRegistry(cfg *config.Config, engine *checkout.Engine, logger logx.Logger, m *metrics.Checkout) *checkout.Registry {
	return checkout.NewRegistry(engine, logger, m,
		checkout.WithSessionTTL(cfg.Checkout.SessionTTL),
		checkout.WithMaxSessions(cfg.Checkout.MaxSessions),
	)
}

type routerExtrasIn struct {
	dig.In

	Logger      logx.Logger
	HTTPMetrics *middleware.HTTPMetrics
	RateLimit   *ratelimit.Middleware
	Registry    *prometheus.Registry
}

func newRouterExtras(in routerExtrasIn) router.Extras {
	return router.Extras{
		Observability: middleware.Observability(in.Logger, in.HTTPMetrics),
		RateLimit:     in.RateLimit.Handler(),
		Metrics:       promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{}),
	}
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func newPprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: pprofserver.New(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})}
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewCheckoutUsecase,
		handlers.NewCheckoutHandler,
		handlers.NewVendorLister,
		handlers.NewVendorHandler,
		newRateLimitMiddleware,
		newRouterExtras,
		router.New,
		serverProvider,
		newPprofServer,
	)
}
