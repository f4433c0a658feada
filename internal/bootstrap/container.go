package bootstrap

import (
	"context"
	"fmt"

	"bidwizer-be/internal/config"
	"bidwizer-be/internal/controller"
	"bidwizer-be/internal/handler"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/service"
	"bidwizer-be/internal/websocket"
	"bidwizer-be/pkg/simulator"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/wizard"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	PlanController         controller.PlanController
	TenderController       controller.ITenderController
	RegistrationController controller.IRegistrationController
	FollowController       controller.IFollowController
	WorkspaceController    controller.IWorkspaceController

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	workspaces service.IWorkspaceService
	closers    []func() error
}

// NewContainer wires the host. Redis is optional with the memory driver and required
// with STORAGE_DRIVER=redis.
func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Redis
	rdb := connectRedis(cfg, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	// 2. Browser storage backend
	var shared storage.Adapter
	switch cfg.Storage.Driver {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("storage driver redis needs a reachable REDIS_URL")
		}
		shared = storage.NewRedisAdapter(rdb, cfg.Storage.KeyPrefix, sysLogger)
	case "memory", "":
		backend := storage.NewMemoryBackend()
		c.closers = append(c.closers, backend.Close)
		shared = storage.NewLocalAdapter(backend, sysLogger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	browsers := service.NewBrowserStore(shared)
	sysLogger.Info("Bootstrap", "Storage ready", map[string]interface{}{"driver": cfg.Storage.Driver})

	// 3. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Services
	sim := simulator.New(cfg.Simulator.MinDelay, cfg.Simulator.MaxDelay, sysLogger)
	gateway := wizard.NewSandboxGateway(cfg.Gateway.CheckoutBaseURL)

	planService := service.NewPlanService()
	tenderService := service.NewTenderService()
	registrationService := service.NewRegistrationService(browsers, gateway, cfg, sysLogger)
	followService := service.NewFollowService(browsers, sysLogger)
	c.workspaces = service.NewWorkspaceService(sim, c.WebSocketHub, cfg.Storage.SessionTTL, sysLogger)

	// 5. Controllers
	c.PlanController = controller.NewPlanController(planService)
	c.TenderController = controller.NewTenderController(tenderService)
	c.RegistrationController = controller.NewRegistrationController(registrationService)
	c.FollowController = controller.NewFollowController(followService)
	c.WorkspaceController = controller.NewWorkspaceController(c.workspaces)
	c.StreamHandler = handler.NewStreamHandler(c.WebSocketHub, c.workspaces, browsers, followService, wsLogger)

	return c, nil
}

func connectRedis(cfg *config.Config, log logger.ILogger) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable, running single-instance", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close ends open workspaces and releases backends.
func (c *Container) Close() {
	c.workspaces.Shutdown()
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Bootstrap", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
