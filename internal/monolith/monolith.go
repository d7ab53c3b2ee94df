// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	// ChainClient returns the RPC client for the given chain, or nil when
	// the chain is not configured.
	ChainClient(chainID uint64) *ethclient.Client
	ChainClients() map[uint64]*ethclient.Client
	AssetRegistry() *asset.Registry
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config        *config.Config
	logger        logger.LoggerInterface
	chainClients  map[uint64]*ethclient.Client
	assetRegistry *asset.Registry
	container     di.Container
}

// New creates a new Monolith instance, dialing one RPC client per configured chain.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	chainClients := make(map[uint64]*ethclient.Client, len(cfg.Chains))
	for i := range cfg.Chains {
		ch := &cfg.Chains[i]
		client, err := ethclient.Dial(ch.RPCURL)
		if err != nil {
			for _, c := range chainClients {
				c.Close()
			}
			return nil, fmt.Errorf("dial chain %d: %w", ch.ChainID, err)
		}
		chainClients[ch.ChainID] = client
	}

	assetRegistry := asset.DefaultRegistry()

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("chainClients", chainClients)
	container.Register("assetRegistry", assetRegistry)

	return &app{
		config:        cfg,
		logger:        log,
		chainClients:  chainClients,
		assetRegistry: assetRegistry,
		container:     container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) ChainClient(chainID uint64) *ethclient.Client {
	return a.chainClients[chainID]
}

func (a *app) ChainClients() map[uint64]*ethclient.Client {
	return a.chainClients
}

func (a *app) AssetRegistry() *asset.Registry {
	return a.assetRegistry
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	for _, c := range a.chainClients {
		c.Close()
	}
	return nil
}
