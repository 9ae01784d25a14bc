package di

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/api"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/config"
	"github.com/fractionft/fraction-marketplace/internal/daemon"
	"github.com/fractionft/fraction-marketplace/internal/ipfs"
	"github.com/fractionft/fraction-marketplace/internal/listing"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/fractionft/fraction-marketplace/internal/marketplace"
	"github.com/fractionft/fraction-marketplace/internal/metadata"
	"github.com/fractionft/fraction-marketplace/internal/moralis"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/fractionft/fraction-marketplace/internal/resolver"
	"github.com/fractionft/fraction-marketplace/internal/token"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

// Container wires the application graph. Every service is a singleton built
// lazily on first Get.
type Container struct {
	ctn di.Container
}

func NewContainer() (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(definitions()...); err != nil {
		return nil, err
	}

	return &Container{ctn: builder.Build()}, nil
}

func (c *Container) GetChainClient() chain.Client {
	return c.ctn.Get("chain.client").(chain.Client)
}

func (c *Container) GetManagerService() manager.Service {
	return c.ctn.Get("manager.service").(manager.Service)
}

func (c *Container) GetRegistryService() registry.Service {
	return c.ctn.Get("registry.service").(registry.Service)
}

func (c *Container) GetTokenService() token.Service {
	return c.ctn.Get("token.service").(token.Service)
}

func (c *Container) GetListingService() listing.Service {
	return c.ctn.Get("listing.service").(listing.Service)
}

func (c *Container) GetMetadataService() metadata.Service {
	return c.ctn.Get("metadata.service").(metadata.Service)
}

func (c *Container) GetAggregator() marketplace.Aggregator {
	return c.ctn.Get("marketplace.aggregator").(marketplace.Aggregator)
}

func (c *Container) GetMarketplaceStore() *marketplace.Store {
	return c.ctn.Get("marketplace.store").(*marketplace.Store)
}

func (c *Container) GetRefresher() daemon.Refresher {
	return c.ctn.Get("daemon.refresher").(daemon.Refresher)
}

func (c *Container) GetResolverServer() resolver.Server {
	return c.ctn.Get("resolver.server").(resolver.Server)
}

func (c *Container) GetApiServer() api.Server {
	return c.ctn.Get("api.server").(api.Server)
}

func definitions() []di.Def {
	return []di.Def{
		{
			Name: "http.client",
			Build: func(ctn di.Container) (interface{}, error) {
				client := retryablehttp.NewClient()
				client.RetryMax = config.Get().MetadataRetries
				client.Logger = nil

				return client, nil
			},
		},
		{
			Name: "chain.backend",
			Build: func(ctn di.Container) (interface{}, error) {
				return chain.Dial(config.Get().Eth.Url)
			},
		},
		{
			Name: "chain.wallet",
			Build: func(ctn di.Container) (interface{}, error) {
				key := config.Get().Eth.PrivateKey
				if key == "" {
					zap.L().Info("No private key configured, read-only mode")
					return (*chain.Wallet)(nil), nil
				}

				return chain.NewWallet(key)
			},
		},
		{
			Name: "chain.client",
			Build: func(ctn di.Container) (interface{}, error) {
				cfg := config.Get().Eth
				backend := ctn.Get("chain.backend").(chain.Backend)

				chainID, err := backend.ChainID(context.Background())
				if err != nil {
					return nil, err
				}

				return chain.NewClient(
					backend,
					ctn.Get("chain.wallet").(*chain.Wallet),
					chainID,
					time.Duration(cfg.ReceiptTimeout)*time.Second,
					time.Duration(cfg.ReceiptPollMs)*time.Millisecond,
				), nil
			},
		},
		{
			Name: "ipfs.resolver",
			Build: func(ctn di.Container) (interface{}, error) {
				cfg := config.Get().Ipfs
				return ipfs.NewResolver(cfg.Hosts, time.Duration(cfg.Timeout)*time.Second), nil
			},
		},
		{
			Name: "metadata.cache",
			Build: func(ctn di.Container) (interface{}, error) {
				return cache.New(10*time.Minute, 30*time.Minute), nil
			},
		},
		{
			Name: "metadata.service",
			Build: func(ctn di.Container) (interface{}, error) {
				return metadata.NewMetadataService(
					ctn.Get("http.client").(*retryablehttp.Client),
					ctn.Get("ipfs.resolver").(ipfs.Resolver),
					ctn.Get("metadata.cache").(*cache.Cache),
					config.Get().Ipfs.ResolverPath,
				), nil
			},
		},
		{
			Name: "moralis.client",
			Build: func(ctn di.Container) (interface{}, error) {
				return moralis.NewClient(config.Get().Moralis, ctn.Get("http.client").(*retryablehttp.Client)), nil
			},
		},
		{
			Name: "registry.service",
			Build: func(ctn di.Container) (interface{}, error) {
				return registry.NewService(
					ctn.Get("chain.client").(chain.Client),
					common.HexToAddress(config.Get().Eth.RegistryAddress),
				), nil
			},
		},
		{
			Name: "manager.bytecode",
			Build: func(ctn di.Container) (interface{}, error) {
				return manager.NewFileBytecodeSource(config.Get().Resolver.BytecodePath), nil
			},
		},
		{
			Name: "manager.service",
			Build: func(ctn di.Container) (interface{}, error) {
				return manager.NewService(
					ctn.Get("chain.client").(chain.Client),
					ctn.Get("manager.bytecode").(manager.BytecodeSource),
					config.Get().Eth.GasCeiling,
				), nil
			},
		},
		{
			Name: "token.service",
			Build: func(ctn di.Container) (interface{}, error) {
				return token.NewService(
					ctn.Get("chain.client").(chain.Client),
					ctn.Get("registry.service").(registry.Service),
					ctn.Get("metadata.service").(metadata.Service),
					ctn.Get("moralis.client").(moralis.Client),
					config.Get().NftContracts,
				), nil
			},
		},
		{
			Name: "listing.service",
			Build: func(ctn di.Container) (interface{}, error) {
				return listing.NewService(
					ctn.Get("manager.service").(manager.Service),
					ctn.Get("registry.service").(registry.Service),
					ctn.Get("token.service").(token.Service),
				), nil
			},
		},
		{
			Name: "marketplace.aggregator",
			Build: func(ctn di.Container) (interface{}, error) {
				return marketplace.NewAggregator(
					ctn.Get("registry.service").(registry.Service),
					ctn.Get("manager.service").(manager.Service),
					ctn.Get("metadata.service").(metadata.Service),
				), nil
			},
		},
		{
			Name: "marketplace.store",
			Build: func(ctn di.Container) (interface{}, error) {
				return marketplace.NewStore(), nil
			},
		},
		{
			Name: "daemon.refresher",
			Build: func(ctn di.Container) (interface{}, error) {
				return daemon.NewRefresher(
					ctn.Get("marketplace.aggregator").(marketplace.Aggregator),
					ctn.Get("marketplace.store").(*marketplace.Store),
					time.Duration(config.Get().Api.RefreshInterval)*time.Second,
				), nil
			},
		},
		{
			Name: "resolver.server",
			Build: func(ctn di.Container) (interface{}, error) {
				return resolver.NewServer(
					ctn.Get("ipfs.resolver").(ipfs.Resolver),
					ctn.Get("manager.bytecode").(manager.BytecodeSource),
				), nil
			},
		},
		{
			Name: "api.server",
			Build: func(ctn di.Container) (interface{}, error) {
				return api.NewServer(
					ctn.Get("marketplace.store").(*marketplace.Store),
					ctn.Get("marketplace.aggregator").(marketplace.Aggregator),
					ctn.Get("manager.service").(manager.Service),
					ctn.Get("token.service").(token.Service),
				), nil
			},
		},
	}
}
