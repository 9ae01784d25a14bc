package config

import (
	"github.com/fractionft/fraction-marketplace/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Env   string
	Debug bool

	MetadataRetries int
	NftContracts    []string

	Eth      EthConfig
	Ipfs     IpfsConfig
	Resolver ResolverConfig
	Api      ApiConfig
	Moralis  MoralisConfig
}

type EthConfig struct {
	Url             string
	PrivateKey      string
	RegistryAddress string
	GasCeiling      uint64
	ReceiptTimeout  int
	ReceiptPollMs   int
}

type IpfsConfig struct {
	Hosts        []string
	Timeout      int
	ResolverPath string
}

type ResolverConfig struct {
	Port         string
	BytecodePath string
}

type ApiConfig struct {
	Port            string
	RefreshInterval int
}

type MoralisConfig struct {
	Url   string
	Key   string
	Chain string
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://ipfs.io",
	"https://cloudflare-ipfs.com",
	"https://nftstorage.link",
}

func Init() {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Debug("No .env file found")
	}

	viper.AutomaticEnv()

	viper.SetDefault("ENV", "")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("METADATA_RETRIES", 3)
	viper.SetDefault("NFT_CONTRACTS", []string{})
	viper.SetDefault("ETH_URL", "")
	viper.SetDefault("ETH_PRIVATE_KEY", "")
	viper.SetDefault("REGISTRY_ADDRESS", "")
	viper.SetDefault("GAS_CEILING", 500000)
	viper.SetDefault("RECEIPT_TIMEOUT", 120)
	viper.SetDefault("RECEIPT_POLL_MS", 2000)
	viper.SetDefault("IPFS_HOSTS", ipfsHosts)
	viper.SetDefault("IPFS_TIMEOUT", 10)
	viper.SetDefault("IPFS_RESOLVER_PATH", "/api/ipfs/resolve")
	viper.SetDefault("RESOLVER_PORT", "8081")
	viper.SetDefault("BYTECODE_PATH", "./var/manager-bytecode.hex")
	viper.SetDefault("API_PORT", "8080")
	viper.SetDefault("REFRESH_INTERVAL", 30)
	viper.SetDefault("MORALIS_URL", "https://deep-index.moralis.io/api/v2.2")
	viper.SetDefault("MORALIS_API_KEY", "")
	viper.SetDefault("MORALIS_CHAIN", "sepolia")

	initLogger()
}

func initLogger() {
	log.NewLogger(Get().Debug)
}

func Get() *Config {
	return &Config{
		Env:             viper.GetString("ENV"),
		Debug:           viper.GetBool("DEBUG"),
		MetadataRetries: viper.GetInt("METADATA_RETRIES"),
		NftContracts:    viper.GetStringSlice("NFT_CONTRACTS"),
		Eth: EthConfig{
			Url:             viper.GetString("ETH_URL"),
			PrivateKey:      viper.GetString("ETH_PRIVATE_KEY"),
			RegistryAddress: viper.GetString("REGISTRY_ADDRESS"),
			GasCeiling:      viper.GetUint64("GAS_CEILING"),
			ReceiptTimeout:  viper.GetInt("RECEIPT_TIMEOUT"),
			ReceiptPollMs:   viper.GetInt("RECEIPT_POLL_MS"),
		},
		Ipfs: IpfsConfig{
			Hosts:        viper.GetStringSlice("IPFS_HOSTS"),
			Timeout:      viper.GetInt("IPFS_TIMEOUT"),
			ResolverPath: viper.GetString("IPFS_RESOLVER_PATH"),
		},
		Resolver: ResolverConfig{
			Port:         viper.GetString("RESOLVER_PORT"),
			BytecodePath: viper.GetString("BYTECODE_PATH"),
		},
		Api: ApiConfig{
			Port:            viper.GetString("API_PORT"),
			RefreshInterval: viper.GetInt("REFRESH_INTERVAL"),
		},
		Moralis: MoralisConfig{
			Url:   viper.GetString("MORALIS_URL"),
			Key:   viper.GetString("MORALIS_API_KEY"),
			Chain: viper.GetString("MORALIS_CHAIN"),
		},
	}
}
