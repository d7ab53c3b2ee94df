package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs for the scanned networks.
const (
	ChainIDEthereum  = 1
	ChainIDOptimism  = 10
	ChainIDPolygon   = 137
	ChainIDBase      = 8453
	ChainIDArbitrum  = 42161
	ChainIDAvalanche = 43114
	ChainIDFiat      = 0 // Off-chain / fiat
)

// Token addresses per chain. Tokens without a canonical deployment on a
// chain are simply absent; lookups for them return not-found and the
// scanner skips the route.
var (
	// Base
	AddrWETHBase  = common.HexToAddress("0x4200000000000000000000000000000000000006")
	AddrUSDCBase  = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	AddrDAIBase   = common.HexToAddress("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb")
	AddrWBTCBase  = common.HexToAddress("0x0555E30da8f98308EdB960aa94C0Db47230d2B9c")
	AddrAEROBase  = common.HexToAddress("0x940181a94A35A4569E4529A3CDfB74e38FD98631")
	AddrBRETTBase = common.HexToAddress("0x532f27101965dd16442E59d40670FaF5eBB142E4")
	AddrCBETHBase = common.HexToAddress("0x2Ae3F1Ee830728329b35b62b18600c43C12b6f12")

	// Arbitrum
	AddrWETHArbitrum = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	AddrUSDCArbitrum = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	AddrUSDTArbitrum = common.HexToAddress("0xFd086bc7Cd5c481Dcc9C85ebE478A1C0b69fBb66")
	AddrDAIArbitrum  = common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1")
	AddrWBTCArbitrum = common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f")
	AddrLINKArbitrum = common.HexToAddress("0xf97f4df75117a78c1A5a0DBb814Af92458539FB4")
	AddrARBArbitrum  = common.HexToAddress("0x912CE59144191C1204E64559FE8253a0e49E6548")

	// Optimism
	AddrWETHOptimism = common.HexToAddress("0x4200000000000000000000000000000000000006")
	AddrUSDCOptimism = common.HexToAddress("0x7F5c764cBc14f9669B88837ca1490cCa17c31607")
	AddrUSDTOptimism = common.HexToAddress("0x94b008aA00579c1307B0EF2c499aD98a8ce58e58")
	AddrDAIOptimism  = common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1")
	AddrWBTCOptimism = common.HexToAddress("0x68f180fcCe6836688e9084f035309E29Bf0A2095")

	// Polygon
	AddrWETHPolygon = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrUSDCPolygon = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	AddrUSDTPolygon = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrDAIPolygon  = common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
	AddrWBTCPolygon = common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6")

	// Avalanche
	AddrWETHAvalanche = common.HexToAddress("0x49D5c2BdF27Ff2070f26f672EF1376dF79a07aB3")
	AddrUSDCAvalanche = common.HexToAddress("0xB97EF9e873419088CeE5dDde4AAfA2F8D2917d2F")
	AddrUSDTAvalanche = common.HexToAddress("0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7")
	AddrDAIAvalanche  = common.HexToAddress("0xd586E7F844cEa2F87f50152665BCbc2C279D8d70")
	AddrWBTCAvalanche = common.HexToAddress("0x50b7545627a5162F82A992c33b87aDc75187B218")
)

// NativeSymbol maps a chain ID to its gas coin symbol.
func NativeSymbol(chainID uint64) string {
	switch chainID {
	case ChainIDPolygon:
		return "MATIC"
	case ChainIDAvalanche:
		return "AVAX"
	default:
		return "ETH"
	}
}

// ChainName returns a human-readable chain name.
func ChainName(chainID uint64) string {
	switch chainID {
	case ChainIDEthereum:
		return "Ethereum"
	case ChainIDOptimism:
		return "Optimism"
	case ChainIDPolygon:
		return "Polygon"
	case ChainIDBase:
		return "Base"
	case ChainIDArbitrum:
		return "Arbitrum"
	case ChainIDAvalanche:
		return "Avalanche"
	default:
		return "Unknown"
	}
}

// DecimalsFor returns the ERC-20 decimals used for symbol across chains.
// USDC and USDT use 6, WBTC 8, everything else 18.
func DecimalsFor(symbol string) uint8 {
	switch symbol {
	case "USDC", "USDT":
		return 6
	case "WBTC":
		return 8
	default:
		return 18
	}
}

// Fiat IDs and assets.
var (
	IDUSD = NewFiatAssetID("USD")
	USD   = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
)

// DefaultRegistry returns a registry pre-populated with the tokens the
// scanner trades across the supported chains.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	register := func(chainID uint64, addr common.Address, symbol, name string) {
		r.Register(MustNewToken(chainID, addr, symbol, name, DecimalsFor(symbol)))
	}

	// Native gas coins
	r.Register(MustNewNative(ChainIDBase, "ETH", "Ether", 18))
	r.Register(MustNewNative(ChainIDArbitrum, "ETH", "Ether", 18))
	r.Register(MustNewNative(ChainIDOptimism, "ETH", "Ether", 18))
	r.Register(MustNewNative(ChainIDPolygon, "MATIC", "Polygon", 18))
	r.Register(MustNewNative(ChainIDAvalanche, "AVAX", "Avalanche", 18))

	// Base
	register(ChainIDBase, AddrWETHBase, "WETH", "Wrapped Ether")
	register(ChainIDBase, AddrUSDCBase, "USDC", "USD Coin")
	register(ChainIDBase, AddrDAIBase, "DAI", "Dai Stablecoin")
	register(ChainIDBase, AddrWBTCBase, "WBTC", "Wrapped Bitcoin")
	register(ChainIDBase, AddrAEROBase, "AERO", "Aerodrome")
	register(ChainIDBase, AddrBRETTBase, "BRETT", "Brett")
	register(ChainIDBase, AddrCBETHBase, "cbETH", "Coinbase Wrapped Staked ETH")

	// Arbitrum
	register(ChainIDArbitrum, AddrWETHArbitrum, "WETH", "Wrapped Ether")
	register(ChainIDArbitrum, AddrUSDCArbitrum, "USDC", "USD Coin")
	register(ChainIDArbitrum, AddrUSDTArbitrum, "USDT", "Tether USD")
	register(ChainIDArbitrum, AddrDAIArbitrum, "DAI", "Dai Stablecoin")
	register(ChainIDArbitrum, AddrWBTCArbitrum, "WBTC", "Wrapped Bitcoin")
	register(ChainIDArbitrum, AddrLINKArbitrum, "LINK", "Chainlink")
	register(ChainIDArbitrum, AddrARBArbitrum, "ARB", "Arbitrum")

	// Optimism
	register(ChainIDOptimism, AddrWETHOptimism, "WETH", "Wrapped Ether")
	register(ChainIDOptimism, AddrUSDCOptimism, "USDC", "USD Coin")
	register(ChainIDOptimism, AddrUSDTOptimism, "USDT", "Tether USD")
	register(ChainIDOptimism, AddrDAIOptimism, "DAI", "Dai Stablecoin")
	register(ChainIDOptimism, AddrWBTCOptimism, "WBTC", "Wrapped Bitcoin")

	// Polygon
	register(ChainIDPolygon, AddrWETHPolygon, "WETH", "Wrapped Ether")
	register(ChainIDPolygon, AddrUSDCPolygon, "USDC", "USD Coin")
	register(ChainIDPolygon, AddrUSDTPolygon, "USDT", "Tether USD")
	register(ChainIDPolygon, AddrDAIPolygon, "DAI", "Dai Stablecoin")
	register(ChainIDPolygon, AddrWBTCPolygon, "WBTC", "Wrapped Bitcoin")

	// Avalanche
	register(ChainIDAvalanche, AddrWETHAvalanche, "WETH", "Wrapped Ether")
	register(ChainIDAvalanche, AddrUSDCAvalanche, "USDC", "USD Coin")
	register(ChainIDAvalanche, AddrUSDTAvalanche, "USDT", "Tether USD")
	register(ChainIDAvalanche, AddrDAIAvalanche, "DAI", "Dai Stablecoin")
	register(ChainIDAvalanche, AddrWBTCAvalanche, "WBTC", "Wrapped Bitcoin")

	// Fiat
	r.Register(USD)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
