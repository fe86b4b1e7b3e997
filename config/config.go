package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// ListenPortKey is the port where the HTTP interface will listen on
	ListenPortKey = "LISTEN_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATA_DIR_PATH"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DbTypeKey is the storage backend to use. Either "badger" or "inmemory"
	DbTypeKey = "DB_TYPE"
	// TradeTimeoutKey is the duration in seconds between a trade's funds lock
	// and the moment its timeout refund becomes triggerable. Shared by all trades.
	TradeTimeoutKey = "TRADE_TIMEOUT"
	// LedgerEndpointKey is the url of the external token-ledger service. When
	// empty the daemon runs with an in-process ledger (regtest mode)
	LedgerEndpointKey = "LEDGER_ENDPOINT"
	// LedgerRequestTimeoutKey are the milliseconds to wait for ledger responses before timeouts
	LedgerRequestTimeoutKey = "LEDGER_REQUEST_TIMEOUT"
	// CustodianAddressKey is the address the escrow custodies funds under on the ledger
	CustodianAddressKey = "CUSTODIAN_ADDRESS"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing basic daemon statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation = "db"

	DbTypeBadger   = "badger"
	DbTypeInMemory = "inmemory"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("P2P")
	vip.AutomaticEnv()

	vip.SetDefault(ListenPortKey, 9945)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DbTypeKey, DbTypeBadger)
	vip.SetDefault(TradeTimeoutKey, 3600)
	vip.SetDefault(LedgerRequestTimeoutKey, 15000)
	vip.SetDefault(CustodianAddressKey, "0x0000000000000000000000000000000000e5c404")
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
}

// Validate panics on an invalid configuration. Called once at daemon startup.
func Validate() {
	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}

	if err := initDatadir(); err != nil {
		log.WithError(err).Panic("error while creating datadir")
	}
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetDatadir returns the daemon's data directory.
func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetTradeTimeout returns the configured timeout period as a duration.
func GetTradeTimeout() time.Duration {
	return time.Duration(GetInt(TradeTimeoutKey)) * time.Second
}

// GetLedgerRequestTimeout returns the ledger HTTP timeout as a duration.
func GetLedgerRequestTimeout() time.Duration {
	return time.Duration(GetInt(LedgerRequestTimeoutKey)) * time.Millisecond
}

// GetStatsInterval returns the resource stats logging period as a duration.
func GetStatsInterval() time.Duration {
	return time.Duration(GetInt(StatsIntervalKey)) * time.Second
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// IsSet returns whether the given key is set
func IsSet(key string) bool {
	return vip.IsSet(key)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	dbType := GetString(DbTypeKey)
	if dbType != DbTypeBadger && dbType != DbTypeInMemory {
		return fmt.Errorf(
			"db type must be either '%s' or '%s'", DbTypeBadger, DbTypeInMemory,
		)
	}

	if GetInt(TradeTimeoutKey) <= 0 {
		return fmt.Errorf("trade timeout must be a positive number of seconds")
	}

	if endpoint := GetString(LedgerEndpointKey); endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return fmt.Errorf("ledger endpoint is not a valid url: %s", err)
		}
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".escrowd"
	}
	return filepath.Join(home, ".escrowd")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
