package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SetupDefaultConfig - setup the default config options that can be overridden via the config file
func SetupDefaultConfig() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.console", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.name", "gpu_marketplace")

	viper.SetDefault("rate_limiters.general_rps", 10.0)
	viper.SetDefault("rate_limiters.default_token_expire_duration", time.Minute*5)
	viper.SetDefault("rate_limiters.proxy", false)

	viper.SetDefault("order_report.frequency", 60)
}

/*SetupConfig - setup the configuration system */
func SetupConfig(configPath string) {
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()
	viper.SetConfigName("gpu_marketplace")

	if configPath == "" {
		viper.AddConfigPath("./config")
	} else {
		viper.AddConfigPath(configPath)
	}

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	Configuration.DBHost = viper.GetString("db.host")
	Configuration.DBPort = viper.GetString("db.port")
	Configuration.DBName = viper.GetString("db.name")
	Configuration.DBUserName = viper.GetString("db.user")
	Configuration.DBPassword = viper.GetString("db.password")

	Configuration.GeneralRPS = viper.GetFloat64("rate_limiters.general_rps")
	Configuration.RateTokenExpireTTL = viper.GetDuration("rate_limiters.default_token_expire_duration")
	Configuration.BehindProxy = viper.GetBool("rate_limiters.proxy")

	Configuration.OrderReportFreq = viper.GetInt64("order_report.frequency")
}

const (
	DeploymentDevelopment = 0
	DeploymentTestNet     = 1
	DeploymentMainNet     = 2
)

type Config struct {
	DeploymentMode byte

	DBHost     string
	DBPort     string
	DBName     string
	DBUserName string
	DBPassword string

	GeneralRPS         float64
	RateTokenExpireTTL time.Duration
	BehindProxy        bool

	// OrderReportFreq - seconds between matured-order report runs.
	OrderReportFreq int64
}

/*Configuration of the system */
var Configuration Config

/*Development - is the deployment mode development */
func Development() bool {
	return Configuration.DeploymentMode == DeploymentDevelopment
}

/*TestNet - is the deployment mode testnet */
func TestNet() bool {
	return Configuration.DeploymentMode == DeploymentTestNet
}
