package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultDBDriver   = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "guestbook"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "guestbook.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultIdentityHeader = "X-Real-IP"
	defaultCityHeader     = "CF-IPCity"
	defaultCountryHeader  = "CF-IPCountry"

	defaultWindow        = 10 * time.Minute
	defaultRecentHorizon = 24 * time.Hour
	defaultLatestLimit   = 10
	defaultRedirectURL   = "https://bprp.xyz/guestbook"
	defaultTitle         = "Guestbook"
)
