package config

import "strings"

// driverAliases maps accepted database.driver spellings to the canonical name.
var driverAliases = map[string]string{
	"":        DriverMySQL,
	"mariadb": DriverMySQL,
	"sqlite3": DriverSQLite,
}

var redisSchemes = []string{"redis://", "rediss://"}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	trimAll(&cfg.Driver, &cfg.DSN, &cfg.Host, &cfg.User, &cfg.Password,
		&cfg.Name, &cfg.Charset, &cfg.Loc, &cfg.Path)

	cfg.Driver = strings.ToLower(cfg.Driver)
	if canonical, ok := driverAliases[cfg.Driver]; ok {
		cfg.Driver = canonical
	}

	orDefault(&cfg.Host, defaultDBHost)
	orDefault(&cfg.User, defaultDBUser)
	orDefault(&cfg.Name, defaultDBName)
	orDefault(&cfg.Charset, defaultDBCharset)
	orDefault(&cfg.Loc, defaultDBLoc)
	orDefault(&cfg.Path, defaultSQLitePath)
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.Params != nil {
		cfg.Params = cleanParams(cfg.Params)
	}
	return cfg
}

func normalizeRedisConfig(cfg RedisRuntimeConfig) RedisRuntimeConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	trimAll(&cfg.Host, &cfg.Username, &cfg.Password)
	orDefault(&cfg.Host, defaultRedisHost)
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	return cfg
}

// normalizeRedisRawURL prefixes a bare host:port with redis://.
func normalizeRedisRawURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, scheme := range redisSchemes {
		if strings.HasPrefix(raw, scheme) {
			return raw
		}
	}
	return redisSchemes[0] + raw
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	orDefault(&env, defaultEnv)
	return env
}

// cleanParams drops DSN params whose key or value is blank.
func cleanParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func orDefault(field *string, def string) {
	if *field == "" {
		*field = def
	}
}
