package config

import (
	"net"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const sqliteBusyTimeoutMs = 5000

// DSNValue returns the driver-specific data source name. For MySQL the DSN
// always reports matched rather than changed rows, so that a conditional
// update rewriting an identical visited_at is still seen as a hit.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if c.Driver == DriverSQLite {
		return c.sqliteDSN()
	}
	if v := strings.TrimSpace(c.DSN); v != "" {
		return ensureFoundRows(v)
	}

	loc, err := time.LoadLocation(c.Loc)
	if err != nil {
		loc = time.Local
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = c.ParseTime
	mc.Loc = loc
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": c.Charset}
	for k, v := range c.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN()
}

func (c DatabaseRuntimeConfig) sqliteDSN() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	params := neturl.Values{}
	params.Set("_journal", "WAL")
	params.Set("_timeout", strconv.Itoa(sqliteBusyTimeoutMs))
	for k, v := range c.Params {
		params.Set(k, v)
	}
	return c.Path + "?" + params.Encode()
}

func ensureFoundRows(dsn string) string {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return dsn
	}
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func (c RedisRuntimeConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	switch {
	case c.Username != "" && c.Password != "":
		u.User = neturl.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = neturl.User(c.Username)
	case c.Password != "":
		u.User = neturl.UserPassword("", c.Password)
	}
	return u.String()
}
