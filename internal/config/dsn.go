package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"
)

// Configured reports whether MySQL takes part in the fallback chain.
func (c MySQLConfig) Configured() bool {
	return c.DSN != "" || c.Host != ""
}

// DSNValue returns the explicit DSN or one assembled from the parts.
func (c MySQLConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == 0 {
		port = defaultMySQLPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = defaultMySQLUser
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultMySQLName
	}
	charset := strings.TrimSpace(c.Charset)
	if charset == "" {
		charset = defaultMySQLCharset
	}
	loc := strings.TrimSpace(c.Loc)
	if loc == "" {
		loc = defaultMySQLLoc
	}
	parseTime := true
	if c.ParseTime != nil {
		parseTime = *c.ParseTime
	}

	params := neturl.Values{}
	for key, value := range c.Params {
		params.Set(key, value)
	}
	if params.Get("charset") == "" {
		params.Set("charset", charset)
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", strconv.FormatBool(parseTime))
	}
	if params.Get("loc") == "" {
		params.Set("loc", loc)
	}

	auth := user
	if c.Password != "" {
		auth += ":" + c.Password
	}
	dsn := fmt.Sprintf("%s@tcp(%s)/%s", auth, net.JoinHostPort(host, strconv.Itoa(port)), name)
	if query := params.Encode(); query != "" {
		dsn += "?" + query
	}
	return dsn
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// URLValue returns the explicit URL or one assembled from the parts.
func (c RedisConfig) URLValue() string {
	if c.URL != "" {
		return c.URL
	}

	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}
	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
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
