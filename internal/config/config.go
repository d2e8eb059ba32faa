package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	AppPort string

	DBDriver string
	DBPath   string
	DBDebug  bool

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresDSN string

	RedisAddr     string
	RedisDB       int
	RedisPassword string

	IdempTTLSecs int

	PawaPayBaseURL     string
	PawaPayAPIToken    string
	PawaPayTimeoutSecs int
	PawaPayCountry     string

	AdminJWTSecret string

	DropboxToken       string
	DropboxPath        string
	BackupIntervalMins int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("config: ignoring non-numeric %s=%q", k, v)
	}
	return d
}

func getbool(k string) bool {
	b, _ := strconv.ParseBool(os.Getenv(k))
	return b
}

// Load reads the environment, after loading .env when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	c := &Config{
		AppPort: getenv("APP_PORT", getenv("PORT", "8080")),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBPath:   getenv("DB_PATH", "estack.db"),
		DBDebug:  getbool("DB_DEBUG"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "estack"),
		MySQLUser: getenv("MYSQL_USER", "estack"),
		MySQLPass: getenv("MYSQL_PASS", "estack"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getint("REDIS_DB", 0),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),

		PawaPayBaseURL:     strings.TrimRight(getenv("PAWAPAY_BASE_URL", "https://api.sandbox.pawapay.io"), "/"),
		PawaPayAPIToken:    os.Getenv("PAWAPAY_API_TOKEN"),
		PawaPayTimeoutSecs: getint("PAWAPAY_TIMEOUT_SECONDS", 15),
		PawaPayCountry:     getenv("PAWAPAY_COUNTRY", "ZMB"),

		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		DropboxToken:       os.Getenv("DROPBOX_TOKEN"),
		DropboxPath:        getenv("DROPBOX_PATH", "/estack.db"),
		BackupIntervalMins: getint("BACKUP_INTERVAL_MINUTES", 0),
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("missing DB_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	u, err := url.Parse(c.PawaPayBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid PAWAPAY_BASE_URL %q", c.PawaPayBaseURL)
	}
	if c.PawaPayTimeoutSecs <= 0 {
		return errors.New("PAWAPAY_TIMEOUT_SECONDS must be positive")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.BackupIntervalMins < 0 {
		return errors.New("BACKUP_INTERVAL_MINUTES must not be negative")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverMySQL:
		return c.MySQLDSN()
	case DriverPostgres:
		return c.PostgresDSN
	default:
		// foreign keys on, wait instead of failing on a busy writer
		return c.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
	}
}

func (c *Config) PawaPayTimeout() time.Duration {
	return time.Duration(c.PawaPayTimeoutSecs) * time.Second
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) BackupInterval() time.Duration {
	return time.Duration(c.BackupIntervalMins) * time.Minute
}

func (c *Config) BackupEnabled() bool { return c.DropboxToken != "" }
