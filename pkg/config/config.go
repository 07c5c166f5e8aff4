package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Billing BillingConfig
	Auth    AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	PreferIPv4      bool // algunos proveedores publican AAAA sin ruta IPv6 desde el contenedor
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig almacenamiento del logo de la empresa.
type StorageConfig struct {
	Driver   string // local | s3
	LocalDir string
	S3       S3Config
}

// S3Config credenciales y bucket para el backend S3 (o compatible, p. ej. MinIO).
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// BillingConfig reglas de negocio configurables.
type BillingConfig struct {
	MaxDeposits   int    // máximo de facturas de acompte por devis
	QuotePrefix   string // usado si los parámetros aún no existen
	InvoicePrefix string
	PaymentPrefix string
	Currency      string // ISO 4217
	PaymentDelay  int    // días por defecto entre fecha y vencimiento
}

// AuthConfig alta opcional de un administrador al arrancar (útil con DB_DRIVER=memory).
type AuthConfig struct {
	BootstrapEmail    string
	BootstrapPassword string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, BILLING_MAX_DEPOSITS, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "devis-factures"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "devis_factures"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),

			MaxConns:        int32(getInt(v, "DB_MAX_CONNS", 10)),
			MinConns:        int32(getInt(v, "DB_MIN_CONNS", 1)),
			MaxConnLifetime: time.Duration(getInt(v, "DB_MAX_CONN_LIFETIME_MINUTES", 60)) * time.Minute,
			MaxConnIdleTime: time.Duration(getInt(v, "DB_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute,
			PreferIPv4:      getBool(v, "DB_PREFER_IPV4", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "devis-factures"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Storage: StorageConfig{
			Driver:   getString(v, "STORAGE_DRIVER", "local"),
			LocalDir: getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			S3: S3Config{
				Region:    getString(v, "S3_REGION", "eu-west-3"),
				Bucket:    getString(v, "S3_BUCKET", ""),
				Endpoint:  getString(v, "S3_ENDPOINT", ""),
				AccessKey: getString(v, "S3_ACCESS_KEY", ""),
				SecretKey: getString(v, "S3_SECRET_KEY", ""),
			},
		},
		Billing: BillingConfig{
			MaxDeposits:   getInt(v, "BILLING_MAX_DEPOSITS", 4),
			QuotePrefix:   getString(v, "BILLING_QUOTE_PREFIX", "D"),
			InvoicePrefix: getString(v, "BILLING_INVOICE_PREFIX", "F"),
			PaymentPrefix: getString(v, "BILLING_PAYMENT_PREFIX", "P"),
			Currency:      getString(v, "BILLING_CURRENCY", "EUR"),
			PaymentDelay:  getInt(v, "BILLING_PAYMENT_DELAY_DAYS", 30),
		},
		Auth: AuthConfig{
			BootstrapEmail:    getString(v, "AUTH_BOOTSTRAP_EMAIL", ""),
			BootstrapPassword: getString(v, "AUTH_BOOTSTRAP_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: DB_DRIVER desconocido %q", c.DB.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET es requerido con STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconocido %q", c.Storage.Driver)
	}
	if c.DB.MaxConns < 1 || c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS/DB_MAX_CONNS inválidos (%d/%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	if c.Auth.BootstrapEmail != "" && len(c.Auth.BootstrapPassword) < 8 {
		return fmt.Errorf("config: AUTH_BOOTSTRAP_PASSWORD requiere al menos 8 caracteres")
	}
	if c.Billing.MaxDeposits < 1 {
		return fmt.Errorf("config: BILLING_MAX_DEPOSITS debe ser >= 1")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
