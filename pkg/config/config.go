package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	SRI        SRIConfig
	Accounting AccountingConfig
}

// SRIConfig configuración de comprobantes electrónicos SRI (Ecuador).
type SRIConfig struct {
	Ambiente     string // "1" = pruebas (celcer), "2" = producción (cel)
	AppEnv       string // "dev" no envía al WS; "test"/"prod" sí
	CertPath     string // Ruta al certificado .p12 o PEM (vacío = no firmar, simulado)
	CertKeyPath  string // Ruta a la llave privada PEM (si CertPath es solo el certificado)
	CertPassword string // Contraseña del .p12
	MaxRetries   int    // Reintentos ante fallos de transporte del WS SRI
}

// AccountingConfig cuentas contables usadas por los asientos automáticos de compras.
// Deben existir en el plan de cuentas de la empresa y ser cuentas de detalle.
type AccountingConfig struct {
	PurchasesAccount string // Compras/inventario
	VATCreditAccount string // IVA crédito tributario
	PayablesAccount  string // Cuentas por pagar proveedores
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SRI_AMBIENTE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "facturacion-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "facturacion"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "facturacion-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SRI: SRIConfig{
			Ambiente:     getString(v, "SRI_AMBIENTE", "1"),
			AppEnv:       getString(v, "SRI_APP_ENV", "dev"),
			CertPath:     getString(v, "SRI_CERT_PATH", ""),
			CertKeyPath:  getString(v, "SRI_CERT_KEY_PATH", ""),
			CertPassword: getString(v, "SRI_CERT_PASSWORD", ""),
			MaxRetries:   getInt(v, "SRI_MAX_RETRIES", 4),
		},
		Accounting: AccountingConfig{
			PurchasesAccount: getString(v, "ACC_PURCHASES_ACCOUNT", "1.1.03.01"),
			VATCreditAccount: getString(v, "ACC_VAT_CREDIT_ACCOUNT", "1.1.05.01"),
			PayablesAccount:  getString(v, "ACC_PAYABLES_ACCOUNT", "2.1.01.01"),
		},
	}

	return cfg, nil
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
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
