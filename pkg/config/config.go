package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Storage StorageConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Admin   AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// IsProduction indica si los errores internos deben ocultarse al cliente.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// StorageConfig ubicación de las bases SQLite por comercio y de sus backups.
type StorageConfig struct {
	DataDir        string // datos/<comercio>.db
	BackupDir      string // backups/<comercio>/
	UsersDB        string // directorio maestro de comercios
	BackupLimit    int    // máximo de backups por comercio
	SalesListLimit int    // tope del listado de ventas recientes
}

// TenantDBPath devuelve la ruta del archivo SQLite de un comercio.
func (c StorageConfig) TenantDBPath(tenantID string) string {
	return filepath.Join(c.DataDir, tenantID+".db")
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins string // lista separada por comas; vacío = cualquier origen
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminConfig credenciales del comercio administrador sembrado al iniciar.
type AdminConfig struct {
	User     string
	Password string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATA_DIR, JWT_SECRET, etc.
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
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	dataDir := getString(v, "DATA_DIR", "./datos")
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "tienda-pos"),
		},
		Storage: StorageConfig{
			DataDir:        dataDir,
			BackupDir:      getString(v, "BACKUP_DIR", filepath.Join(dataDir, "backups")),
			UsersDB:        getString(v, "USERS_DB", filepath.Join(dataDir, "usuarios.db")),
			BackupLimit:    getInt(v, "BACKUP_LIMIT", 100),
			SalesListLimit: getInt(v, "SALES_LIST_LIMIT", 200),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "tienda-pos"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 3000),
			AllowedOrigins: getString(v, "ALLOWED_ORIGINS", ""),
		},
		Admin: AdminConfig{
			User:     getString(v, "ADMIN_USER", "admin"),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		if c.App.IsProduction() {
			return fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
		}
		c.JWT.Secret = "dev_secret_cambiar_en_prod"
	}
	if c.Admin.Password == "" {
		if c.App.IsProduction() {
			return fmt.Errorf("config: ADMIN_PASSWORD es obligatorio en producción")
		}
		c.Admin.Password = "admin123"
	}
	if c.Storage.BackupLimit <= 0 {
		c.Storage.BackupLimit = 100
	}
	if c.Storage.SalesListLimit <= 0 {
		c.Storage.SalesListLimit = 200
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
