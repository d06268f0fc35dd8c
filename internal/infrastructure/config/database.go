package config

// DatabaseConfig holds the persistence settings.
// Type selects the driver: "postgres" for deployments, "sqlite" for local
// development and tests. URL, when set, wins over the discrete fields.
type DatabaseConfig struct {
	Type     string     `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	URL      string     `mapstructure:"url"`
	Host     string     `mapstructure:"host"`
	Port     int        `mapstructure:"port"`
	User     string     `mapstructure:"user"`
	Password string     `mapstructure:"password"`
	Name     string     `mapstructure:"name"`
	SSLMode  string     `mapstructure:"sslmode"`
	Path     string     `mapstructure:"path"`
	Pool     PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool settings
type PoolConfig struct {
	MaxOpenConns    int `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime" validate:"min=0"` // seconds
}
