package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the persistence backend and how to reach it.
type DatabaseConfig struct {
	// Driver is either "postgres" or "mongo".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo"`
	URL    string `mapstructure:"url"    validate:"required,url"`
	// Name is the MongoDB database name; ignored by postgres, whose URL
	// already names the database.
	Name string `mapstructure:"name" validate:"required_if=Driver mongo"`
	// AutoMigrate applies the bundled postgres migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// StorageConfig controls where uploaded images live.
type StorageConfig struct {
	// Backend is either "local" or "gcs".
	Backend string `mapstructure:"backend" validate:"required,oneof=local gcs"`
	// Dir is the local root under which the images/ folder is created.
	Dir string `mapstructure:"dir" validate:"required_if=Backend local"`
	// Bucket is the GCS bucket name for the gcs backend.
	Bucket string `mapstructure:"bucket" validate:"required_if=Backend gcs"`
	// CredentialsFile is an optional service-account key; empty means ADC.
	CredentialsFile string `mapstructure:"credentials_file"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" validate:"required,gt=0,lte=100"`
}
