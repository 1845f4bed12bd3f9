package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Credits  CreditsConfig  `mapstructure:"credits" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains settings for verifying tokens minted by the external
// authentication service. This API never issues or refreshes tokens itself.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// CreditsConfig contains the credit-economy policy knobs.
type CreditsConfig struct {
	// CardCreationCost is the number of credits debited for each new card.
	CardCreationCost int64 `mapstructure:"card_creation_cost" validate:"required,gt=0"`

	// SignupBonus is the number of credits granted to a new account.
	SignupBonus int64 `mapstructure:"signup_bonus" validate:"gte=0"`
}
