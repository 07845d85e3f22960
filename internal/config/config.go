package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Engagement EngagementConfig `yaml:"engagement"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"baloria"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"10"`
}

// EngagementConfig holds quota, trending, and reward parameters.
type EngagementConfig struct {
	QuestionsPerDay int `yaml:"questions_per_day" env:"ENGAGE_QUESTIONS_PER_DAY" env-default:"3"`
	AnswersPerDay   int `yaml:"answers_per_day"   env:"ENGAGE_ANSWERS_PER_DAY"   env-default:"100"`

	TrendingThreshold float64       `yaml:"trending_threshold" env:"ENGAGE_TRENDING_THRESHOLD" env-default:"1.0"`
	TrendingLimit     int           `yaml:"trending_limit"     env:"ENGAGE_TRENDING_LIMIT"     env-default:"5"`
	TrendingWindow    time.Duration `yaml:"trending_window"    env:"ENGAGE_TRENDING_WINDOW"    env-default:"168h"`
	TrendingRefresh   time.Duration `yaml:"trending_refresh"   env:"ENGAGE_TRENDING_REFRESH"   env-default:"5m"`

	PointsPerQuestion int `yaml:"points_per_question" env:"ENGAGE_POINTS_PER_QUESTION" env-default:"5"`
	PointsPerAnswer   int `yaml:"points_per_answer"   env:"ENGAGE_POINTS_PER_ANSWER"   env-default:"10"`
	PointsPerHeart    int `yaml:"points_per_heart"    env:"ENGAGE_POINTS_PER_HEART"    env-default:"2"`

	LeaderboardSize int `yaml:"leaderboard_size" env:"ENGAGE_LEADERBOARD_SIZE" env-default:"25"`

	// DefaultTimezone is used for day boundaries when a user has no zone set.
	DefaultTimezone string `yaml:"default_timezone" env:"ENGAGE_DEFAULT_TIMEZONE" env-default:"Europe/Amsterdam"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the SPA origin.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
