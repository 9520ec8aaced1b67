package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Bootstrap credentials are injected at deploy time, never hard-coded.
	AdminEmail    string `env:"ADMIN_EMAIL,required"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}
