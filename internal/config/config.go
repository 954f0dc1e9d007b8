package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string `env:"HTTP_PORT" envDefault:"3001"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY,required"`
	GeminiBaseURL   string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-latest"`
	CalendarBaseURL string `env:"CALENDAR_BASE_URL" envDefault:"https://www.googleapis.com/calendar/v3"`
	EventTimezone   string `env:"EVENT_TIMEZONE" envDefault:"Asia/Kolkata"`
	EventUTCOffset  string `env:"EVENT_UTC_OFFSET" envDefault:"+05:30"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitPerMin int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
