package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string `env:"DATABASE_URL"`
	LLMAPIKey       string `env:"LLM_API_KEY,required"`
	LLMBaseURL      string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMMaxTokens    int    `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	OutputDir       string `env:"OUTPUT_DIR" envDefault:"output"`
	GenMaxAttempts  int    `env:"GEN_MAX_ATTEMPTS" envDefault:"3"`
	DefaultNumBooks int    `env:"DEFAULT_NUM_BOOKS" envDefault:"5"`
	JWTSecret       string `env:"JWT_SECRET"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
