package rules

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Locale       string `env:"RULEKIT_LOCALE" envDefault:"en"`
	MessagesFile string `env:"RULEKIT_MESSAGES_FILE"`
}

var dotenvOnce sync.Once

// LoadEnv builds message-provider options from the environment:
//
//	RULEKIT_LOCALE         locale for catalog matching (default "en")
//	RULEKIT_MESSAGES_FILE  optional YAML catalog path
//
// A .env file in the working directory is loaded once per process when
// present. Without RULEKIT_MESSAGES_FILE the returned options are empty and
// the provider keeps its built-in templates.
func LoadEnv() ([]ProviderOption, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("rules: cannot parse environment configuration: %w", err)
	}

	if cfg.MessagesFile == "" {
		return nil, nil
	}

	catalog, err := LoadCatalog(cfg.Locale, cfg.MessagesFile)
	if err != nil {
		return nil, err
	}
	return []ProviderOption{WithLocalization(catalog)}, nil
}
