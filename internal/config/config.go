package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultAPIURL  = "https://cursorworkshopserver.onrender.com"
	DefaultTeamID  = "demo-team"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	APIURL     string
	TeamID     string
	APITimeout time.Duration
	Port       string
	Env        string
}

func Load() (*Config, error) {
	apiURL := os.Getenv("BANK_API_URL")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	teamID := os.Getenv("BANK_TEAM_ID")
	if teamID == "" {
		teamID = DefaultTeamID
	}

	timeout := DefaultTimeout
	if raw := os.Getenv("BANK_API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("BANK_API_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("BANK_API_TIMEOUT must be positive, got %s", d)
		}
		timeout = d
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &Config{
		APIURL:     apiURL,
		TeamID:     teamID,
		APITimeout: timeout,
		Port:       port,
		Env:        env,
	}, nil
}
