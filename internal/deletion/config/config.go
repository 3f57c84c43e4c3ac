package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"so4tdelete/internal/deletion/model"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BaseURL           string        `flag:"url" env:"SO4T_URL" validate:"required,url"`
	CSVPath           string        `flag:"csv" env:"SO4T_CSV" validate:"required_without=ListHistory"`
	ChunkSize         int           `flag:"chunk-size" env:"SO4T_CHUNK_SIZE" envDefault:"25" validate:"gt=0"`
	SessionFile       string        `flag:"session-file" env:"SO4T_SESSION_FILE" envDefault:"so4t_session" validate:"required"`
	LoginTimeout      time.Duration `flag:"login-timeout" env:"SO4T_LOGIN_TIMEOUT" envDefault:"10m" validate:"gt=0"`
	LogLevel          string        `flag:"log-level" env:"SO4T_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat         string        `flag:"log-format" env:"SO4T_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	HistoryDBPath     string        `flag:"history-db" env:"SO4T_HISTORY_DB"`
	MongoURI          string        `flag:"mongo-uri" env:"MONGO_URI" validate:"omitempty,uri"`
	DBName            string        `flag:"mongo-db" env:"SO4T_MONGO_DB" envDefault:"so4t"`
	HistoryCollection string        `flag:"history-collection" env:"SO4T_HISTORY_COLLECTION" envDefault:"deletion_history"`
	JSONOutput        bool
	ListHistory       bool
	HistoryLimit      int `flag:"history-limit" validate:"omitempty,min=1,max=1000"`
	RunID             string
}

// Load reads the environment, then lets flags override it.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.HistoryLimit = 20

	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "URL of the Stack Overflow for Teams instance (SO4T_URL)")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "path to a CSV file with an account_id column (SO4T_CSV)")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "maximum number of users to delete in one request")
	fs.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "file caching the authenticated session")
	fs.DurationVar(&cfg.LoginTimeout, "login-timeout", cfg.LoginTimeout, "how long to wait for the browser login to complete")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.HistoryDBPath, "history-db", cfg.HistoryDBPath, "optional sqlite file recording every submitted batch")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", cfg.MongoURI, "optional MongoDB URI recording every submitted batch (MONGO_URI)")
	fs.StringVar(&cfg.DBName, "mongo-db", cfg.DBName, "MongoDB database for deletion history")
	fs.StringVar(&cfg.HistoryCollection, "history-collection", cfg.HistoryCollection, "MongoDB collection for deletion history")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "print the final report as JSON")
	fs.BoolVar(&cfg.ListHistory, "list-history", false, "print recorded deletion history and exit")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "max history records to print")
	fs.StringVar(&cfg.RunID, "run-id", "", "only list history of this run")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := model.GetValidator().Struct(c); err != nil {
		return model.FormatValidationError(err)
	}
	if c.HistoryDBPath != "" && c.MongoURI != "" {
		return &model.ErrorDetail{Code: "bad_request", Message: "choose one of -history-db and -mongo-uri"}
	}
	if c.ListHistory && c.HistoryDBPath == "" && c.MongoURI == "" {
		return &model.ErrorDetail{Code: "bad_request", Message: "-list-history needs -history-db or -mongo-uri"}
	}
	return nil
}
