// Package config reads the settings of the address book binaries from the environment.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all settings.
type Config struct {
	Port       int    `env:"PORT"        env-default:"8080"             env-description:"port of the REST API"`
	BookFile   string `env:"BOOK_FILE"   env-default:"addressbook.json" env-description:"file the address book is kept in"`
	GinLogging string `env:"GIN_LOGGING" env-default:"on"               env-description:"set to 'off' to disable request logging"`
	PageSize   int    `env:"PAGE_SIZE"   env-default:"5"                env-description:"default number of contacts per page"`
	Log        Log
	Database   Database
}

// Log holds the logger settings.
type Log struct {
	Level  string `env:"LOG_LEVEL"  env-description:"debug, info, warn or error"`
	File   string `env:"LOG_FILE"   env-description:"append logs to this file instead of stdout"`
	Format string `env:"LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

// Database holds the settings of the optional MySQL mirror. The mirror is disabled if Host is empty.
type Database struct {
	Host     string `env:"DBHOST" env-description:"MySQL host and port"`
	User     string `env:"DBUSER" env-description:"MySQL user"`
	Password string `env:"DBPWD"  env-description:"MySQL password"`
	Name     string `env:"DBNAME" env-default:"test" env-description:"MySQL database"`
}

// Enabled returns true if a MySQL host is configured.
func (d Database) Enabled() bool {
	return d.Host != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage returns a description of all environment variables.
func Usage() string {
	var cfg Config
	description, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return description
}
