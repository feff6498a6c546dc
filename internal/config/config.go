package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "TRANSFER_DTEC_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	sftpHostEnv       = "SFTP_HOST"
	sftpUserEnv       = "SFTP_USER"
	sftpKeyFileEnv    = "SFTP_KEY_FILE"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Transfer      TransferConfig     `yaml:"transfer"`
	Paths         PathsConfig        `yaml:"paths"`
	Publish       PublishConfig      `yaml:"publish"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the record store connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TransferConfig describes the SFTP transport to the publication host.
type TransferConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	KeyFile        string `yaml:"keyFile"`
	KnownHostsFile string `yaml:"knownHostsFile"`
}

// PathsConfig pins the staging tree and the remote site root.
type PathsConfig struct {
	LocalBase  string `yaml:"localBase"`
	RemoteBase string `yaml:"remoteBase"`
}

// PublishConfig selects which transferred records are eligible for
// publication: "today" limits to records transferred during the run
// day, "all" takes any transferred record.
type PublishConfig struct {
	Scope string `yaml:"scope"`
}

// TodayOnly reports whether publication is limited to the run day.
func (p PublishConfig) TodayOnly() bool {
	return p.Scope != "all"
}

// NotificationConfig encapsulates outbound alerting channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to post run reports.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(sftpHostEnv); v != "" {
		c.Transfer.Host = v
	}
	if v := os.Getenv(sftpUserEnv); v != "" {
		c.Transfer.User = v
	}
	if v := os.Getenv(sftpKeyFileEnv); v != "" {
		c.Transfer.KeyFile = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Transfer.Host != "" {
		base.Transfer.Host = override.Transfer.Host
	}
	if override.Transfer.Port != 0 {
		base.Transfer.Port = override.Transfer.Port
	}
	if override.Transfer.User != "" {
		base.Transfer.User = override.Transfer.User
	}
	if override.Transfer.KeyFile != "" {
		base.Transfer.KeyFile = override.Transfer.KeyFile
	}
	if override.Transfer.KnownHostsFile != "" {
		base.Transfer.KnownHostsFile = override.Transfer.KnownHostsFile
	}

	if override.Paths.LocalBase != "" {
		base.Paths.LocalBase = override.Paths.LocalBase
	}
	if override.Paths.RemoteBase != "" {
		base.Paths.RemoteBase = override.Paths.RemoteBase
	}

	if override.Publish.Scope != "" {
		base.Publish.Scope = override.Publish.Scope
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			DSN: "dtecflex:dtecflex@tcp(localhost:3306)/dtecflex?parseTime=true",
		},
		Transfer: TransferConfig{
			Port: 8022,
			User: "ubuntu",
		},
		Paths: PathsConfig{
			LocalBase:  "/media/noticias_www",
			RemoteBase: "/mnt/dtecflex-site-root",
		},
		Publish: PublishConfig{Scope: "today"},
		Logging: LoggingConfig{Level: "info"},
	}
}
