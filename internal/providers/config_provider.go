package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"mediawall/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envBindings = map[string]string{
	"webserver.host":               "HOST",
	"webserver.port":               "PORT",
	"paths.mediadir":               "MEDIA_DIR",
	"paths.publicdir":              "PUBLIC_DIR",
	"paths.datadir":                "DATA_DIR",
	"corpus.historyfile":           "MEDIAWALL_HISTORY_FILE",
	"corpus.reportfile":            "MEDIAWALL_REPORT_FILE",
	"corpus.textsfile":             "MEDIAWALL_TEXTS_FILE",
	"api.suggestioncooldown":       "MEDIAWALL_COOLDOWN",
	"logger.level":                 "MEDIAWALL_LOG_LEVEL",
	"logger.dir":                   "MEDIAWALL_LOG_DIR",
	"cache.enabled":                "MEDIAWALL_CACHE_ENABLED",
	"cache.size":                   "MEDIAWALL_CACHE_SIZE",
	"metrics.enabled":              "MEDIAWALL_METRICS_ENABLED",
	"compression.enabled":          "MEDIAWALL_COMPRESSION_ENABLED",
	"persistence.snapshotdir":      "MEDIAWALL_SNAPSHOT_DIR",
	"persistence.snapshotinterval": "MEDIAWALL_SNAPSHOT_INTERVAL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 3000)
	v.SetDefault("webServer.readTimeout", 15*time.Second)
	v.SetDefault("webServer.writeTimeout", 0)
	v.SetDefault("webServer.idleTimeout", 60*time.Second)

	v.SetDefault("paths.mediaDir", "videos")
	v.SetDefault("paths.publicDir", "public")
	v.SetDefault("paths.dataDir", "data")
	v.SetDefault("paths.indexFile", "index.html")
	v.SetDefault("paths.serviceWorker", "sw.js")

	v.SetDefault("ledger.likesFile", "likes.json")
	v.SetDefault("ledger.suggestionsFile", "suggestions.json")

	v.SetDefault("corpus.historyFile", filepath.Join("autoimprove", "history.jsonl"))
	v.SetDefault("corpus.reportFile", filepath.Join("autoimprove", "reports.md"))
	v.SetDefault("corpus.textsFile", filepath.Join("data", "existential_texts.json"))

	v.SetDefault("api.likesBodyLimit", 8<<10)
	v.SetDefault("api.suggestionBodyLimit", 2<<10)
	v.SetDefault("api.suggestionCooldown", time.Minute)
	v.SetDefault("api.gateHeader", "X-Requested-With")
	v.SetDefault("api.gateValue", "MediaWallPlayer")
	v.SetDefault("api.rateLimit", 120)
	v.SetDefault("api.rateWindow", time.Minute)

	v.SetDefault("persistence.snapshotDir", filepath.Join("data", "snapshots"))
	v.SetDefault("persistence.snapshotInterval", 10*time.Minute)
	v.SetDefault("persistence.sweepInterval", time.Minute)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 4)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("compression.enabled", true)
	v.SetDefault("compression.minSize", 1024)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MediaWall"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
