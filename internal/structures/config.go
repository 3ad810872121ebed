package structures

import (
	"path/filepath"
	"time"
)

type Server struct {
	Host         string        `yaml:"host" validate:"required"`
	Port         int           `yaml:"port" validate:"required|uint|min:1|max:65535"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

type PathsConfig struct {
	MediaDir      string `yaml:"mediaDir" validate:"required"`
	PublicDir     string `yaml:"publicDir" validate:"required"`
	DataDir       string `yaml:"dataDir" validate:"required"`
	IndexFile     string `yaml:"indexFile" validate:"required"`
	ServiceWorker string `yaml:"serviceWorker"`
}

type LedgerConfig struct {
	LikesFile       string `yaml:"likesFile" validate:"required"`
	SuggestionsFile string `yaml:"suggestionsFile" validate:"required"`
}

// CorpusConfig points at files owned by the automation process.
type CorpusConfig struct {
	HistoryFile string `yaml:"historyFile"`
	ReportFile  string `yaml:"reportFile"`
	TextsFile   string `yaml:"textsFile" validate:"required"`
}

type ApiConfig struct {
	LikesBodyLimit      int64         `yaml:"likesBodyLimit" validate:"required|min:1"`
	SuggestionBodyLimit int64         `yaml:"suggestionBodyLimit" validate:"required|min:1"`
	SuggestionCooldown  time.Duration `yaml:"suggestionCooldown"`
	GateHeader          string        `yaml:"gateHeader" validate:"required"`
	GateValue           string        `yaml:"gateValue" validate:"required"`
	RateLimit           int           `yaml:"rateLimit"`
	RateWindow          time.Duration `yaml:"rateWindow"`
}

type Persistence struct {
	SnapshotDir      string        `yaml:"snapshotDir"`
	SnapshotInterval time.Duration `yaml:"snapshotInterval"`
	SweepInterval    time.Duration `yaml:"sweepInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CompressionConfig struct {
	Enabled bool `yaml:"enabled"`
	MinSize int  `yaml:"minSize"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Paths       PathsConfig       `yaml:"paths"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Api         ApiConfig         `yaml:"api"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Compression CompressionConfig `yaml:"compression"`
}

// DataPath resolves a ledger file name against the data directory.
// Absolute names are returned unchanged.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DataDir, name)
}
