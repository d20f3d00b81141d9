package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory (embedding cache, dev database)
	Data string
	// Driver is the record store driver (notion or sqlite)
	Driver string
	// DSN points to where teampulse stores its own data in sqlite mode
	DSN string
	// Version is the current version of server
	Version string

	// Notion record store configuration
	NotionToken        string // TEAMPULSE_NOTION_TOKEN
	NotionDatabaseID   string // TEAMPULSE_NOTION_DATABASE_ID
	NotionFeedbackDBID string // TEAMPULSE_NOTION_FEEDBACK_DB_ID

	// AI configuration
	AIAPIKey         string // TEAMPULSE_AI_API_KEY
	AIBaseURL        string // TEAMPULSE_AI_BASE_URL (default: https://api.openai.com/v1)
	AIEmbeddingModel string // TEAMPULSE_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIChatModel      string // TEAMPULSE_AI_CHAT_MODEL (default: gpt-4o-mini)

	// Reconciliation tuning
	SimilarityThreshold float64 // TEAMPULSE_SIMILARITY_THRESHOLD (default: 0.85)
	StaleDays           int     // TEAMPULSE_STALE_DAYS (default: 2)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an AI API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// EmbeddingCachePath returns the path of the embedding cache file.
func (p *Profile) EmbeddingCachePath() string {
	return filepath.Join(p.Data, "embedding_cache.json")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TEAMPULSE_* environment variables.
func (p *Profile) FromEnv() {
	p.NotionToken = os.Getenv("TEAMPULSE_NOTION_TOKEN")
	p.NotionDatabaseID = os.Getenv("TEAMPULSE_NOTION_DATABASE_ID")
	p.NotionFeedbackDBID = os.Getenv("TEAMPULSE_NOTION_FEEDBACK_DB_ID")

	p.AIAPIKey = os.Getenv("TEAMPULSE_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("TEAMPULSE_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIEmbeddingModel = getEnvOrDefault("TEAMPULSE_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AIChatModel = getEnvOrDefault("TEAMPULSE_AI_CHAT_MODEL", "gpt-4o-mini")

	if v := os.Getenv("TEAMPULSE_SIMILARITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("TEAMPULSE_STALE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.StaleDays = n
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	switch p.Driver {
	case "notion":
		if p.NotionToken == "" {
			return errors.New("notion token is required, set TEAMPULSE_NOTION_TOKEN")
		}
		if p.NotionDatabaseID == "" {
			return errors.New("notion database id is required, set TEAMPULSE_NOTION_DATABASE_ID")
		}
	case "sqlite", "":
		p.Driver = "sqlite"
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, "teampulse_"+p.Mode+".db")
		}
	default:
		return errors.Errorf("unsupported record store driver %q", p.Driver)
	}

	if p.SimilarityThreshold <= 0 || p.SimilarityThreshold >= 1 {
		p.SimilarityThreshold = 0.85
	}
	if p.StaleDays <= 0 {
		p.StaleDays = 2
	}

	return nil
}
