package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	GeminiAPIKey   string
	ModelName      string
	EmbeddingModel string
	UseMockLLM     bool // true = canned completions, no API calls

	StorageBackend string // "sqlite", "memory" or "firestore"
	CheckpointPath string // sqlite conversation store file
	GCPProjectID   string // firestore backend only

	IndexPath     string // sqlite vector index file
	PolicyPath    string // source document for the indexer
	RetrievalTopK int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// Load reads .env (if present) plus env vars and builds the config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("INSURAGENT_PORT", "8000"),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ModelName:      getEnv("INSURAGENT_MODEL_NAME", "gemini-2.5-pro"),
		EmbeddingModel: getEnv("INSURAGENT_EMBEDDING_MODEL", "gemini-embedding-001"),
		UseMockLLM:     getBoolEnv("INSURAGENT_USE_MOCK_LLM", false),

		StorageBackend: getEnv("INSURAGENT_STORAGE_BACKEND", "sqlite"),
		CheckpointPath: getEnv("INSURAGENT_CHECKPOINT_PATH", "checkpoints.db"),
		GCPProjectID:   getEnv("INSURAGENT_GCP_PROJECT", ""),

		IndexPath:     getEnv("INSURAGENT_INDEX_PATH", "index.db"),
		PolicyPath:    getEnv("INSURAGENT_POLICY_PATH", "policy.pdf"),
		RetrievalTopK: getIntEnv("INSURAGENT_RETRIEVAL_TOP_K", 4),
	}

	if !cfg.UseMockLLM && cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY must be set unless INSURAGENT_USE_MOCK_LLM=1")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("INSURAGENT_GCP_PROJECT is required for the firestore storage backend")
	}

	return cfg
}
