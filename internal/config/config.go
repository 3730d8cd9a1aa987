package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the chatbot
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Corpus   CorpusConfig   `mapstructure:"corpus"`
	RAG      RAGConfig      `mapstructure:"rag"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds chat history database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CorpusConfig names the fixed set of regulation documents
type CorpusConfig struct {
	Dir   string   `mapstructure:"dir"`
	Files []string `mapstructure:"files"`
}

// RAGConfig holds retrieval configuration. Chunk size and overlap are part of
// the retrieval contract; changing them changes answer quality and the
// offsets reported in debug output.
type RAGConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	TopK         int `mapstructure:"top_k"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	ChatModel      string  `mapstructure:"chat_model"`
	Temperature    float32 `mapstructure:"temperature"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HANBATBOT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The credential comes from the conventional variable unless the config
	// file sets it explicitly.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.path", "./chat_history.db")

	v.SetDefault("corpus.dir", ".")
	v.SetDefault("corpus.files", []string{
		"국립한밭대학교 학칙.txt",
		"이수 학점 체계.txt",
		"장학금 유형, 지침.txt",
		"학생생활관 관리운영 지침.txt",
		"학내 무선인터넷(와이파이).txt",
	})

	v.SetDefault("rag.chunk_size", 250)
	v.SetDefault("rag.chunk_overlap", 100)
	v.SetDefault("rag.top_k", 4)

	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.embedding_model", "text-embedding-3-small")
	v.SetDefault("llm.chat_model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.1)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
