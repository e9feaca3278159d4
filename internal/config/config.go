package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	AllowedOrigin string `yaml:"allowed_origin"`
	LogMode       string `yaml:"log_mode"`
	// MongoDB
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	// JWT
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`
	// Dialogflow
	DialogflowProjectID       string `yaml:"dialogflow_project_id"`
	DialogflowCredentialsFile string `yaml:"dialogflow_credentials_file"`
	// Reserved chat commands; empty means the built-in defaults apply
	DebugExchangeCommand       string `yaml:"debug_exchange_command"`
	DebugBranchOverrideCommand string `yaml:"debug_branch_override_command"`
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:                       getEnvDefault("PORT", "8080"),
		AllowedOrigin:              getEnvDefault("ALLOWED_ORIGIN", "http://localhost:8080"),
		LogMode:                    getEnvDefault("LOG_MODE", "dev"),
		MongoURI:                   getEnvDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:              getEnvDefault("MONGO_DATABASE", "botbridge"),
		JWTSecret:                  os.Getenv("JWT_SECRET"),
		JWTIssuer:                  getEnvDefault("JWT_ISSUER", "botbridge"),
		JWTAudience:                getEnvDefault("JWT_AUDIENCE", "botbridge-client"),
		DialogflowProjectID:        os.Getenv("DIALOGFLOW_PROJECT_ID"),
		DialogflowCredentialsFile:  os.Getenv("DIALOGFLOW_CREDENTIALS_FILE"),
		DebugExchangeCommand:       os.Getenv("DEBUG_EXCHANGE_COMMAND"),
		DebugBranchOverrideCommand: os.Getenv("DEBUG_BRANCH_OVERRIDE_COMMAND"),
	}

	// An optional YAML file overrides whatever the environment provided.
	if path := os.Getenv("BOTBRIDGE_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			log.Printf("warning: could not apply config file %s: %v", path, err)
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("warning: JWT_SECRET is not set; issued tokens will be trivially forgeable")
	}
	if cfg.DialogflowProjectID == "" {
		log.Println("warning: DIALOGFLOW_PROJECT_ID is not set; intent detection will fail until provided")
	}
	return cfg
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
