package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	IdentitySecret    string
	ServerPort        string
	RedisAddr         string
	RedisEnabled      bool
	AssistantEndpoint string
	AssistantAPIKey   string
	AssistantModel    string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "learnio"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		IdentitySecret:    getEnv("IDENTITY_SECRET", "identity-secret"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisEnabled:      getEnvBool("REDIS_ENABLED", false),
		AssistantEndpoint: getEnv("ASSISTANT_ENDPOINT", ""),
		AssistantAPIKey:   getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:    getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
