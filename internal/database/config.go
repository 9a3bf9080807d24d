package database

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	// SQLitePath is used when Driver is "sqlite".
	SQLitePath string

	// MaxOpenConns is the ceiling of concurrently checked-out connections.
	// Acquirers beyond the ceiling queue without bound.
	MaxOpenConns int
	MaxIdleConns int
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		fmt.Println("Warning: .env file not found")
	}

	return &Config{
		Driver:       getEnv("DB_DRIVER", DriverMySQL),
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         getEnv("DB_PORT", "3306"),
		User:         getEnv("DB_USER", "quantia"),
		Password:     getEnv("DB_PASSWORD", "quantia"),
		DBName:       getEnv("DB_NAME", "quantia"),
		SQLitePath:   getEnv("DB_SQLITE_PATH", "quantia.db"),
		MaxOpenConns: getEnvInt("DB_MAX_CONNECTIONS", 10),
		MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNECTIONS", 5),
	}, nil
}

// DSN returns the MySQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// MigrateURL returns the golang-migrate connection URL for MySQL.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
