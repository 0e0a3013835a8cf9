package config

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Options struct {
	runAddr       string
	logLevel      string
	dataBaseDSN   string
	migrationsDir string
	cartDBPath    string
	rabbitURL     string
	stripeKey     string
	currency      string
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
// Environment variables (optionally loaded from a .env file) provide
// the defaults, flags override them.
func (o *Options) ParseFlags() {
	loadEnvFile()

	flag.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	flag.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	flag.StringVar(&o.dataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "postgres connection string")
	flag.StringVar(&o.migrationsDir, "m", getEnvOrDefault("MIGRATIONS_DIR", "migrations"), "migrations directory")
	flag.StringVar(&o.cartDBPath, "c", getEnvOrDefault("CART_DB_PATH", "carts.db"), "path to the cart snapshot database")
	flag.StringVar(&o.rabbitURL, "r", getEnvOrDefault("RABBITMQ_URL", ""), "rabbitmq connection url")
	flag.StringVar(&o.stripeKey, "s", getEnvOrDefault("STRIPE_SECRET_KEY", ""), "stripe secret key")
	flag.StringVar(&o.currency, "cur", getEnvOrDefault("CURRENCY", "inr"), "payment currency code")

	flag.Parse()
}

func (o *Options) RunAddr() string       { return o.runAddr }
func (o *Options) LogLevel() string      { return o.logLevel }
func (o *Options) DataBaseDSN() string   { return o.dataBaseDSN }
func (o *Options) MigrationsDir() string { return o.migrationsDir }
func (o *Options) CartDBPath() string    { return o.cartDBPath }
func (o *Options) RabbitURL() string     { return o.rabbitURL }
func (o *Options) StripeKey() string     { return o.stripeKey }
func (o *Options) Currency() string      { return o.currency }

// getEnvOrDefault reads an environment variable or returns a default value
// if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file when present.
func loadEnvFile() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, proceeding without it")
	}
}
