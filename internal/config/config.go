package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

type Config struct {
	Port    string
	GinMode string

	MongoURI     string
	MongoDB      string
	StoreTimeout time.Duration

	RedisHost     string
	RedisPassword string

	StripeSecretKey     string
	StripeWebhookSecret string

	MinIO  MinIOConfig
	Scylla ScyllaConfig
	SMTP   SMTPConfig

	CORSOrigins []string

	OutboxInterval    time.Duration
	OutboxMaxAttempts int

	RateLimitPerMinute int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL préfixe les URL rendues au client. Vide : http(s)://endpoint/bucket.
	PublicURL string
}

func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
}

func (c ScyllaConfig) Enabled() bool {
	return len(c.Hosts) > 0 && c.Keyspace != ""
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// FromEnv lit la configuration après Load. Aucune intégration n'est
// obligatoire : une valeur absente la désactive.
func FromEnv() Config {
	return Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", ""),

		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "plantopia"),
		StoreTimeout: getDuration("STORE_TIMEOUT", 10*time.Second),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "plantopia"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
			Keyspace: os.Getenv("SCYLLA_KEYSPACE"),
			Username: os.Getenv("SCYLLA_USERNAME"),
			Password: os.Getenv("SCYLLA_PASSWORD"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		OutboxInterval:    getDuration("OUTBOX_INTERVAL", 5*time.Second),
		OutboxMaxAttempts: getInt("OUTBOX_MAX_ATTEMPTS", 10),

		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s", key, v, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
