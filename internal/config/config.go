package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver string // sqlite | mongo
	DBDSN    string
	MongoURI string
	MongoDB  string

	TokenSecret      string
	TokenPrevSecrets []string
	TokenTTL         time.Duration
	TokenHeader      string

	UploadBackend string // local | gcs
	BucketName    string
	GCPProjectID  string
	GCPKeyFile    string
	MediaDir      string
	PublicBaseURL string

	BodyLimit int
	LogFile   string
	SeedDemo  bool
}

func Load() (Config, error) {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	port := getEnv("PORT", "4000")
	cfg := Config{
		Port:             port,
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:            getEnv("DB_DSN", "lashodia.db"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "lashodia"),
		TokenSecret:      os.Getenv("TOKEN_SECRET"),
		TokenPrevSecrets: splitList(os.Getenv("TOKEN_PREVIOUS_SECRETS")),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 0),
		TokenHeader:      getEnv("TOKEN_HEADER", "auth-token"),
		UploadBackend:    strings.ToLower(getEnv("UPLOAD_BACKEND", "local")),
		BucketName:       os.Getenv("BUCKET_NAME"),
		GCPProjectID:     os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		GCPKeyFile:       os.Getenv("GOOGLE_CLOUD_KEY_FILE"),
		MediaDir:         getEnv("MEDIA_DIR", "./media"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		BodyLimit:        getEnvInt("BODY_LIMIT", 10<<20),
		LogFile:          os.Getenv("LOG_FILE"),
		SeedDemo:         getEnvBool("SEED_DEMO", false),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s UPLOAD_BACKEND=%s MEDIA_DIR=%s TOKEN_HEADER=%s TOKEN_TTL=%s",
		cfg.Port, cfg.DBDriver, cfg.UploadBackend, cfg.MediaDir, cfg.TokenHeader, cfg.TokenTTL)
	return cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET must be set")
	}
	switch c.DBDriver {
	case "sqlite":
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI must be set when DB_DRIVER=mongo")
		}
	default:
		return errors.New("DB_DRIVER must be sqlite or mongo")
	}
	switch c.UploadBackend {
	case "local":
	case "gcs":
		if c.BucketName == "" {
			return errors.New("BUCKET_NAME must be set when UPLOAD_BACKEND=gcs")
		}
	default:
		return errors.New("UPLOAD_BACKEND must be local or gcs")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
