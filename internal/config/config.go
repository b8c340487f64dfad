package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3
		BasePath  string `yaml:"base_path"`  // For local storage
		Bucket    string `yaml:"bucket"`     // For S3
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3
		SecretKey string `yaml:"secret_key"` // For S3
		Endpoint  string `yaml:"endpoint"`   // For R2/MinIO or custom S3
	} `yaml:"storage"`

	Resume struct {
		MaxSize      int64    `yaml:"max_size"`       // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"`  // Allowed MIME types
		SignedURLTTL int      `yaml:"signed_url_ttl"` // seconds
	} `yaml:"resume"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию из config.yaml или из переменных окружения.
// Переменные окружения имеют приоритет (режим тестов/контейнера).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyResumeDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyResumeDefaults(&cfg)
	AppConfig = &cfg
}

// applyResumeDefaults устанавливает лимиты резюме, если они не заданы
// в конфиге: 5 MiB, pdf/doc/docx, ссылка живет 60 секунд.
func applyResumeDefaults(cfg *Config) {
	if cfg.Resume.MaxSize == 0 {
		cfg.Resume.MaxSize = 5 * 1024 * 1024
	}
	if len(cfg.Resume.AllowedTypes) == 0 {
		cfg.Resume.AllowedTypes = []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	}
	if cfg.Resume.SignedURLTTL == 0 {
		cfg.Resume.SignedURLTTL = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
