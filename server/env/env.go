package env

import (
	"os"
	"time"
)

var E *ENV

type ENV struct {
	Environment            string `yaml:"environment"`
	DatabaseConfigFilePath string `yaml:"database_config_file_path"`
	RedisConfigFilePath    string `yaml:"redis_config_file_path"`

	ServerName string `yaml:"server_name"`

	Backend *BackendHost `yaml:"backend"`

	JWTSigningKey       string `yaml:"jwt_signing_key"`
	JWTTokenDuration    string `yaml:"jwt_token_duration"`
	TokenRevokeDuration string `yaml:"token_revoke_duration"`

	Uploads *UploadConfig `yaml:"uploads"`
}

type BackendHost struct {
	HTTPHost string `yaml:"host_http"`
	Port     string `yaml:"port"`
}

// UploadConfig fixes the upload allow-sets and storage root at process
// start.
type UploadConfig struct {
	Folder            string   `yaml:"folder"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types"`
	MaxFileSize       int64    `yaml:"max_file_size"`
}

func (env *ENV) GetJWTDuration() time.Duration {
	if env == nil || env.JWTTokenDuration == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(env.JWTTokenDuration)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

func (env *ENV) GetRevokeDuration() time.Duration {
	if env == nil || env.TokenRevokeDuration == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(env.TokenRevokeDuration)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

func (env *ENV) GetServerPort() string {
	if env == nil || env.Backend == nil || env.Backend.Port == "" {
		return "8080"
	}
	return env.Backend.Port
}

func (env *ENV) GetUploadFolder() string {
	if env == nil || env.Uploads == nil || env.Uploads.Folder == "" {
		return "uploads"
	}
	return env.Uploads.Folder
}

func (env *ENV) GetAllowedExtensions() []string {
	if env == nil || env.Uploads == nil || len(env.Uploads.AllowedExtensions) == 0 {
		return []string{"pdf", "png", "jpg", "jpeg", "gif"}
	}
	return env.Uploads.AllowedExtensions
}

func (env *ENV) GetAllowedMimeTypes() []string {
	if env == nil || env.Uploads == nil || len(env.Uploads.AllowedMimeTypes) == 0 {
		return []string{"application/pdf", "image/png", "image/jpeg", "image/gif"}
	}
	return env.Uploads.AllowedMimeTypes
}

func (env *ENV) GetMaxFileSize() int64 {
	if env == nil || env.Uploads == nil || env.Uploads.MaxFileSize <= 0 {
		return 8 * 1024 * 1024
	}
	return env.Uploads.MaxFileSize
}

func (env *ENV) IsDevelopment() bool {
	return env != nil && env.Environment == "development"
}

func (env *ENV) SetDefaults() {
	if env.Environment == "" {
		env.Environment = "development"
	}
	if env.ServerName == "" {
		env.ServerName = "boko-files"
	}
	if env.Backend == nil {
		env.Backend = &BackendHost{}
	}
	if env.Backend.Port == "" {
		env.Backend.Port = "8080"
	}
	if env.Backend.HTTPHost == "" {
		env.Backend.HTTPHost = "localhost"
	}
	if env.Uploads == nil {
		env.Uploads = &UploadConfig{}
	}
	if env.Uploads.Folder == "" {
		env.Uploads.Folder = "uploads"
	}
	if len(env.Uploads.AllowedExtensions) == 0 {
		env.Uploads.AllowedExtensions = []string{"pdf", "png", "jpg", "jpeg", "gif"}
	}
	if len(env.Uploads.AllowedMimeTypes) == 0 {
		env.Uploads.AllowedMimeTypes = []string{"application/pdf", "image/png", "image/jpeg", "image/gif"}
	}
	if env.Uploads.MaxFileSize <= 0 {
		env.Uploads.MaxFileSize = 8 * 1024 * 1024
	}

	// JWT key: environment variable > config file (required, no default)
	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		env.JWTSigningKey = key
	}
	if env.JWTSigningKey == "" {
		panic("JWT_SIGNING_KEY is required. Set it via environment variable or config file.")
	}
	if env.JWTTokenDuration == "" {
		env.JWTTokenDuration = "24h"
	}
}
