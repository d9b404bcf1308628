// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
	validStorage   = []string{"local", "s3"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("storage.type", "storage_type")
	v.BindEnv("storage.local_dir", "storage_local_dir")
	v.BindEnv("storage.s3.access_key_id", "storage_s3_access_key_id")
	v.BindEnv("storage.s3.secret_access_key", "storage_s3_secret_access_key")
	v.BindEnv("storage.s3.region", "storage_s3_region")
	v.BindEnv("storage.s3.bucket", "storage_s3_bucket")
	v.BindEnv("storage.s3.endpoint", "storage_s3_endpoint")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.allowed_types", "upload_allowed_types")

	v.BindEnv("demo.session_minutes", "demo_session_minutes")
	v.BindEnv("demo.ban_hours", "demo_ban_hours")
	v.BindEnv("demo.sweep_seconds", "demo_sweep_seconds")

	v.BindEnv("openai.api_key", "openai_api_key")
	v.BindEnv("openai.text_model", "openai_text_model")
	v.BindEnv("openai.tts_model", "openai_tts_model")
	v.BindEnv("openai.tts_voice", "openai_tts_voice")
	v.BindEnv("openai.transcribe_model", "openai_transcribe_model")

	v.BindEnv("canva.access_token", "canva_access_token")
	v.BindEnv("canva.create_url", "canva_create_url")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("cors.allowed_origins", "cors_allowed_origins")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "uploaded_files")

	v.SetDefault("upload.max_size", 30)
	v.SetDefault("upload.allowed_types", []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"audio/mpeg",
		"audio/wav",
		"audio/mp4",
	})

	v.SetDefault("demo.session_minutes", 15)
	v.SetDefault("demo.ban_hours", 2)
	v.SetDefault("demo.sweep_seconds", 60)

	v.SetDefault("openai.text_model", "gpt-4o-mini")
	v.SetDefault("openai.tts_model", "gpt-4o-mini-tts")
	v.SetDefault("openai.tts_voice", "verse")
	v.SetDefault("openai.transcribe_model", "whisper-1")

	v.SetDefault("canva.create_url", "https://api.canva.com/v1/designs")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	switch v.GetString("storage.type") {
	case "local":
		if v.GetString("storage.local_dir") == "" {
			return errors.New("storage directory can't be empty")
		}
	case "s3":
		if v.GetString("storage.s3.access_key_id") == "" {
			return errors.New("s3 access key id can't be empty")
		}
		if v.GetString("storage.s3.secret_access_key") == "" {
			return errors.New("s3 secret access key can't be empty")
		}
		if v.GetString("storage.s3.bucket") == "" {
			return errors.New("s3 bucket can't be empty")
		}
	default:
		return fmt.Errorf("invalid storage type provided, must be one of %v", validStorage)
	}

	if v.GetInt("demo.session_minutes") <= 0 {
		return errors.New("demo.session_minutes must be bigger than 0")
	}

	if v.GetInt("demo.ban_hours") <= 0 {
		return errors.New("demo.ban_hours must be bigger than 0")
	}

	if v.GetInt("demo.sweep_seconds") <= 0 {
		return errors.New("demo.sweep_seconds must be bigger than 0")
	}

	if v.GetString("openai.api_key") == "" {
		zap.L().Warn("No openai.api_key set, AI endpoints will fail")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}
		if v.GetString("mail.sender") == "" {
			return errors.New("mail sender can't be empty")
		}
	} else {
		fmt.Println("[WARNING]: Mail delivery is disabled. Verification and reset codes will only be logged")
	}

	// Config keeps the limit in MB, the rest of the app wants bytes
	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
