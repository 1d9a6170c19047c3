package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shouni/smartlayout-kit/pkg/generator"
)

// 環境変数名
const (
	EnvModel           = "SMARTLAYOUT_MODEL"
	EnvOutputDir       = "SMARTLAYOUT_OUTPUT_DIR"
	EnvKeyFile         = "SMARTLAYOUT_KEY_FILE"
	EnvHTTPTimeout     = "SMARTLAYOUT_HTTP_TIMEOUT"
	EnvCompressQuality = "SMARTLAYOUT_COMPRESS_QUALITY"
	EnvLogFile         = "SMARTLAYOUT_LOG_FILE"
	EnvDebug           = "SMARTLAYOUT_DEBUG"
	EnvS3Endpoint      = "SMARTLAYOUT_S3_ENDPOINT"
	EnvS3AccessKey     = "SMARTLAYOUT_S3_ACCESS_KEY"
	EnvS3SecretKey     = "SMARTLAYOUT_S3_SECRET_KEY"
	EnvS3Bucket        = "SMARTLAYOUT_S3_BUCKET"
	EnvS3Prefix        = "SMARTLAYOUT_S3_PREFIX"
	EnvS3UseSSL        = "SMARTLAYOUT_S3_USE_SSL"
)

const (
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultCompressQuality = 75
	defaultOutputDir       = "."
	appDirName             = "smartlayout"
	keyFileName            = "credentials"
)

// ObjectStorage は S3 互換の出力先設定です。Endpoint が空なら無効です。
type ObjectStorage struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled はオブジェクトストレージへの保存が設定されているかを返します。
func (o ObjectStorage) Enabled() bool {
	return o.Endpoint != ""
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Model           string        `yaml:"model"`
	OutputDir       string        `yaml:"output_dir"`
	KeyFile         string        `yaml:"key_file"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	CompressQuality int           `yaml:"compress_quality"`
	LogFile         string        `yaml:"log_file"`
	Debug           bool          `yaml:"debug"`
	ObjectStorage   ObjectStorage `yaml:"object_storage"`
}

// Default は設定ファイルも環境変数もないときの値を返します。
func Default() Config {
	return Config{
		Model:           generator.DefaultModel,
		OutputDir:       defaultOutputDir,
		KeyFile:         defaultKeyFile(),
		HTTPTimeout:     DefaultHTTPTimeout,
		CompressQuality: DefaultCompressQuality,
	}
}

// Load は .env、YAML 設定ファイル（path が空ならスキップ）、環境変数の順に読み込み、
// 後のものほど優先して Config を組み立てます。
func Load(path string) (Config, error) {
	// .env は無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は範囲外の値を弾きます。
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout は正の値である必要があります: %s", c.HTTPTimeout)
	}
	if c.CompressQuality < 0 || c.CompressQuality > 100 {
		return fmt.Errorf("compress_quality は 0〜100 の範囲で指定してください: %d", c.CompressQuality)
	}
	if c.ObjectStorage.Enabled() && c.ObjectStorage.Bucket == "" {
		return errors.New("object_storage.bucket is required when endpoint is set")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Model, EnvModel)
	setString(&cfg.OutputDir, EnvOutputDir)
	setString(&cfg.KeyFile, EnvKeyFile)
	setString(&cfg.LogFile, EnvLogFile)
	setString(&cfg.ObjectStorage.Endpoint, EnvS3Endpoint)
	setString(&cfg.ObjectStorage.AccessKey, EnvS3AccessKey)
	setString(&cfg.ObjectStorage.SecretKey, EnvS3SecretKey)
	setString(&cfg.ObjectStorage.Bucket, EnvS3Bucket)
	setString(&cfg.ObjectStorage.Prefix, EnvS3Prefix)

	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv(EnvCompressQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %w", EnvCompressQuality, err)
		}
		cfg.CompressQuality = q
	}
	if err := setBool(&cfg.Debug, EnvDebug); err != nil {
		return err
	}
	return setBool(&cfg.ObjectStorage.UseSSL, EnvS3UseSSL)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s の値が不正です: %w", key, err)
	}
	*dst = b
	return nil
}

func defaultKeyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName, keyFileName)
	}
	return filepath.Join(dir, appDirName, keyFileName)
}
