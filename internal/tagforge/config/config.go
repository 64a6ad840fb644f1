// Package config 读取 tagforge 配置
// 优先级：环境变量 > .env 文件 > YAML 配置文件 > 默认值
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
)

// 环境变量名
const (
	EnvConfigFile = "TAGFORGE_CONFIG"
	EnvPrefix     = "TAGFORGE_"
	// EnvPublicAPIBaseURL 前端使用的上游地址，未设置 TAGFORGE_API_BASE_URL 时使用
	EnvPublicAPIBaseURL = "NEXT_PUBLIC_API_BASE_URL"
)

type Config struct {
	// Address 监听地址，环境变量 TAGFORGE_ADDRESS
	Address string `yaml:"address"`

	// DataDir 数据目录，DBPath 为空时数据库位于 DataDir/tagforge.db
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`

	// LogLevel zerolog 日志级别
	LogLevel string `yaml:"log_level"`

	Upstream   UpstreamConfig   `yaml:"upstream"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Redis      RedisConfig      `yaml:"redis"`
	Submission SubmissionConfig `yaml:"submission"`
}

// UpstreamConfig 上游服务
type UpstreamConfig struct {
	APIBaseURL    string        `yaml:"api_base_url"`
	SearchBaseURL string        `yaml:"search_base_url"`
	Platform      string        `yaml:"platform"`
	Timeout       time.Duration `yaml:"timeout"`
	// Proxy 是否将未处理的 /api 请求转发到上游
	Proxy bool `yaml:"proxy"`
}

// DispatchConfig 提交分发
type DispatchConfig struct {
	Kind         string   `yaml:"kind"` // log、http 或 kafka
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

// RedisConfig 搜索缓存，Addr 为空时不缓存
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// SubmissionConfig 提交相关
type SubmissionConfig struct {
	ConfirmThreshold int `yaml:"confirm_threshold"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Address:  "0.0.0.0:7788",
		DataDir:  defaultDataDir(),
		LogLevel: "info",
		Upstream: UpstreamConfig{
			APIBaseURL:    "http://localhost:8000",
			SearchBaseURL: "https://api.talesofai.cn",
			Platform:      "nieta-app/web",
			Timeout:       15 * time.Second,
			Proxy:         true,
		},
		Dispatch: DispatchConfig{
			Kind:       "log",
			KafkaTopic: "tagforge.submissions",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		Submission: SubmissionConfig{
			ConfirmThreshold: 1000,
		},
	}
}

// New 读取配置
func New() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	// .env 不覆盖已存在的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 读取 YAML 配置文件，文件中未出现的字段保持原值
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv 使用环境变量覆盖配置，getenv 通常为 os.Getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(name string) string {
		return strings.TrimSpace(getenv(EnvPrefix + name))
	}

	setString(&c.Address, env("ADDRESS"))
	setString(&c.DataDir, env("DATA_DIR"))
	setString(&c.DBPath, env("DB_PATH"))
	setString(&c.LogLevel, env("LOG_LEVEL"))

	setString(&c.Upstream.APIBaseURL, strings.TrimSpace(getenv(EnvPublicAPIBaseURL)))
	setString(&c.Upstream.APIBaseURL, env("API_BASE_URL"))
	setString(&c.Upstream.SearchBaseURL, env("SEARCH_BASE_URL"))
	setString(&c.Upstream.Platform, env("PLATFORM"))
	if err := setDuration(&c.Upstream.Timeout, EnvPrefix+"UPSTREAM_TIMEOUT", env("UPSTREAM_TIMEOUT")); err != nil {
		return err
	}
	if err := setBool(&c.Upstream.Proxy, EnvPrefix+"PROXY", env("PROXY")); err != nil {
		return err
	}

	setString(&c.Dispatch.Kind, env("DISPATCHER"))
	if brokers := env("KAFKA_BROKERS"); brokers != "" {
		c.Dispatch.KafkaBrokers = splitList(brokers)
	}
	setString(&c.Dispatch.KafkaTopic, env("KAFKA_TOPIC"))

	setString(&c.Redis.Addr, env("REDIS_ADDR"))
	setString(&c.Redis.Password, env("REDIS_PASSWORD"))
	if err := setInt(&c.Redis.DB, EnvPrefix+"REDIS_DB", env("REDIS_DB")); err != nil {
		return err
	}
	if err := setDuration(&c.Redis.TTL, EnvPrefix+"REDIS_TTL", env("REDIS_TTL")); err != nil {
		return err
	}

	return setInt(&c.Submission.ConfirmThreshold, EnvPrefix+"CONFIRM_THRESHOLD", env("CONFIRM_THRESHOLD"))
}

// Validate 检查配置
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("address must not be empty")
	}
	if c.DBPath == "" && c.DataDir == "" {
		return errors.New("either data_dir or db_path must be set")
	}
	if c.Upstream.APIBaseURL == "" {
		return errors.New("upstream api base url must not be empty")
	}
	if c.Submission.ConfirmThreshold <= 0 {
		return fmt.Errorf("confirm threshold must be positive, got %d", c.Submission.ConfirmThreshold)
	}
	switch strings.ToLower(c.Dispatch.Kind) {
	case "log", "http":
	case "kafka":
		if len(c.Dispatch.KafkaBrokers) == 0 {
			return errors.New("kafka dispatcher requires at least one broker")
		}
	default:
		return fmt.Errorf("unknown dispatcher %q", c.Dispatch.Kind)
	}
	return nil
}

// DatabasePath 返回数据库文件路径
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "tagforge.db")
}

// defaultDataDir 使用用户主目录下的 .local/share/tagforge
func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tagforge")
	}
	return filepath.Join(".", "data")
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, name, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, name, v string) error {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
