package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Loyalty   LoyaltyConfig   `mapstructure:"loyalty"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	Cors      CorsConfig      `mapstructure:"cors"`
	App       AppConfig       `mapstructure:"app"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig 积分账本存储
type StoreConfig struct {
	Driver     string `mapstructure:"driver"` // memory | redis | postgres | sqlite
	KeyPrefix  string `mapstructure:"key_prefix"`
	MaxRetries int    `mapstructure:"max_retries"` // 乐观锁冲突时的最大重试次数
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	Port        string `mapstructure:"port"`
	SSLMode     string `mapstructure:"sslmode"`
	TimeZone    string `mapstructure:"timezone"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type LoyaltyConfig struct {
	DefaultThreshold int    `mapstructure:"default_threshold"`
	CodeAlgorithm    string `mapstructure:"code_algorithm"` // legacy | hmac
	QRBaseURL        string `mapstructure:"qr_base_url"`
	ActivityLimit    int    `mapstructure:"activity_limit"`
	WorkerNum        int    `mapstructure:"worker_num"`
	QueueSize        int    `mapstructure:"queue_size"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json | console
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // 天
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis address is required")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return errors.New("database configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Store.MaxRetries < 1 {
		return errors.New("store.max_retries must be at least 1")
	}

	// 员工令牌签名密钥
	if c.App.Env == "prod" && len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}

	if c.Loyalty.DefaultThreshold < 1 {
		return errors.New("loyalty.default_threshold must be positive")
	}
	if c.Loyalty.CodeAlgorithm != "legacy" && c.Loyalty.CodeAlgorithm != "hmac" {
		return fmt.Errorf("unknown code algorithm %q", c.Loyalty.CodeAlgorithm)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.key_prefix", "fidelidade:")
	v.SetDefault("store.max_retries", 5)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.sqlite_path", "fidelidade.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 50)
	v.SetDefault("jwt.expire", 12)
	v.SetDefault("loyalty.default_threshold", 10)
	v.SetDefault("loyalty.code_algorithm", "legacy")
	v.SetDefault("loyalty.activity_limit", 50)
	v.SetDefault("loyalty.worker_num", 2)
	v.SetDefault("loyalty.queue_size", 256)
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
}

// Load 从指定目录读取配置文件，文件缺失时使用默认值和环境变量
func Load(env string, paths ...string) (*Config, error) {
	v := viper.New()

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量，例如 STORE_DRIVER 覆盖 store.driver
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfig 加载配置
func LoadConfig() {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := Load(env, "./configs", ".")
	if err != nil {
		log.Fatalf("%v", err)
	}
	GlobalConfig = *cfg

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
