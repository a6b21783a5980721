package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Lease     LeaseConfig     `mapstructure:"lease"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Holiday   HolidayConfig   `mapstructure:"holiday"`
	Portal    PortalConfig    `mapstructure:"portal"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type SchedulerConfig struct {
	InstanceID string `mapstructure:"instance_id"`
	// WorkerID 雪花 ID 的节点号，多实例部署时各不相同，取值 0-63
	WorkerID     uint16        `mapstructure:"worker_id"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	IdleInterval time.Duration `mapstructure:"idle_interval"`
	HorizonDays  int           `mapstructure:"horizon_days"`
	Jitter       time.Duration `mapstructure:"jitter"`
	Timezone     string        `mapstructure:"timezone"`
	// BuildSchedule 标准 cron 表达式，决定每日生成任务的基准时刻
	BuildSchedule string        `mapstructure:"build_schedule"`
	BuildWindow   time.Duration `mapstructure:"build_window"`
	BuildOnStart  bool          `mapstructure:"build_on_start"`
	// DefaultSubmitTime 排班类型未配置上班时间时使用的提交时刻
	DefaultSubmitTime string `mapstructure:"default_submit_time"`
}

// Location 返回调度使用的时区
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type LeaseConfig struct {
	Backend           string        `mapstructure:"backend"`
	TTL               time.Duration `mapstructure:"ttl"`
	RunnerName        string        `mapstructure:"runner_name"`
	BuilderName       string        `mapstructure:"builder_name"`
	ReleaseOnShutdown bool          `mapstructure:"release_on_shutdown"`
}

type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"`
	Host                  string        `mapstructure:"host"`
	Port                  int           `mapstructure:"port"`
	Database              string        `mapstructure:"database"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	SSLMode               string        `mapstructure:"sslmode"`
	Timezone              string        `mapstructure:"timezone"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	Migrate               bool          `mapstructure:"migrate"`
}

// DSN 根据驱动生成连接字符串
func (c DatabaseConfig) DSN() string {
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
			c.User, c.Password, c.Host, c.Port, c.Database)
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, c.Timezone)
	}
}

type HolidayConfig struct {
	URL     string        `mapstructure:"url"`
	Column  string        `mapstructure:"column"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PortalConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RemoteURL      string        `mapstructure:"remote_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	ActionTimeout  time.Duration `mapstructure:"action_timeout"`
	RevealTimeout  time.Duration `mapstructure:"reveal_timeout"`
	ElementTimeout time.Duration `mapstructure:"element_timeout"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
}

type ServerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

const defaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 13_3_1 like Mac OS X) AppleWebKit/605.1.15 " +
	"(KHTML, like Gecko) Mobile/15E148 [FBAN/FBIOS;FBDV/iPhone9,1;FBMD/iPhone;FBSN/iOS;FBSV/13.3.1;" +
	"FBSS/2;FBID/phone;FBLC/en_US;FBOP/5;FBCR/]"

func setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.instance_id", "autoclock-001")
	v.SetDefault("scheduler.worker_id", 1)
	v.SetDefault("scheduler.poll_interval", "5s")
	v.SetDefault("scheduler.idle_interval", "30s")
	v.SetDefault("scheduler.horizon_days", 14)
	v.SetDefault("scheduler.jitter", "5m")
	v.SetDefault("scheduler.timezone", "Asia/Tokyo")
	v.SetDefault("scheduler.build_schedule", "0 0 * * *")
	v.SetDefault("scheduler.build_window", "10m")
	v.SetDefault("scheduler.build_on_start", true)
	v.SetDefault("scheduler.default_submit_time", "09:00:00")

	v.SetDefault("lease.backend", "db")
	v.SetDefault("lease.ttl", "90s")
	v.SetDefault("lease.runner_name", "runner")
	v.SetDefault("lease.builder_name", "builder")
	v.SetDefault("lease.release_on_shutdown", true)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "autoclock")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "Asia/Tokyo")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)
	v.SetDefault("database.connection_max_lifetime", "1h")
	v.SetDefault("database.migrate", true)

	v.SetDefault("holiday.url", "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv")
	v.SetDefault("holiday.column", "国民の祝日・休日月日")
	v.SetDefault("holiday.timeout", "30s")

	v.SetDefault("portal.base_url", "https://attendance.moneyforward.com")
	v.SetDefault("portal.remote_url", "")
	v.SetDefault("portal.user_agent", defaultUserAgent)
	v.SetDefault("portal.settle_delay", "3s")
	v.SetDefault("portal.action_timeout", "10s")
	v.SetDefault("portal.reveal_timeout", "5s")
	v.SetDefault("portal.element_timeout", "10s")
	v.SetDefault("portal.session_timeout", "60s")

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.max_header_bytes", 1048576)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AUTOCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("invalid config: database.driver %q (want postgres or mysql)", c.Database.Driver)
	}
	switch c.Lease.Backend {
	case "db", "redis":
	default:
		return fmt.Errorf("invalid config: lease.backend %q (want db or redis)", c.Lease.Backend)
	}
	if c.Scheduler.WorkerID > 63 {
		return fmt.Errorf("invalid config: scheduler.worker_id must be within 0-63")
	}
	if c.Scheduler.HorizonDays < 1 {
		return fmt.Errorf("invalid config: scheduler.horizon_days must be >= 1")
	}
	if c.Scheduler.PollInterval <= 0 || c.Scheduler.IdleInterval <= 0 {
		return fmt.Errorf("invalid config: scheduler poll/idle intervals must be positive")
	}
	if c.Scheduler.Jitter < 0 || c.Scheduler.BuildWindow < 0 {
		return fmt.Errorf("invalid config: scheduler jitter/build_window must not be negative")
	}
	if c.Lease.TTL <= c.Scheduler.PollInterval {
		return fmt.Errorf("invalid config: lease.ttl (%s) must exceed scheduler.poll_interval (%s)",
			c.Lease.TTL, c.Scheduler.PollInterval)
	}
	// runner 在会话前后续约，租约至少要撑过一次完整会话
	if c.Portal.SessionTimeout <= 0 || c.Lease.TTL <= c.Portal.SessionTimeout {
		return fmt.Errorf("invalid config: lease.ttl (%s) must exceed portal.session_timeout (%s)",
			c.Lease.TTL, c.Portal.SessionTimeout)
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("invalid config: scheduler.timezone: %w", err)
	}
	return nil
}
