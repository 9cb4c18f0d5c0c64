// Package config 提供 chat-completion 客户端的配置加载：
// YAML 文件 + 环境变量，支持默认值、校验与热加载回调。
//
// 热加载只影响之后构造的客户端；已构造的客户端配置在构造时冻结。
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Aquamariss/case-check-city-snap/llm/openai"
)

// Config 是客户端的外部配置
type Config struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout 返回请求超时时间
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate 校验配置
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("config: api_key must not be empty")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// ClientOptions 将配置转换为客户端构造选项
func (c Config) ClientOptions() []openai.Option {
	var opts []openai.Option
	if strings.TrimSpace(c.BaseURL) != "" {
		opts = append(opts, openai.WithBaseURL(c.BaseURL))
	}
	if strings.TrimSpace(c.Model) != "" {
		opts = append(opts, openai.WithModel(c.Model))
	}
	if c.TimeoutSeconds > 0 {
		opts = append(opts, openai.WithTimeout(c.Timeout()))
	}
	return opts
}

// Loader 配置管理器
type Loader struct {
	v        *viper.Viper
	mu       sync.RWMutex
	value    Config
	watchers []func(old, new Config)
}

// Option 配置选项
type Option func(*Loader)

// WithEnv 绑定环境变量，如 prefix 为 CITYSNAP 时 api_key 对应 CITYSNAP_API_KEY
func WithEnv(prefix string) Option {
	return func(l *Loader) {
		l.v.SetEnvPrefix(prefix)
		l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		l.v.AutomaticEnv()
	}
}

// WithDefaults 覆盖内置默认值
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		for k, v := range defaults {
			l.v.SetDefault(k, v)
		}
	}
}

// Load 加载配置文件并自动监控变更
func Load(path string, opts ...Option) (*Loader, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("base_url", openai.DefaultBaseURL)
	v.SetDefault("model", openai.DefaultModel)
	v.SetDefault("timeout_seconds", int(openai.DefaultTimeout/time.Second))

	l := &Loader{v: v}
	for _, opt := range opts {
		opt(l)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	l.value = cfg

	l.watch()
	return l, nil
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Get 获取当前配置（并发安全）
func (l *Loader) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// OnChange 注册配置变更回调
func (l *Loader) OnChange(callback func(old, new Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchers = append(l.watchers, callback)
}

func (l *Loader) watch() {
	var (
		debounceTimer *time.Timer
		debounceMu    sync.Mutex
	)

	l.v.OnConfigChange(func(_ fsnotify.Event) {
		debounceMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(100*time.Millisecond, l.handleChange)
		debounceMu.Unlock()
	})

	l.v.WatchConfig()
}

func (l *Loader) handleChange() {
	// 新配置无法读取或校验失败时保留旧值
	if err := l.v.ReadInConfig(); err != nil {
		return
	}
	cfg, err := unmarshal(l.v)
	if err != nil {
		return
	}

	l.mu.Lock()
	old := l.value
	if cfg == old {
		l.mu.Unlock()
		return
	}
	l.value = cfg
	watchers := append(([]func(old, new Config))(nil), l.watchers...)
	l.mu.Unlock()

	for _, w := range watchers {
		w(old, cfg)
	}
}
