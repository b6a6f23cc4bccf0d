package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Feeds     FeedsConfig     `mapstructure:"feeds"`
	Output    OutputConfig    `mapstructure:"output"`
	GUI       GUIConfig       `mapstructure:"gui"`
	Streaming StreamingConfig `mapstructure:"streaming"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Inquiry   InquiryConfig   `mapstructure:"inquiry"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// FeedsConfig 指定四个行情源文件。
type FeedsConfig struct {
	Prices      string `mapstructure:"prices"`
	Trades      string `mapstructure:"trades"`
	Market      string `mapstructure:"market"`
	Inquiries   string `mapstructure:"inquiries"`
	MarketDepth int    `mapstructure:"market_depth"`
}

// OutputConfig 控制历史输出文件。
type OutputConfig struct {
	Dir             string `mapstructure:"dir"`
	TimestampLayout string `mapstructure:"timestamp_layout"`
}

// GUIConfig 控制界面输出节奏。
type GUIConfig struct {
	Throttle   time.Duration `mapstructure:"throttle"`
	MaxUpdates int           `mapstructure:"max_updates"`
}

// StreamingConfig 控制报价流数量。
type StreamingConfig struct {
	VisibleQuantity int64 `mapstructure:"visible_quantity"`
	HiddenQuantity  int64 `mapstructure:"hidden_quantity"`
}

// ExecutionConfig 控制价差触发算法与执行场所。
type ExecutionConfig struct {
	SpreadThreshold float64 `mapstructure:"spread_threshold"`
	VisibleDivisor  int64   `mapstructure:"visible_divisor"`
	Venue           string  `mapstructure:"venue"`
}

// InquiryConfig 控制询价响应。
type InquiryConfig struct {
	QuotePrice   float64 `mapstructure:"quote_price"`
	ReentryLimit int     `mapstructure:"reentry_limit"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ServerConfig 控制历史事件查询接口。
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

var venues = []string{"BROKERTEC", "ESPEED", "CME"}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Feeds.MarketDepth <= 0 {
		err = multierr.Append(err, errors.New("feeds.market_depth 必须大于 0"))
	}
	if c.Output.Dir == "" {
		err = multierr.Append(err, errors.New("output.dir 不能为空"))
	}
	if c.Output.TimestampLayout == "" {
		err = multierr.Append(err, errors.New("output.timestamp_layout 不能为空"))
	}
	if c.GUI.Throttle < 0 {
		err = multierr.Append(err, errors.New("gui.throttle 不能为负"))
	}
	if c.GUI.MaxUpdates < 0 {
		err = multierr.Append(err, errors.New("gui.max_updates 不能为负"))
	}
	if c.Streaming.VisibleQuantity < 0 || c.Streaming.HiddenQuantity < 0 {
		err = multierr.Append(err, errors.New("streaming 数量不能为负"))
	}
	if c.Execution.SpreadThreshold <= 0 {
		err = multierr.Append(err, errors.New("execution.spread_threshold 必须大于 0"))
	}
	if c.Execution.VisibleDivisor <= 0 {
		err = multierr.Append(err, errors.New("execution.visible_divisor 必须大于 0"))
	}
	if !containsFold(venues, c.Execution.Venue) {
		err = multierr.Append(err, fmt.Errorf("execution.venue 必须为 %s 之一", strings.Join(venues, "/")))
	}
	if c.Inquiry.QuotePrice <= 0 {
		err = multierr.Append(err, errors.New("inquiry.quote_price 必须大于 0"))
	}
	if c.Inquiry.ReentryLimit < 2 {
		err = multierr.Append(err, errors.New("inquiry.reentry_limit 至少为 2"))
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于 0"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("server.port %d 非法", c.Server.Port))
	}

	return err
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
