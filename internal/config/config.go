package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName 默认配置文件名（位于可执行文件同目录）
const FileName = "config.toml"

// 支持的日志级别
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// 支持的日志格式
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Upload UploadConfig `toml:"upload"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int  `toml:"port"`
	DevMode        bool `toml:"dev_mode"`
	OpenBrowser    bool `toml:"open_browser"`
	RequestTimeout int  `toml:"request_timeout_seconds"`
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxBytes        int64 `toml:"max_bytes"`
	DocumentTTLMins int   `toml:"document_ttl_minutes"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	DownloadTTLMins int `toml:"download_ttl_minutes"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           20262,
			DevMode:        false,
			OpenBrowser:    true,
			RequestTimeout: 30,
		},
		Upload: UploadConfig{
			MaxBytes:        32 << 20,
			DocumentTTLMins: 30,
		},
		Export: ExportConfig{
			DownloadTTLMins: 10,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes must be positive"))
	}
	switch c.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	return errors.Join(errs...)
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置并返回元信息
// path 为空时读取默认位置；文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	info := LoadConfigInfo{}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Path = path
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, info, fmt.Errorf("read %s: %w", path, err)
	}

	// 环境变量覆盖
	if v := os.Getenv("XMLSEARCH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
			info.PortSpecified = true
		}
	}
	if v := os.Getenv("XMLSEARCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("XMLSEARCH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// SaveConfig 保存配置
func SaveConfig(cfg *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
