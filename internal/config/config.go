package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

type StorageConfig struct {
	// Backend 取值 sqlite / file / redis
	// Backend is one of sqlite, file or redis.
	Backend string      `json:"backend" yaml:"backend"`
	BaseDir string      `json:"base_dir" yaml:"base_dir"`
	Key     string      `json:"key" yaml:"key"`
	Redis   RedisConfig `json:"redis" yaml:"redis"`
}

type UIConfig struct {
	// Locale 为空时按环境变量自动检测 / Empty means detect from the environment
	Locale    string `json:"locale" yaml:"locale"`
	AltScreen bool   `json:"alt_screen" yaml:"alt_screen"`
}

type LogConfig struct {
	// Level 取值 debug / info / warn / error / off
	Level string `json:"level" yaml:"level"`
	// File 为空时写入 <base_dir>/logs/habits.log
	File string `json:"file" yaml:"file"`
}

type Config struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	UI      UIConfig      `json:"ui" yaml:"ui"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

type fileUIConfig struct {
	Locale    *string `json:"locale" yaml:"locale"`
	AltScreen *bool   `json:"alt_screen" yaml:"alt_screen"`
}

type fileRedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       *int   `json:"db" yaml:"db"`
}

// fileStorageConfig 区分“未设置”与零值 / Tells unset apart from zero values
type fileStorageConfig struct {
	Backend string           `json:"backend" yaml:"backend"`
	BaseDir string           `json:"base_dir" yaml:"base_dir"`
	Key     string           `json:"key" yaml:"key"`
	Redis   *fileRedisConfig `json:"redis" yaml:"redis"`
}

type fileConfig struct {
	Storage *fileStorageConfig `json:"storage" yaml:"storage"`
	UI      *fileUIConfig      `json:"ui" yaml:"ui"`
	Log     *LogConfig         `json:"log" yaml:"log"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: DefaultBackend,
			BaseDir: DefaultBaseDir,
			Key:     DefaultKey,
			Redis:   RedisConfig{Addr: DefaultRedisAddr},
		},
		UI: UIConfig{
			AltScreen: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DBPath SQLite 数据库路径 / Path of the SQLite database
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.BaseDir, "habits.db")
}

// JSONPath JSON 文件槽路径，也是旧版迁移来源
// JSONPath is the file slot path, also the legacy migration source.
func (c Config) JSONPath() string {
	return filepath.Join(c.Storage.BaseDir, "habits.json")
}

// HistoryPath is where the line shell keeps its readline history.
func (c Config) HistoryPath() string {
	return filepath.Join(c.Storage.BaseDir, "repl.history")
}

// LogFile returns the configured log file, defaulting under the base dir.
func (c Config) LogFile() string {
	if strings.TrimSpace(c.Log.File) != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.BaseDir, "logs", "habits.log")
}

func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("HABITS_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := Normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".habits")
	return []string{
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.yaml"),
	}
}

func findProjectConfigPath() string {
	candidates := []string{
		"habits.config.json",
		".habits/config.json",
		"habits.yaml",
		".habits/config.yaml",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	var fileCfg fileConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return fmt.Errorf("parse config %q: %w", resolved, err)
		}
	default:
		if err := json.Unmarshal(stripJSONComments(data), &fileCfg); err != nil {
			return fmt.Errorf("parse config %q: %w", resolved, err)
		}
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
	if fc.UI != nil {
		if fc.UI.Locale != nil {
			cfg.UI.Locale = strings.TrimSpace(*fc.UI.Locale)
		}
		if fc.UI.AltScreen != nil {
			cfg.UI.AltScreen = *fc.UI.AltScreen
		}
	}
	if fc.Log != nil {
		if strings.TrimSpace(fc.Log.Level) != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if strings.TrimSpace(fc.Log.File) != "" {
			cfg.Log.File = fc.Log.File
		}
	}
}

func mergeStorage(base StorageConfig, override fileStorageConfig) StorageConfig {
	if strings.TrimSpace(override.Backend) != "" {
		base.Backend = override.Backend
	}
	if strings.TrimSpace(override.BaseDir) != "" {
		base.BaseDir = override.BaseDir
	}
	if strings.TrimSpace(override.Key) != "" {
		base.Key = override.Key
	}
	if r := override.Redis; r != nil {
		if strings.TrimSpace(r.Addr) != "" {
			base.Redis.Addr = r.Addr
		}
		if r.Password != "" {
			base.Redis.Password = r.Password
		}
		if r.DB != nil {
			base.Redis.DB = *r.DB
		}
	}
	return base
}

// Normalize 补全默认值并校验
// Normalize fills defaults, expands paths and validates the config. Callers
// that change fields after Load (command-line flags) run it again.
func Normalize(cfg *Config) error {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	switch cfg.Storage.Backend {
	case BackendSQLite, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = DefaultBaseDir
	}
	baseDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("expand storage.base_dir: %w", err)
	}
	cfg.Storage.BaseDir = baseDir

	cfg.Storage.Key = strings.TrimSpace(cfg.Storage.Key)
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultKey
	}
	if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		cfg.Storage.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Storage.Redis.DB < 0 {
		return fmt.Errorf("invalid storage.redis.db: %d", cfg.Storage.Redis.DB)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}
	if strings.TrimSpace(cfg.Log.File) != "" {
		file, err := expandPath(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("expand log.file: %w", err)
		}
		cfg.Log.File = file
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("HABITS_STORAGE_BACKEND")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITS_BASE_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITS_STORAGE_KEY")); v != "" {
		cfg.Storage.Key = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITS_REDIS_ADDR")); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := os.Getenv("HABITS_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITS_REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid HABITS_REDIS_DB: %q", v)
		}
		cfg.Storage.Redis.DB = n
	}
	if v := strings.TrimSpace(os.Getenv("HABITS_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}

	return cfg, Normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

// stripJSONComments 去掉 // 与 /* */ 注释，保留字符串内容
// stripJSONComments removes // and /* */ comments outside of string literals.
func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
