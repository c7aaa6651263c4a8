package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName = "ghpick"

	defaultIssueOrderField = "CREATED_AT"
	defaultPROrderField    = "CREATED_AT"
	defaultOrderDirection  = "DESC"
	defaultNotificationLhs = "ctrl+x"

	// ReadAction is the notification action remapped by mappings.notification.read.
	ReadAction = "mark_notification_read"
)

// Lists that accept custom actions under picker.custom_actions.
const (
	ListIssues        = "issues"
	ListPullRequests  = "pull_requests"
	ListNotifications = "notifications"
	ListSearch        = "search"
	ListTemplates     = "templates"
)

type OrderBy struct {
	Field     string `mapstructure:"field"`
	Direction string `mapstructure:"direction"`
}

type ListConfig struct {
	OrderBy OrderBy `mapstructure:"order_by"`
}

type Mapping struct {
	Lhs  string `mapstructure:"lhs"`
	Desc string `mapstructure:"desc"`
}

// CustomAction runs Command when Lhs is pressed on a list entry.
type CustomAction struct {
	Name    string `mapstructure:"name"`
	Lhs     string `mapstructure:"lhs"`
	Command string `mapstructure:"command"`
	Desc    string `mapstructure:"desc"`
}

type PickerConfig struct {
	Mappings      map[string]Mapping        `mapstructure:"mappings"`
	CustomActions map[string][]CustomAction `mapstructure:"custom_actions"`
}

type NotificationMappings struct {
	Read Mapping `mapstructure:"read"`
}

type MappingsConfig struct {
	Notification NotificationMappings `mapstructure:"notification"`
}

// Config is loaded once per process and passed by value.
type Config struct {
	Issues       ListConfig     `mapstructure:"issues"`
	PullRequests ListConfig     `mapstructure:"pull_requests"`
	Picker       PickerConfig   `mapstructure:"picker"`
	Mappings     MappingsConfig `mapstructure:"mappings"`
	Debug        bool           `mapstructure:"debug"`
	StateDir     string         `mapstructure:"state_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Issues:       ListConfig{OrderBy: OrderBy{Field: defaultIssueOrderField, Direction: defaultOrderDirection}},
		PullRequests: ListConfig{OrderBy: OrderBy{Field: defaultPROrderField, Direction: defaultOrderDirection}},
		Mappings:     MappingsConfig{Notification: NotificationMappings{Read: Mapping{Lhs: defaultNotificationLhs}}},
		StateDir:     defaultStateDir(),
	}
}

// Load reads config.yaml (or config.toml) from $XDG_CONFIG_HOME/ghpick or
// ~/.config/ghpick. An explicit path must exist. GHPICK_* variables
// override file values.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("issues.order_by.field", defaultIssueOrderField)
	v.SetDefault("issues.order_by.direction", defaultOrderDirection)
	v.SetDefault("pull_requests.order_by.field", defaultPROrderField)
	v.SetDefault("pull_requests.order_by.direction", defaultOrderDirection)
	v.SetDefault("mappings.notification.read.lhs", defaultNotificationLhs)
	v.SetDefault("debug", false)
	v.SetDefault("state_dir", defaultStateDir())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	v.SetEnvPrefix("GHPICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// CustomActions returns the custom actions configured for list.
func (c Config) CustomActions(list string) []CustomAction {
	return c.Picker.CustomActions[list]
}

// Remaps maps action names to the chord that should trigger them. The
// notification read mapping is folded in under ReadAction.
func (c Config) Remaps() map[string]string {
	out := make(map[string]string, len(c.Picker.Mappings)+1)
	for name, m := range c.Picker.Mappings {
		if strings.TrimSpace(m.Lhs) == "" {
			continue
		}
		out[name] = m.Lhs
	}
	if lhs := strings.TrimSpace(c.Mappings.Notification.Read.Lhs); lhs != "" {
		out[ReadAction] = lhs
	}
	return out
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".local", "state", appName)
}
