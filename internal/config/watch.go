package config

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewViper),
	fx.Provide(Load),
)

// WatchLogLevel calls apply with the new log_level whenever the config file changes.
// It is a no-op when no config file was found.
func WatchLogLevel(v *viper.Viper, apply func(level string) error) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := strings.ToLower(strings.TrimSpace(v.GetString("log_level")))
		if level == "" {
			return
		}
		if err := apply(level); err != nil {
			log.Printf("[config] invalid log_level %q ignored: %v", level, err)
			return
		}
		log.Printf("[config] log_level set to %s from %s", level, e.Name)
	})
	v.WatchConfig()
}
