package configs

import "github.com/spf13/viper"

// EventsConfig 文档生命周期事件开关.
type EventsConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Document DocumentEventsConfig `mapstructure:"document"`
}

// DocumentEventsConfig 按事件类型开关.
type DocumentEventsConfig struct {
	Stored   bool `mapstructure:"stored"`
	Deleted  bool `mapstructure:"deleted"`
	Orphaned bool `mapstructure:"orphaned"` // 对象存储中出现无人引用的 blob
	Dangling bool `mapstructure:"dangling"` // 元数据指向已删除的 blob
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)
	v.SetDefault("events.document.stored", true)
	v.SetDefault("events.document.deleted", true)
	v.SetDefault("events.document.orphaned", true)
	v.SetDefault("events.document.dangling", true)
}
