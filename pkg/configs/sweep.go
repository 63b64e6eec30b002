package configs

import "github.com/spf13/viper"

// SweepConfig 孤儿 blob 巡检任务，只生成报告，不删除任何对象.
type SweepConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"    rule:"required_if=Enabled true"`
	Prefix  string `mapstructure:"prefix"`
}

func (c *SweepConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("sweep.enabled", false)
	v.SetDefault("sweep.cron", "0 3 * * *")
	v.SetDefault("sweep.prefix", "jobs/")
}
