//go:build !no_sqlite && !cgo

package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/configs"
)

// sqliteDialector 纯 Go 驱动，DSN 中的 _pragma 与 _txlock 参数原样生效.
func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
