//go:build !no_sqlite && cgo

package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/configs"
)

// mattnParams 把 modernc 风格的 _pragma 参数改写为 mattn/go-sqlite3 的写法，_txlock 两边一致.
var mattnParams = strings.NewReplacer(
	"_pragma=foreign_keys(1)", "_foreign_keys=1",
	"_pragma=busy_timeout(5000)", "_busy_timeout=5000",
)

// sqliteDialector CGo 版本.
func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(mattnParams.Replace(dsn))
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
