//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/configs"
)

// mysqlDialector 未显式声明长度的字符串列按 255 建表，避免 utf8mb4 下唯一索引超长.
func mysqlDialector(dsn string) gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:                       dsn,
		DefaultStringSize:         255,
		SkipInitializeWithVersion: false,
	})
}

func init() {
	RegisterDialectorFactory(configs.MySQL, mysqlDialector)
	RegisterDialectorFactory(configs.MariaDB, mysqlDialector)
}
