package db

import (
	"server/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	var (
		db  *gorm.DB
		err error
	)
	if config.MYSQL_DSN != "" {
		db, err = gorm.Open(mysql.Open(config.MYSQL_DSN), gormConfig)
	} else {
		// SQLite leaves foreign keys off by default; the cascade constraints
		// on the models depend on them
		db, err = gorm.Open(sqlite.Open(config.SQLITE_FILE+"?_foreign_keys=on"), gormConfig)
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
