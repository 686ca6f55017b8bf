package db

import (
	"fmt"

	"github.com/Nam088/drinking-game-v2/config"
	dbmysql "github.com/Nam088/drinking-game-v2/db/mysql"
	dbsqlite "github.com/Nam088/drinking-game-v2/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
