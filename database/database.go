package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spacedock-search/config"
	"spacedock-search/logger"
	"spacedock-search/models"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// DriverName is mattn's SQLite driver with casefold(text) registered on
// every connection. SQLite's LOWER only folds ASCII; casefold uses the same
// strings.ToLower as in-memory matching.
const DriverName = "sqlite3_casefold"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// AllModels lists every table the engine owns, in migration order.
var AllModels = []interface{}{
	&models.Game{},
	&models.GameVersion{},
	&models.User{},
	&models.Mod{},
	&models.ModVersion{},
	&models.Media{},
	&models.SharedAuthor{},
	&models.ModList{},
	&models.ModListItem{},
	&models.Featured{},
	&models.DownloadEvent{},
	&models.FollowEvent{},
	&models.ReferralEvent{},
	&models.ModSimilarity{},
}

// InitDB initializes the database connection
func InitDB(cfg *config.Config) error {
	var err error
	DB, err = Open(cfg.DatabasePath, gormlogger.Warn)
	if err != nil {
		return err
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))
	return nil
}

// Open connects to a SQLite database and migrates the schema.
// The pool is pinned to one connection: SQLite has a single writer anyway, and
// it keeps read-then-write bucket updates from interleaving.
func Open(path string, level gormlogger.LogLevel) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		zap.NewStdLog(logger.ZapLogger),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dsn(path)}), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(AllModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
