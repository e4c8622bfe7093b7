package database

import (
	"database/sql"
	"fmt"
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/pkg/logger"
	"net"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDatabase 初始化数据库连接，driver 为 postgres 或 sqlite
func InitDatabase(driver string, cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	// 配置 GORM
	gormConfig := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true, // 账本写入均为单条语句
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(PostgresDSN(cfg))
		gormConfig.PrepareStmt = true // 预编译 SQL 缓存
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 获取底层 SQL DB 对象以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if driver == "sqlite" {
		// SQLite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		configureConnectionPool(sqlDB)
	}

	return db, nil
}

// PostgresDSN 生成 URL 形式的连接串，用户名和密码经过转义
func PostgresDSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.TimeZone != "" {
		q.Set("TimeZone", cfg.TimeZone)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// configureConnectionPool 配置数据库连接池
func configureConnectionPool(sqlDB *sql.DB) {
	// 设置连接池中的最大连接数
	sqlDB.SetMaxOpenConns(100)

	// 设置连接池中的最大空闲连接数
	sqlDB.SetMaxIdleConns(10) // 推荐 SetMaxOpenConns 的 10%

	// 设置连接的最大生命周期
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 设置连接的最大空闲时间
	sqlDB.SetConnMaxIdleTime(time.Minute * 30)

	logger.L().Info("database pool configured", zap.Int("max_open", 100), zap.Int("max_idle", 10))
}
