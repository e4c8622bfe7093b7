package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"loyalty_rewards/internal/pkg/config"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	dir := flag.String("path", "migrations", "迁移文件目录")
	down := flag.Bool("down", false, "回滚一个版本")
	force := flag.Int("force", -1, "强制设置版本号（修复 dirty 状态）")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig.Database

	m, err := migrate.New("file://"+*dir, postgresURL(cfg))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch {
	case *force >= 0:
		if err := m.Force(*force); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		log.Printf("Forced version %d", *force)
		return
	case *down:
		err = m.Steps(-1)
	default:
		err = m.Up()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			log.Fatalf("Database is dirty at version %d, fix it and rerun with -force %d", dirty.Version, dirty.Version-1)
		}
		log.Fatal(err)
	}

	version, isDirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal(err)
	}
	log.Printf("Migration successful, version %d (dirty=%v)", version, isDirty)
}

func postgresURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}
