package db

import (
	"fmt"
	"log"
	"strings"

	"devconnector/confs"
	"devconnector/entities"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the API owns, in migration order.
var Models = []any{
	&entities.User{},
	&entities.Profile{},
	&entities.Experience{},
	&entities.Education{},
	&entities.Post{},
	&entities.Like{},
	&entities.Comment{},
}

// Connect opens the configured store, sizes the pool and runs migrations.
func Connect(cfg confs.Config) (Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Info
	if cfg.IsProduction() {
		level = logger.Warn
	}

	database, err := Open(dialector, level)
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver != "sqlite" {
		sqlDB, err := database.GetDB().DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(0)
	}

	log.Println("Database connection established successfully!")
	return database, nil
}

// Open connects through the given dialector and migrates the schema.
func Open(dialector gorm.Dialector, level logger.LogLevel) (Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormDatabase{DB: db}, nil
}

func dialectorFor(cfg confs.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == MemoryPath {
			log.Println("Connecting to in-memory sqlite database...")
			return memoryDialector(), nil
		}
		log.Printf("Connecting to sqlite database at %s...", cfg.SQLitePath)
		return sqlite.Open(cfg.SQLitePath), nil
	case "postgres", "":
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func postgresDSN(cfg confs.Config) (string, error) {
	if cfg.DBURL != "" {
		dsn := cfg.DBURL
		// hosted databases expect TLS unless told otherwise
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		log.Println("Connecting to database using DB_URL...")
		return dsn, nil
	}

	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}

	log.Printf("Connecting to database using individual parameters (sslmode=%s)...", sslMode)
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslMode), nil
}
