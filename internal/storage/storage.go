package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	sqliteBusyTimeoutMs = 5000
)

//go:embed migrations
var migrationFiles embed.FS

var ErrUnknownDriver = errors.New("unknown storage driver")

// Options - параметры подключения к хранилищу
type Options struct {
	Driver       string
	Path         string // файл базы для sqlite
	DSN          string // строка подключения для postgres
	MaxOpenConns int
}

// Storage владеет единственным хендлом базы. Создается при старте,
// передается в репозитории и закрывается при остановке процесса.
type Storage struct {
	DB     *sqlx.DB
	Logger *zap.SugaredLogger
	opts   Options
}

// Open - открывает хендл и проверяет соединение.
// Для sqlite предварительно создает каталог под файл базы.
func Open(ctx context.Context, opts Options, logger *zap.SugaredLogger) (*Storage, error) {
	dsn, err := dataSource(opts)
	if err != nil {
		return nil, err
	}

	if opts.Driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", opts.Driver, err)
	}

	logger.Infow("Connected to database",
		"driver", opts.Driver,
		"max_open_conns", opts.MaxOpenConns,
	)

	return &Storage{
		DB:     db,
		Logger: logger,
		opts:   opts,
	}, nil
}

// Init - применяет встроенные миграции. Повторный вызов ничего не меняет.
func (s *Storage) Init(ctx context.Context) error {
	source, err := iofs.New(migrationFiles, "migrations/"+s.opts.Driver)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.opts))
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			s.Logger.Warnw("Failed to close migrate instance", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	// таблица должна читаться через основной хендл до первого запроса
	if _, err := s.DB.ExecContext(ctx, "SELECT 1 FROM feedback LIMIT 1"); err != nil {
		return fmt.Errorf("verify feedback table: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		s.Logger.Warnw("Failed to read migration version", zap.Error(err))
	}
	s.Logger.Infow("Feedback table created or already exists", "schema_version", version)

	return nil
}

// Close - освобождает хендл базы
func (s *Storage) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	s.Logger.Info("Database connection closed")

	return nil
}

func dataSource(opts Options) (string, error) {
	switch opts.Driver {
	case DriverSQLite:
		if opts.Path == "" {
			return "", errors.New("sqlite storage path is empty")
		}
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", opts.Path, sqliteBusyTimeoutMs), nil
	case DriverPostgres:
		if opts.DSN == "" {
			return "", errors.New("postgres dsn is empty")
		}
		return opts.DSN, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

func migrateURL(opts Options) string {
	if opts.Driver == DriverSQLite {
		return "sqlite://" + opts.Path
	}

	return opts.DSN
}
