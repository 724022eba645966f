package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consignly/backend/internal/infrastructure/config"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the postgres pool behind every consignment repository
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens and pings the postgres pool. Statements are logged
// through zap at the gorm level derived from logLevel.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger, logLevel string, opts ...logger.GormLoggerOption) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	gl := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), opts...)
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(gl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	d := &Database{DB: db}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	log.Info("Database pool ready",
		zap.String("host", cfg.Host),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return d, nil
}

// gormConfig is shared by the postgres pool and test databases. TranslateError
// turns driver unique violations into gorm.ErrDuplicatedKey.
func gormConfig(l gormlogger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:                 l,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func (d *Database) Close() error {
	pool, err := d.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping backs the database health check
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.DB.DB()
	if err != nil {
		return err
	}
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// isDuplicateKey reports a unique violation; the ledger relies on it to turn
// a concurrent double record into ALREADY_RECORDED.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
