// Package sqlstore implementa los repositorios de dominio sobre gorm
// (SQLite por defecto, Postgres vía pgx en producción).
package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"peluqueria-canina/internal/adapters/storage/postgres"
	"peluqueria-canina/internal/platform/apperr"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string
	DSN    string
	// Debug loguea cada query (gorm logger en modo Info).
	Debug bool
}

// Open abre la base, aplica AutoMigrate y devuelve el handle gorm.
func Open(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if cfg.Debug {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		sqlDB, perr := postgres.Open(cfg.DSN, postgres.DefaultPool)
		if perr != nil {
			return nil, perr
		}
		db, err = gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB}), gcfg)
	case DriverSQLite, "":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gcfg)
		if err == nil {
			// Una sola conexión: SQLite serializa escrituras y así
			// evitamos SQLITE_BUSY entre transacciones.
			sqlDB, derr := db.DB()
			if derr != nil {
				return nil, errors.Wrap(derr, "sqlite handle")
			}
			sqlDB.SetMaxOpenConns(1)
		}
	default:
		return nil, errors.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Driver)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenMemory abre una SQLite en memoria con nombre propio (para tests y modo demo).
func OpenMemory(name string) (*gorm.DB, error) {
	return Open(Config{
		Driver: DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables...); err != nil {
		return errors.Wrap(err, "automigrate")
	}
	return nil
}

// sqliteDSN agrega foreign keys, busy timeout y formato de tiempo comparable
// como texto si el DSN no los trae.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file:peluqueria.db"
	}
	params := []string{}
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, op)
}

// Ping verifica que la base responda (lo usa /health).
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "sql handle")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping")
}

// notFound traduce gorm.ErrRecordNotFound al sentinel de dominio.
func notFound(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return errors.Wrapf(err, "get %s", resource)
}

// mustAffect devuelve NotFound si el update/delete no tocó ninguna fila.
func mustAffect(res *gorm.DB, resource string) error {
	if res.Error != nil {
		return errors.Wrapf(res.Error, "write %s", resource)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

// likePattern arma un patrón LIKE case-insensitive escapando comodines.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
