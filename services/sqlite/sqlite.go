package sqlite

import (
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	_ "modernc.org/sqlite"
)

const (
	dbDirFlag  = "db-dir"
	dbFileName = "data.db"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   dbDirFlag,
			Usage:  "directory holding the sqlite database",
			Value:  "/app/data",
			EnvVar: "DB_DIR",
		},
	)
}

// pragmas are applied to every pooled connection through the dsn.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// DB lazily opens the sqlite database on first use.
type DB struct {
	path string
	db   *sql.DB
	err  error
	once sync.Once
}

func New(c *cli.Context) *DB {
	return NewWithPath(filepath.Join(c.String(dbDirFlag), dbFileName))
}

func NewWithPath(path string) *DB {
	return &DB{path: path}
}

func (s *DB) Path() string {
	return s.path
}

func (s *DB) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create db directory")
	}
	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite db")
	}
	log.Infof("sqlite db opened at %v", s.path)
	return db, nil
}

// Get returns the database handle or nil if it could not be opened.
func (s *DB) Get() *sql.DB {
	s.once.Do(func() {
		s.db, s.err = s.open()
		if s.err != nil {
			log.WithError(s.err).WithField("path", s.path).Error("failed to init sqlite db")
		}
	})
	return s.db
}

func (s *DB) Err() error {
	return s.err
}

func (s *DB) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
