package migration

import (
	"io/fs"

	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

type Migration struct {
	db   *sqlite.DB
	fsys fs.FS
}

func New(db *sqlite.DB, fsys fs.FS) *Migration {
	return &Migration{
		db:   db,
		fsys: fsys,
	}
}

// Run applies the given goose action ("up" when empty).
func (s *Migration) Run(a ...string) error {
	db := s.db.Get()
	if db == nil {
		return errors.Wrap(s.db.Err(), "db not initialized")
	}
	goose.SetBaseFS(s.fsys)
	goose.SetLogger(log.StandardLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}
	oldVersion, err := goose.GetDBVersion(db)
	if err != nil {
		return errors.Wrap(err, "failed to get db version")
	}
	action := "up"
	if len(a) > 0 {
		action = a[0]
	}
	switch action {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	case "version":
		log.Infof("DB migration version is %d", oldVersion)
		return nil
	default:
		return errors.Errorf("unknown migration action %q", action)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to perform migration %v from version %v", action, oldVersion)
	}
	newVersion, err := goose.GetDBVersion(db)
	if err != nil {
		return errors.Wrap(err, "failed to get db version")
	}
	if newVersion != oldVersion {
		log.Infof("DB migrated from version %d to %d", oldVersion, newVersion)
	} else {
		log.Infof("DB migration version is %d", oldVersion)
	}
	return nil
}
