package main

import (
	"github.com/cinehub-io/web-ui/migrations"
	"github.com/cinehub-io/web-ui/services/migration"
	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/urfave/cli"
)

func makeMigrationCMD() cli.Command {
	migrateCmd := cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrates database",
	}
	configureMigration(&migrateCmd)
	return migrateCmd
}

func configureMigration(c *cli.Command) {
	upCmd := cli.Command{
		Name:    "up",
		Usage:   "Runs all available migrations",
		Aliases: []string{"u"},
		Action: func(c *cli.Context) error {
			return migrate(c, "up")
		},
	}
	downCmd := cli.Command{
		Name:    "down",
		Usage:   "Reverts last migration",
		Aliases: []string{"d"},
		Action: func(c *cli.Context) error {
			return migrate(c, "down")
		},
	}
	resetCmd := cli.Command{
		Name:    "reset",
		Usage:   "Reverts all migrations",
		Aliases: []string{"r"},
		Action: func(c *cli.Context) error {
			return migrate(c, "reset")
		},
	}
	versionCmd := cli.Command{
		Name:    "version",
		Usage:   "Prints current db version",
		Aliases: []string{"v"},
		Action: func(c *cli.Context) error {
			return migrate(c, "version")
		},
	}
	c.Subcommands = []cli.Command{upCmd, downCmd, resetCmd, versionCmd}
	for k := range c.Subcommands {
		configureSubMigration(&c.Subcommands[k])
	}
}

func configureSubMigration(c *cli.Command) {
	c.Flags = sqlite.RegisterFlags(c.Flags)
}

func migrate(c *cli.Context, a ...string) error {
	// Setting DB
	db := sqlite.New(c)
	defer db.Close()

	return migrateDB(db, a...)
}

func migrateDB(db *sqlite.DB, a ...string) error {
	return migration.New(db, migrations.FS).Run(a...)
}
