package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	migrationCMD := makeMigrationCMD()
	ratingsCMD := makeRatingsCMD()
	app.Commands = []cli.Command{serveCMD, migrationCMD, ratingsCMD}
}
