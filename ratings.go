package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cinehub-io/web-ui/models"
	"github.com/cinehub-io/web-ui/services/sqlite"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	ratingsSourceFlag = "source"
	ratingsLimitFlag  = "limit"
)

func makeRatingsCMD() cli.Command {
	ratingsCmd := cli.Command{
		Name:    "ratings",
		Aliases: []string{"r"},
		Usage:   "Ratings operations",
	}
	configureRatings(&ratingsCmd)
	return ratingsCmd
}

func configureRatings(c *cli.Command) {
	listCmd := cli.Command{
		Name:    "list",
		Usage:   "Lists saved ratings, newest first",
		Aliases: []string{"l"},
		Action:  ratingsList,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  ratingsSourceFlag,
				Usage: "only list ratings of this source (jellyfin, tmdb)",
			},
			cli.IntFlag{
				Name:  ratingsLimitFlag,
				Usage: "max ratings to list, 0 for all",
				Value: 50,
			},
		},
	}
	c.Subcommands = []cli.Command{listCmd}
	for k := range c.Subcommands {
		configureSubRatings(&c.Subcommands[k])
	}
}

func configureSubRatings(c *cli.Command) {
	c.Flags = sqlite.RegisterFlags(c.Flags)
}

func ratingsList(c *cli.Context) error {
	// Setting DB
	db := sqlite.New(c)
	defer db.Close()

	d := db.Get()
	if d == nil {
		return errors.Wrap(db.Err(), "db not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	rs, err := models.ListRatings(ctx, d, c.String(ratingsSourceFlag), c.Int(ratingsLimitFlag))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SOURCE\tKEY\tSTARS\tUPDATED")
	for _, r := range rs {
		_, _ = fmt.Fprintf(w, "%v\t%v\t%d\t%v\n", r.Source, r.Key, r.Stars, r.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
