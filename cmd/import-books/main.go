package main

import (
	"os"

	"github.com/bookhive/bookhive/pkg/config"
	"github.com/bookhive/bookhive/pkg/database"
	"github.com/bookhive/bookhive/pkg/importer"
	"github.com/bookhive/bookhive/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "import-books",
		Usage:       "bulk-load catalog books from a CSV file",
		Description: "Reads isbn,title,author,year rows and inserts them into the books table. Rows with an ISBN already in the catalog are skipped.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to the CSV file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			db, err := database.New(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.ExecContext(c.Context, "SELECT 1"); err != nil {
				return errors.Wrap(err, "database is not reachable")
			}

			if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
				return err
			}

			path := c.String("file")
			log.Info("importing books", logger.Data{"file": path})

			result, err := importer.NewService(db).ImportFile(c.Context, path)
			if err != nil {
				return err
			}

			log.Info("import finished", logger.Data{
				"imported": result.Imported,
				"skipped":  result.Skipped,
			})
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
