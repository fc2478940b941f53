package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/flatconnect/flatconnect/pkg/cli/config"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
	"github.com/flatconnect/flatconnect/pkg/utils/safe"
)

type seedFile struct {
	Categories []seedCategory `toml:"categories"`
}

type seedCategory struct {
	Name            string `toml:"name"`
	Description     string `toml:"description"`
	DefaultAssignee string `toml:"default_assignee"`
}

func cmdSeed() *cli.Command {
	var path string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to category seed TOML file",
			Required:    true,
			Sources:     cli.EnvVars("FLATCONNECT_SEED_FILE"),
			Destination: &path,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load category definitions into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			fd, err := os.Open(path)
			if err != nil {
				return goerr.Wrap(err, "failed to open seed file", goerr.V("path", path))
			}
			defer safe.Close(ctx, fd)

			var seed seedFile
			if err := toml.NewDecoder(fd).Decode(&seed); err != nil {
				return goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
			}
			if len(seed.Categories) == 0 {
				return goerr.New("seed file has no categories", goerr.V("path", path))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			var created, skipped int
			for _, entry := range seed.Categories {
				if entry.Name == "" {
					return goerr.New("category entry has no name", goerr.V("path", path))
				}

				// Seeding is idempotent: existing names are left untouched.
				if existing, err := repo.Category().GetByName(ctx, entry.Name); err == nil && existing != nil {
					logger.Info("Category already exists, skipping", "name", entry.Name)
					skipped++
					continue
				}

				category, err := repo.Category().Create(ctx, &model.Category{
					Name:            entry.Name,
					Description:     entry.Description,
					DefaultAssignee: entry.DefaultAssignee,
				})
				if err != nil {
					return goerr.Wrap(err, "failed to create category", goerr.V("name", entry.Name))
				}
				logger.Info("Category created", "name", category.Name, "id", category.ID)
				created++
			}

			logger.Info("Seed completed", "created", created, "skipped", skipped)
			return nil
		},
	}
}
