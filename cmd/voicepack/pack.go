package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/voicepack/voicepack/internal/pack"
	"github.com/voicepack/voicepack/internal/runner"
)

var packCommand = &cli.Command{
	Name:  "pack",
	Usage: "Bundle synthesized audio into a voice pack archive and print its checksum",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "allowed-env",
			Usage: "Environment variables allowed in job configuration (can be repeated)",
		},
		&cli.BoolFlag{
			Name:  "skip-upload",
			Usage: "Skip publishing the archive even if the job configures an upload",
		},
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "Optional job file; without one the standard defaults apply",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		job, err := loadJob(command)
		if err != nil {
			return err
		}

		variables, err := runner.BuildVariables(job, command.StringSlice("allowed-env"))
		if err != nil {
			return fmt.Errorf("failed to build variables: %w", err)
		}

		if err := runner.ExpandJob(&job, variables); err != nil {
			return fmt.Errorf("failed to expand job: %w", err)
		}

		cfg, err := runner.BuildPackConfig(job)
		if err != nil {
			return fmt.Errorf("failed to build pack configuration: %w", err)
		}

		fsys := afero.NewOsFs()

		packer := pack.New(logger.Named("pack"), fsys, cfg)
		report, err := packer.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to pack: %w", err)
		}

		// The checksum report is the command's contract; it goes to stdout,
		// not through the logger.
		fmt.Println(report.Line())

		if command.Bool("skip-upload") {
			return nil
		}

		publisher, err := runner.BuildPublisher(ctx, job)
		if err != nil {
			return fmt.Errorf("failed to build publisher: %w", err)
		}
		if publisher == nil {
			return nil
		}

		archivePath := cfg.ArchivePath
		if archivePath == "" {
			archivePath = pack.DefaultArchivePath
		}

		if err := publisher.PublishFile(ctx, fsys, archivePath); err != nil {
			return fmt.Errorf("failed to publish archive: %w", err)
		}

		logger.Info("archive published",
			zap.String("archive", archivePath),
			zap.String("destination", publisher.Name()),
		)

		return nil
	},
}
