package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/voicepack/voicepack/internal/runner"
	"github.com/voicepack/voicepack/internal/synth"
)

var synthCommand = &cli.Command{
	Name:  "synth",
	Usage: "Synthesize transcript lines into audio files",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "TTS API key (overrides the job file; prompted for when interactive)",
		},
		&cli.StringSliceFlag{
			Name:  "ids",
			Usage: "Only synthesize the listed transcript ids (can be repeated)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output audio format: wav, mp3 or ogg (overrides the job file)",
		},
		&cli.StringFlag{
			Name:  "transcripts",
			Usage: "Transcripts CSV path (overrides the job file)",
		},
		&cli.BoolFlag{
			Name:  "keep-wav",
			Usage: "Keep intermediate WAV files next to transcoded output",
		},
		&cli.StringSliceFlag{
			Name:  "allowed-env",
			Usage: "Environment variables allowed in job configuration (can be repeated)",
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

		cfg, clientCfg, err := runner.BuildSynthConfigs(job)
		if err != nil {
			return fmt.Errorf("failed to build synthesis configuration: %w", err)
		}

		if apiKey := command.String("api-key"); apiKey != "" {
			clientCfg.APIKey = apiKey
		}
		if clientCfg.APIKey == "" && isInteractiveEnvironment() {
			clientCfg.APIKey, err = readSecret("TTS API key: ")
			if err != nil {
				return fmt.Errorf("failed to read api key: %w", err)
			}
		}
		if clientCfg.APIKey == "" {
			return fmt.Errorf("no api key provided (use --api-key or the job file)")
		}

		if transcripts := command.String("transcripts"); transcripts != "" {
			cfg.TranscriptsPath = transcripts
		}
		if format := command.String("format"); format != "" {
			cfg.Format, err = synth.ParseFormat(format)
			if err != nil {
				return err
			}
		}
		if command.Bool("keep-wav") {
			cfg.KeepWAV = true
		}
		cfg.IDs = command.StringSlice("ids")

		client, err := synth.NewClient(clientCfg)
		if err != nil {
			return fmt.Errorf("failed to create tts client: %w", err)
		}

		converter := synth.NewConverter(logger.Named("ffmpeg"))

		synthesizer, err := synth.NewSynthesizer(logger.Named("synth"), afero.NewOsFs(), client, converter, cfg)
		if err != nil {
			return err
		}

		summary, err := synthesizer.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to synthesize: %w", err)
		}

		if len(summary.Missing) > 0 {
			logger.Warn("some requested ids were not found in the transcripts",
				zap.Strings("missing_ids", summary.Missing),
			)
		}

		return nil
	},
}
