package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	v1 "github.com/voicepack/voicepack/apis/v1"
	"github.com/voicepack/voicepack/internal/runner"
)

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "Validate a job file",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "allowed-env",
			Usage: "Environment variables allowed in job configuration (can be repeated)",
		},
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "The job file to validate",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		jobFilename := command.StringArg("job")
		if jobFilename == "" {
			return fmt.Errorf("no job file provided")
		}

		jobFile, err := os.ReadFile(jobFilename)
		if err != nil {
			return fmt.Errorf("failed to read job file '%s': %w", jobFilename, err)
		}

		logger = logger.With(zap.String("job_filename", jobFilename))
		logger.Debug("validating job file")

		job, err := runner.ParsePackJob(jobFile)
		if err != nil {
			fmt.Println(formatValidationError(err))
			return fmt.Errorf("job file '%s' is invalid", jobFilename)
		}

		allowedEnv := command.StringSlice("allowed-env")

		variables, err := runner.BuildVariables(job, allowedEnv)
		if err != nil {
			return fmt.Errorf("failed to build variables: %w", err)
		}

		if err := runner.ExpandJob(&job, variables); err != nil {
			return fmt.Errorf("failed to expand job: %w", err)
		}

		fmt.Printf("✓ Job file '%s' is valid\n", jobFilename)
		return nil
	},
}

// loadJob reads the optional job argument; without one the built-in default
// job is used so every component runs with its documented defaults.
func loadJob(command *cli.Command) (v1.VoicePack, error) {
	jobFilename := command.StringArg("job")
	if jobFilename == "" {
		return runner.DefaultPackJob(), nil
	}

	jobFile, err := os.ReadFile(jobFilename)
	if err != nil {
		return v1.VoicePack{}, fmt.Errorf("failed to read job file '%s': %w", jobFilename, err)
	}

	job, err := runner.ParsePackJob(jobFile)
	if err != nil {
		return v1.VoicePack{}, fmt.Errorf("failed to parse job file '%s': %w", jobFilename, err)
	}

	return job, nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("job file has %d validation error(s):", len(validationErrs)))
		for _, fe := range validationErrs {
			sb.WriteString(fmt.Sprintf("\n  • %s: failed '%s' validation", fe.Namespace(), fe.Tag()))
			if fe.Param() != "" {
				sb.WriteString(fmt.Sprintf(" (param: %s)", fe.Param()))
			}
		}
		return errors.New(sb.String())
	}
	return err
}
