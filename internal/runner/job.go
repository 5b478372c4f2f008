// Package runner turns a VoicePack job file into configured pipeline
// components. Every spec field is optional; absent fields resolve to the
// standard voice pack defaults, so an empty job file describes the same run
// as no job file at all.
package runner

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	v1 "github.com/voicepack/voicepack/apis/v1"
	"github.com/voicepack/voicepack/internal/archive"
	"github.com/voicepack/voicepack/internal/pack"
	"github.com/voicepack/voicepack/internal/synth"
	"github.com/voicepack/voicepack/internal/upload"
)

var (
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
)

// ParsePackJob parses a YAML or JSON job file and validates it. It returns
// a validated VoicePack struct or an error if parsing or validation fails.
func ParsePackJob(data []byte) (v1.VoicePack, error) {
	var job v1.VoicePack
	if err := yaml.Unmarshal(data, &job); err != nil {
		return v1.VoicePack{}, fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	if err := defaultValidator.Struct(job); err != nil {
		return v1.VoicePack{}, fmt.Errorf("failed to validate job: %w", err)
	}

	return job, nil
}

// DefaultPackJob is the job used when no job file is given. It carries no
// spec, so every component runs with its documented defaults.
func DefaultPackJob() v1.VoicePack {
	return v1.VoicePack{
		Kind:     "VoicePack",
		Metadata: v1.Metadata{Name: "voice"},
	}
}

// BuildPackConfig resolves the archiving configuration from the job spec.
func BuildPackConfig(job v1.VoicePack) (pack.Config, error) {
	var cfg pack.Config

	if audio := job.Spec.Audio; audio != nil {
		cfg.InputDir = audio.Dir
		cfg.Suffix = audio.Suffix
	}

	if spec := job.Spec.Archive; spec != nil {
		cfg.ArchivePath = spec.Name

		compression, err := archive.ParseCompression(spec.Compression)
		if err != nil {
			return pack.Config{}, fmt.Errorf("invalid archive compression: %w", err)
		}
		cfg.Compression = compression
	}

	return cfg, nil
}

// BuildSynthConfigs resolves the synthesis and TTS client configuration
// from the job spec.
func BuildSynthConfigs(job v1.VoicePack) (synth.Config, synth.ClientConfig, error) {
	var cfg synth.Config
	var clientCfg synth.ClientConfig

	if transcripts := job.Spec.Transcripts; transcripts != nil {
		cfg.TranscriptsPath = transcripts.Path
		cfg.Transcripts = synth.TranscriptOptions{
			IDColumn:   transcripts.IDColumn,
			SSMLColumn: transcripts.SSMLColumn,
		}
	}

	if audio := job.Spec.Audio; audio != nil {
		cfg.OutputDir = audio.Dir
	}

	if spec := job.Spec.Synthesis; spec != nil {
		format, err := synth.ParseFormat(spec.Format)
		if err != nil {
			return synth.Config{}, synth.ClientConfig{}, fmt.Errorf("invalid synthesis format: %w", err)
		}
		cfg.Format = format
		cfg.KeepWAV = spec.KeepWAV

		clientCfg.Voice = spec.Voice
		clientCfg.Language = spec.Language
		clientCfg.Endpoint = spec.Endpoint
		clientCfg.APIKey = spec.APIKey
	}

	return cfg, clientCfg, nil
}

// BuildPublisher creates the configured archive publisher, or nil when the
// job has no upload spec.
func BuildPublisher(ctx context.Context, job v1.VoicePack) (*upload.S3Publisher, error) {
	spec := job.Spec.Upload
	if spec == nil {
		return nil, nil
	}

	if spec.S3 == nil {
		return nil, fmt.Errorf("invalid upload configuration: no upload type specified")
	}

	cfg := upload.S3Config{
		Bucket:         spec.S3.Bucket,
		ForcePathStyle: spec.S3.ForcePathStyle,
	}

	if spec.S3.Region != nil {
		cfg.Region = *spec.S3.Region
	}

	if spec.S3.Endpoint != nil {
		cfg.Endpoint = *spec.S3.Endpoint
	}

	if spec.S3.Prefix != nil {
		cfg.Prefix = *spec.S3.Prefix
	}

	if spec.S3.Credentials != nil {
		cfg.AccessKeyID = spec.S3.Credentials.AccessKeyID
		cfg.SecretAccessKey = spec.S3.Credentials.SecretAccessKey
	}

	publisher, err := upload.NewS3Publisher(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 publisher: %w", err)
	}

	return publisher, nil
}
