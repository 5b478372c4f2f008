package synth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultTranscriptsPath is the transcripts CSV read by default.
	DefaultTranscriptsPath = "transcripts.csv"

	// DefaultOutputDir is where synthesized audio files are written. The
	// pack stage scans the same directory.
	DefaultOutputDir = "out_audio"
)

// Config describes a synthesis run.
type Config struct {
	// TranscriptsPath is the transcripts CSV file (default: transcripts.csv).
	TranscriptsPath string

	// OutputDir receives one audio file per transcript line (default: out_audio).
	OutputDir string

	// Format is the produced audio format (default: ogg).
	Format Format

	// KeepWAV keeps the intermediate WAV next to transcoded output.
	KeepWAV bool

	// IDs restricts the run to the listed transcript ids. Empty means all.
	IDs []string

	// Transcripts configures CSV column names.
	Transcripts TranscriptOptions
}

func (c Config) withDefaults() Config {
	if c.TranscriptsPath == "" {
		c.TranscriptsPath = DefaultTranscriptsPath
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Format == "" {
		c.Format = FormatOGG
	}
	return c
}

// Summary reports what a synthesis run did.
type Summary struct {
	Generated int
	Skipped   int

	// Missing lists requested ids absent from the transcripts.
	Missing []string
}

// Synthesizer drives the transcript-to-audio pipeline.
type Synthesizer struct {
	logger    *zap.Logger
	fs        afero.Fs
	client    *Client
	converter *Converter
	cfg       Config
}

func NewSynthesizer(logger *zap.Logger, fsys afero.Fs, client *Client, converter *Converter, cfg Config) (*Synthesizer, error) {
	cfg = cfg.withDefaults()

	if cfg.Format.NeedsTranscode() && !converter.Available() {
		return nil, fmt.Errorf("producing %s requires ffmpeg on PATH", cfg.Format)
	}

	return &Synthesizer{
		logger:    logger,
		fs:        fsys,
		client:    client,
		converter: converter,
		cfg:       cfg,
	}, nil
}

// Run synthesizes every selected transcript line into an audio file named
// <id>.<format> in the output directory. The first failure aborts the run.
func (s *Synthesizer) Run(ctx context.Context) (Summary, error) {
	lines, err := s.readLines()
	if err != nil {
		return Summary{}, err
	}

	selected, missing := FilterIDs(lines, s.cfg.IDs)

	if err := s.fs.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory %s: %w", s.cfg.OutputDir, err)
	}

	summary := Summary{Missing: missing}
	for _, line := range selected {
		if err := ctx.Err(); err != nil {
			return Summary{}, fmt.Errorf("context cancelled while synthesizing %s: %w", line.ID, err)
		}

		if line.SSML == "" {
			s.logger.Warn("skipping line with empty ssml", zap.String("id", line.ID))
			summary.Skipped++
			continue
		}

		if err := s.synthesizeLine(ctx, line); err != nil {
			return Summary{}, fmt.Errorf("failed to synthesize line %s: %w", line.ID, err)
		}
		summary.Generated++
	}

	s.logger.Info("synthesis finished",
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Strings("missing_ids", summary.Missing),
	)

	return summary, nil
}

func (s *Synthesizer) readLines() ([]Line, error) {
	f, err := s.fs.Open(s.cfg.TranscriptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcripts %s: %w", s.cfg.TranscriptsPath, err)
	}
	defer func() { _ = f.Close() }()

	lines, err := ReadTranscripts(f, s.cfg.Transcripts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcripts %s: %w", s.cfg.TranscriptsPath, err)
	}

	return lines, nil
}

func (s *Synthesizer) synthesizeLine(ctx context.Context, line Line) error {
	wav, err := s.client.Synthesize(ctx, line.SSML)
	if err != nil {
		return err
	}

	if !s.cfg.Format.NeedsTranscode() {
		outPath := filepath.Join(s.cfg.OutputDir, line.ID+".wav")
		if err := afero.WriteFile(s.fs, outPath, wav, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		s.logger.Debug("wrote audio file", zap.String("path", outPath))
		return nil
	}

	return s.transcodeLine(ctx, line, wav)
}

// transcodeLine writes the WAV bytes to disk and runs them through ffmpeg.
// The intermediate WAV lands next to the output when KeepWAV is set,
// otherwise in a temp file that is removed afterwards.
func (s *Synthesizer) transcodeLine(ctx context.Context, line Line, wav []byte) (err error) {
	var wavPath string
	if s.cfg.KeepWAV {
		wavPath = filepath.Join(s.cfg.OutputDir, line.ID+".wav")
	} else {
		tmp, err := afero.TempFile(s.fs, "", "voicepack-*.wav")
		if err != nil {
			return fmt.Errorf("failed to create temp wav: %w", err)
		}
		wavPath = tmp.Name()
		if closeErr := tmp.Close(); closeErr != nil {
			return errors.Join(fmt.Errorf("failed to close temp wav: %w", closeErr), s.fs.Remove(wavPath))
		}
		defer func() {
			err = errors.Join(err, s.fs.Remove(wavPath))
		}()
	}

	if err := afero.WriteFile(s.fs, wavPath, wav, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", wavPath, err)
	}

	outPath := filepath.Join(s.cfg.OutputDir, line.ID+"."+string(s.cfg.Format))
	if err := s.converter.Convert(ctx, wavPath, outPath, s.cfg.Format); err != nil {
		return err
	}

	s.logger.Debug("wrote audio file",
		zap.String("path", outPath),
		zap.Bool("kept_wav", s.cfg.KeepWAV),
	)

	return nil
}
