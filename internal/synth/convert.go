package synth

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Format is a produced audio format.
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
	FormatOGG Format = "ogg"
)

// ParseFormat maps a config string to a Format. Empty defaults to ogg,
// which is what the pack stage bundles.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatOGG, nil
	case FormatWAV, FormatMP3, FormatOGG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported audio format: %s", s)
	}
}

// NeedsTranscode reports whether producing this format requires ffmpeg.
func (f Format) NeedsTranscode() bool {
	return f != FormatWAV
}

const (
	ffmpegProgram         = "ffmpeg"
	defaultConvertTimeout = 2 * time.Minute
)

// Converter transcodes WAV files with an ffmpeg subprocess.
type Converter struct {
	logger  *zap.Logger
	program string
	timeout time.Duration
}

type ConverterOption func(*Converter)

// WithProgram overrides the ffmpeg binary, mainly for tests.
func WithProgram(program string) ConverterOption {
	return func(c *Converter) {
		c.program = program
	}
}

func WithConvertTimeout(timeout time.Duration) ConverterOption {
	return func(c *Converter) {
		c.timeout = timeout
	}
}

func NewConverter(logger *zap.Logger, opts ...ConverterOption) *Converter {
	c := &Converter{
		logger:  logger,
		program: ffmpegProgram,
		timeout: defaultConvertTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the transcoder binary is on PATH.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.program)
	return err == nil
}

// args builds the ffmpeg invocation for one conversion. -y overwrites the
// destination, matching the silent-overwrite archive contract.
func (c *Converter) args(wavPath, outPath string, format Format) ([]string, error) {
	switch format {
	case FormatWAV:
		return []string{"-y", "-i", wavPath, "-c:a", "pcm_s16le", outPath}, nil
	case FormatMP3:
		return []string{"-y", "-i", wavPath, "-codec:a", "libmp3lame", "-q:a", "2", outPath}, nil
	case FormatOGG:
		return []string{"-y", "-i", wavPath, "-codec:a", "libvorbis", "-q:a", "5", outPath}, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", format)
	}
}

// Convert transcodes the WAV at wavPath into outPath. Both paths must be on
// the real filesystem; the subprocess cannot see an in-memory one.
func (c *Converter) Convert(ctx context.Context, wavPath, outPath string, format Format) error {
	args, err := c.args(wavPath, outPath, format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.program, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("invoking transcoder",
		zap.String("program", c.program),
		zap.Strings("args", args),
	)
	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	c.logger.Debug("transcoder finished",
		zap.Int("exit_code", exitCode),
		zap.Duration("duration", duration),
	)

	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("transcode timed out after %s: %s", c.timeout, stderrStr)
		}
		if stderrStr != "" {
			return fmt.Errorf("transcode failed: %w: %s", err, stderrStr)
		}
		return fmt.Errorf("transcode failed: %w", err)
	}

	return nil
}
