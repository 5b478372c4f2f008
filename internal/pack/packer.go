// Package pack bundles synthesized audio files into a single compressed
// archive and reports its checksum.
package pack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/voicepack/voicepack/internal/archive"
	"github.com/voicepack/voicepack/internal/digest"
)

const (
	// DefaultInputDir is the directory scanned for audio files.
	DefaultInputDir = "out_audio"

	// DefaultSuffix selects which files are bundled.
	DefaultSuffix = ".ogg"

	// DefaultArchivePath is the archive created in the invoking directory.
	DefaultArchivePath = "voice.tar.gz"
)

// ErrNoMatchingFiles is returned when the input directory holds no files
// matching the configured suffix. The archive is not created in that case.
var ErrNoMatchingFiles = errors.New("no matching input files")

// Config describes a pack run. Zero values resolve to the documented
// defaults, so the zero Config is the standard voice pack contract.
type Config struct {
	// InputDir is the directory scanned for input files (default: out_audio).
	// Only the top level is scanned.
	InputDir string

	// Suffix is the case-sensitive file name suffix filter (default: .ogg).
	Suffix string

	// ArchivePath is where the archive is written (default: voice.tar.gz).
	// An existing file at this path is overwritten.
	ArchivePath string

	// Compression selects the archive compression (default: gzip).
	Compression archive.Compression
}

func (c Config) withDefaults() Config {
	if c.InputDir == "" {
		c.InputDir = DefaultInputDir
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.ArchivePath == "" {
		c.ArchivePath = DefaultArchivePath
	}
	if c.Compression == "" {
		c.Compression = archive.CompressionGzip
	}
	return c
}

// Report summarizes a successful pack run.
type Report struct {
	// Archive is the archive's base file name.
	Archive string

	// Digest is the hex-encoded SHA-256 of the archive file's bytes.
	Digest string

	// Files lists the bundled entry names in archive order.
	Files []string
}

// Line renders the checksum report line printed on stdout.
func (r Report) Line() string {
	return digest.Line(r.Digest, r.Archive)
}

// Packer produces a voice pack archive from a directory of audio files.
type Packer struct {
	logger *zap.Logger
	fs     afero.Fs
	cfg    Config
}

func New(logger *zap.Logger, fsys afero.Fs, cfg Config) *Packer {
	return &Packer{
		logger: logger,
		fs:     fsys,
		cfg:    cfg.withDefaults(),
	}
}

// Run performs a single pack: scan the input directory, write the archive,
// hash it. The input set is resolved before the output file is touched, so
// an empty input never creates or overwrites an archive. Any failure aborts
// the run; a partially written archive is removed best effort.
func (p *Packer) Run(ctx context.Context) (Report, error) {
	matches, err := p.matchInputs()
	if err != nil {
		return Report{}, err
	}

	p.logger.Debug("resolved input files",
		zap.String("input_dir", p.cfg.InputDir),
		zap.Int("count", len(matches)),
	)

	out, err := p.fs.Create(p.cfg.ArchivePath)
	if err != nil {
		return Report{}, fmt.Errorf("failed to create archive %s: %w", p.cfg.ArchivePath, err)
	}

	if err := p.writeArchive(ctx, out, matches); err != nil {
		// The output file exists at this point; do not leave a partial archive behind.
		if removeErr := p.fs.Remove(p.cfg.ArchivePath); removeErr != nil {
			p.logger.Warn("failed to remove partial archive",
				zap.String("archive", p.cfg.ArchivePath),
				zap.Error(removeErr),
			)
		}
		return Report{}, err
	}

	sum, err := digest.SumFile(p.fs, p.cfg.ArchivePath)
	if err != nil {
		return Report{}, fmt.Errorf("failed to checksum archive: %w", err)
	}

	names := lo.Map(matches, func(info fs.FileInfo, _ int) string {
		return info.Name()
	})

	p.logger.Info("voice pack created",
		zap.String("archive", p.cfg.ArchivePath),
		zap.Int("files", len(names)),
		zap.String("sha256", sum),
	)

	return Report{
		Archive: filepath.Base(p.cfg.ArchivePath),
		Digest:  sum,
		Files:   names,
	}, nil
}

// matchInputs lists the input directory and filters by suffix. The match is
// an exact, case-sensitive suffix test on the file name; directories and
// anything below them are ignored.
func (p *Packer) matchInputs() ([]fs.FileInfo, error) {
	entries, err := afero.ReadDir(p.fs, p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", p.cfg.InputDir, err)
	}

	matches := lo.Filter(entries, func(info fs.FileInfo, _ int) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), p.cfg.Suffix)
	})

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s contains no %s files", ErrNoMatchingFiles, p.cfg.InputDir, p.cfg.Suffix)
	}

	return matches, nil
}

func (p *Packer) writeArchive(ctx context.Context, out afero.File, matches []fs.FileInfo) (err error) {
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	w, err := archive.NewWriter(out, p.cfg.Compression)
	if err != nil {
		return fmt.Errorf("failed to create archive writer: %w", err)
	}

	for _, info := range matches {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled while archiving %s: %w", info.Name(), err)
		}

		if err := p.addEntry(w, info); err != nil {
			return err
		}

		p.logger.Debug("archived file", zap.String("name", info.Name()), zap.Int64("size", info.Size()))
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	return nil
}

// addEntry copies one input file into the archive under its base name.
func (p *Packer) addEntry(w *archive.Writer, info fs.FileInfo) (err error) {
	path := filepath.Join(p.cfg.InputDir, info.Name())

	f, err := p.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := w.WriteFile(info.Name(), info.Size(), f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}

	return nil
}
