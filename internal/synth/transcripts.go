package synth

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultIDColumn   = "id"
	DefaultSSMLColumn = "ssml"
)

// Line is a single voice line to synthesize.
type Line struct {
	ID   string
	SSML string
}

// TranscriptOptions configures how the transcripts CSV is read.
// Zero values resolve to the default column names.
type TranscriptOptions struct {
	IDColumn   string
	SSMLColumn string
}

func (o TranscriptOptions) withDefaults() TranscriptOptions {
	if o.IDColumn == "" {
		o.IDColumn = DefaultIDColumn
	}
	if o.SSMLColumn == "" {
		o.SSMLColumn = DefaultSSMLColumn
	}
	return o
}

// ReadTranscripts parses a transcripts CSV. The first record is the header
// and must contain the configured id and ssml columns. Quoted multiline SSML
// cells are handled by the CSV reader. Rows with an empty id are dropped.
func ReadTranscripts(r io.Reader, opts TranscriptOptions) ([]Line, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("transcripts file is empty or missing a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts header: %w", err)
	}

	idIdx := slices.Index(header, opts.IDColumn)
	if idIdx < 0 {
		return nil, fmt.Errorf("missing id column %q (found: %v)", opts.IDColumn, header)
	}

	ssmlIdx := slices.Index(header, opts.SSMLColumn)
	if ssmlIdx < 0 {
		return nil, fmt.Errorf("missing ssml column %q (found: %v)", opts.SSMLColumn, header)
	}

	var lines []Line
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read transcripts row: %w", err)
		}

		var id, ssml string
		if idIdx < len(record) {
			id = strings.TrimSpace(record[idIdx])
		}
		if ssmlIdx < len(record) {
			ssml = strings.TrimSpace(record[ssmlIdx])
		}

		if id == "" {
			continue
		}

		lines = append(lines, Line{ID: id, SSML: ssml})
	}

	return lines, nil
}

// FilterIDs narrows lines down to the requested ids. A nil or empty filter
// keeps every line. The second return value lists requested ids that were
// not present in the transcripts, in sorted order.
func FilterIDs(lines []Line, ids []string) ([]Line, []string) {
	if len(ids) == 0 {
		return lines, nil
	}

	wanted := lo.SliceToMap(ids, func(id string) (string, struct{}) {
		return id, struct{}{}
	})

	seen := lo.SliceToMap(lines, func(l Line) (string, struct{}) {
		return l.ID, struct{}{}
	})

	selected := lo.Filter(lines, func(l Line, _ int) bool {
		_, ok := wanted[l.ID]
		return ok
	})

	missing := lo.Filter(lo.Keys(wanted), func(id string, _ int) bool {
		_, ok := seen[id]
		return !ok
	})
	if len(missing) == 0 {
		return selected, nil
	}
	slices.Sort(missing)

	return selected, missing
}
