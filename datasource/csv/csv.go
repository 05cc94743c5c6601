// Package csv loads delimited text files into frames and writes frames
// back out. The field splitter is dialect-aware (quoting, escaping,
// doubled quotes, initial-space skipping), which encoding/csv does not
// expose, so splitting is done by hand.
package csv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/frame"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// AllColumnsHint is the type-hint key that applies a single type to
// every column of the file.
const AllColumnsHint = "__all_columns__"

// limitThreshold is the row limit below which rows are fetched with a
// straight take instead of an index filter.
const limitThreshold = 100

// Config controls how delimited text is parsed and rendered.
type Config struct {
	// Delimiter separates fields. Exactly one character.
	Delimiter string `validate:"required,len=1"`
	// QuoteChar wraps fields containing the delimiter. Empty disables quoting.
	QuoteChar string `validate:"omitempty,len=1"`
	// EscapeChar makes the following character literal. Empty disables escaping.
	EscapeChar string `validate:"omitempty,len=1"`
	// CommentChar truncates a line at its first occurrence. Empty disables comments.
	CommentChar string `validate:"omitempty,len=1"`
	// DoubleQuote treats a doubled QuoteChar inside a quoted field as a literal quote.
	DoubleQuote bool
	// SkipInitialSpace drops spaces immediately following a delimiter.
	SkipInitialSpace bool
	// UseHeader reads column names from the first row.
	UseHeader bool
	// RowLimit caps the number of data rows read. Zero means unlimited.
	RowLimit int64 `validate:"gte=0"`
	// NAValues lists raw field strings treated as missing.
	NAValues []string
}

// DefaultConfig returns the conventional comma dialect.
func DefaultConfig() Config {
	return Config{
		Delimiter:   ",",
		QuoteChar:   `"`,
		EscapeChar:  `\`,
		DoubleQuote: true,
		UseHeader:   true,
	}
}

var validate = validator.New()

func (c Config) dialect() dialect {
	return dialect{
		delimiter:        firstRune(c.Delimiter),
		quote:            firstRune(c.QuoteChar),
		escape:           firstRune(c.EscapeChar),
		doubleQuote:      c.DoubleQuote,
		skipInitialSpace: c.SkipInitialSpace,
	}
}

// splitRow is a line split into fields, flagged invalid when the line
// was malformed or its field count disagrees with the header
type splitRow struct {
	ok     bool
	fields []string
}

// ReadFile parses the file at path. See Read.
func ReadFile(ctx *rdd.Context, path string, cfg Config, hints map[string]xframe.ColumnType) (*frame.Frame, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return Read(ctx, f, cfg, hints)
}

// Read parses delimited text into a frame. Rows whose field count does
// not match the header are dropped; the count of dropped rows is
// returned alongside the frame. hints assigns column types by column
// name, by positional placeholder ("__X0__", "__X1__", ...), or to all
// columns at once via AllColumnsHint; columns without a hint parse as
// strings. Cast failures abort the read.
func Read(ctx *rdd.Context, r io.Reader, cfg Config, hints map[string]xframe.ColumnType) (*frame.Frame, int64, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, 0, err
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, 0, err
	}
	raw := rdd.Parallelize(ctx, lines)

	if cfg.CommentChar != "" {
		comment := cfg.CommentChar
		raw = raw.Map(func(v interface{}) (interface{}, error) {
			line := v.(string)
			if i := strings.Index(line, comment); i >= 0 {
				line = line[:i]
			}
			return strings.TrimRight(line, " \t\r"), nil
		})
	}
	raw = raw.Filter(func(v interface{}) (bool, error) {
		return v.(string) != "", nil
	})

	if cfg.RowLimit > 0 {
		keep := cfg.RowLimit
		if cfg.UseHeader {
			keep++
		}
		if keep <= limitThreshold {
			taken, err := raw.Take(int(keep))
			if err != nil {
				return nil, 0, err
			}
			raw = rdd.Parallelize(ctx, taken)
		} else {
			raw = raw.ZipWithIndex().Filter(func(v interface{}) (bool, error) {
				return v.(*rdd.Indexed).Pos < keep, nil
			}).Map(func(v interface{}) (interface{}, error) {
				return v.(*rdd.Indexed).Value, nil
			})
		}
	}

	dia := cfg.dialect()
	split := raw.Map(func(v interface{}) (interface{}, error) {
		fields, err := dia.split(v.(string))
		if err != nil {
			return splitRow{ok: false}, nil
		}
		return splitRow{ok: true, fields: fields}, nil
	})

	first, err := split.First()
	if err != nil {
		if _, empty := err.(errors.EmptyDatasetError); empty {
			return nil, 0, errors.SchemaMismatchError{Message: "no rows found, cannot infer column names"}
		}
		return nil, 0, err
	}
	head := first.(splitRow)
	if !head.ok {
		return nil, 0, errors.SchemaMismatchError{Message: "first row is malformed, cannot infer column names"}
	}
	width := len(head.fields)

	names := make([]string, 0, width)
	for i := 0; i < width; i++ {
		name := fmt.Sprintf("X.%d", i)
		if cfg.UseHeader {
			name = strings.TrimSpace(head.fields[i])
		}
		names = append(names, schema.UniqueName(names, name))
	}

	types, err := resolveHints(names, hints)
	if err != nil {
		return nil, 0, err
	}

	useHeader := cfg.UseHeader
	flagged := split.ZipWithIndex().Map(func(v interface{}) (interface{}, error) {
		iv := v.(*rdd.Indexed)
		row := iv.Value.(splitRow)
		if useHeader && iv.Pos == 0 {
			row.ok = false
		}
		if len(row.fields) != width {
			row.ok = false
		}
		return row, nil
	})

	na := make(map[string]bool, len(cfg.NAValues))
	for _, s := range cfg.NAValues {
		na[s] = true
	}

	var dropped int64
	var rows []interface{}
	err = flagged.Cached(func() error {
		before, err := flagged.Count()
		if err != nil {
			return err
		}
		kept := flagged.Filter(func(v interface{}) (bool, error) {
			return v.(splitRow).ok, nil
		})
		cast := kept.Map(func(v interface{}) (interface{}, error) {
			return castRow(v.(splitRow).fields, names, types, na)
		})
		rows, err = cast.Collect()
		if err != nil {
			return err
		}
		dropped = before - int64(len(rows))
		if useHeader {
			dropped--
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, 0, err
	}
	return frame.CreateFrame(ctx, rdd.Parallelize(ctx, rows), sch), dropped, nil
}

func castRow(fields []string, names []string, types []xframe.ColumnType, na map[string]bool) (interface{}, error) {
	row := make(xframe.Row, len(fields))
	for i, raw := range fields {
		if na[raw] {
			row[i] = nil
			continue
		}
		val, err := types[i].CastString(raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %v", names[i], err)
		}
		row[i] = val
	}
	return row, nil
}

// resolveHints maps hint keys to per-column types. Every column
// defaults to string.
func resolveHints(names []string, hints map[string]xframe.ColumnType) ([]xframe.ColumnType, error) {
	types := make([]xframe.ColumnType, len(names))
	for i := range types {
		types[i] = xframe.StringType
	}
	if all, ok := hints[AllColumnsHint]; ok {
		for i := range types {
			types[i] = all
		}
	}
	for key, t := range hints {
		if key == AllColumnsHint {
			continue
		}
		if idx, ok := placeholderIndex(key); ok {
			if idx < 0 || idx >= len(types) {
				return nil, errors.NotFoundError{Name: key}
			}
			types[idx] = t
			continue
		}
		found := false
		for i, name := range names {
			if name == key {
				types[i] = t
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NotFoundError{Name: key}
		}
	}
	return types, nil
}

// placeholderIndex recognizes positional hint keys of the form __X<i>__.
func placeholderIndex(key string) (int, bool) {
	if !strings.HasPrefix(key, "__X") || !strings.HasSuffix(key, "__") || len(key) < 6 {
		return 0, false
	}
	digits := key[3 : len(key)-2]
	if digits == "" {
		return 0, false
	}
	idx := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		idx = idx*10 + int(c-'0')
	}
	return idx, true
}

func readLines(r io.Reader) ([]interface{}, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []interface{}
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
