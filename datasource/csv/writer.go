package csv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/frame"
)

// writeBatchSize is the number of rows pulled from the frame per
// iterator step while writing
const writeBatchSize = 10000

// WriteFile renders the frame to the file at path. See Write.
func WriteFile(f *frame.Frame, path string, cfg Config) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, out, cfg); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Write renders the frame as delimited text. Missing values render as
// empty fields, lists and mappings as JSON. Rows are streamed in
// batches so the whole frame is never held in memory at once.
func Write(f *frame.Frame, w io.Writer, cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	dia := cfg.dialect()
	buf := bufio.NewWriter(w)

	if cfg.UseHeader {
		if _, err := buf.WriteString(dia.join(f.ColumnNames()) + "\n"); err != nil {
			return err
		}
	}

	it := f.Iterate()
	for {
		rows, err := it.Next(writeBatchSize)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			fields := make([]string, len(row))
			for i, v := range row {
				fields[i] = renderValue(v)
			}
			if _, err := buf.WriteString(dia.join(fields) + "\n"); err != nil {
				return err
			}
		}
	}
	return buf.Flush()
}

func renderValue(v xframe.Value) string {
	if xframe.IsMissing(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []xframe.Value, map[string]xframe.Value:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
