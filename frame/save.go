package frame

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pierrec/lz4"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

const metadataFile = "_metadata"

func init() {
	// cell values travel inside interface slots of gob-encoded rows
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
}

type metadata struct {
	ColumnNames []string `json:"column_names"`
	ColumnTypes []string `json:"column_types"`
}

// Save writes this Frame to a directory: one lz4-compressed,
// gob-encoded file per partition plus a _metadata file holding the
// column names and types. An existing directory at path is replaced.
func (f *Frame) Save(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	parts, err := f.rows.Partitions()
	if err != nil {
		return err
	}
	f.materialized = true

	var merr *multierror.Error
	for i, part := range parts {
		if err := savePartition(filepath.Join(path, fmt.Sprintf("part-%05d", i)), part); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	names := f.schema.ColumnNames()
	typeNames := make([]string, f.schema.NumColumns())
	for i, t := range f.schema.ColumnTypes() {
		typeNames[i] = t.String()
	}
	meta, err := json.Marshal(metadata{ColumnNames: names, ColumnTypes: typeNames})
	if err != nil {
		merr = multierror.Append(merr, err)
	} else if err := os.WriteFile(filepath.Join(path, metadataFile), meta, 0644); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

func savePartition(path string, part []interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	compressor := lz4.NewWriter(file)
	rows := make([]xframe.Row, len(part))
	for i, el := range part {
		rows[i] = el.(xframe.Row)
	}
	if err := gob.NewEncoder(compressor).Encode(rows); err != nil {
		return err
	}
	return compressor.Close()
}

// Load reads a Frame previously written by Save. Both the partition
// files and the metadata file must be present, and every row must
// match the metadata's column count.
func Load(ctx *rdd.Context, path string) (*Frame, error) {
	raw, err := os.ReadFile(filepath.Join(path, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	if len(meta.ColumnNames) != len(meta.ColumnTypes) {
		return nil, errors.SchemaMismatchError{
			Message: fmt.Sprintf("metadata holds %d names but %d types", len(meta.ColumnNames), len(meta.ColumnTypes)),
		}
	}
	types := make([]xframe.ColumnType, len(meta.ColumnTypes))
	for i, name := range meta.ColumnTypes {
		t, err := xframe.ColumnTypeFromName(name)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	sch, err := schema.CreateSchema(meta.ColumnNames, types)
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(path, "part-*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	elements := make([]interface{}, 0)
	for _, partPath := range paths {
		rows, err := loadPartition(partPath)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if len(row) != len(meta.ColumnNames) {
				return nil, errors.SchemaMismatchError{
					Message: fmt.Sprintf("row of width %d in table of %d columns", len(row), len(meta.ColumnNames)),
				}
			}
			elements = append(elements, row)
		}
	}
	return CreateFrame(ctx, rdd.Parallelize(ctx, elements), sch), nil
}

func loadPartition(path string) ([]xframe.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var rows []xframe.Row
	if err := gob.NewDecoder(lz4.NewReader(file)).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
