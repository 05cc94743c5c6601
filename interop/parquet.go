package interop

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/frame"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

const parquetConcurrency = 4

// columnNamesMetaKey is the footer metadata entry carrying the exact
// column names. The parquet writer folds schema names to exported-Go
// casing inside the file footer, so the original spelling has to
// travel in the key/value metadata to survive a round trip.
const columnNamesMetaKey = "xframe.column_names"

// jsonSchemaNode is the tag tree consumed by the parquet JSON writer
type jsonSchemaNode struct {
	Tag    string           `json:"Tag"`
	Fields []jsonSchemaNode `json:"Fields,omitempty"`
}

// SaveParquet writes the frame to a parquet file at path. Element types
// of list and mapping columns are inferred from the first non-empty
// value; a column with no such value cannot be schema-inferred and
// fails with SchemaMismatchError.
func SaveParquet(f *frame.Frame, path string) error {
	rows, err := f.Collect()
	if err != nil {
		return err
	}
	names := f.ColumnNames()
	types := f.ColumnTypes()

	schemaStr, err := parquetSchemaString(names, types, rows)
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewJSONWriter(schemaStr, fw, parquetConcurrency)
	if err != nil {
		fw.Close()
		return err
	}
	namesJSON, err := json.Marshal(names)
	if err != nil {
		fw.Close()
		return err
	}
	namesValue := string(namesJSON)
	pw.Footer.KeyValueMetadata = append(pw.Footer.KeyValueMetadata,
		&parquet.KeyValue{Key: columnNamesMetaKey, Value: &namesValue})
	for _, row := range rows {
		record := make(map[string]interface{}, len(names))
		for i, name := range names {
			record[name] = row[i]
		}
		b, err := json.Marshal(record)
		if err != nil {
			fw.Close()
			return err
		}
		if err := pw.Write(string(b)); err != nil {
			fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}

// LoadParquet reads a parquet file into a frame. Column names and
// types come from the file footer; physical types with no internal
// counterpart load as strings.
func LoadParquet(ctx *rdd.Context, path string) (*frame.Frame, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	pr, err := reader.NewParquetReader(fr, nil, parquetConcurrency)
	if err != nil {
		fr.Close()
		return nil, err
	}

	names, types := footerColumns(pr.Footer.Schema)
	if stored := storedColumnNames(pr.Footer.KeyValueMetadata); len(stored) == len(names) {
		names = stored
	}

	num := int(pr.GetNumRows())
	items, err := pr.ReadByNumber(num)
	if err != nil {
		pr.ReadStop()
		fr.Close()
		return nil, err
	}
	pr.ReadStop()
	if err := fr.Close(); err != nil {
		return nil, err
	}

	elements := make([]interface{}, 0, len(items))
	for _, item := range items {
		v := reflect.ValueOf(item)
		if v.Kind() != reflect.Struct || v.NumField() != len(names) {
			return nil, errors.SchemaMismatchError{Message: "parquet record does not match the footer schema"}
		}
		row := make(xframe.Row, len(names))
		for i := range names {
			row[i] = normalizeParquetValue(v.Field(i).Interface())
		}
		elements = append(elements, row)
	}

	sch, err := schema.CreateSchema(names, types)
	if err != nil {
		return nil, err
	}
	return frame.CreateFrame(ctx, rdd.Parallelize(ctx, elements), sch), nil
}

// parquetSchemaString builds the JSON schema string for the writer
func parquetSchemaString(names []string, types []xframe.ColumnType, rows []xframe.Row) (string, error) {
	fields := make([]jsonSchemaNode, 0, len(names))
	for i, name := range names {
		node, err := columnSchemaNode(name, types[i], sampleColumn(rows, i))
		if err != nil {
			return "", err
		}
		fields = append(fields, node)
	}
	root := jsonSchemaNode{
		Tag:    "name=parquet_go_root, repetitiontype=REQUIRED",
		Fields: fields,
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// sampleColumn returns the first non-missing, non-empty value of
// column i, or nil if there is none
func sampleColumn(rows []xframe.Row, i int) xframe.Value {
	for _, row := range rows {
		if !xframe.IsMissingOrEmpty(row[i]) {
			return row[i]
		}
	}
	return nil
}

func columnSchemaNode(name string, t xframe.ColumnType, sample xframe.Value) (jsonSchemaNode, error) {
	switch t {
	case xframe.IntType:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=INT64, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case xframe.FloatType:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=DOUBLE, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case xframe.BoolType:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=BOOLEAN, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case xframe.ListType:
		elems, ok := sample.([]xframe.Value)
		if !ok || len(elems) == 0 {
			if generic, isGeneric := sample.([]interface{}); isGeneric && len(generic) > 0 {
				elems = generic
			} else {
				return jsonSchemaNode{}, errors.SchemaMismatchError{
					Message: fmt.Sprintf("cannot infer element type of list column %s", name),
				}
			}
		}
		element, err := scalarSchemaNode("element", elems[0])
		if err != nil {
			return jsonSchemaNode{}, err
		}
		return jsonSchemaNode{
			Tag:    fmt.Sprintf("type=LIST, name=%s, repetitiontype=OPTIONAL", name),
			Fields: []jsonSchemaNode{element},
		}, nil
	case xframe.MapType:
		pairs, ok := sample.(map[string]xframe.Value)
		if !ok {
			if generic, isGeneric := sample.(map[string]interface{}); isGeneric {
				pairs = generic
			}
		}
		if len(pairs) == 0 {
			return jsonSchemaNode{}, errors.SchemaMismatchError{
				Message: fmt.Sprintf("cannot infer value type of mapping column %s", name),
			}
		}
		var valueSample xframe.Value
		for _, v := range pairs {
			valueSample = v
			break
		}
		value, err := scalarSchemaNode("value", valueSample)
		if err != nil {
			return jsonSchemaNode{}, err
		}
		return jsonSchemaNode{
			Tag: fmt.Sprintf("type=MAP, name=%s, repetitiontype=OPTIONAL", name),
			Fields: []jsonSchemaNode{
				{Tag: "type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=key, repetitiontype=REQUIRED"},
				value,
			},
		}, nil
	default:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=%s, repetitiontype=OPTIONAL", name)}, nil
	}
}

func scalarSchemaNode(name string, sample xframe.Value) (jsonSchemaNode, error) {
	switch sample.(type) {
	case int64:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=INT64, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case float64:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=DOUBLE, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case bool:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=BOOLEAN, name=%s, repetitiontype=OPTIONAL", name)}, nil
	case string:
		return jsonSchemaNode{Tag: fmt.Sprintf("type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=%s, repetitiontype=OPTIONAL", name)}, nil
	default:
		return jsonSchemaNode{}, errors.SchemaMismatchError{
			Message: fmt.Sprintf("value %#v is not representable in parquet", sample),
		}
	}
}

// storedColumnNames recovers the exact column names recorded by
// SaveParquet, or nil for files written elsewhere
func storedColumnNames(kvs []*parquet.KeyValue) []string {
	for _, kv := range kvs {
		if kv.Key != columnNamesMetaKey || kv.Value == nil {
			continue
		}
		var names []string
		if err := json.Unmarshal([]byte(*kv.Value), &names); err != nil {
			return nil
		}
		return names
	}
	return nil
}

// footerColumns walks the direct children of the footer schema root,
// skipping nested group subtrees
func footerColumns(elems []*parquet.SchemaElement) ([]string, []xframe.ColumnType) {
	var names []string
	var types []xframe.ColumnType
	i := 1
	for i < len(elems) {
		el := elems[i]
		names = append(names, el.GetName())
		types = append(types, footerColumnType(el))
		i = skipSubtree(elems, i)
	}
	return names, types
}

// skipSubtree returns the index just past the subtree rooted at i
func skipSubtree(elems []*parquet.SchemaElement, i int) int {
	n := int(elems[i].GetNumChildren())
	i++
	for c := 0; c < n; c++ {
		i = skipSubtree(elems, i)
	}
	return i
}

func footerColumnType(el *parquet.SchemaElement) xframe.ColumnType {
	if el.ConvertedType != nil {
		switch *el.ConvertedType {
		case parquet.ConvertedType_LIST:
			return xframe.ListType
		case parquet.ConvertedType_MAP, parquet.ConvertedType_MAP_KEY_VALUE:
			return xframe.MapType
		case parquet.ConvertedType_UTF8:
			return xframe.StringType
		}
	}
	if el.Type == nil {
		return xframe.StringType
	}
	switch *el.Type {
	case parquet.Type_BOOLEAN:
		return xframe.BoolType
	case parquet.Type_INT32, parquet.Type_INT64:
		return xframe.IntType
	case parquet.Type_FLOAT, parquet.Type_DOUBLE:
		return xframe.FloatType
	default:
		return xframe.StringType
	}
}

// normalizeParquetValue maps the reader's physical representation onto
// cell values: optional fields arrive as pointers, lists as slices,
// mappings as maps
func normalizeParquetValue(v interface{}) xframe.Value {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case int32:
		return int64(t)
	case int64:
		return t
	case float32:
		return float64(t)
	case float64:
		return t
	case bool:
		return t
	case string:
		return t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalizeParquetValue(rv.Elem().Interface())
	case reflect.Slice:
		out := make([]xframe.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeParquetValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]xframe.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(normalizeParquetValue(iter.Key().Interface()))] = normalizeParquetValue(iter.Value().Interface())
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}
