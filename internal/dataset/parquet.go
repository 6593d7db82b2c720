package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

const parquetBatchRows = 1000

// readParquet reads every row group of a Parquet file into b.
// Uses the generic row reader with leaf column indices so that optional
// columns may be absent from the schema.
func readParquet(data []byte, b *builder) error {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open parquet: %w", err)
	}

	cols := resolveColumns(pf)
	if err := b.checkColumns(cols); err != nil {
		return err
	}

	leaves := newLeafColumns(cols)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, leaves, b); err != nil {
			return err
		}
	}
	return nil
}

// resolveColumns maps known top-level column names to leaf indices.
func resolveColumns(pf *parquet.File) map[string]int {
	cols := make(map[string]int)
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case colName, colCategory, colPriceLevel, colStreet, colPhone, colURL, colRating:
			if _, dup := cols[path[0]]; !dup {
				cols[path[0]] = i
			}
		}
	}
	return cols
}

// leafColumns holds leaf indices of the known columns, -1 when absent.
type leafColumns struct {
	name, category, priceLevel, street, phone, url, rating int
}

func newLeafColumns(cols map[string]int) leafColumns {
	idx := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}
		return -1
	}
	return leafColumns{
		name:       idx(colName),
		category:   idx(colCategory),
		priceLevel: idx(colPriceLevel),
		street:     idx(colStreet),
		phone:      idx(colPhone),
		url:        idx(colURL),
		rating:     idx(colRating),
	}
}

func readRowGroup(rg parquet.RowGroup, cols leafColumns, b *builder) error {
	rows := parquet.NewRowGroupReader(rg)
	buf := make([]parquet.Row, parquetBatchRows)

	for {
		n, readErr := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			row := rowToRaw(buf[i], cols)
			b.add(&row)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read rows: %w", readErr)
		}
	}
}

// rowToRaw extracts the known columns from a generic parquet row.
func rowToRaw(row parquet.Row, cols leafColumns) rawRow {
	var r rawRow
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.name:
			r.name = v.String()
		case cols.category:
			r.category = v.String()
		case cols.priceLevel:
			r.priceLevel = v.String()
		case cols.street:
			r.street = v.String()
		case cols.phone:
			r.phone = v.String()
		case cols.url:
			r.url = v.String()
		case cols.rating:
			r.rating = valueText(v)
		}
	}
	return r
}

// valueText renders numeric and byte-array values as text for parsing.
func valueText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	default:
		return v.String()
	}
}
