package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

// readCSV parses a header-first CSV table into b.
func readCSV(data []byte, b *builder) error {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte(utf8BOM))))
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty file")
		}
		return fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if err := b.checkColumns(cols); err != nil {
		return err
	}

	cell := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			switch {
			case errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount):
				b.skip(SkipFieldCount)
				continue
			case errors.As(err, &pe) && (errors.Is(pe.Err, csv.ErrBareQuote) || errors.Is(pe.Err, csv.ErrQuote)):
				b.skip(SkipMalformed)
				continue
			}
			return fmt.Errorf("read csv: %w", err)
		}

		b.add(&rawRow{
			name:       cell(rec, colName),
			category:   cell(rec, colCategory),
			priceLevel: cell(rec, colPriceLevel),
			street:     cell(rec, colStreet),
			phone:      cell(rec, colPhone),
			url:        cell(rec, colURL),
			rating:     cell(rec, colRating),
		})
	}
}
