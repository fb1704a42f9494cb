// Package importer loads catalog CSV exports into the products table.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product CSV exports and inserts/updates products keyed
// by name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	createdBy   string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, createdBy string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		createdBy:   createdBy,
	}
}

// Run parses CSV rows and upserts one product per row. It stops at the first
// bad row and reports how many rows landed before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		p.CreatedBy = i.createdBy
		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		return nil, nil
	}
	category := pick(record, index, "category")
	if category == "" {
		return nil, fmt.Errorf("row for %q: category required", name)
	}

	priceCents, err := strconv.ParseInt(pick(record, index, "priceCents"), 10, 64)
	if err != nil || priceCents < 0 {
		return nil, fmt.Errorf("row for %q: bad priceCents", name)
	}

	p := &domain.Product{
		Name:        name,
		Category:    category,
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
		PriceCents:  priceCents,
	}

	if s := pick(record, index, "originalPriceCents"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row for %q: bad originalPriceCents", name)
		}
		p.OriginalPriceCents = &v
	}
	if s := pick(record, index, "rating"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 5 {
			return nil, fmt.Errorf("row for %q: bad rating", name)
		}
		p.Rating = v
	}
	if s := pick(record, index, "reviews"); s != "" {
		p.Reviews, _ = strconv.Atoi(s)
	}
	if s := pick(record, index, "stock"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("row for %q: bad stock", name)
		}
		p.Stock = v
	}
	if s := pick(record, index, "isFeatured"); s != "" {
		p.IsFeatured, _ = strconv.ParseBool(s)
	}

	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
