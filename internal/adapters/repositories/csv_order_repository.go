package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultCSVPaths are searched after the configured path.
var DefaultCSVPaths = []string{
	"transport_order_data.csv",
	"data/transport_order_data.csv",
}

// CSVOrderRepository reads orders from the first CSV file that exists.
type CSVOrderRepository struct {
	Paths []string
}

// NewCSVOrderRepository searches path (when set) and then DefaultCSVPaths.
func NewCSVOrderRepository(path string) *CSVOrderRepository {
	paths := make([]string, 0, 1+len(DefaultCSVPaths))
	if strings.TrimSpace(path) != "" {
		paths = append(paths, path)
	}
	paths = append(paths, DefaultCSVPaths...)
	return &CSVOrderRepository{Paths: paths}
}

func (c *CSVOrderRepository) ListOrders(ctx context.Context) (_ domain.OrderSet, err error) {
	defer obs.Time(ctx, "orders.csv.ListOrders")(&err)

	for _, p := range c.Paths {
		orders, err := ReadOrdersCSVFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 {
			continue
		}
		return orders, nil
	}
	return nil, fmt.Errorf("list orders: no csv file found: %w", ports.ErrNoOrderSource)
}

// ReadOrdersCSVFile parses the order file at path.
func ReadOrdersCSVFile(path string) (domain.OrderSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	orders, err := ReadOrdersCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return orders, nil
}

// ReadOrdersCSV parses orders from r. The header must name every order
// column; extra columns (such as an index column) are ignored. Row numbers
// in errors are 0-based data rows.
func ReadOrdersCSV(r io.Reader) (domain.OrderSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.OrderSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(domain.OrderColumns))
	for i, name := range domain.OrderColumns {
		idx, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("header: missing column %q", name)
		}
		cols[i] = idx
	}

	orders := make(domain.OrderSet, 0, 16)
	for row := 0; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		values := make([]int, len(cols))
		for i, idx := range cols {
			if idx >= len(record) {
				return nil, fmt.Errorf("row %d: missing value for %s", row, domain.OrderColumns[i])
			}
			v, err := parseCell(record[idx])
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", row, domain.OrderColumns[i], err)
			}
			values[i] = v
		}

		o, err := domain.OrderFromValues(values)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// parseCell accepts integers and integral floats such as "10.0".
func parseCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
