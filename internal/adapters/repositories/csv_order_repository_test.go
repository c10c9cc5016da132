package repositories

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/ports"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `,pickup_location,delivery_location,order_demand,earliest_pickup,latest_pickup,pickup_service_time,earliest_delivery,latest_delivery,delivery_service_time
0,1,5,1,0,10,2,0,55,2
1,1,5,1,0,20.0,2,0,55,2
`

func TestReadOrdersCSV(t *testing.T) {
	orders, err := ReadOrdersCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, domain.DefaultOrders()[0], orders[0])
	require.Equal(t, 20, orders[1].LatestPickup)
}

func TestReadOrdersCSVMissingColumn(t *testing.T) {
	_, err := ReadOrdersCSV(strings.NewReader("pickup_location,delivery_location\n1,5\n"))
	require.ErrorContains(t, err, "missing column")
}

func TestReadOrdersCSVNamesBadRow(t *testing.T) {
	bad := sampleCSV + "2,1,5,1,0,x,2,0,55,2\n"

	_, err := ReadOrdersCSV(strings.NewReader(bad))
	require.ErrorContains(t, err, "row 2")
}

func TestReadOrdersCSVRejectsInvalidOrder(t *testing.T) {
	bad := sampleCSV + "2,1,42,1,0,10,2,0,55,2\n"

	_, err := ReadOrdersCSV(strings.NewReader(bad))
	require.ErrorContains(t, err, "row 2")
}

func TestCSVOrderRepositorySearchesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	repo := &CSVOrderRepository{Paths: []string{filepath.Join(dir, "missing.csv"), path}}
	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestCSVOrderRepositoryNoFile(t *testing.T) {
	repo := &CSVOrderRepository{Paths: []string{filepath.Join(t.TempDir(), "missing.csv")}}

	_, err := repo.ListOrders(context.Background())
	if !errors.Is(err, ports.ErrNoOrderSource) {
		t.Fatalf("err = %v, want ErrNoOrderSource", err)
	}
}
