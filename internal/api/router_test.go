package api

import (
	"context"
	"encoding/json"
	"forklift-route-agent/internal/api/dto"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	query string
	reqID string
}

func (f *fakeAgent) Answer(ctx context.Context, query string) (*domain.RunResult, string) {
	f.query = query
	f.reqID = obs.RequestID(ctx)

	v := domain.VehicleRoute{Route: []int{0, 1, 5, 0}, Type: []string{"Depot", "Pickup", "Delivery", "Depot"}}
	return &domain.RunResult{
		RunID:     "run-1",
		QueryType: domain.QueryRouteOptimization,
		Solution: &domain.SolutionRecord{
			SolutionCost:   9,
			VehicleData:    map[string]domain.VehicleRoute{"0": v},
			ReadableRoutes: map[string][]string{"0": domain.ReadableRoute(v)},
		},
		Errors: []string{},
		Logs:   []string{"Starting query processing workflow"},
		Charts: &domain.ChartSet{
			GanttPath:    "out/g.png",
			NetworkPaths: map[string]string{"0": "out/n1.png"},
		},
	}, "**Solution Details:**\n- Total Cost: 9\n"
}

type fakeOrders struct{}

func (fakeOrders) ListOrders(ctx context.Context) (domain.OrderSet, error) {
	return domain.DefaultOrders(), nil
}

func TestHealth(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListOrders(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Orders, 9)
	assert.Equal(t, 8, res.Orders[8].Index)
	assert.Equal(t, 8, res.Orders[8].DeliveryLocation)
}

func TestCreateQuery(t *testing.T) {
	agent := &fakeAgent{}
	h := NewRouter(agent, fakeOrders{})

	req := httptest.NewRequest(http.MethodPost, "/queries", strings.NewReader(`{"query":"  use 2 forklifts "}`))
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "use 2 forklifts", agent.query)
	assert.Equal(t, "abc-123", agent.reqID)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	var res dto.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "run-1", res.RunID)
	require.NotNil(t, res.Solution)
	require.Len(t, res.Solution.Routes, 1)
	assert.Equal(t, 1, res.Solution.Routes[0].Forklift)
	assert.Equal(t, []string{"out/g.png", "out/n1.png"}, res.Charts)
	assert.Contains(t, res.Response, "Total Cost: 9")
}

func TestCreateQueryRejectsBadInput(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	for _, body := range []string{
		`not json`,
		`{"query":""}`,
		`{"query":"a","extra":1}`,
		`{"query":"a"}{"query":"b"}`,
		`{"query":"` + strings.Repeat("x", maxQueryLengthForTest+1) + `"}`,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/queries", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %.40q", body)
	}
}

const maxQueryLengthForTest = 4000

func TestMethodNotAllowed(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agent_http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestErrorBodyCarriesRequestID(t *testing.T) {
	h := NewRouter(&fakeAgent{}, fakeOrders{})

	req := httptest.NewRequest(http.MethodPost, "/queries", strings.NewReader(`{"query":""}`))
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"query is required","request_id":"req-42"}`, rec.Body.String())
}
