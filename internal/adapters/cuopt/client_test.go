package cuopt

import (
	"context"
	"encoding/json"
	"errors"
	"forklift-route-agent/internal/domain"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{
  "reqId": "abc",
  "response": {
    "solver_response": {
      "status": 0,
      "num_vehicles": 1,
      "solution_cost": 14.0,
      "vehicle_data": {
        "0": {
          "task_id": ["Depot", "0", "1", "Depot"],
          "arrival_stamp": [0, 1, 2, 7, 12],
          "route": [0, 1, 1, 5, 0],
          "type": ["Depot", "w", "Pickup", "Delivery", "Depot"]
        }
      }
    }
  }
}`

func testProblem() *domain.SolverProblem {
	return &domain.SolverProblem{
		CostWaypointGraphData: domain.CostWaypointGraphData{
			WaypointGraph: map[string]domain.WaypointGraph{"0": domain.DefaultWaypointGraph()},
		},
		TaskData: domain.TaskData{
			TaskLocations:          []int{1, 5},
			Demand:                 [][]int{{1, -1}},
			TaskTimeWindows:        [][]int{{0, 10}, {0, 55}},
			ServiceTimes:           []int{2, 2},
			PickupAndDeliveryPairs: [][]int{{0, 1}},
		},
		FleetData: domain.FleetData{
			VehicleLocations:   [][]int{{0, 0}},
			Capacities:         [][]int{{1}},
			VehicleTimeWindows: [][]int{{0, 100}},
		},
		SolverConfig: domain.SolverConfig{TimeLimit: 5},
	}
}

func newTestClient(srv *httptest.Server, key string) *Client {
	return New(Options{
		APIKey:       key,
		InvokeURL:    srv.URL + "/invoke",
		StatusURL:    srv.URL + "/status/",
		PollInterval: time.Millisecond,
		MaxPolls:     5,
		HTTPClient:   srv.Client(),
	})
}

func TestSolveAcceptedThenSuccess(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/invoke":
			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.JSONEq(t, `"cuOpt_OptimizedRouting"`, string(body["action"]))
			assert.Contains(t, string(body["data"]), `"task_locations":[1,5]`)

			w.Header().Set("NVCF-REQID", "req-42")
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodGet && r.URL.Path == "/status/req-42":
			if atomic.AddInt32(&polls, 1) < 2 {
				w.Header().Set("NVCF-REQID", "req-42")
				w.WriteHeader(http.StatusAccepted)
				return
			}
			_, _ = io.WriteString(w, successBody)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	sol, err := newTestClient(srv, "secret").Solve(context.Background(), testProblem())
	require.NoError(t, err)

	assert.Equal(t, 0, sol.Status)
	assert.Equal(t, 14.0, sol.SolutionCost)
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls))
	assert.Equal(t, []string{"Depot: Forklift", "Pickup: Insulation", "Delivery: Truck 1", "Depot: Forklift"}, sol.ReadableRoutes["0"])
	assert.Len(t, sol.VehicleData["0"].Type, 5, "vehicle data must stay unfiltered")
}

func TestSolveMissingAPIKeyMakesNoCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "  ").Solve(context.Background(), testProblem())

	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "No API key provided")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSolveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "secret").Solve(context.Background(), testProblem())

	var he *HTTPStatusError
	require.True(t, errors.As(err, &he), "err = %v", err)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Contains(t, he.Body, "upstream exploded")
}

func TestSolveInvalidShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response": {"something_else": {}}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "secret").Solve(context.Background(), testProblem())
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSolvePollLimit(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&polls, 1)
		}
		w.Header().Set("NVCF-REQID", "slow")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "secret").Solve(context.Background(), testProblem())

	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, int32(5), atomic.LoadInt32(&polls))
}

func TestSolveAcceptedWithoutRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "secret").Solve(context.Background(), testProblem())
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSolveRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("NVCF-REQID", "slow")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := newTestClient(srv, "secret")
	c.pollInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Solve(ctx, testProblem())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]*domain.SolutionRecord
}

func (m *mapCache) Get(ctx context.Context, key string) (*domain.SolutionRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[key]
	return s, ok, nil
}

func (m *mapCache) Put(ctx context.Context, key string, s *domain.SolutionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = s
	return nil
}

func TestSolveUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, successBody)
	}))
	defer srv.Close()

	c := newTestClient(srv, "secret")
	c.cache = &mapCache{data: map[string]*domain.SolutionRecord{}}

	first, err := c.Solve(context.Background(), testProblem())
	require.NoError(t, err)
	second, err := c.Solve(context.Background(), testProblem())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
}

func TestNormalizeRejectsMismatchedVehicleArrays(t *testing.T) {
	body := `{"response":{"solver_response":{"status":0,"solution_cost":1,
	"vehicle_data":{"0":{"route":[0,1],"type":["Depot"]}}}}}`

	_, err := Normalize([]byte(body))
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestProblemKeyStable(t *testing.T) {
	a, b := testProblem(), testProblem()
	assert.Equal(t, ProblemKey(a), ProblemKey(b))

	b.FleetData.Capacities = [][]int{{2}}
	assert.NotEqual(t, ProblemKey(a), ProblemKey(b))
	assert.False(t, strings.ContainsAny(ProblemKey(a), "+/="))
}
