package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fleetforge/scheduler/scheduler"
	"github.com/fleetforge/scheduler/state"
	"github.com/fleetforge/scheduler/structs"
)

func testServer(t *testing.T) (http.Handler, *state.Store) {
	t.Helper()
	store, err := state.NewStore()
	require.NoError(t, err)
	cache, err := state.NewDependencyCache(64)
	require.NoError(t, err)
	clock := state.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	queue := scheduler.NewPendingQueue()
	oracle := scheduler.NewDependencyOracle(store, cache)
	sched := scheduler.New(store, store, store, queue, oracle, clock, nil)
	return NewServer(sched, store, nil), store
}

func TestHandleSubmit_AdmitsWhenCapacityFits(t *testing.T) {
	server, store := testServer(t)
	require.NoError(t, store.PutCluster(&structs.Cluster{
		ID: "c1", TotalRam: decimal.NewFromInt(32), TotalCpu: decimal.NewFromInt(8), TotalGpu: 2,
		AvailRam: decimal.NewFromInt(32), AvailCpu: decimal.NewFromInt(8), AvailGpu: 2,
	}))

	body, _ := json.Marshal(submitRequest{
		Name: "d1", Image: "img", ClusterID: "c1", UserID: "u1",
		ReqRam: 4, ReqCpu: 2, ReqGpu: 1, Priority: "medium",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/deployments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got structs.Deployment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, structs.DeploymentStatusRunning, got.Status)
}

func TestHandleSubmit_ClusterMissingIsBadRequest(t *testing.T) {
	server, _ := testServer(t)

	body, _ := json.Marshal(submitRequest{Name: "d1", Image: "img", ClusterID: "nope", Priority: "low"})
	req := httptest.NewRequest(http.MethodPost, "/v1/deployments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCancel(t *testing.T) {
	server, store := testServer(t)
	require.NoError(t, store.PutDeployment(&structs.Deployment{
		ID: "d1", ClusterID: "c1", Status: structs.DeploymentStatusQueued,
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/deployment/d1/cancel?user=u1", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.True(t, got["cancelled"])
}

func TestHandleList_RequiresScopeOrFilter(t *testing.T) {
	server, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/deployments", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleList_Filter(t *testing.T) {
	server, store := testServer(t)
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "d1", Status: structs.DeploymentStatusRunning}))
	require.NoError(t, store.PutDeployment(&structs.Deployment{ID: "d2", Status: structs.DeploymentStatusQueued}))

	req := httptest.NewRequest(http.MethodGet, `/v1/deployments?filter=Status+==+"running"`, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*structs.Deployment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "d1", got[0].ID)
}
