package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/automigration"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/proxy"
)

const (
	testOwner = "market_owner"
	testKeyA  = "registrar_key_a"
)

func setupServer(t *testing.T) *mux.Router {
	t.Helper()

	gdb, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, automigration.MigrateSchema(gdb))

	p := proxy.New()
	require.NoError(t, p.Construct(context.Background(), testOwner, marketplace.SelInitialize, &marketplace.V1{}))

	// keep the limiter out of the way in tests
	config.Configuration.GeneralRPS = 10000

	logicRegistry = map[string]marketplace.Logic{}
	RegisterLogic(&marketplace.V1{})
	RegisterLogic(&marketplace.V2{})

	r := mux.NewRouter()
	SetupHandlers(r, p)
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, path, clientID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set(common.ClientHeader, clientID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestOwnerEndpoint(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/v1/marketplace/owner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, testOwner, decodeBody(t, w)["owner"])
}

func TestRegisterUserEndpoint_Unauthorized(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/v1/marketplace/user", "mallory", map[string]interface{}{
		"ref_id":          "ref-1",
		"initial_balance": 100,
		"name":            "Mallory",
		"address":         "mallory",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unauthorized_call", w.Header().Get(common.AppErrorHeader))

	body := decodeBody(t, w)
	require.Contains(t, body["error"], "Unauthorized call")
}

func TestMarketplaceFlow(t *testing.T) {
	clock := common.Timestamp(1_700_000_000)
	restore := common.SetNowFunc(func() common.Timestamp { return clock })
	defer restore()

	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/v1/marketplace/keys", testOwner, map[string]interface{}{
		"key_a": testKeyA,
		"key_b": "registrar_key_b",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", decodeBody(t, w)["status"])

	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/user", testOwner, map[string]interface{}{
		"ref_id":          "ref-1",
		"initial_balance": 100,
		"name":            "Renter One",
		"address":         "renter_1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/machine", testKeyA, map[string]interface{}{
		"cpu":            "AMD EPYC 7543",
		"gpu":            "NVIDIA A100",
		"vcpus":          32,
		"ram_gb":         128,
		"storage_gb":     2000,
		"net_speed":      10000,
		"ip":             "10.1.2.3",
		"ports":          []int{22, 8080},
		"region":         "us-east",
		"price_per_hour": 8,
		"owner":          "provider_1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(10001), decodeBody(t, w)["id"])

	w = doRequest(t, r, http.MethodGet, "/v1/marketplace/machine/10001", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "NVIDIA A100", decodeBody(t, w)["gpu"])

	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/rent", "renter_1", map[string]interface{}{
		"machine_id":     10001,
		"duration_hours": 2,
		"price_basis":    16,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decodeBody(t, w)["id"])

	w = doRequest(t, r, http.MethodGet, "/v1/marketplace/user/renter_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(84), decodeBody(t, w)["gpoints"])

	// the lease window has not elapsed yet
	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/order/complete/1", "renter_1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "precondition_not_met", w.Header().Get(common.AppErrorHeader))

	clock += 2 * 3600
	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/order/complete/1", "renter_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decodeBody(t, w)["is_pending"])

	w = doRequest(t, r, http.MethodGet, "/v1/marketplace/order/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decodeBody(t, w)["is_pending"])
}

func TestUpgradeEndpoint(t *testing.T) {
	r := setupServer(t)

	// only the owner may swap implementations
	w := doRequest(t, r, http.MethodPost, "/v1/marketplace/upgrade", "mallory", map[string]interface{}{
		"logic": "gpu_rental_marketplace_v2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unauthorized_call", w.Header().Get(common.AppErrorHeader))

	w = doRequest(t, r, http.MethodPost, "/v1/marketplace/upgrade", testOwner, map[string]interface{}{
		"logic": "gpu_rental_marketplace_v2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "gpu_rental_marketplace_v2", body["logic"])
	require.Equal(t, float64(2), body["version"])
}

func TestUpgradeEndpoint_UnknownLogic(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/v1/marketplace/upgrade", testOwner, map[string]interface{}{
		"logic": "nonesuch",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "unknown_logic", w.Header().Get(common.AppErrorHeader))
}

func TestGetMachineEndpoint_BadID(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodGet, "/v1/marketplace/machine/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid_request", w.Header().Get(common.AppErrorHeader))
}
