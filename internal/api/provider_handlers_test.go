package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/testutil"
)

func listProviders(t *testing.T, router http.Handler) []models.ProviderInfo {
	t.Helper()
	req, _ := http.NewRequest("GET", "/api/providers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list providers returned %d", rr.Code)
	}
	var infos []models.ProviderInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &infos); err != nil {
		t.Fatalf("bad provider list: %v", err)
	}
	return infos
}

func TestProviderHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	infos := listProviders(t, router)
	if len(infos) != 1 || infos[0].Name != "mockvoice" || !infos[0].Available {
		t.Fatalf("unexpected provider list: %+v", infos)
	}

	t.Run("Disable", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/providers/mockvoice/disable", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("disable returned %d", rr.Code)
		}

		infos := listProviders(t, router)
		if infos[0].Available {
			t.Error("provider still listed as available")
		}
		if infos[0].DisabledReason == "" {
			t.Error("disabled provider has no reason")
		}
	})

	t.Run("Enable", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/providers/mockvoice/enable", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("enable returned %d", rr.Code)
		}

		infos := listProviders(t, router)
		if !infos[0].Available {
			t.Error("provider still listed as disabled")
		}
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		for _, action := range []string{"enable", "disable"} {
			req, _ := http.NewRequest("POST", "/api/providers/no-such/"+action, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != http.StatusNotFound {
				t.Errorf("%s returned %d, want 404", action, rr.Code)
			}
		}
	})
}
