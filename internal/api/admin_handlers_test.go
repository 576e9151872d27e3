package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slidecast/slidecast-go/internal/jobs"
	"github.com/slidecast/slidecast-go/internal/testutil"
)

func TestAdminHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Jobs Status", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/admin/jobs/status", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
		}

		var statuses []*jobs.JobStatus
		if err := json.Unmarshal(rr.Body.Bytes(), &statuses); err != nil {
			t.Fatalf("bad status payload: %v", err)
		}
		var found bool
		for _, s := range statuses {
			if s.ID == "artifact-cleanup" {
				found = true
			}
		}
		if !found {
			t.Error("artifact-cleanup job not registered")
		}
	})

	t.Run("Run Job", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"job_name": "artifact-cleanup"})
		req, _ := http.NewRequest("POST", "/api/admin/jobs/run", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusAccepted {
			t.Errorf("got %d, want %d: %s", rr.Code, http.StatusAccepted, rr.Body.String())
		}
	})

	t.Run("Run Unknown Job", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"job_name": "no-such-job"})
		req, _ := http.NewRequest("POST", "/api/admin/jobs/run", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusConflict {
			t.Errorf("got %d, want %d", rr.Code, http.StatusConflict)
		}
	})

	t.Run("Get Version", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/version", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}
	})

	t.Run("Health", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
		}
	})
}
