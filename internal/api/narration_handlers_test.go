package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slidecast/slidecast-go/internal/models"
	"github.com/slidecast/slidecast-go/internal/testutil"
)

func submitPresentation(t *testing.T, router http.Handler, p *models.Presentation) string {
	t.Helper()
	body, _ := json.Marshal(p)
	req, _ := http.NewRequest("POST", "/api/narrations", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("submit returned %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad submit response: %v", err)
	}
	if resp["job_id"] == "" {
		t.Fatal("submit response has no job_id")
	}
	return resp["job_id"]
}

func waitForCompletion(t *testing.T, router http.Handler, jobID string) models.JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequest("GET", "/api/narrations/"+jobID, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status returned %d: %s", rr.Code, rr.Body.String())
		}
		var snap models.JobSnapshot
		if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
			t.Fatalf("bad status response: %v", err)
		}
		if snap.Status.Terminal() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never finished")
	return models.JobSnapshot{}
}

func TestNarrationLifecycle(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	jobID := submitPresentation(t, router, &models.Presentation{
		Title: "Demo deck",
		Slides: []models.Slide{
			{Number: 1, Content: "Welcome everyone to this short demo."},
			{Number: 2, Content: "Thanks for watching, see you next time."},
		},
	})

	snap := waitForCompletion(t, router, jobID)
	if snap.Status != models.JobStatusCompleted {
		t.Fatalf("job status = %s, error = %s", snap.Status, snap.Error)
	}
	if len(snap.SlideResults) != 2 {
		t.Errorf("expected 2 slide results, got %d", len(snap.SlideResults))
	}
}

func TestSubmitNarrationBadPayload(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	req, _ := http.NewRequest("POST", "/api/narrations", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rr.Code)
	}
}

func TestSubmitNarrationNoSlides(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	body, _ := json.Marshal(&models.Presentation{Title: "empty"})
	req, _ := http.NewRequest("POST", "/api/narrations", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400: %s", rr.Code, rr.Body.String())
	}
}

func TestGetNarrationStatusNotFound(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	req, _ := http.NewRequest("GET", "/api/narrations/no-such-job", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rr.Code)
	}
}

func TestCancelNarration(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()

	t.Run("Unknown Job", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/narrations/no-such-job/cancel", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rr.Code)
		}
	})

	t.Run("Finished Job", func(t *testing.T) {
		jobID := submitPresentation(t, router, &models.Presentation{
			Slides: []models.Slide{{Number: 1, Content: "One quick slide."}},
		})
		waitForCompletion(t, router, jobID)

		req, _ := http.NewRequest("POST", "/api/narrations/"+jobID+"/cancel", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusConflict {
			t.Errorf("got %d, want 409: %s", rr.Code, rr.Body.String())
		}
	})
}
