package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/parser"
)

const sampleCSV = `case_id,activity_name,timestamp
c1,a,2023-01-01 10:00:00
c1,b,2023-01-01 10:00:01
c1,d,2023-01-01 10:00:02
c2,a,2023-01-02 10:00:00
c2,c,2023-01-02 10:00:01
c2,d,2023-01-02 10:00:02
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(parser.DefaultConfig(), discovery.Options{}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func uploadLog(t *testing.T, url, filename, content string, fields map[string]string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()

	resp, err := http.Post(url+"/api/discover", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeJob(t *testing.T, resp *http.Response) Job {
	t.Helper()
	defer resp.Body.Close()
	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatal(err)
	}
	return job
}

// waitForJob polls until the job leaves the running states.
func waitForJob(t *testing.T, url, id string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/api/jobs/" + id)
		if err != nil {
			t.Fatal(err)
		}
		job := decodeJob(t, resp)
		if job.Status == "completed" || job.Status == "failed" {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return Job{}
}

func TestDiscoverEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := uploadLog(t, ts.URL, "events.csv", sampleCSV, nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	job := decodeJob(t, resp)
	if job.ID == "" || job.InputName != "events.csv" {
		t.Fatalf("unexpected job: %+v", job)
	}
	// The accepted response is written before the worker may touch the
	// job, so it always reports the pending state.
	if job.Status != "pending" {
		t.Errorf("accepted status = %q, want pending", job.Status)
	}

	done := waitForJob(t, ts.URL, job.ID)
	if done.Status != "completed" {
		t.Fatalf("job failed: %s", done.Error)
	}
	if done.Result == nil || done.Result.TotalCases != 2 {
		t.Fatalf("unexpected result: %+v", done.Result)
	}
	if done.EndTime == nil {
		t.Error("completed job must carry an end time")
	}
}

func TestDiscoverEndpointConcurrentUploads(t *testing.T) {
	ts := newTestServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := uploadLog(t, ts.URL, "events.csv", sampleCSV, nil)
			job := decodeJob(t, resp)
			done := waitForJob(t, ts.URL, job.ID)
			if done.Status != "completed" {
				t.Errorf("job failed: %s", done.Error)
			}
		}()
	}
	wg.Wait()
}

func TestDiscoverEndpointBadLog(t *testing.T) {
	ts := newTestServer(t)

	resp := uploadLog(t, ts.URL, "events.csv", "case_id,timestamp\nc1,2023-01-01 10:00:00\n", nil)
	job := decodeJob(t, resp)

	done := waitForJob(t, ts.URL, job.ID)
	if done.Status != "failed" {
		t.Fatalf("status = %q, want failed", done.Status)
	}
	if done.Error == "" {
		t.Error("failed job must carry an error message")
	}
}

func TestDiscoverEndpointUnknownFormat(t *testing.T) {
	ts := newTestServer(t)
	resp := uploadLog(t, ts.URL, "events.parquet", "data", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDiscoverEndpointInvalidMinFrequency(t *testing.T) {
	ts := newTestServer(t)
	resp := uploadLog(t, ts.URL, "events.csv", sampleCSV, map[string]string{"min_frequency": "2.5"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDiscoverEndpointExplicitFormat(t *testing.T) {
	ts := newTestServer(t)
	resp := uploadLog(t, ts.URL, "upload.bin", sampleCSV, map[string]string{"format": "csv"})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	job := decodeJob(t, resp)
	done := waitForJob(t, ts.URL, job.ID)
	if done.Status != "completed" {
		t.Fatalf("job failed: %s", done.Error)
	}
}

func TestJobNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/jobs/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
