package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhisek/riskscan/internal/quiz"
)

func testCatalog(t *testing.T) (*quiz.Catalog, []quiz.RiskBand) {
	t.Helper()
	cat, err := quiz.NewCatalog([]quiz.Question{
		{
			ID: "type", Text: "Which area concerns you?", Type: quiz.TypeSelect,
			Weight:   0,
			Options:  []string{"General", "Lung"},
			Branches: map[string]string{"Lung": "smoker", "default": "age"},
		},
		{ID: "age", Text: "Are you over 50?", Type: quiz.TypeBoolean, Weight: 10},
		{ID: "exercise", Text: "Hours of exercise per week?", Type: quiz.TypeRange, Weight: 10, Min: 0, Max: 10, Branches: map[string]string{"default": "smoker"}},
		{ID: "smoker", Text: "Do you smoke?", Type: quiz.TypeBoolean, Weight: 30},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	bands := []quiz.RiskBand{
		{Label: "Low", MinScore: 0, MaxScore: 20},
		{Label: "High", MinScore: 21, MaxScore: 50},
	}
	return cat, bands
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, bands := testCatalog(t)
	srv := New(Params{
		Catalog:  cat,
		Bands:    bands,
		Registry: NewMemoryRegistry(0),
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, stepPayload) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var payload stepPayload
	if resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, payload
}

func createSession(t *testing.T, ts *httptest.Server) stepPayload {
	t.Helper()
	resp, payload := postJSON(t, ts.URL+"/api/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	return payload
}

func answer(t *testing.T, ts *httptest.Server, sessionID, questionID string, value any) stepPayload {
	t.Helper()
	url := fmt.Sprintf("%s/api/sessions/%s/answers", ts.URL, sessionID)
	resp, payload := postJSON(t, url, answerRequest{
		QuestionID: questionID,
		Value:      mustRaw(t, value),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer %s: status %d", questionID, resp.StatusCode)
	}
	return payload
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	return data
}

func TestServer_FullAssessmentFlow(t *testing.T) {
	ts := newTestServer(t)

	created := createSession(t, ts)
	if created.Question == nil || created.Question.ID != "type" {
		t.Fatalf("expected root question, got %+v", created.Question)
	}

	// Lung branch skips the age question.
	step := answer(t, ts, created.SessionID, "type", "Lung")
	if step.Question == nil || step.Question.ID != "smoker" {
		t.Fatalf("expected smoker next, got %+v", step.Question)
	}

	step = answer(t, ts, created.SessionID, "smoker", true)
	if step.Result == nil {
		t.Fatalf("expected final result, got %+v", step)
	}
	if step.Result.TotalScore != 30 {
		t.Errorf("TotalScore = %d, want 30", step.Result.TotalScore)
	}
	if step.Result.Band != "High" {
		t.Errorf("Band = %q, want High", step.Result.Band)
	}

	// Result endpoint serves the frozen outcome.
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/result", ts.URL, created.SessionID))
	if err != nil {
		t.Fatalf("GET result: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET result: status %d", resp.StatusCode)
	}
}

func TestServer_DefaultBranchFlow(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts)

	step := answer(t, ts, created.SessionID, "type", "General")
	if step.Question == nil || step.Question.ID != "age" {
		t.Fatalf("expected age next, got %+v", step.Question)
	}

	step = answer(t, ts, created.SessionID, "age", false)
	if step.Question == nil || step.Question.ID != "exercise" {
		t.Fatalf("expected exercise next, got %+v", step.Question)
	}
	if step.Question.Min == nil || step.Question.Max == nil {
		t.Fatal("range question should expose min and max")
	}

	step = answer(t, ts, created.SessionID, "exercise", 10)
	if step.Question == nil || step.Question.ID != "smoker" {
		t.Fatalf("expected smoker next, got %+v", step.Question)
	}

	step = answer(t, ts, created.SessionID, "smoker", false)
	if step.Result == nil {
		t.Fatalf("expected result, got %+v", step)
	}
	if step.Result.TotalScore != 10 {
		t.Errorf("TotalScore = %d, want 10", step.Result.TotalScore)
	}
	if step.Result.Band != "Low" {
		t.Errorf("Band = %q, want Low", step.Result.Band)
	}
}

func TestServer_UnknownSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sessions/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_ResultBeforeCompletion(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts)

	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/result", ts.URL, created.SessionID))
	if err != nil {
		t.Fatalf("GET result: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestServer_AnswerWrongQuestion(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts)

	url := fmt.Sprintf("%s/api/sessions/%s/answers", ts.URL, created.SessionID)
	resp, _ := postJSON(t, url, answerRequest{QuestionID: "smoker", Value: mustRaw(t, true)})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestServer_BadValue(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts)

	url := fmt.Sprintf("%s/api/sessions/%s/answers", ts.URL, created.SessionID)
	resp, _ := postJSON(t, url, answerRequest{QuestionID: "type", Value: json.RawMessage(`[1,2]`)})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_DeleteSession(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+created.SessionID, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	getResp, err := http.Get(ts.URL + "/api/sessions/" + created.SessionID)
	if err != nil {
		t.Fatalf("GET after delete: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 after delete", getResp.StatusCode)
	}
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServer_MetricsExposed(t *testing.T) {
	ts := newTestServer(t)
	createSession(t, ts)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
