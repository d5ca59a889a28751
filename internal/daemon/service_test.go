package daemon

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/reserva/internal/logging"
	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const sampleBody = `{
	"fixed_income": 2500,
	"variable_income": "600 a 1000",
	"fixed_expenses": "1800",
	"variable_expenses": "250-400",
	"target": 5000
}`

func newTestService(t *testing.T, buffer int) (*Service, *httptest.Server) {
	t.Helper()
	s := New(Config{EventsBuffer: buffer, Logger: logging.Discard()})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body)) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRecordProjectionRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2, Logger: logging.Discard()})

	for i := 0; i < 3; i++ {
		s.recordProjection(Event{Type: "projection"})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHealth(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp, err := http.Get(srv.URL + "/healthz") //nolint:noctx // test
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestProjections_RunsThreeScenarios(t *testing.T) {
	s, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/projections", sampleBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got ProjectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID == "" {
		t.Fatal("missing projection id")
	}
	if len(got.Outcomes) != 3 || len(got.Summary) != 3 {
		t.Fatalf("outcomes=%d summary=%d, want 3 each", len(got.Outcomes), len(got.Summary))
	}

	wantMonths := map[model.ScenarioKind]int{model.Pessimistic: 6, model.Realistic: 5, model.Optimistic: 4}
	for _, row := range got.Summary {
		if row.MonthsToGoal == nil || *row.MonthsToGoal != wantMonths[row.Scenario] {
			t.Errorf("%s: months = %v, want %d", row.Scenario, row.MonthsToGoal, wantMonths[row.Scenario])
		}
	}
	// max_months was omitted, so the service default applies.
	if got.Outcomes[0].Inputs.MaxMonths != 24 {
		t.Errorf("MaxMonths = %d, want 24", got.Outcomes[0].Inputs.MaxMonths)
	}

	st := s.snapshotStatus()
	if st.ProjectionCount != 1 || st.EventCount != 1 {
		t.Fatalf("status = %+v, want one projection and one event", st)
	}
}

func TestProjections_ValidationFailure(t *testing.T) {
	s, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/projections", `{"fixed_income": "", "target": 0}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Problems) != 3 {
		t.Fatalf("problems = %q, want target, income and expense problems", body.Problems)
	}

	st := s.snapshotStatus()
	if st.RejectedCount != 1 || st.ProjectionCount != 0 || st.EventCount != 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestProjections_MalformedJSON(t *testing.T) {
	_, srv := newTestService(t, 10)

	for _, body := range []string{`{"target": `, `{"target": 5, "bonus": 1}`, `{"target": {"a": 1}}`} {
		resp := post(t, srv.URL+"/v1/projections", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestProject_SingleScenario(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/project",
		`{"fixed_income": "2000", "fixed_expenses": 1800, "variable_income": 0, "variable_expenses": 0, "target": 400, "max_months": 24}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res model.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.GoalReached || res.MonthsToGoal == nil || *res.MonthsToGoal != 2 {
		t.Fatalf("result = %+v, want goal reached in 2 months", res)
	}
	if !res.FinalReserve.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("FinalReserve = %s, want 400", res.FinalReserve)
	}
}

func TestProject_InvalidMonthCap(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/project", `{"fixed_income": 100, "target": 10, "max_months": 0}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Problems) == 0 || !strings.Contains(body.Problems[0], "invalid configuration") {
		t.Fatalf("problems = %q", body.Problems)
	}
}

func TestProject_MonthCapAboveLimit(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/project",
		`{"fixed_income":"1","fixed_expenses":"2","target":"10","max_months":100000000000}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Problems) == 0 || !strings.Contains(body.Problems[0], "at most 1200") {
		t.Fatalf("problems = %q", body.Problems)
	}
}

func TestProjections_MonthCapAboveLimit(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/projections",
		`{"fixed_income":"2500","fixed_expenses":"1800","target":"5000","max_months":100000000000}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestProject_AmountOutOfRange(t *testing.T) {
	_, srv := newTestService(t, 10)

	for _, body := range []string{
		`{"fixed_income":"1e900000000","fixed_expenses":"1","target":"5000","max_months":24}`,
		`{"fixed_income":1e900000000,"fixed_expenses":"1","target":"5000","max_months":24}`,
		`{"fixed_income":"100","variable_expenses":"1e-900000000","target":"5000","max_months":24}`,
		`{"fixed_income":"100","target":"5000000000000","max_months":24}`,
	} {
		resp := post(t, srv.URL+"/v1/project", body)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d, want 422", body, resp.StatusCode)
		}
		var got errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Problems) == 0 || !strings.Contains(got.Problems[0], "amount out of range") {
			t.Fatalf("%s: problems = %q", body, got.Problems)
		}
	}
}

func TestProjections_HugeExponentTreatedAsMissing(t *testing.T) {
	_, srv := newTestService(t, 10)

	resp := post(t, srv.URL+"/v1/projections",
		`{"fixed_income":"1e900000000","fixed_expenses":"1","target":"5000"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Problems) != 1 || body.Problems[0] != projection.ErrNoIncome.Error() {
		t.Fatalf("problems = %q, want only %q", body.Problems, projection.ErrNoIncome)
	}
}

func TestEvents_KeepsRecentProjections(t *testing.T) {
	_, srv := newTestService(t, 2)

	for i := 0; i < 3; i++ {
		post(t, srv.URL+"/v1/projections", sampleBody)
	}

	resp, err := http.Get(srv.URL + "/v1/events") //nolint:noctx // test
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2 || events[0].ID != 2 || events[1].ID != 3 {
		t.Fatalf("events = %+v, want IDs 2 and 3", events)
	}
	if events[1].ProjectionID == "" || events[1].RequestID == "" {
		t.Fatalf("event missing ids: %+v", events[1])
	}
}

func TestStream_DeliversProjectionEvents(t *testing.T) {
	s, srv := newTestService(t, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		t.Helper()
		var typ, data string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("reading stream: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				typ = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return typ, data
			}
		}
	}

	if typ, _ := readEvent(); typ != "hello" {
		t.Fatalf("first event = %q, want hello", typ)
	}
	if n := s.snapshotStatus().SubscriberCount; n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}

	post(t, srv.URL+"/v1/projections", sampleBody)

	typ, data := readEvent()
	if typ != "projection" {
		t.Fatalf("event = %q, want projection", typ)
	}
	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if len(ev.Summary) != 3 || ev.Summary[0].Scenario != model.Pessimistic {
		t.Fatalf("event summary = %+v", ev.Summary)
	}
}
