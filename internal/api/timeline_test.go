package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

func TestGetTimeline_InitialSnapshot(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})

	w := env.do("GET", "/api/timeline", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	st := decode[models.TimelineState](t, w)
	if st.CountdownSeconds != 1_002_720 {
		t.Errorf("expected 1002720 seconds, got %d", st.CountdownSeconds)
	}
	if st.CountdownDisplay != "11d 14h 32m" {
		t.Errorf("expected display 11d 14h 32m, got %q", st.CountdownDisplay)
	}
	if st.RoutePhase != models.RouteIdle {
		t.Errorf("expected idle routes, got %s", st.RoutePhase)
	}
	if st.WarningLeadTimeHours != 8 || st.EvacuationStartHours != 6 {
		t.Errorf("expected 8h lead / 6h evacuation, got %v / %v", st.WarningLeadTimeHours, st.EvacuationStartHours)
	}
}

func TestStartRoutes(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})

	w := env.do("POST", "/api/timeline/routes", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", w.Code)
	}
	first := decode[struct {
		Started  bool                 `json:"started"`
		Timeline models.TimelineState `json:"timeline"`
	}](t, w)
	if !first.Started || first.Timeline.RoutePhase != models.RouteRunning {
		t.Errorf("expected routes to start, got %+v", first)
	}

	env.simulator.TickRoutes()

	second := decode[struct {
		Started  bool                 `json:"started"`
		Timeline models.TimelineState `json:"timeline"`
	}](t, env.do("POST", "/api/timeline/routes", nil))
	if second.Started {
		t.Error("expected re-trigger while running to be ignored")
	}
	if second.Timeline.RouteProgressPct != 3 {
		t.Errorf("expected progress to be kept at 3, got %d", second.Timeline.RouteProgressPct)
	}
}

func TestSetLeadTime(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]any
		wantCode  int
		wantHours float64
	}{
		{"in range", map[string]any{"hours": 24}, http.StatusOK, 24},
		{"upper bound", map[string]any{"hours": 72}, http.StatusOK, 72},
		{"too long", map[string]any{"hours": 80}, http.StatusBadRequest, 0},
		{"below evacuation start", map[string]any{"hours": 4}, http.StatusBadRequest, 0},
		{"missing hours", map[string]any{}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t, &mockRepo{})

			w := env.do("PUT", "/api/timeline/lead-time", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				st := decode[models.TimelineState](t, w)
				if st.WarningLeadTimeHours != tt.wantHours {
					t.Errorf("expected lead time %v, got %v", tt.wantHours, st.WarningLeadTimeHours)
				}
			}
		})
	}
}

func TestSetEvacuationStart(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})

	if w := env.do("PUT", "/api/timeline/evacuation", map[string]any{"hours": 2}); w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if got := env.simulator.Snapshot().EvacuationStartHours; got != 2 {
		t.Errorf("expected evacuation start 2, got %v", got)
	}

	w := env.do("PUT", "/api/timeline/evacuation", map[string]any{"hours": 12})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected evacuation after the warning to be rejected, got %d", w.Code)
	}
	if resp := decode[map[string]string](t, w); resp["field"] != "hours" {
		t.Errorf("expected field hours, got %q", resp["field"])
	}
}

func TestTimelineWrites_AfterCancel(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})
	env.simulator.Cancel()

	for _, path := range []string{"/api/timeline/lead-time", "/api/timeline/evacuation"} {
		if w := env.do("PUT", path, map[string]any{"hours": 5}); w.Code != http.StatusConflict {
			t.Errorf("%s: expected status 409, got %d", path, w.Code)
		}
	}
	if w := env.do("POST", "/api/timeline/routes", nil); w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
}

func TestGetProjection(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})

	w := env.do("GET", "/api/timeline/projection?lead_time_hours=0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	p := decode[models.OutcomeProjection](t, w)
	if p.Casualties != 1_680_000 || p.EconomicLossBillionUSD != 620 || p.InfrastructureDamagePct != 78 {
		t.Errorf("unexpected zero-hour projection %+v", p)
	}

	p = decode[models.OutcomeProjection](t, env.do("GET", "/api/timeline/projection?lead_time_hours=48", nil))
	if p.Casualties != 120_000 || p.EconomicLossBillionUSD != 150 || p.InfrastructureDamagePct != 35 {
		t.Errorf("expected floors at 48h, got %+v", p)
	}

	// no query uses the simulator's lead time (8h)
	p = decode[models.OutcomeProjection](t, env.do("GET", "/api/timeline/projection", nil))
	if p.LeadTimeHours != 8 {
		t.Errorf("expected projection at 8h, got %v", p.LeadTimeHours)
	}

	for _, q := range []string{"-1", "soon"} {
		if w := env.do("GET", "/api/timeline/projection?lead_time_hours="+q, nil); w.Code != http.StatusBadRequest {
			t.Errorf("lead_time_hours=%s: expected status 400, got %d", q, w.Code)
		}
	}
}

func TestStreamTimeline(t *testing.T) {
	env := setupTestRouter(t, &mockRepo{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/timeline/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected text/event-stream, got %s", ct)
	}

	r := bufio.NewReader(resp.Body)
	nextState := func() models.TimelineState {
		t.Helper()
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				t.Fatalf("stream ended: %v", err)
			}
			data, ok := strings.CutPrefix(strings.TrimSpace(line), "data:")
			if !ok {
				continue
			}
			var st models.TimelineState
			if err := json.Unmarshal([]byte(data), &st); err != nil {
				t.Fatalf("bad event payload %q: %v", data, err)
			}
			return st
		}
	}

	if st := nextState(); st.CountdownSeconds != 1_002_720 {
		t.Errorf("expected initial snapshot, got %d", st.CountdownSeconds)
	}

	// the initial event is written after Subscribe, so this tick is delivered
	env.simulator.TickCountdown()
	if st := nextState(); st.CountdownSeconds != 1_002_719 {
		t.Errorf("expected ticked snapshot, got %d", st.CountdownSeconds)
	}
}
