package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sensorgrid/telemetry-pipeline/internal/domain"
)

func TestFold(t *testing.T) {
	up := domain.StatusUp
	down := domain.StatusDown
	cases := []struct {
		name     string
		statuses []domain.ServiceStatus
		want     domain.SystemStatus
	}{
		{"all up", []domain.ServiceStatus{up, up, up, up}, domain.SystemGreen},
		{"all down", []domain.ServiceStatus{down, down, down, down}, domain.SystemRed},
		{"storage down", []domain.ServiceStatus{up, down, up, up}, domain.SystemYellow},
		{"single survivor", []domain.ServiceStatus{down, down, down, up}, domain.SystemYellow},
		{"half and half", []domain.ServiceStatus{up, up, down, down}, domain.SystemYellow},
	}
	for _, tc := range cases {
		if got := Fold(tc.statuses); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestProbe(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("probed %s, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer okSrv.Close()

	errSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer errSrv.Close()

	slowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slowSrv.Close()

	deadSrv := httptest.NewServer(http.NotFoundHandler())
	deadSrv.Close()

	p := NewProber(50 * time.Millisecond)
	if got := p.Probe("ok", okSrv.URL); got != domain.StatusUp {
		t.Fatalf("2xx probe: got %q want up", got)
	}
	if got := p.Probe("err", errSrv.URL); got != domain.StatusDown {
		t.Fatalf("500 probe: got %q want down", got)
	}
	if got := p.Probe("slow", slowSrv.URL); got != domain.StatusDown {
		t.Fatalf("timeout probe: got %q want down", got)
	}
	if got := p.Probe("dead", deadSrv.URL); got != domain.StatusDown {
		t.Fatalf("refused probe: got %q want down", got)
	}
}

type fakeStore struct {
	latest   domain.Health
	inserted []domain.Health
}

func (f *fakeStore) LatestHealth() (domain.Health, error) { return f.latest, nil }
func (f *fakeStore) InsertHealth(h domain.Health) error {
	f.inserted = append(f.inserted, h)
	f.latest = h
	return nil
}

func TestRunCycleMixedProbesYieldYellow(t *testing.T) {
	upSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer upSrv.Close()

	downSrv := httptest.NewServer(http.NotFoundHandler())
	downSrv.Close()

	store := &fakeStore{}
	r := NewRunner(store, NewProber(50*time.Millisecond), Targets{
		Receiver:   upSrv.URL,
		Storage:    downSrv.URL,
		AuditLog:   upSrv.URL,
		Processing: upSrv.URL,
	})
	r.RunCycle()

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(store.inserted))
	}
	got := store.inserted[0]
	if got.System != domain.SystemYellow {
		t.Fatalf("system=%q want yellow", got.System)
	}
	if got.Receiver != domain.StatusUp || got.Storage != domain.StatusDown ||
		got.AuditLog != domain.StatusUp || got.Processing != domain.StatusUp {
		t.Fatalf("component statuses wrong: %+v", got)
	}
	if got.LastUpdated.IsZero() {
		t.Fatal("snapshot missing last_updated")
	}
}

func TestRunCycleAllDownYieldsRed(t *testing.T) {
	deadSrv := httptest.NewServer(http.NotFoundHandler())
	deadSrv.Close()

	store := &fakeStore{}
	r := NewRunner(store, NewProber(50*time.Millisecond), Targets{
		Receiver:   deadSrv.URL,
		Storage:    deadSrv.URL,
		AuditLog:   deadSrv.URL,
		Processing: deadSrv.URL,
	})
	r.RunCycle()

	if len(store.inserted) != 1 || store.inserted[0].System != domain.SystemRed {
		t.Fatalf("want one red snapshot, got %+v", store.inserted)
	}
}
