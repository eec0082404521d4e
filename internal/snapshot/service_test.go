package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Milokay/sp500-pipeline/internal/analysis"
)

type mockRunner struct {
	run *analysis.Run
	err error
}

func (m *mockRunner) Run(_ context.Context, _ analysis.Options) (*analysis.Run, error) {
	return m.run, m.err
}

type mockRepo struct {
	saveErr   error
	savedData json.RawMessage
	savedDate time.Time
	latest    *Snapshot
	latestErr error
	byDate    *Snapshot
	byDateErr error
	list      []Snapshot
	listErr   error
}

func (m *mockRepo) Save(_ context.Context, date time.Time, data json.RawMessage) error {
	m.savedData = data
	m.savedDate = date
	return m.saveErr
}

func (m *mockRepo) GetLatest(_ context.Context) (*Snapshot, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.latest, nil
}

func (m *mockRepo) GetByDate(_ context.Context, _ time.Time) (*Snapshot, error) {
	if m.byDateErr != nil {
		return nil, m.byDateErr
	}
	return m.byDate, nil
}

func (m *mockRepo) List(_ context.Context, _ int) ([]Snapshot, error) {
	return m.list, m.listErr
}

func TestGenerateSuccess(t *testing.T) {
	run := &analysis.Run{
		GeneratedAt: time.Now().UTC(),
		Rows:        []analysis.Row{{Ticker: "AAPL"}, {Ticker: "MSFT"}},
	}
	repo := &mockRepo{}
	svc := NewService(&mockRunner{run: run}, repo)

	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	result, err := svc.Generate(context.Background(), date, analysis.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(result.Rows))
	}
	if repo.savedData == nil {
		t.Error("expected data to be saved")
	}
	if !repo.savedDate.Equal(date) {
		t.Errorf("saved date = %v, want %v", repo.savedDate, date)
	}
}

func TestGenerateRunnerError(t *testing.T) {
	svc := NewService(&mockRunner{err: errors.New("universe unavailable")}, &mockRepo{})

	_, err := svc.Generate(context.Background(), time.Now(), analysis.Options{})
	if err == nil {
		t.Fatal("expected error from runner")
	}
}

func TestGenerateRepoSaveError(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("save failed")}
	svc := NewService(&mockRunner{run: &analysis.Run{}}, repo)

	_, err := svc.Generate(context.Background(), time.Now(), analysis.Options{})
	if err == nil {
		t.Fatal("expected error from repo save")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	run := &analysis.Run{Rows: []analysis.Row{{Ticker: "JPM", Sector: "Financials"}}}
	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded, err := Decode(&Snapshot{Data: data})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Rows) != 1 || decoded.Rows[0].Ticker != "JPM" {
		t.Errorf("decoded rows = %+v", decoded.Rows)
	}
}

func TestDecodeInvalidPayload(t *testing.T) {
	if _, err := Decode(&Snapshot{Data: []byte("not json")}); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
