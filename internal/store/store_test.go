package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/seenimoa/econpulse/internal/logger"
	"github.com/seenimoa/econpulse/pkg/models"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// --- Memory ---

func TestMemoryReadEmpty(t *testing.T) {
	m := NewMemory()
	series, err := m.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if series.Len() != 0 {
		t.Fatalf("fresh store has %d entries, want 0", series.Len())
	}
}

func TestMemoryAppendAndOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Append(ctx, models.DailyPoint{Date: day("2023-03-13"), Value: 0.5}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := m.Append(ctx, models.DailyPoint{Date: day("2023-03-14"), Value: -1}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	if err := m.OverwriteLast(ctx, 0.25); err != nil {
		t.Fatalf("OverwriteLast() error: %v", err)
	}

	series, _ := m.Read(ctx)
	if series.Len() != 2 {
		t.Fatalf("got %d entries, want 2", series.Len())
	}
	last, _ := series.Last()
	if last.Value != 0.25 {
		t.Errorf("last value got %v, want 0.25", last.Value)
	}
	if !last.Date.Equal(day("2023-03-14")) {
		t.Errorf("overwrite must not touch the date, got %v", last.Date)
	}
}

func TestMemoryOverwriteEmpty(t *testing.T) {
	m := NewMemory()
	err := m.OverwriteLast(context.Background(), 1)
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

func TestMemoryReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Append(ctx, models.DailyPoint{Date: day("2023-03-14"), Value: 1})

	series, _ := m.Read(ctx)
	series.Points[0] = 99

	again, _ := m.Read(ctx)
	if again.Points[0] != 1 {
		t.Fatal("mutating a Read result leaked into the store")
	}
}

// --- Elastic ---

// esDoc is the mutable state behind the stub cluster: one document plus
// its revision counters.
type esDoc struct {
	exists      bool
	source      seriesDoc
	seqNo       int
	primaryTerm int
}

// newESStub serves just enough of the document API for the adapter:
// GET/PUT on a single doc ID, honoring if_seq_no/if_primary_term.
func newESStub(t *testing.T, doc *esDoc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The v8 client refuses to talk to anything that does not
		// identify itself as Elasticsearch.
		w.Header().Set("X-Elastic-Product", "Elasticsearch")

		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/news-history/_doc/date-points" {
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			if !doc.exists {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"found": false})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"found":         true,
				"_seq_no":       doc.seqNo,
				"_primary_term": doc.primaryTerm,
				"_source":       doc.source,
			})
		case http.MethodPut:
			q := r.URL.Query()
			if doc.exists {
				if q.Get("op_type") == "create" {
					w.WriteHeader(http.StatusConflict)
					json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "version_conflict_engine_exception"}})
					return
				}
				if q.Get("if_seq_no") == "" || q.Get("if_primary_term") == "" {
					t.Error("write against an existing document must be conditional")
				}
				if q.Get("if_seq_no") != "" && q.Get("if_seq_no") != strconv.Itoa(doc.seqNo) {
					w.WriteHeader(http.StatusConflict)
					json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "version_conflict_engine_exception"}})
					return
				}
			} else if q.Get("op_type") != "create" {
				t.Error("first write must create, not blind-index")
			}
			var src seriesDoc
			if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			doc.exists = true
			doc.source = src
			doc.seqNo++
			json.NewEncoder(w).Encode(map[string]any{"result": "updated"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func newElasticUnderTest(t *testing.T, addr string) *Elastic {
	t.Helper()
	e, err := NewElastic(addr, "", "news-history", "date-points", time.UTC, logger.Discard())
	if err != nil {
		t.Fatalf("NewElastic() error: %v", err)
	}
	return e
}

func TestElasticReadMissingDocument(t *testing.T) {
	doc := &esDoc{}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)
	series, err := e.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if series.Len() != 0 {
		t.Fatalf("missing document must read as empty series, got %d entries", series.Len())
	}
}

func TestElasticAppendCreatesThenGrows(t *testing.T) {
	ctx := context.Background()
	doc := &esDoc{}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)

	if err := e.Append(ctx, models.DailyPoint{Date: day("2023-03-13"), Value: 0.5}); err != nil {
		t.Fatalf("first Append() error: %v", err)
	}
	if err := e.Append(ctx, models.DailyPoint{Date: day("2023-03-14"), Value: -0.25}); err != nil {
		t.Fatalf("second Append() error: %v", err)
	}

	if got := doc.source.Dates; len(got) != 2 || got[0] != "2023-03-13" || got[1] != "2023-03-14" {
		t.Errorf("stored dates got %v", got)
	}
	if got := doc.source.Points; len(got) != 2 || got[0] != 0.5 || got[1] != -0.25 {
		t.Errorf("stored points got %v", got)
	}

	series, err := e.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	last, _ := series.Last()
	if !last.Date.Equal(day("2023-03-14")) || last.Value != -0.25 {
		t.Errorf("read back last point got %v %v", last.Date, last.Value)
	}
}

func TestElasticOverwriteLast(t *testing.T) {
	ctx := context.Background()
	doc := &esDoc{
		exists:      true,
		source:      seriesDoc{Dates: []string{"2023-03-14"}, Points: []float64{1}},
		seqNo:       7,
		primaryTerm: 1,
	}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)
	if err := e.OverwriteLast(ctx, 0.5); err != nil {
		t.Fatalf("OverwriteLast() error: %v", err)
	}

	if doc.source.Points[0] != 0.5 {
		t.Errorf("stored point got %v, want 0.5", doc.source.Points[0])
	}
	if doc.source.Dates[0] != "2023-03-14" {
		t.Errorf("overwrite must not touch dates, got %v", doc.source.Dates)
	}
}

func TestElasticOverwriteEmpty(t *testing.T) {
	doc := &esDoc{}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)
	err := e.OverwriteLast(context.Background(), 1)
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

func TestElasticWriteConflict(t *testing.T) {
	doc := &esDoc{
		exists:      true,
		source:      seriesDoc{Dates: []string{"2023-03-14"}, Points: []float64{1}},
		seqNo:       3,
		primaryTerm: 1,
	}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)

	// Another writer bumps the revision between our read and write.
	series, token, err := e.readWithToken(context.Background())
	if err != nil {
		t.Fatalf("readWithToken() error: %v", err)
	}
	doc.seqNo++

	series.Points[0] = 0
	err = e.write(context.Background(), series, token)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestElasticCreateRace(t *testing.T) {
	doc := &esDoc{}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)

	// Our read sees no document, then a concurrent run creates it.
	series, token, err := e.readWithToken(context.Background())
	if err != nil {
		t.Fatalf("readWithToken() error: %v", err)
	}
	if token != nil {
		t.Fatal("missing document must yield a nil revision token")
	}
	doc.exists = true
	doc.source = seriesDoc{Dates: []string{"2023-03-14"}, Points: []float64{1}}
	doc.primaryTerm = 1

	series.Dates = append(series.Dates, day("2023-03-14"))
	series.Points = append(series.Points, 0.5)
	err = e.write(context.Background(), series, token)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if doc.source.Points[0] != 1 {
		t.Fatal("losing creator must not clobber the winner's document")
	}
}

func TestElasticCorruptedDocument(t *testing.T) {
	doc := &esDoc{
		exists:      true,
		source:      seriesDoc{Dates: []string{"2023-03-13", "2023-03-14"}, Points: []float64{1}},
		seqNo:       1,
		primaryTerm: 1,
	}
	srv := newESStub(t, doc)
	defer srv.Close()

	e := newElasticUnderTest(t, srv.URL)
	_, err := e.Read(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for mismatched arrays, got %v", err)
	}
}

func TestElasticUnreachable(t *testing.T) {
	srv := newESStub(t, &esDoc{})
	addr := srv.URL
	srv.Close()

	e := newElasticUnderTest(t, addr)
	_, err := e.Read(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
