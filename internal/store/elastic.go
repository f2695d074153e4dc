package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/econpulse/pkg/dateutil"
	"github.com/seenimoa/econpulse/pkg/models"
)

// Elastic stores the series as one Elasticsearch document under a
// fixed index/ID. Writes are read-modify-write over the whole
// document, guarded by the document's _seq_no/_primary_term pair so a
// concurrent run cannot silently overwrite an interleaved write: the
// loser gets ErrConflict instead of last-writer-wins.
type Elastic struct {
	es    *elasticsearch.Client
	index string
	docID string
	loc   *time.Location
	log   *logrus.Logger
}

// seriesDoc is the stored document shape: two parallel arrays with
// dates as canonical day keys.
type seriesDoc struct {
	Dates  []string  `json:"dates"`
	Points []float64 `json:"points"`
}

// occToken identifies the document revision a read observed.
type occToken struct {
	seqNo       int
	primaryTerm int
}

// NewElastic creates the Elasticsearch-backed store. apiKey may be
// empty for unsecured clusters. loc is the timezone stored day keys
// are interpreted in.
func NewElastic(addr, apiKey, index, docID string, loc *time.Location, log *logrus.Logger) (*Elastic, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{addr},
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}

	return &Elastic{es: es, index: index, docID: docID, loc: loc, log: log}, nil
}

// Ping implements Store.
func (e *Elastic) Ping(ctx context.Context) error {
	res, err := e.es.Ping(e.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: ping status %s", ErrUnavailable, res.Status())
	}
	return nil
}

// Read implements Store.
func (e *Elastic) Read(ctx context.Context) (*models.HistorySeries, error) {
	series, _, err := e.readWithToken(ctx)
	return series, err
}

// Append implements Store.
func (e *Elastic) Append(ctx context.Context, p models.DailyPoint) error {
	series, token, err := e.readWithToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: read before append: %v", ErrWriteFailed, err)
	}

	series.Dates = append(series.Dates, p.Date)
	series.Points = append(series.Points, p.Value)

	return e.write(ctx, series, token)
}

// OverwriteLast implements Store.
func (e *Elastic) OverwriteLast(ctx context.Context, value float64) error {
	series, token, err := e.readWithToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: read before overwrite: %v", ErrWriteFailed, err)
	}
	if series.Len() == 0 {
		return fmt.Errorf("%w: cannot overwrite last value of an empty series", ErrWriteFailed)
	}

	series.Points[series.Len()-1] = value

	return e.write(ctx, series, token)
}

// readWithToken fetches the whole document plus the revision token the
// conditional write needs. A missing document yields an empty series
// and a nil token (the first write creates the document).
func (e *Elastic) readWithToken(ctx context.Context) (*models.HistorySeries, *occToken, error) {
	req := esapi.GetRequest{
		Index:      e.index,
		DocumentID: e.docID,
	}

	res, err := req.Do(ctx, e.es)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &models.HistorySeries{}, nil, nil
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, nil, fmt.Errorf("%w: get document: %s", ErrUnavailable, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		SeqNo       *int      `json:"_seq_no"`
		PrimaryTerm *int      `json:"_primary_term"`
		Source      seriesDoc `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: decode document: %v", ErrUnavailable, err)
	}

	series, err := e.fromDoc(parsed.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var token *occToken
	if parsed.SeqNo != nil && parsed.PrimaryTerm != nil {
		token = &occToken{seqNo: *parsed.SeqNo, primaryTerm: *parsed.PrimaryTerm}
	}
	return series, token, nil
}

// write stores the whole document, conditional on the revision the
// preceding read observed.
func (e *Elastic) write(ctx context.Context, series *models.HistorySeries, token *occToken) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	payload, err := json.Marshal(e.toDoc(series))
	if err != nil {
		return fmt.Errorf("%w: marshal document: %v", ErrWriteFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: e.docID,
		Body:       bytes.NewReader(payload),
		Refresh:    "true",
	}
	if token != nil {
		req.IfSeqNo = &token.seqNo
		req.IfPrimaryTerm = &token.primaryTerm
	} else {
		// The read saw no document, so this write must be the one that
		// creates it. If a concurrent run created it first, the create
		// fails with a conflict instead of clobbering the new document.
		req.OpType = "create"
	}

	res, err := req.Do(ctx, e.es)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: document %s/%s", ErrConflict, e.index, e.docID)
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%w: index document: %s", ErrWriteFailed, strings.TrimSpace(string(body)))
	}

	e.log.WithFields(logrus.Fields{
		"index": e.index, "doc": e.docID, "days": series.Len(),
	}).Debug("series document written")
	return nil
}

// toDoc converts the in-memory series to its stored shape.
func (e *Elastic) toDoc(series *models.HistorySeries) seriesDoc {
	doc := seriesDoc{
		Dates:  make([]string, series.Len()),
		Points: append([]float64(nil), series.Points...),
	}
	for i, d := range series.Dates {
		doc.Dates[i] = dateutil.DayKey(d.In(e.loc))
	}
	return doc
}

// fromDoc parses the stored shape back, enforcing the parallel-array
// invariant before anything downstream can rely on it.
func (e *Elastic) fromDoc(doc seriesDoc) (*models.HistorySeries, error) {
	series := &models.HistorySeries{
		Dates:  make([]time.Time, len(doc.Dates)),
		Points: append([]float64(nil), doc.Points...),
	}
	for i, key := range doc.Dates {
		d, err := dateutil.ParseDayKey(key, e.loc)
		if err != nil {
			return nil, fmt.Errorf("stored date %q at index %d: %v", key, i, err)
		}
		series.Dates[i] = d
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
