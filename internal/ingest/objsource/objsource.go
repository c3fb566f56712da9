// Package objsource loads relationship CSVs out of an object storage
// backend (local disk or Tencent COS, via internal/storage.Storage) into
// a csr.Importer.
package objsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/csrgraph/graphctl/pkg/csr"
	gerrors "github.com/csrgraph/graphctl/pkg/errors"
	"github.com/csrgraph/graphctl/internal/storage"
)

var tracer = otel.Tracer("graphctl/ingest/objsource")

// CSVRelationshipSource parses a CSV object with the header
// "source,target,weight" (weight optional) into RawTuples, batching rows
// before handing them to the importer.
type CSVRelationshipSource struct {
	store     storage.Storage
	key       string
	batchSize int
}

// NewCSVRelationshipSource binds a source to one object key.
func NewCSVRelationshipSource(store storage.Storage, key string, batchSize int) *CSVRelationshipSource {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &CSVRelationshipSource{store: store, key: key, batchSize: batchSize}
}

// Load streams the object, parses each row and feeds batches of
// batchSize to importer. Returns the number of data rows read.
func (s *CSVRelationshipSource) Load(ctx context.Context, importer *csr.Importer) (int64, error) {
	ctx, span := tracer.Start(ctx, "graphstore.import.batch", trace.WithAttributes(
		attribute.String("object_key", s.key),
	))
	defer span.End()

	rc, err := s.store.Download(ctx, s.key)
	if err != nil {
		return 0, fmt.Errorf("objsource: download %s: %w", s.key, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return 0, gerrors.New(gerrors.CodeDomainViolation, "objsource: empty csv object "+s.key)
		}
		return 0, fmt.Errorf("objsource: read header: %w", err)
	}
	hasWeight := len(header) >= 3

	var total int64
	var batch []csr.RawTuple
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := importer.AddBatch(batch); err != nil {
			return fmt.Errorf("objsource: import batch from %s: %w", s.key, err)
		}
		span.AddEvent("batch loaded", trace.WithAttributes(attribute.Int("rows", len(batch))))
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("objsource: read row: %w", err)
		}
		if len(record) < 2 {
			return total, gerrors.New(gerrors.CodeDomainViolation, fmt.Sprintf("objsource: row %q has fewer than 2 columns", record))
		}
		src, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return total, fmt.Errorf("objsource: parse source id %q: %w", record[0], err)
		}
		dst, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return total, fmt.Errorf("objsource: parse target id %q: %w", record[1], err)
		}
		var props []float64
		if hasWeight && len(record) >= 3 {
			w, err := strconv.ParseFloat(record[2], 64)
			if err != nil {
				return total, fmt.Errorf("objsource: parse weight %q: %w", record[2], err)
			}
			props = []float64{w}
		}
		batch = append(batch, csr.RawTuple{SourceOriginal: src, TargetOriginal: dst, Properties: props})
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
