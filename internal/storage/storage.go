package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/martinsuchenak/topogen/internal/metrics"
	"github.com/martinsuchenak/topogen/internal/model"
)

var (
	// ErrPersistence matches every *PersistenceError
	ErrPersistence = errors.New("persistence failure")
	// ErrUnsupportedDriver is returned by Open for unknown driver names
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

const (
	// DefaultBatchSize is the number of rows committed per transaction
	DefaultBatchSize = 100
	// DefaultWatermark is the node id at or below which DeleteTopology keeps rows
	DefaultWatermark = 5
)

// Persister writes generated topologies and removes them again.
// Callers must persist nodes before elements and elements before links.
type Persister interface {
	PersistNodes(ctx context.Context, nodes []*model.Node) error
	PersistElements(ctx context.Context, elements []*model.Element) error
	PersistLinks(ctx context.Context, links []model.Link) error
	DeleteTopology(ctx context.Context) error
}

// PersistenceError reports a failed bulk operation. Batches committed before
// the failure stay committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Options tunes a SQLStore. Zero or negative BatchSize and Watermark select
// the defaults.
type Options struct {
	BatchSize int
	Watermark int
	// LegacyLinkColumns writes the peer device id into cdpcachedeviceport as
	// well, matching fixtures produced by earlier topogen releases.
	LegacyLinkColumns bool
	Metrics           *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.BatchSize < 1 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Watermark < 1 {
		o.Watermark = DefaultWatermark
	}
	return o
}

// TableCounts holds the row count of each topology table
type TableCounts struct {
	Nodes    int64 `json:"nodes"`
	Elements int64 `json:"elements"`
	Links    int64 `json:"links"`
}
