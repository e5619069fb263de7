package storage

import (
	"context"
	"fmt"
)

// DefaultBatchSize is the page size used when a caller passes one <= 0.
const DefaultBatchSize = 500

// Stream is a lazy, forward-only scan over active records, fetched from
// the store in fixed-size pages to bound peak memory. It is not
// restartable; a new call to the repository starts a fresh scan. Callers
// must drain it or call Close to release it early.
//
//	stream := repo.Stream(ctx, 500)
//	defer stream.Close()
//	for {
//		rec, ok := stream.Next()
//		if !ok {
//			break
//		}
//		...
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream[T any] struct {
	ctx       context.Context
	repo      *repository[T]
	err       error
	query     string
	args      []any
	buf       []T
	batchSize int
	offset    int
	pos       int
	pages     int
	done      bool
}

// stream builds a paged scan over the repository's active rows, optionally
// narrowed by an extra predicate. Rows are ordered by id so consecutive
// pages walk the table without overlap, matching GetAll's order.
func (r *repository[T]) stream(ctx context.Context, where string, args []any, batchSize int) *Stream[T] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_active = 1", r.columns, r.table)
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY id LIMIT ? OFFSET ?"

	return &Stream[T]{
		ctx:       ctx,
		repo:      r,
		query:     query,
		args:      args,
		batchSize: batchSize,
	}
}

// Next returns the next record. It reports false once the scan is
// exhausted, failed, or closed; check Err afterwards.
func (s *Stream[T]) Next() (T, bool) {
	var zero T
	if s.err != nil {
		return zero, false
	}

	if s.pos >= len(s.buf) {
		if s.done {
			return zero, false
		}
		if !s.fetchPage() {
			return zero, false
		}
	}

	rec := s.buf[s.pos]
	s.pos++
	return rec, true
}

// fetchPage loads the next page into the buffer. A short page means the
// scan is finished without another round trip.
func (s *Stream[T]) fetchPage() bool {
	args := make([]any, 0, len(s.args)+2)
	args = append(args, s.args...)
	args = append(args, s.batchSize, s.offset)

	page, err := s.repo.queryMany(s.ctx, s.query, args...)
	if err != nil {
		s.err = err
		s.done = true
		return false
	}

	s.pages++
	s.offset += len(page)
	s.buf = page
	s.pos = 0
	if len(page) < s.batchSize {
		s.done = true
	}
	return len(page) > 0
}

// Err returns the first error encountered while fetching pages.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close abandons the scan. Subsequent Next calls report false.
func (s *Stream[T]) Close() {
	s.done = true
	s.buf = nil
	s.pos = 0
}
