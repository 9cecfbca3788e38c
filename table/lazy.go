package table

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

// lazyTable implements Table as a logical plan: a row source plus a chain of
// operations, applied in order when the table is collected
type lazyTable struct {
	source *rowSource
	ops    []operation
}

// rowSource reads the underlying rows exactly once per table lineage;
// tables derived from the same source share the materialized read
type rowSource struct {
	read func(ctx context.Context) ([]Row, error)

	once sync.Once
	rows []Row
	err  error
}

func (s *rowSource) collect(ctx context.Context) ([]Row, error) {
	s.once.Do(func() {
		s.rows, s.err = s.read(ctx)
	})
	return s.rows, s.err
}

// operation is a single relational operator in the plan
type operation interface {
	apply(ctx context.Context, rows []Row) ([]Row, error)
}

// FromRows returns an in-memory Table over the given rows, used by tests and
// any caller that already holds materialized data
func FromRows(rows []Row) Table {
	return &lazyTable{
		source: &rowSource{
			read: func(context.Context) ([]Row, error) {
				return rows, nil
			},
		},
	}
}

func newLazyTable(read func(ctx context.Context) ([]Row, error)) *lazyTable {
	return &lazyTable{source: &rowSource{read: read}}
}

// with returns a new table with the operation appended; the receiver is unchanged
func (t *lazyTable) with(op operation) Table {
	return &lazyTable{
		source: t.source,
		ops:    append(slices.Clip(slices.Clone(t.ops)), op),
	}
}

func (t *lazyTable) Select(columns ...string) Table {
	return t.with(&selectOp{columns: columns})
}

func (t *lazyTable) Where(predicate Predicate) Table {
	return t.with(&whereOp{predicate: predicate})
}

func (t *lazyTable) DropDuplicates() Table {
	return t.with(&dropDuplicatesOp{})
}

func (t *lazyTable) WithColumn(column string, derive DeriveFunc) Table {
	return t.with(&withColumnOp{column: column, derive: derive})
}

func (t *lazyTable) JoinLeftOuter(right Table, on JoinCondition) Table {
	return t.with(&joinLeftOuterOp{right: right, on: on})
}

func (t *lazyTable) Collect(ctx context.Context) ([]Row, error) {
	rows, err := t.source.collect(ctx)
	if err != nil {
		return nil, err
	}
	for _, op := range t.ops {
		rows, err = op.apply(ctx, rows)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// selectOp projects rows to a fixed column list
type selectOp struct {
	columns []string
}

func (o *selectOp) apply(_ context.Context, rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		projected := make(Row, len(o.columns))
		for _, c := range o.columns {
			v, err := r.Value(c)
			if err != nil {
				return nil, err
			}
			projected[c] = v
		}
		out = append(out, projected)
	}
	return out, nil
}

// whereOp filters rows by a predicate
type whereOp struct {
	predicate Predicate
}

func (o *whereOp) apply(_ context.Context, rows []Row) ([]Row, error) {
	var out []Row
	for _, r := range rows {
		keep, err := o.predicate(r)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}

// dropDuplicatesOp removes exact full-row duplicates, keeping first occurrences
type dropDuplicatesOp struct{}

func (o *dropDuplicatesOp) apply(_ context.Context, rows []Row) ([]Row, error) {
	seen := make(map[string]struct{}, len(rows))
	var out []Row
	for _, r := range rows {
		k := r.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// withColumnOp derives a column; input rows are never mutated as they may be
// shared with other tables over the same source
type withColumnOp struct {
	column string
	derive DeriveFunc
}

func (o *withColumnOp) apply(_ context.Context, rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		v, err := o.derive(r)
		if err != nil {
			return nil, err
		}
		derived := r.Clone()
		derived[o.column] = v
		out = append(out, derived)
	}
	return out, nil
}

// joinLeftOuterOp hash-joins the rows against a right table on an equality
// condition, preserving all left rows
type joinLeftOuterOp struct {
	right Table
	on    JoinCondition
}

func (o *joinLeftOuterOp) apply(ctx context.Context, rows []Row) ([]Row, error) {
	rightRows, err := o.right.Collect(ctx)
	if err != nil {
		return nil, err
	}

	// index the right side and record its column set, so unmatched left rows
	// can carry explicit nulls for every right column
	index := make(map[string][]Row, len(rightRows))
	rightColumns := make(map[string]struct{})
	for _, r := range rightRows {
		k, joinable, err := o.on.rightKey(r)
		if err != nil {
			return nil, err
		}
		if joinable {
			index[k] = append(index[k], r)
		}
		for c := range r {
			rightColumns[c] = struct{}{}
		}
	}

	var out []Row
	for _, left := range rows {
		k, joinable, err := o.on.leftKey(left)
		if err != nil {
			return nil, err
		}

		var matches []Row
		if joinable {
			matches = index[k]
		}
		if len(matches) == 0 {
			merged := left.Clone()
			for c := range rightColumns {
				if !merged.Has(c) {
					merged[c] = nil
				}
			}
			out = append(out, merged)
			continue
		}

		// one output row per match; on a column name clash the left side wins
		for _, right := range matches {
			merged := left.Clone()
			for c, v := range right {
				if !merged.Has(c) {
					merged[c] = v
				}
			}
			// right columns this match does not carry still join as null
			for c := range rightColumns {
				if !merged.Has(c) {
					merged[c] = nil
				}
			}
			out = append(out, merged)
		}
	}
	return out, nil
}
