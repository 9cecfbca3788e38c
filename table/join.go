package table

import (
	"strings"
)

// JoinCondition is a conjunction of column equalities between the left and
// right side of a join, e.g. On("song", "title").And("artist", "artist_name").
// Equality is exact - float values match only when their float64
// representations are identical, with no tolerance.
type JoinCondition struct {
	pairs []columnPair
}

type columnPair struct {
	left  string
	right string
}

// On starts a join condition with a single column equality
func On(leftColumn, rightColumn string) JoinCondition {
	return JoinCondition{pairs: []columnPair{{left: leftColumn, right: rightColumn}}}
}

// And adds a further column equality to the condition
func (c JoinCondition) And(leftColumn, rightColumn string) JoinCondition {
	return JoinCondition{pairs: append(append([]columnPair{}, c.pairs...), columnPair{left: leftColumn, right: rightColumn})}
}

// leftKey builds the hash key for a left row; a missing column is a schema
// error, a null value means the row cannot match (SQL equality semantics)
func (c JoinCondition) leftKey(r Row) (key string, joinable bool, err error) {
	return c.buildKey(r, func(p columnPair) string { return p.left })
}

// rightKey builds the hash key for a right row
func (c JoinCondition) rightKey(r Row) (key string, joinable bool, err error) {
	return c.buildKey(r, func(p columnPair) string { return p.right })
}

func (c JoinCondition) buildKey(r Row, column func(columnPair) string) (string, bool, error) {
	var sb strings.Builder
	for _, p := range c.pairs {
		v, err := r.Value(column(p))
		if err != nil {
			return "", false, err
		}
		if v == nil {
			return "", false, nil
		}
		sb.WriteString(canonicalValue(v))
		sb.WriteByte('\x1f')
	}
	return sb.String(), true, nil
}
