package etl

import (
	"github.com/sparkify/lakehouse/idgen"
	"github.com/sparkify/lakehouse/table"
)

// songplayIDs assigns a surrogate key to every fact row. A fresh
// generator per run means ids never repeat within a run but are not
// reproducible across runs.
type songplayIDs struct {
	gen *idgen.Generator
}

func newSongplayIDs() *songplayIDs {
	return &songplayIDs{gen: idgen.New()}
}

func (s *songplayIDs) derive(_ table.Row) (any, error) {
	return s.gen.Next(), nil
}
