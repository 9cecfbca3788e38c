package table

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkify/lakehouse/rate_limiter"
	"github.com/sparkify/lakehouse/storage"
)

func TestDecodeRows(t *testing.T) {
	input := `{"song": "Setanta matins", "length": 269.58161, "ts": 1541121934796}
{"song": null, "length": null, "ts": 1541121934797}
`
	rows, err := DecodeRows(strings.NewReader(input), "events.json")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// numbers stay as json.Number so float comparisons stay bit-exact
	assert.Equal(t, json.Number("269.58161"), rows[0]["length"])
	assert.Equal(t, json.Number("1541121934796"), rows[0]["ts"])
	assert.True(t, rows[1].IsNull("song"))
}

func TestDecodeRowsMalformed(t *testing.T) {
	_, err := DecodeRows(strings.NewReader(`{"a": 1}{"b":`), "bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestDecodeRowsEmpty(t *testing.T) {
	rows, err := DecodeRows(strings.NewReader(""), "empty.json")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func newTestEngine(t *testing.T, files map[string]string) *ObjectStoreEngine {
	t.Helper()
	ctx := context.Background()
	store := storage.NewFileSystemStore(t.TempDir())
	for key, content := range files {
		require.NoError(t, store.Put(ctx, key, strings.NewReader(content)))
	}
	limiter := rate_limiter.NewAPILimiter(rate_limiter.ObjectStoreDefaults("test"))
	return NewObjectStoreEngine(store, limiter)
}

func TestReadJSON(t *testing.T) {
	engine := newTestEngine(t, map[string]string{
		"log-data/2018/11/b.json": `{"id": "3"}` + "\n" + `{"id": "4"}` + "\n",
		"log-data/2018/11/a.json": `{"id": "1"}` + "\n" + `{"id": "2"}` + "\n",
		"log-data/2018/11/c.txt":  `{"id": "nope"}` + "\n",
	})

	rows, err := engine.ReadJSON("log-data/*/*/*.json").Collect(context.Background())
	require.NoError(t, err)

	// rows arrive in key order however the files were listed or read
	var ids []string
	for _, r := range rows {
		id, err := r.String("id")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestReadJSONNoMatches(t *testing.T) {
	engine := newTestEngine(t, map[string]string{
		"song_data/A/A/A/x.json": `{"id": "1"}` + "\n",
	})

	_, err := engine.ReadJSON("song_data/B/**/*.json").Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files match")
}

func TestReadJSONIsLazy(t *testing.T) {
	// the pattern matches nothing, but building the plan must not fail -
	// only collecting it does
	engine := newTestEngine(t, map[string]string{})
	table := engine.ReadJSON("missing/*.json").Select("a").DropDuplicates()

	_, err := table.Collect(context.Background())
	require.Error(t, err)
}
