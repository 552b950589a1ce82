package filer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/errkind"
)

type filerTestRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestJsonFiler_Save(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     any
		wantErr  bool
	}{
		{name: "struct", filename: "record.json", data: filerTestRecord{ID: "1", Name: "first"}},
		{name: "zero-value struct", filename: "empty.json", data: filerTestRecord{}},
		{name: "map", filename: "map.json", data: map[string]any{"key": "value", "number": 42}},
		{name: "slice", filename: "slice.json", data: []filerTestRecord{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}},
		{name: "unwritable path", filename: "/no/such/dir/record.json", data: filerTestRecord{ID: "1"}, wantErr: true},
	}

	dir := t.TempDir()
	f := NewJsonLoader()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.filename
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, tt.filename)
			}

			err := f.Save(path, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errkind.Is(err, errkind.Transport))
				return
			}
			require.NoError(t, err)

			content, err := os.ReadFile(path)
			require.NoError(t, err)

			var got, want any
			require.NoError(t, json.Unmarshal(content, &got))
			wantJSON, err := json.Marshal(tt.data)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(wantJSON, &want))
			assert.Equal(t, want, got)
		})
	}
}

func TestJsonFiler_Load(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("populated fields", func(t *testing.T) {
		path := writeFile(t, `{"id":"1","name":"first"}`)
		var got filerTestRecord
		require.NoError(t, NewJsonLoader().Load(path, &got))
		assert.Equal(t, filerTestRecord{ID: "1", Name: "first"}, got)
	})

	t.Run("empty object leaves zero values", func(t *testing.T) {
		path := writeFile(t, `{}`)
		var got filerTestRecord
		require.NoError(t, NewJsonLoader().Load(path, &got))
		assert.Equal(t, filerTestRecord{}, got)
	})

	t.Run("missing fields leave zero values", func(t *testing.T) {
		path := writeFile(t, `{"id":"2"}`)
		var got filerTestRecord
		require.NoError(t, NewJsonLoader().Load(path, &got))
		assert.Equal(t, filerTestRecord{ID: "2"}, got)
	})

	t.Run("non-ascii content round-trips", func(t *testing.T) {
		path := writeFile(t, `{"id":"3","name":"héllo wörld"}`)
		var got filerTestRecord
		require.NoError(t, NewJsonLoader().Load(path, &got))
		assert.Equal(t, "héllo wörld", got.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		var got filerTestRecord
		err := NewJsonLoader().Load(filepath.Join(t.TempDir(), "absent.json"), &got)
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Transport))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeFile(t, `{"id":"1","name":}`)
		var got filerTestRecord
		err := NewJsonLoader().Load(path, &got)
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Serialization))
	})
}
