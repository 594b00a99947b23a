// FILE: lixenwraith/cascade/document_test.go
package cascade

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() Document {
	return Document{
		"mode": "production",
		"db": map[string]any{
			"connection": map[string]any{
				"default": map[string]any{
					"host":     "db.internal",
					"port":     int64(3306),
					"password": "s3cret",
				},
			},
		},
		"debug": false,
		"ratio": 0.75,
		"tags":  []any{"a", "b"},
		"empty": map[string]any{},
	}
}

func TestDocumentPaths(t *testing.T) {
	doc := testDocument()

	t.Run("Get", func(t *testing.T) {
		v, ok := doc.Get("db/connection/default/host")
		assert.True(t, ok)
		assert.Equal(t, "db.internal", v)

		v, ok = doc.Get("/mode/")
		assert.True(t, ok)
		assert.Equal(t, "production", v)

		_, ok = doc.Get("db/connection/replica/host")
		assert.False(t, ok)

		_, ok = doc.Get("mode/nested")
		assert.False(t, ok, "scalars have no children")

		whole, ok := doc.Get("")
		assert.True(t, ok)
		assert.Equal(t, map[string]any(doc), whole)
	})

	t.Run("Has", func(t *testing.T) {
		assert.True(t, doc.Has("db/connection"))
		assert.True(t, doc.Has("empty"))
		assert.False(t, doc.Has("db/missing"))
	})

	t.Run("Set", func(t *testing.T) {
		d := doc.Clone()
		d.Set("db/connection/replica/host", "replica.internal")
		d.Set("mode/sub", "x")

		host, err := d.String("db/connection/replica/host")
		require.NoError(t, err)
		assert.Equal(t, "replica.internal", host)
		assert.Equal(t, "x", d.StringOr("mode/sub", ""))

		// Clone is independent of the original
		assert.False(t, doc.Has("db/connection/replica"))
		assert.Equal(t, "production", doc.StringOr("mode", ""))
	})

	t.Run("Flatten", func(t *testing.T) {
		flat := doc.Flatten()
		assert.Equal(t, "db.internal", flat["db/connection/default/host"])
		assert.Equal(t, []any{"a", "b"}, flat["tags"])
		assert.Equal(t, map[string]any{}, flat["empty"])
		assert.NotContains(t, flat, "db")
		assert.Len(t, flat, 8)
	})

	t.Run("Merge", func(t *testing.T) {
		merged := doc.Merge(Document{"db": map[string]any{"connection": map[string]any{"default": map[string]any{"host": "other"}}}})
		assert.Equal(t, "other", merged.StringOr("db/connection/default/host", ""))
		assert.Equal(t, int64(3306), merged.Flatten()["db/connection/default/port"])
		assert.Equal(t, "db.internal", doc.StringOr("db/connection/default/host", ""))
	})
}

func TestDocumentTypedAccess(t *testing.T) {
	doc := testDocument()
	doc.Set("numbers/str", "42")
	doc.Set("numbers/hex", "0x10")
	doc.Set("numbers/float", 3.9)
	doc.Set("numbers/bool", "true")
	doc.Set("numbers/nil", nil)

	t.Run("String", func(t *testing.T) {
		tests := []struct {
			path string
			want string
		}{
			{"mode", "production"},
			{"db/connection/default/port", "3306"},
			{"debug", "false"},
			{"ratio", "0.75"},
			{"numbers/nil", ""},
		}
		for _, tt := range tests {
			got, err := doc.String(tt.path)
			require.NoError(t, err, tt.path)
			assert.Equal(t, tt.want, got, tt.path)
		}

		_, err := doc.String("tags")
		assert.Error(t, err)
		_, err = doc.String("missing")
		assert.ErrorContains(t, err, "path not found: missing")
	})

	t.Run("Int64", func(t *testing.T) {
		v, err := doc.Int64("numbers/str")
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		v, err = doc.Int64("numbers/hex")
		require.NoError(t, err)
		assert.Equal(t, int64(16), v)

		v, err = doc.Int64("numbers/float")
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)

		_, err = doc.Int64("mode")
		assert.Error(t, err)
		_, err = doc.Int64("numbers/nil")
		assert.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		v, err := doc.Bool("numbers/bool")
		require.NoError(t, err)
		assert.True(t, v)

		v, err = doc.Bool("debug")
		require.NoError(t, err)
		assert.False(t, v)

		v, err = doc.Bool("db/connection/default/port")
		require.NoError(t, err)
		assert.True(t, v)

		_, err = doc.Bool("mode")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		v, err := doc.Float64("ratio")
		require.NoError(t, err)
		assert.InDelta(t, 0.75, v, 1e-9)

		v, err = doc.Float64("numbers/str")
		require.NoError(t, err)
		assert.InDelta(t, 42.0, v, 1e-9)

		_, err = doc.Float64("mode")
		assert.Error(t, err)
	})

	t.Run("StringOr", func(t *testing.T) {
		assert.Equal(t, "production", doc.StringOr("mode", "fallback"))
		assert.Equal(t, "fallback", doc.StringOr("missing", "fallback"))
		assert.Equal(t, "fallback", doc.StringOr("tags", "fallback"))
	})
}

func TestDocumentScan(t *testing.T) {
	t.Run("NestedSection", func(t *testing.T) {
		type Conn struct {
			Host     string `cascade:"host"`
			Port     int    `cascade:"port"`
			Password string `cascade:"password"`
		}

		var c Conn
		require.NoError(t, testDocument().Scan("db/connection/default", &c))
		assert.Equal(t, Conn{Host: "db.internal", Port: 3306, Password: "s3cret"}, c)
	})

	t.Run("ComplexTypes", func(t *testing.T) {
		type Network struct {
			IP       net.IP            `cascade:"ip"`
			Endpoint *url.URL          `cascade:"endpoint"`
			Timeout  time.Duration     `cascade:"timeout"`
			Started  time.Time         `cascade:"started"`
			Tags     []string          `cascade:"tags"`
			Ports    []int             `cascade:"ports"`
			Labels   map[string]string `cascade:"labels"`
			Enabled  bool              `cascade:"enabled"`
		}

		doc := Document{"network": map[string]any{
			"ip":       "192.168.1.100",
			"endpoint": "https://api.example.com:8443/v1",
			"timeout":  "2m30s",
			"started":  "2024-01-02T03:04:05Z",
			"tags":     "prod,staging",
			"ports":    []any{int64(80), int64(443)},
			"labels":   map[string]any{"env": "prod"},
			"enabled":  "true",
		}}

		var n Network
		require.NoError(t, doc.Scan("network", &n))
		assert.Equal(t, "192.168.1.100", n.IP.String())
		assert.Equal(t, "api.example.com:8443", n.Endpoint.Host)
		assert.Equal(t, 150*time.Second, n.Timeout)
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), n.Started)
		assert.Equal(t, []string{"prod", "staging"}, n.Tags)
		assert.Equal(t, []int{80, 443}, n.Ports)
		assert.Equal(t, map[string]string{"env": "prod"}, n.Labels)
		assert.True(t, n.Enabled)
	})

	t.Run("WholeDocument", func(t *testing.T) {
		var out struct {
			Mode  string `cascade:"mode"`
			Debug bool   `cascade:"debug"`
		}
		require.NoError(t, testDocument().Scan("", &out))
		assert.Equal(t, "production", out.Mode)
		assert.False(t, out.Debug)
	})

	t.Run("MissingSection", func(t *testing.T) {
		var out struct {
			Host string `cascade:"host"`
		}
		require.NoError(t, testDocument().Scan("cache", &out))
		assert.Empty(t, out.Host)
	})

	t.Run("InvalidTargets", func(t *testing.T) {
		var out struct{}
		assert.Error(t, testDocument().Scan("", out))
		assert.Error(t, testDocument().Scan("mode", &out))

		var badIP struct {
			IP net.IP `cascade:"ip"`
		}
		assert.Error(t, Document{"ip": "not-an-ip"}.Scan("", &badIP))
	})
}
