package description

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestWireName(t *testing.T) {
	assert.Equal(t, "id", (&Parameter{Name: "id"}).WireName())
	assert.Equal(t, "X-Id", (&Parameter{Name: "id", SentAs: "X-Id"}).WireName())
}

func TestValue(t *testing.T) {
	tests := []struct {
		name     string
		param    Parameter
		input    any
		expected any
	}{
		{"supplied value", Parameter{Default: "d"}, "v", "v"},
		{"nil falls back to default", Parameter{Default: "d"}, nil, "d"},
		{"static ignores supplied value", Parameter{Default: "d", Static: true}, "v", "d"},
		{"no default", Parameter{}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.param.Value(tt.input))
		})
	}
	assert.True(t, (&Parameter{Default: 0}).HasValue())
	assert.False(t, (&Parameter{}).HasValue())
}

func TestFilter(t *testing.T) {
	t.Run("filters run in order", func(t *testing.T) {
		p := &Parameter{Name: "q", Filters: []string{"trim", "uppercase"}}
		require.NoError(t, p.ResolveFilters(filter.Default()))
		got, err := p.Filter("  abc ")
		require.NoError(t, err)
		assert.Equal(t, "ABC", got)
	})

	t.Run("unresolved filters use the default registry", func(t *testing.T) {
		p := &Parameter{Name: "q", Filters: []string{"lowercase"}}
		got, err := p.Filter("ABC")
		require.NoError(t, err)
		assert.Equal(t, "abc", got)
	})

	t.Run("format runs after filters", func(t *testing.T) {
		p := &Parameter{Name: "when", Filters: []string{"trim"}, Format: filter.FormatDate}
		got, err := p.Filter(" 2024-03-01T10:00:00Z ")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", got)
	})

	t.Run("no filters", func(t *testing.T) {
		got, err := (&Parameter{}).Filter(12)
		require.NoError(t, err)
		assert.Equal(t, 12, got)
	})

	t.Run("filter failure", func(t *testing.T) {
		p := &Parameter{Name: "n", Location: LocationQuery, Filters: []string{"int"}}
		_, err := p.Filter("abc")
		require.Error(t, err)
		assert.True(t, errors.Is(err, codecerrors.ErrFilter))

		var fe *codecerrors.FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "n", fe.Parameter)
		assert.Equal(t, "query", fe.Location)
		assert.Equal(t, "int", fe.Filter)
	})

	t.Run("format failure", func(t *testing.T) {
		p := &Parameter{Name: "when", Format: filter.FormatDate}
		_, err := p.Filter("yesterday-ish")
		var fe *codecerrors.FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "format:date", fe.Filter)
	})

	t.Run("unknown filter at call time", func(t *testing.T) {
		p := &Parameter{Name: "q", Filters: []string{"nope"}}
		_, err := p.Filter("x")
		assert.ErrorIs(t, err, codecerrors.ErrFilter)
	})

	t.Run("time values", func(t *testing.T) {
		p := &Parameter{Format: filter.FormatTimestamp}
		got, err := p.Filter(time.Unix(1700000000, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), got)
	})
}

func TestResolveFiltersNested(t *testing.T) {
	p := &Parameter{
		Name: "user",
		Properties: NewParams(
			&Parameter{Name: "name", Filters: []string{"uppercase"}},
			&Parameter{Name: "tags", Items: &Parameter{Filters: []string{"bogus"}}},
		),
	}
	err := p.ResolveFilters(filter.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, codecerrors.ErrConfig)
	assert.Contains(t, err.Error(), "bogus")
}

func TestParameterYAML(t *testing.T) {
	const src = `
type: object
sentAs: u
properties:
  b: {type: string}
  a: {type: integer, name: alpha}
additionalProperties: true
items:
  additionalProperties: false
`
	var p Parameter
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))

	assert.Equal(t, "object", p.Type)
	assert.Equal(t, []string{"b", "alpha"}, p.Properties.Names(), "explicit names win over mapping keys")
	require.NotNil(t, p.AdditionalProperties)
	assert.Equal(t, Parameter{}, *p.AdditionalProperties)
	require.NotNil(t, p.Items)
	assert.Nil(t, p.Items.AdditionalProperties)

	t.Run("schema form", func(t *testing.T) {
		var q Parameter
		require.NoError(t, yaml.Unmarshal([]byte("additionalProperties: {location: json, type: string}"), &q))
		require.NotNil(t, q.AdditionalProperties)
		assert.Equal(t, LocationJSON, q.AdditionalProperties.Location)
	})

	t.Run("bad boolean", func(t *testing.T) {
		var q Parameter
		assert.Error(t, yaml.Unmarshal([]byte("additionalProperties: maybe"), &q))
	})

	t.Run("parameters must be a mapping", func(t *testing.T) {
		var q Parameter
		assert.Error(t, yaml.Unmarshal([]byte("properties: [a, b]"), &q))
	})
}

func TestParams(t *testing.T) {
	ps := NewParams(&Parameter{Name: "b"}, &Parameter{Name: "a"})
	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, []string{"b", "a"}, ps.Names())

	ps.Set(&Parameter{Name: "b", Type: "string"})
	assert.Equal(t, []string{"b", "a"}, ps.Names(), "replacing keeps position")
	b, ok := ps.Get("b")
	require.True(t, ok)
	assert.Equal(t, "string", b.Type)

	data, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"name":"b","type":"string"},"a":{"name":"a"}}`, string(data))

	var nilParams *Params
	assert.Equal(t, 0, nilParams.Len())
	assert.Empty(t, nilParams.Names())
	_, ok = nilParams.Get("x")
	assert.False(t, ok)
	data, err = json.Marshal(struct {
		P *Params `json:"p"`
	}{P: &Params{}})
	require.NoError(t, err)
	assert.Equal(t, `{"p":{}}`, string(data))
}

func TestParamsAllStopsEarly(t *testing.T) {
	ps := NewParams(&Parameter{Name: "a"}, &Parameter{Name: "b"}, &Parameter{Name: "c"})
	var seen []string
	for name := range ps.All() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "postField", LocationPostField.String())
	assert.True(t, LocationNone.IsNone())
	assert.False(t, LocationJSON.IsNone())
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlogAdapter(slog.New(handler)).With("component", "test")

	logger.Debug("debug message", "k", 1)
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message", "component=test", "k=1"} {
		assert.Contains(t, out, want)
	}

	assert.NotNil(t, NewSlogAdapter(nil))
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Equal(t, NopLogger{}, l.With("k", "v"))
}
