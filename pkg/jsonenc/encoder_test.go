package jsonenc_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/element"
	"github.com/gofhir/model/pkg/jsonenc"
)

func TestMarshal(t *testing.T) {
	ext, err := datatype.NewExtensionBuilder("http://example.org/ext").Value(datatype.NewBoolean(true)).Build()
	if err != nil {
		t.Fatal(err)
	}
	text, err := datatype.NewStringBuilder().ID("s1").Value("x").Build()
	if err != nil {
		t.Fatal(err)
	}
	value, err := datatype.ParseDecimal("1.50")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := datatype.NewCanonicalBuilder().ID("p2").Value("http://b").Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		node func() (element.Node, error)
		want string
	}{
		{
			name: "extension and choice key",
			node: func() (element.Node, error) {
				return datatype.NewIdentifierBuilder().Extension(ext).Use(datatype.NewCode("usual")).Value(datatype.NewString("1")).Build()
			},
			want: `{"extension":[{"url":"http://example.org/ext","valueBoolean":true}],"use":"usual","value":"1"}`,
		},
		{
			name: "primitive id",
			node: func() (element.Node, error) {
				return datatype.NewCodeableConceptBuilder().Text(text).Build()
			},
			want: `{"text":"x","_text":{"id":"s1"}}`,
		},
		{
			name: "decimal precision",
			node: func() (element.Node, error) {
				return datatype.NewQuantityBuilder().Value(value).Unit(datatype.NewString("mg")).Build()
			},
			want: `{"value":1.50,"unit":"mg"}`,
		},
		{
			name: "narrowed primitive keeps its key",
			node: func() (element.Node, error) {
				return datatype.NewExtensionBuilder("http://example.org/count").Value(datatype.NewPositiveInt(3)).Build()
			},
			want: `{"url":"http://example.org/count","valuePositiveInt":3}`,
		},
		{
			name: "primitive list",
			node: func() (element.Node, error) {
				return datatype.NewMetaBuilder().Profile(datatype.NewCanonical("http://a"), p2).Build()
			},
			want: `{"profile":["http://a","http://b"],"_profile":[null,{"id":"p2"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.node()
			if err != nil {
				t.Fatal(err)
			}
			data, err := jsonenc.Marshal(n)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("got  %s\nwant %s", data, tt.want)
			}
		})
	}
}

func TestMarshalPrimitive(t *testing.T) {
	data, err := jsonenc.Marshal(datatype.NewDecimal(decimal.RequireFromString("2.000")))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2.000" {
		t.Errorf("got %s", data)
	}
	data, err = jsonenc.Marshal(nil)
	if err != nil || string(data) != "null" {
		t.Errorf("got %s, %v", data, err)
	}
}

func TestMarshalIndent(t *testing.T) {
	cc, err := datatype.NewCodeableConceptBuilder().Text(datatype.NewString("x")).Build()
	if err != nil {
		t.Fatal(err)
	}
	data, err := jsonenc.MarshalIndent(cc, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"text\": \"x\"") {
		t.Errorf("unexpected output:\n%s", data)
	}
}
