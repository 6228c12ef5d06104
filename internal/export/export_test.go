package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/hexworld/internal/world"
)

func buildTestDoc(t *testing.T, cfg world.GenConfig) (*world.Map, *Document) {
	t.Helper()
	m, err := world.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	doc, err := Build(m)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m, doc
}

func validateSchema(t *testing.T, doc *Document) {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "export.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuild_MatchesSchema(t *testing.T) {
	_, doc := buildTestDoc(t, world.SmallTestConfig())
	validateSchema(t, doc)
}

func TestBuild_AdvancedClimateMatchesSchema(t *testing.T) {
	cfg := world.SmallTestConfig()
	cfg.AdvancedClimate = true
	_, doc := buildTestDoc(t, cfg)
	validateSchema(t, doc)

	if doc.Hexes[0][0].Climate == nil {
		t.Fatal("advanced climate hex has no climate record")
	}
}

func TestBuild_Layout(t *testing.T) {
	m, doc := buildTestDoc(t, world.SmallTestConfig())

	if len(doc.Hexes) != m.Size {
		t.Fatalf("rows = %d, want %d", len(doc.Hexes), m.Size)
	}
	for row, hexes := range doc.Hexes {
		if len(hexes) != m.Size {
			t.Fatalf("row %d has %d hexes, want %d", row, len(hexes), m.Size)
		}
		for col, h := range hexes {
			if h.Row != row || h.Col != col {
				t.Fatalf("hexes[%d][%d] holds %d,%d", row, col, h.Row, h.Col)
			}
			for s, e := range h.Edges {
				if e.Side != world.Side(s) {
					t.Fatalf("hex %d,%d edge %d has side %v", row, col, s, e.Side)
				}
			}
		}
	}

	if got := doc.Summary.LandHexes + doc.Summary.WaterHexes; got != m.HexCount() {
		t.Errorf("land + water = %d, want %d", got, m.HexCount())
	}
	if doc.Summary.Seed != 42 {
		t.Errorf("seed = %d, want 42", doc.Summary.Seed)
	}
	if len(doc.Rivers) != len(m.Rivers) {
		t.Errorf("rivers = %d, want %d", len(doc.Rivers), len(m.Rivers))
	}

	// Every geoform reference on a hex resolves to an exported geoform.
	ids := make(map[string]bool)
	for _, g := range doc.Geoforms {
		ids[g.ID] = true
	}
	for _, hexes := range doc.Hexes {
		for _, h := range hexes {
			if !ids[h.Geoform] {
				t.Fatalf("hex %d,%d references unknown geoform %q", h.Row, h.Col, h.Geoform)
			}
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	_, doc := buildTestDoc(t, world.SmallTestConfig())

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatal("decoded document differs from the original")
	}
}

func TestDecode_RejectsOtherVersion(t *testing.T) {
	if _, err := Decode(bytes.NewBufferString(`{"version": 99}`)); err == nil {
		t.Fatal("expected version error")
	}
}

func TestCompressed_RoundTrip(t *testing.T) {
	_, doc := buildTestDoc(t, world.SmallTestConfig())
	dir := t.TempDir()

	zpath := filepath.Join(dir, "out", "world.json"+CompressedExt)
	if err := WriteFile(zpath, doc); err != nil {
		t.Fatalf("write compressed: %v", err)
	}
	got, err := ReadCompressed(zpath)
	if err != nil {
		t.Fatalf("read compressed: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatal("compressed round trip changed the document")
	}

	plain := filepath.Join(dir, "world.json")
	if err := WriteFile(plain, doc); err != nil {
		t.Fatalf("write json: %v", err)
	}
	got, err = ReadFile(plain)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if got.Summary != doc.Summary {
		t.Fatalf("summary = %+v, want %+v", got.Summary, doc.Summary)
	}

	zinfo, err := os.Stat(zpath)
	if err != nil {
		t.Fatal(err)
	}
	pinfo, err := os.Stat(plain)
	if err != nil {
		t.Fatal(err)
	}
	if zinfo.Size() >= pinfo.Size() {
		t.Errorf("compressed %d bytes, plain %d bytes", zinfo.Size(), pinfo.Size())
	}
}
