package grammarfile

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEncodeDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := lr.SampleGrammar()
	for _, format := range []Format{TOML, JSON} {
		var buf bytes.Buffer
		if err := Encode(&buf, format, g.Name, g.Flatten()); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		name, flat, err := Decode(&buf, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if name != g.Name {
			t.Errorf("%s: expected name %q, have %q", format, g.Name, name)
		}
		if !lr.FromFlat(name, flat).Equal(g) {
			t.Errorf("%s: grammar does not survive encoding", format)
		}
	}
}

func TestDecodeTOML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	src := `name = "G0"

[[production]]
symbol = "V"
prod = "aW"

[[production]]
symbol = "W"
prod = "bbW"

[[production]]
symbol = "W"
prod = "c"
`
	name, flat, err := Decode(strings.NewReader(src), TOML)
	if err != nil {
		t.Fatal(err)
	}
	if name != "G0" || !lr.FromFlat(name, flat).Equal(lr.G0()) {
		t.Errorf("expected G0, have %q %v", name, flat)
	}
	if _, _, err = Decode(strings.NewReader(`[[production]]
prod = "x"
`), TOML); err == nil {
		t.Errorf("expected production without symbol to be rejected")
	}
}

func TestDirStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	tmp, err := ioutil.TempDir("", "grammars")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	dir := Dir(filepath.Join(tmp, "store"))
	if err = dir.Save("G1", lr.G1().Flatten()); err != nil {
		t.Fatal(err)
	}
	g, err := dir.Load("G1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "G1" || !g.Equal(lr.G1()) {
		t.Errorf("expected G1 to be restored, have %v", g.Flatten())
	}
	if p := dir.Path("a/b"); filepath.Base(p) != "a_b.toml" {
		t.Errorf("expected path separators to be replaced, have %s", p)
	}
}

func TestLoadJSONWithoutName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	tmp, err := ioutil.TempDir("", "grammars")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	path := filepath.Join(tmp, "tiny.json")
	src := `{"productions": [{"symbol": "S", "prod": "x"}]}`
	if err = ioutil.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "tiny" || g.Productions("S")[0] != "x" {
		t.Errorf("unexpected grammar %q: %v", g.Name, g.Flatten())
	}
}
