package hp

import (
	"reflect"
	"sort"
	"testing"
)

func init() {
	base := testConfig()
	MustRegister(Preset{Name: "testBase", Desc: "base settings", Defaults: &base})
	MustRegister(Preset{
		Name:     "testMid",
		Base:     "testBase",
		Override: map[string]string{"Eta": "0.01", "NumEpochs": "300"},
	})
	MustRegister(Preset{
		Name:     "testLeaf",
		Base:     "testMid",
		Override: map[string]string{"NumEpochs": "500", "LossWeight": "5"},
	})
	MustRegister(Preset{Name: "testRetired", Base: "testBase", Retired: true})
	MustRegister(Preset{Name: "testOrphan", Base: "testGone"})
	MustRegister(Preset{Name: "testLoopA", Base: "testLoopB"})
	MustRegister(Preset{Name: "testLoopB", Base: "testLoopA"})
}

func TestRegister(t *testing.T) {
	if err := Register(Preset{Name: "testBase"}); err == nil {
		t.Error("expect error for duplicate name")
	}
	if err := Register(Preset{}); err == nil {
		t.Error("expect error for empty name")
	}
	if err := Register(Preset{Name: "testNoDefaults"}); err == nil {
		t.Error("expect error for root preset without defaults")
	}
	conf := testConfig()
	if err := Register(Preset{Name: "testBadVariant", Base: "testBase", Defaults: &conf}); err == nil {
		t.Error("expect error for variant with defaults")
	}
}

func TestResolve(t *testing.T) {
	conf, err := Resolve("testLeaf")
	if err != nil {
		t.Fatal(err)
	}
	if conf.ExpName != "testLeaf" {
		t.Error("got", conf.ExpName, "expect testLeaf")
	}
	if conf.NumEpochs != 500 || conf.LossWeight != 5 {
		t.Error("leaf overrides lost: got", conf.NumEpochs, conf.LossWeight)
	}
	if conf.Eta != 0.01 {
		t.Error("mid override lost: got", conf.Eta)
	}
	base := testConfig()
	if conf.Gradients != base.Gradients || conf.NumPeaks != base.NumPeaks {
		t.Error("base fields lost: got", conf.Gradients, conf.NumPeaks)
	}
	p, _ := Lookup("testBase")
	if p.Defaults.NumEpochs != base.NumEpochs || p.Defaults.Eta != base.Eta {
		t.Error("resolve mutated the registered defaults")
	}
	conf2, err := Resolve("testLeaf")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(conf, conf2) {
		t.Error("resolve is not deterministic")
	}
}

func TestResolveNotFound(t *testing.T) {
	_, err := Resolve("testMissing")
	nerr, ok := err.(*NotFoundError)
	if !ok {
		t.Fatal("expect NotFoundError, got", err)
	}
	if nerr.Name != "testMissing" {
		t.Error("got", nerr.Name, "expect testMissing")
	}
	_, err = Resolve("testOrphan")
	nerr, ok = err.(*NotFoundError)
	if !ok {
		t.Fatal("expect NotFoundError, got", err)
	}
	if nerr.Name != "testGone" {
		t.Error("got", nerr.Name, "expect testGone")
	}
}

func TestResolveCycle(t *testing.T) {
	_, err := Resolve("testLoopA")
	if err == nil {
		t.Fatal("expect error for cycle in base chain")
	}
	if _, ok := err.(*NotFoundError); ok {
		t.Error("cycle should not report not found:", err)
	}
}

func TestNames(t *testing.T) {
	names := Names(false)
	if !sort.StringsAreSorted(names) {
		t.Error("names not sorted:", names)
	}
	for _, name := range names {
		if name == "testRetired" {
			t.Error("retired preset listed by default")
		}
	}
	found := false
	for _, name := range Names(true) {
		if name == "testRetired" {
			found = true
		}
	}
	if !found {
		t.Error("retired preset missing from full listing")
	}
}

func TestList(t *testing.T) {
	DataDir = t.TempDir()
	conf := testConfig()
	for _, name := range []string{"listSaved.conf", "testBase.conf"} {
		if err := conf.Save(name); err != nil {
			t.Fatal(err)
		}
	}
	names, err := List(false)
	if err != nil {
		t.Fatal(err)
	}
	if !sort.StringsAreSorted(names) {
		t.Error("names not sorted:", names)
	}
	count := map[string]int{}
	for _, name := range names {
		count[name]++
	}
	if count["listSaved"] != 1 {
		t.Error("artifact missing from list:", names)
	}
	if count["testBase"] != 1 {
		t.Error("expect preset with artifact listed once, got", count["testBase"])
	}
	if count["testRetired"] != 0 {
		t.Error("retired preset listed by default")
	}
}

func TestArtifacts(t *testing.T) {
	DataDir = t.TempDir()
	conf := testConfig()
	for _, name := range []string{"expB.conf", "expA.conf", "expA.default", "expC.v2.conf"} {
		if err := conf.Save(name); err != nil {
			t.Fatal(err)
		}
	}
	names, err := Artifacts()
	if err != nil {
		t.Fatal(err)
	}
	expect := []string{"expA", "expB", "expC"}
	if !reflect.DeepEqual(names, expect) {
		t.Error("got", names, "expect", expect)
	}
}

func TestWorking(t *testing.T) {
	DataDir = t.TempDir()
	conf, err := Working("testLeaf")
	if err != nil {
		t.Fatal(err)
	}
	if conf.NumEpochs != 500 {
		t.Error("got", conf.NumEpochs, "expect resolved preset")
	}
	if HasArtifact("testLeaf") {
		t.Error("no artifact saved yet")
	}
	if err = testConfig().Save("expC.v2.conf"); err != nil {
		t.Fatal(err)
	}
	conf, err = Working("expC")
	if err != nil {
		t.Fatal(err)
	}
	if conf.ExpName != "expC" || conf.NumEpochs != 250 {
		t.Error("got", conf.ExpName, conf.NumEpochs, "expect renamed artifact to load")
	}
	if !HasArtifact("expC") {
		t.Error("expect artifact for expC")
	}
	_, err = Working("testMissing")
	if _, ok := err.(*NotFoundError); !ok {
		t.Error("expect NotFoundError, got", err)
	}
}
