package hp

import (
	"testing"
)

func TestHistory(t *testing.T) {
	DataDir = t.TempDir()
	h, err := LoadHistory("myexp")
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Entries) != 0 {
		t.Error("got", len(h.Entries), "entries expect 0")
	}
	conf := testConfig()
	conf.ExpName = "myexp"
	h.Add(conf)
	conf2, err := conf.Apply(map[string]string{"NumEpochs": "500"})
	if err != nil {
		t.Fatal(err)
	}
	h.Add(conf2)
	if err = h.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadHistory("myexp")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatal("got", len(loaded.Entries), "entries expect 2")
	}
	if loaded.Entries[0].Conf.NumEpochs != 250 || loaded.Entries[1].Conf.NumEpochs != 500 {
		t.Error("got", loaded.Entries[0].Conf.NumEpochs, loaded.Entries[1].Conf.NumEpochs)
	}
	last, ok := loaded.Latest()
	if !ok {
		t.Fatal("expect latest entry")
	}
	if last.Stamp.IsZero() {
		t.Error("stamp not set")
	}
	if last.Conf.ExpName != "myexp" {
		t.Error("got", last.Conf.ExpName, "expect myexp")
	}
}
