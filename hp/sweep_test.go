package hp

import (
	"fmt"
	"testing"
)

func TestSweep(t *testing.T) {
	conf := testConfig()
	param := []SweepParam{
		{Name: "Eta", Values: []string{"0.1", "0.05", "0.15"}},
		{Name: "Lambda", Values: []string{"3", "5"}},
		{Name: "BatchSize", Values: []string{"10", "20"}},
	}
	runs, err := Sweep(conf, param)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 12 {
		t.Errorf("got %d runs expect 12", len(runs))
	}
	first := runs[0]
	if first.Eta != 0.1 || first.Lambda != 3 || first.BatchSize != 10 {
		t.Error("got", first.Eta, first.Lambda, first.BatchSize, "expect first values")
	}
	seen := map[[3]string]bool{}
	for _, run := range runs {
		key := [3]string{}
		for i, name := range []string{"Eta", "Lambda", "BatchSize"} {
			val, err := run.Get(name)
			if err != nil {
				t.Fatal(err)
			}
			key[i] = fmt.Sprint(val)
		}
		if seen[key] {
			t.Error("duplicate case", key)
		}
		seen[key] = true
	}
	if len(seen) != 12 {
		t.Error("got", len(seen), "distinct cases expect 12")
	}
}

func TestSweepErrors(t *testing.T) {
	conf := testConfig()
	_, err := Sweep(conf, []SweepParam{{Name: "NoField", Values: []string{"1"}}})
	if _, ok := err.(*FieldError); !ok {
		t.Error("expect FieldError, got", err)
	}
	_, err = Sweep(conf, []SweepParam{{Name: "Eta"}})
	if _, ok := err.(*FieldError); !ok {
		t.Error("expect FieldError for empty values, got", err)
	}
	runs, err := Sweep(conf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Error("got", len(runs), "runs expect 1")
	}
}
