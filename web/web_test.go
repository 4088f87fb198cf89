package web

import (
	"github.com/bacaron/TractSeg/hp"
	"github.com/gorilla/websocket"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func init() {
	conf := hp.Config{
		DataSet:       "HCP",
		NumPeaks:      20,
		Gradients:     "12g90g270g",
		Resolution:    1.25,
		Eta:           0.001,
		LossWeight:    1,
		LossWeightLen: 0,
		NumEpochs:     250,
		Normalise:     true,
	}
	hp.MustRegister(hp.Preset{Name: "webRoot", Defaults: &conf})
	hp.MustRegister(hp.Preset{
		Name:     "webVar",
		Base:     "webRoot",
		Override: map[string]string{"NumEpochs": "500"},
	})
}

func TestGetFields(t *testing.T) {
	conf, err := hp.Resolve("webRoot")
	if err != nil {
		t.Fatal(err)
	}
	fields := getFields(conf)
	for _, f := range fields {
		if f.Name == "ExpName" {
			t.Error("ExpName should not be editable")
		}
		if f.Name == "Normalise" {
			if !f.Boolean || !f.On {
				t.Error("got", f.Boolean, f.On, "expect boolean on")
			}
		}
		if f.Name == "Eta" && f.Value != "0.001" {
			t.Error("got", f.Value, "expect 0.001")
		}
	}
	if len(fields) != len(conf.Fields())-1 {
		t.Error("got", len(fields), "fields")
	}
}

func TestWorkingConf(t *testing.T) {
	hp.DataDir = t.TempDir()
	conf, err := hp.Working("webVar")
	if err != nil {
		t.Fatal(err)
	}
	if conf.NumEpochs != 500 {
		t.Error("got", conf.NumEpochs, "expect 500")
	}
	edited, err := conf.Apply(map[string]string{"NumEpochs": "99"})
	if err != nil {
		t.Fatal(err)
	}
	if err = edited.Save("webVar.conf"); err != nil {
		t.Fatal(err)
	}
	conf, err = hp.Working("webVar")
	if err != nil {
		t.Fatal(err)
	}
	if conf.NumEpochs != 99 {
		t.Error("got", conf.NumEpochs, "expect saved artifact to win")
	}
}

func TestChangedFields(t *testing.T) {
	conf, err := hp.Resolve("webVar")
	if err != nil {
		t.Fatal(err)
	}
	edited, err := conf.Apply(map[string]string{"Eta": "0.01", "LossWeight": "5"})
	if err != nil {
		t.Fatal(err)
	}
	diff := changedFields(conf, edited)
	if expect := []string{"Eta", "LossWeight"}; !reflect.DeepEqual(diff, expect) {
		t.Error("got", diff, "expect", expect)
	}
	diff = changedFields(edited, edited.SetSchedule(hp.Const{}))
	if expect := []string{"Schedule"}; !reflect.DeepEqual(diff, expect) {
		t.Error("got", diff, "expect", expect)
	}
}

func TestConfigSync(t *testing.T) {
	hp.DataDir = t.TempDir()
	exp, err := NewExperiment("webRoot")
	if err != nil {
		t.Fatal(err)
	}
	p := &ConfigPage{exp: exp}
	p.refresh()
	if v := fieldValue(p.Fields, "NumEpochs"); v != "250" {
		t.Error("got", v, "expect 250")
	}
	p.Fields[0].Value = "edited"
	p.sync()
	if p.Fields[0].Value != "edited" {
		t.Error("expect edits kept while experiment is unchanged")
	}
	if err = exp.Select("webVar"); err != nil {
		t.Fatal(err)
	}
	p.sync()
	if v := fieldValue(p.Fields, "NumEpochs"); v != "500" {
		t.Error("got", v, "expect 500 after switching experiment")
	}
}

func fieldValue(fields []Field, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestScheduleFrom(t *testing.T) {
	sched, err := scheduleFrom("linear", "2", "")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := sched.(hp.Linear); !ok || s.Floor != 2 {
		t.Error("got", sched)
	}
	sched, err = scheduleFrom("exp", "", "50")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := sched.(hp.Exp); !ok || s.HalfLife != 50 {
		t.Error("got", sched)
	}
	if _, err = scheduleFrom("bogus", "", ""); err == nil {
		t.Error("expect error for unknown type")
	}
	if _, err = scheduleFrom("linear", "x", ""); err == nil {
		t.Error("expect error for bad floor")
	}
}

func TestSweepCases(t *testing.T) {
	hp.DataDir = t.TempDir()
	conf, err := hp.Resolve("webVar")
	if err != nil {
		t.Fatal(err)
	}
	exp := &Experiment{Name: "webVar", Conf: conf}
	exp.Tuners = []hp.SweepParam{
		{Name: "Eta", Values: []string{"0.1", "0.2"}},
		{Name: "NumEpochs", Values: []string{"100", "200", "300"}},
	}
	p := &SweepPage{exp: exp, expName: exp.Name}
	p.runs, err = hp.Sweep(conf, exp.Tuners)
	if err != nil {
		t.Fatal(err)
	}
	p.build()
	if len(p.Cases) != 6 {
		t.Errorf("got %d cases expect 6", len(p.Cases))
	}
	if p.Cases[0].Name != "webVar_01" {
		t.Error("got", p.Cases[0].Name)
	}
	if p.Ranges[0] != "0.1..0.2" || p.Ranges[1] != "100..300" {
		t.Error("got", p.Ranges)
	}
	p.invalidate()
	if len(p.Cases) != 6 {
		t.Error("expect cases kept while experiment is unchanged")
	}
	if err = exp.Select("webRoot"); err != nil {
		t.Fatal(err)
	}
	p.invalidate()
	if len(p.runs) != 0 || len(p.Cases) != 0 || len(p.Ranges) != 0 {
		t.Error("expect stale cases dropped after switching experiment")
	}
}

func TestWeightPoints(t *testing.T) {
	conf, err := hp.Resolve("webVar")
	if err != nil {
		t.Fatal(err)
	}
	conf.LossWeight = 10
	conf.LossWeightLen = 400
	sched, err := conf.Schedule.Unmarshal()
	if err != nil {
		t.Fatal(err)
	}
	pts := weightPoints(conf, sched)
	if len(pts) != conf.NumEpochs {
		t.Error("got", len(pts), "points expect", conf.NumEpochs)
	}
	if pts[0].X != 1 || pts[0].Y != 10 {
		t.Error("got", pts[0])
	}
	if pts[len(pts)-1].Y != 1 {
		t.Error("got", pts[len(pts)-1])
	}
}

func TestPlotSVG(t *testing.T) {
	conf, err := hp.Resolve("webRoot")
	if err != nil {
		t.Fatal(err)
	}
	conf.NumEpochs = 20
	p := &SchedulePage{exp: &Experiment{Name: "webRoot", Conf: conf}, Types: []string{"linear", "const", "exp"}}
	svg := string(p.Plot(600, 400))
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("expect svg plot output")
	}
}

func TestNotify(t *testing.T) {
	hp.DataDir = t.TempDir()
	exp, err := NewExperiment("webRoot")
	if err != nil {
		t.Fatal(err)
	}
	p := &SchedulePage{exp: exp}
	srv := httptest.NewServer(http.HandlerFunc(p.Websocket()))
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	attached := false
	for i := 0; i < 100 && !attached; i++ {
		exp.Lock()
		attached = exp.conn != nil
		exp.Unlock()
		if !attached {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if !attached {
		t.Fatal("websocket not attached")
	}
	exp.Lock()
	err = exp.Update(exp.Conf.SetSchedule(hp.Const{}))
	exp.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "saved:webRoot" {
		t.Error("got", string(msg), "expect saved:webRoot")
	}
}
