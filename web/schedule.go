package web

import (
	"bytes"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	"github.com/gorilla/websocket"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"html/template"
	"log"
	"net/http"
	"strconv"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type SchedulePage struct {
	*Templates
	Types []string
	exp   *Experiment
}

// Base data for handler functions to preview and edit the loss weight schedule
func NewSchedulePage(t *Templates, exp *Experiment) *SchedulePage {
	p := &SchedulePage{exp: exp, Types: []string{"linear", "const", "exp"}}
	p.Templates = t.Select("/schedule")
	p.AddOption(Link{Name: "save", Url: "/schedule/save", Submit: true})
	return p
}

// Handler function for the schedule template
func (p *SchedulePage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.LoadFlashes(w, r)
		if err := p.ExecuteTemplate(w, "schedule", p); err != nil {
			logError(w, err)
		}
	}
}

// Handler function for the schedule form save action
func (p *SchedulePage) Save() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		r.ParseForm()
		sched, err := scheduleFrom(r.Form.Get("type"), r.Form.Get("floor"), r.Form.Get("halfLife"))
		if err != nil {
			p.AddFlash(w, r, fmt.Sprint(err))
			http.Redirect(w, r, "/schedule", http.StatusFound)
			return
		}
		if err := p.exp.Update(p.exp.Conf.SetSchedule(sched)); err != nil {
			logError(w, err)
			return
		}
		p.AddFlash(w, r, "saved "+p.exp.Name+".conf")
		http.Redirect(w, r, "/schedule", http.StatusFound)
	}
}

// Handler function for websocket connection
func (p *SchedulePage) Websocket() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logError(w, err)
			return
		}
		p.exp.Lock()
		p.exp.conn = conn
		p.exp.Unlock()
	}
}

func (p *SchedulePage) Heading() template.HTML {
	s := fmt.Sprintf("%s: loss weight by epoch", p.exp.Name)
	return template.HTML(s)
}

func (p *SchedulePage) Desc() string {
	return p.exp.Conf.Schedule.String()
}

func (p *SchedulePage) TypeOf() string {
	if p.exp.Conf.Schedule.Type == "" {
		return "linear"
	}
	return p.exp.Conf.Schedule.Type
}

func (p *SchedulePage) Floor() string {
	floor, _ := p.params()
	if floor == 0 {
		return ""
	}
	return fmt.Sprint(floor)
}

func (p *SchedulePage) HalfLife() string {
	_, halfLife := p.params()
	if halfLife == 0 {
		return ""
	}
	return strconv.Itoa(halfLife)
}

func (p *SchedulePage) params() (floor float64, halfLife int) {
	sched, err := p.exp.Conf.Schedule.Unmarshal()
	if err != nil {
		return 0, 0
	}
	switch s := sched.(type) {
	case hp.Linear:
		return s.Floor, 0
	case hp.Exp:
		return s.Floor, s.HalfLife
	}
	return 0, 0
}

// Plot the active schedule with the alternative types for comparison.
func (p *SchedulePage) Plot(width, height int) template.HTML {
	conf := p.exp.Conf
	active, err := conf.Schedule.Unmarshal()
	if err != nil {
		log.Println("plot: invalid schedule:", err)
		return ""
	}
	plt := newPlot()
	line := newLinePlot(weightPoints(conf, active), 0)
	plt.Add(line)
	plt.Legend.Add(active.ToString()+" ", line)
	ix := 0
	for _, typ := range p.Types {
		if typ == p.TypeOf() {
			continue
		}
		alt, err := hp.ScheduleConfig{Type: typ}.Unmarshal()
		if err != nil {
			continue
		}
		ix++
		line := newLinePlot(weightPoints(conf, alt), ix)
		plt.Add(line)
		plt.Legend.Add(typ+" ", line)
	}
	return writePlot(plt, width, height)
}

// evaluate the schedule at each epoch of the run
func weightPoints(conf hp.Config, s hp.Schedule) plotter.XYs {
	var pt struct{ X, Y float64 }
	var pts plotter.XYs
	for epoch := 1; epoch <= conf.NumEpochs; epoch++ {
		pt.X, pt.Y = float64(epoch), s.WeightAt(conf, epoch)
		pts = append(pts, pt)
	}
	return pts
}

// Build a schedule from its form fields, floor and half life are optional.
func scheduleFrom(typ, floor, halfLife string) (hp.ConfigSchedule, error) {
	f := 0.0
	if floor != "" {
		var err error
		if f, err = strconv.ParseFloat(floor, 64); err != nil {
			return nil, fmt.Errorf("invalid floor %q", floor)
		}
	}
	switch typ {
	case "const":
		return hp.Const{}, nil
	case "", "linear":
		return hp.Linear{Floor: f}, nil
	case "exp":
		n := 0
		if halfLife != "" {
			var err error
			if n, err = strconv.Atoi(halfLife); err != nil {
				return nil, fmt.Errorf("invalid half life %q", halfLife)
			}
		}
		return hp.Exp{Floor: f, HalfLife: n}, nil
	}
	return nil, fmt.Errorf("invalid schedule type %q", typ)
}

func newPlot() *plot.Plot {
	p, err := plot.New()
	if err != nil {
		log.Fatal("Plot error: ", err)
	}
	fontSmall := newFont(10)
	fontMedium := newFont(12)
	p.X.Padding, p.Y.Padding = 0, 0
	p.X.Tick.Label.Font = fontSmall
	p.Y.Tick.Label.Font = fontSmall
	p.Legend.Top = true
	p.Legend.Font = fontMedium
	p.Add(plotter.NewGrid())
	return p
}

// svg canvas resolution in pixels per inch
const dpi = 92

func writePlot(p *plot.Plot, w, h int) template.HTML {
	var buf bytes.Buffer
	writer, err := p.WriterTo(vg.Inch*vg.Length(w)/dpi, vg.Inch*vg.Length(h)/dpi, "svg")
	if err != nil {
		log.Fatal("Error writing plot: ", err)
	}
	writer.WriteTo(&buf)
	return template.HTML(buf.String())
}

func newFont(size vg.Length) vg.Font {
	font, err := vg.MakeFont("Helvetica", size)
	if err != nil {
		log.Fatal("Plot: failed loading font", err)
	}
	return font
}

func newLinePlot(pts plotter.XYs, ix int) linePlot {
	xmax, ymax := 1.0, 0.0
	for _, pt := range pts {
		if pt.X > xmax {
			xmax = pt.X
		}
		if pt.Y > ymax {
			ymax = pt.Y
		}
	}
	l, _ := plotter.NewLine(pts)
	l.Width = 2
	l.Color = plotutil.Color(ix)
	return linePlot{Line: l, xmin: 1, xmax: xmax, ymin: 0, ymax: ymax}
}

// modified plotter.Line with a fixed scale
type linePlot struct {
	*plotter.Line
	xmin, xmax, ymin, ymax float64
}

func (l linePlot) DataRange() (xmin, xmax, ymin, ymax float64) {
	return l.xmin, l.xmax, l.ymin, l.ymax
}
