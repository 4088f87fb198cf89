package web

import (
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	"github.com/bacaron/TractSeg/stats"
	"html/template"
	"net/http"
)

var expCols = []string{"Model", "NumPeaks", "Gradients", "Resolution", "LossWeight", "NumEpochs"}

type ExpsPage struct {
	*Templates
	Columns []string
	Rows    []ExpRow
	Summary []template.HTML
	Retired bool
	exp     *Experiment
}

type ExpRow struct {
	Name    string
	Desc    string
	Base    string
	Saved   bool
	Current bool
	Values  []string
}

// Base data for handler functions to list the registered presets and saved
// artifacts with summary stats per column.
func NewExpsPage(t *Templates, exp *Experiment) *ExpsPage {
	p := &ExpsPage{exp: exp, Columns: expCols}
	p.Templates = t.Select("/exps")
	p.AddOption(Link{Name: "show retired", Url: "/exps/retired"})
	return p
}

func (p *ExpsPage) build() error {
	names, err := hp.List(p.Retired)
	if err != nil {
		return err
	}
	p.Rows = p.Rows[:0]
	avgs := make([]stats.Average, len(expCols))
	for _, name := range names {
		conf, err := hp.Working(name)
		if err != nil {
			return err
		}
		row := ExpRow{Name: name, Saved: hp.HasArtifact(name), Current: name == p.exp.Name}
		if preset, ok := hp.Lookup(name); ok {
			row.Desc = preset.Desc
			row.Base = preset.Base
		}
		for i, col := range expCols {
			val, err := conf.Get(col)
			if err != nil {
				return err
			}
			row.Values = append(row.Values, fmt.Sprint(val))
			if x, ok := numeric(val); ok {
				avgs[i].Add(x)
			}
		}
		p.Rows = append(p.Rows, row)
	}
	p.Summary = p.Summary[:0]
	for i := range avgs {
		if avgs[i].Count > 0 {
			p.Summary = append(p.Summary, avgs[i].HTML())
		} else {
			p.Summary = append(p.Summary, "")
		}
	}
	return nil
}

// Handler function for the experiments template
func (p *ExpsPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.LoadFlashes(w, r)
		p.Retired = p.GetPref(r, "retired")
		if err := p.build(); err != nil {
			logError(w, err)
			return
		}
		if err := p.ExecuteTemplate(w, "exps", p); err != nil {
			logError(w, err)
		}
	}
}

// Handler function to toggle listing of retired presets
func (p *ExpsPage) Toggle() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.SetPref(w, r, "retired", !p.GetPref(r, "retired"))
		http.Redirect(w, r, "/exps", http.StatusFound)
	}
}

// Handler function to make an experiment current and open its config
func (p *ExpsPage) Select() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		name := r.FormValue("exp")
		if err := p.exp.Select(name); err != nil {
			logError(w, err)
			return
		}
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

func (p *ExpsPage) Heading() template.HTML {
	return template.HTML(fmt.Sprintf("%d experiments", len(p.Rows)))
}

func numeric(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
