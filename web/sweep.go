package web

import (
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	"github.com/bacaron/TractSeg/stats"
	"html/template"
	"net/http"
	"strings"
)

type SweepPage struct {
	*Templates
	Cases   []SweepCase
	Ranges  []string
	runs    []hp.Config
	expName string
	exp     *Experiment
}

type SweepCase struct {
	Name   string
	Values []string
}

type Tuner struct {
	Name   string
	Values string
}

// Base data for handler functions to expand a hyperparameter sweep into one
// config per combination of the tuned values.
func NewSweepPage(t *Templates, exp *Experiment) *SweepPage {
	p := &SweepPage{exp: exp, expName: exp.Name}
	p.Templates = t.Select("/sweep")
	p.AddOption(Link{Name: "generate", Url: "/sweep/generate", Submit: true})
	p.AddOption(Link{Name: "save", Url: "/sweep/save"})
	return p
}

// drop generated cases when another page has switched experiment
func (p *SweepPage) invalidate() {
	if p.expName == p.exp.Name {
		return
	}
	p.runs, p.Cases, p.Ranges = nil, nil, nil
	p.expName = p.exp.Name
}

// Handler function for the sweep template
func (p *SweepPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.LoadFlashes(w, r)
		p.invalidate()
		if err := p.ExecuteTemplate(w, "sweep", p); err != nil {
			logError(w, err)
		}
	}
}

// Handler function for the sweep generate action
func (p *SweepPage) Generate() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.invalidate()
		r.ParseForm()
		for i, t := range p.exp.Tuners {
			if vals := strings.Fields(r.Form.Get(t.Name)); len(vals) > 0 {
				p.exp.Tuners[i].Values = vals
			}
		}
		runs, err := hp.Sweep(p.exp.Conf, p.exp.Tuners)
		if err != nil {
			p.AddFlash(w, r, fmt.Sprint(err))
			http.Redirect(w, r, "/sweep", http.StatusFound)
			return
		}
		p.runs = runs
		p.build()
		http.Redirect(w, r, "/sweep", http.StatusFound)
	}
}

// Handler function for the sweep save action, writes one artifact per case
func (p *SweepPage) Save() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.invalidate()
		if len(p.runs) == 0 {
			p.AddFlash(w, r, "no cases generated")
			http.Redirect(w, r, "/sweep", http.StatusFound)
			return
		}
		for i, conf := range p.runs {
			name := caseName(p.exp.Name, i)
			conf.ExpName = name
			if err := conf.Save(name + ".conf"); err != nil {
				logError(w, err)
				return
			}
		}
		p.AddFlash(w, r, fmt.Sprintf("saved %d configs", len(p.runs)))
		http.Redirect(w, r, "/sweep", http.StatusFound)
	}
}

func (p *SweepPage) build() {
	p.Cases = p.Cases[:0]
	ranges := make([]stats.Range, len(p.exp.Tuners))
	for i, conf := range p.runs {
		c := SweepCase{Name: caseName(p.exp.Name, i)}
		for j, t := range p.exp.Tuners {
			val, err := conf.Get(t.Name)
			if err != nil {
				continue
			}
			c.Values = append(c.Values, fmt.Sprint(val))
			if x, ok := numeric(val); ok {
				ranges[j].Add(x)
			}
		}
		p.Cases = append(p.Cases, c)
	}
	p.Ranges = p.Ranges[:0]
	for i := range ranges {
		p.Ranges = append(p.Ranges, ranges[i].String())
	}
}

func (p *SweepPage) Heading() template.HTML {
	return template.HTML(fmt.Sprintf("%s: %d cases", p.exp.Name, len(p.runs)))
}

func (p *SweepPage) Tuners() []Tuner {
	var list []Tuner
	for _, t := range p.exp.Tuners {
		list = append(list, Tuner{Name: t.Name, Values: strings.Join(t.Values, " ")})
	}
	return list
}

func caseName(exp string, i int) string {
	return fmt.Sprintf("%s_%02d", exp, i+1)
}
