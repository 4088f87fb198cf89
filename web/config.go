package web

import (
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	"github.com/gorilla/mux"
	"html/template"
	"log"
	"net/http"
	"strings"
)

const histShow = 5

type ConfigPage struct {
	*Templates
	Fields   []Field
	Schedule string
	expName  string
	exp      *Experiment
}

type Field struct {
	Name    string
	Value   string
	Error   string
	Boolean bool
	On      bool
}

type HistRow struct {
	When    string
	Changed string
}

// Base data for handler functions to view and update the experiment config
func NewConfigPage(t *Templates, exp *Experiment) *ConfigPage {
	p := &ConfigPage{exp: exp}
	p.Templates = t.Select("/config")
	p.AddOption(Link{Name: "save", Url: "/config/save", Submit: true})
	p.AddOption(Link{Name: "reset", Url: "/config/reset"})
	p.AddOption(Link{Name: "export yaml", Url: "/config/export/yaml"})
	p.AddOption(Link{Name: "export json", Url: "/config/export/json"})
	p.refresh()
	return p
}

// rebuild the form fields from the working config
func (p *ConfigPage) refresh() {
	p.Fields = getFields(p.exp.Conf)
	p.expName = p.exp.Name
}

// rebuild the form fields if another page has switched experiment, edited
// values from a failed save are kept while the name matches
func (p *ConfigPage) sync() {
	if p.expName != p.exp.Name {
		p.refresh()
	}
}

// Handler function for the config template
func (p *ConfigPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		p.LoadFlashes(w, r)
		p.sync()
		p.Schedule = p.exp.Conf.Schedule.String()
		if err := p.ExecuteTemplate(w, "config", p); err != nil {
			logError(w, err)
		}
	}
}

// Handler function for the action to switch experiment
func (p *ConfigPage) Load() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		name := r.FormValue("exp")
		if err := p.exp.Select(name); err != nil {
			logError(w, err)
			return
		}
		p.refresh()
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

// Handler function for the config form save action
func (p *ConfigPage) Save() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		r.ParseForm()
		haveErrors := false
		conf := p.exp.Conf
		for i, fld := range p.Fields {
			val := r.Form.Get(fld.Name)
			var err error
			if fld.Boolean {
				p.Fields[i].On = (val == "true")
				conf, err = conf.SetBool(fld.Name, p.Fields[i].On)
			} else {
				p.Fields[i].Value = val
				conf, err = conf.SetString(fld.Name, val)
			}
			p.Fields[i].Error = ""
			if err != nil {
				if ferr, ok := err.(*hp.FieldError); ok {
					p.Fields[i].Error = ferr.Reason
				} else {
					p.Fields[i].Error = "invalid syntax"
				}
				haveErrors = true
			}
		}
		if !haveErrors {
			if err := p.exp.Update(conf); err != nil {
				logError(w, err)
				return
			}
			p.refresh()
			p.AddFlash(w, r, "saved "+p.exp.Name+".conf")
		}
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

// Handler function for the config reset action
func (p *ConfigPage) Reset() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		if err := p.exp.Reset(); err != nil {
			logError(w, err)
			return
		}
		p.refresh()
		p.AddFlash(w, r, "restored default settings")
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

// Handler function to download the config as a file
func (p *ConfigPage) Export() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.exp.Lock()
		defer p.exp.Unlock()
		format := mux.Vars(r)["format"]
		if format == "yaml" {
			w.Header().Set("Content-Type", "application/x-yaml")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.Header().Set("Content-Disposition", "attachment; filename="+p.exp.Name+"."+format)
		if err := p.exp.Export(w, format); err != nil {
			logError(w, err)
		}
	}
}

func (p *ConfigPage) Heading() template.HTML {
	names, err := hp.List(true)
	if err != nil {
		log.Println("error listing experiments:", err)
	}
	html := `experiment: <select name="exp" class="exp-select" form="loadConfig" onchange="this.form.submit()">`
	for _, name := range names {
		if name == p.exp.Name {
			html += "<option selected>" + name + "</option>"
		} else {
			html += "<option>" + name + "</option>"
		}
	}
	html += "</select>"
	return template.HTML(html)
}

// History lists the most recent saves with the fields changed in each,
// newest first.
func (p *ConfigPage) History() []HistRow {
	ent := p.exp.Hist.Entries
	var rows []HistRow
	for i := len(ent) - 1; i > 0 && len(rows) < histShow; i-- {
		rows = append(rows, HistRow{
			When:    ent[i].Stamp.Format("02 Jan 15:04:05"),
			Changed: strings.Join(changedFields(ent[i-1].Conf, ent[i].Conf), " "),
		})
	}
	if len(ent) > 0 && len(rows) < histShow {
		rows = append(rows, HistRow{When: ent[0].Stamp.Format("02 Jan 15:04:05"), Changed: "created"})
	}
	return rows
}

func changedFields(prev, cur hp.Config) []string {
	var diff []string
	for _, name := range cur.Fields() {
		v1, _ := prev.Get(name)
		v2, _ := cur.Get(name)
		if v1 != v2 {
			diff = append(diff, name)
		}
	}
	if prev.Schedule.String() != cur.Schedule.String() {
		diff = append(diff, "Schedule")
	}
	return diff
}

func getFields(conf hp.Config) []Field {
	var flds []Field
	for _, key := range conf.Fields() {
		if key == "ExpName" {
			continue
		}
		val, _ := conf.Get(key)
		f := Field{Name: key, Value: fmt.Sprint(val)}
		f.On, f.Boolean = val.(bool)
		flds = append(flds, f)
	}
	return flds
}
