// Package web has a web based dashboard to browse, edit and compare
// experiment hyperparameter configurations.
package web

import (
	"encoding/json"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"
	"io"
	"log"
	"sync"
)

var tuneOpts = []string{"Eta", "LossWeight", "LossWeightLen", "NumEpochs"}

// Experiment holds the currently selected experiment, its working config and
// the sweep settings. Page handlers lock it for the duration of a request.
type Experiment struct {
	Name   string
	Conf   hp.Config
	Hist   *hp.History
	Tuners []hp.SweepParam
	conn   *websocket.Conn
	sync.Mutex
}

// NewExperiment loads the named experiment: the saved artifact if present,
// else the registered preset is resolved and saved as the working copy.
func NewExperiment(name string) (*Experiment, error) {
	e := &Experiment{}
	if err := e.Select(name); err != nil {
		return nil, err
	}
	return e, nil
}

// Select switches to the named experiment. Caller should hold the lock.
func (e *Experiment) Select(name string) error {
	log.Println("select experiment:", name)
	var conf hp.Config
	var err error
	if hp.HasArtifact(name) {
		conf, err = hp.Working(name)
	} else {
		conf, err = hp.Resolve(name)
		if err == nil {
			err = conf.SaveDefault(name)
		}
	}
	if err != nil {
		return err
	}
	hist, err := hp.LoadHistory(name)
	if err != nil {
		return err
	}
	e.Name = name
	e.Conf = conf
	e.Hist = hist
	e.Tuners = nil
	for _, opt := range tuneOpts {
		val, err := conf.Get(opt)
		if err != nil {
			return err
		}
		e.Tuners = append(e.Tuners, hp.SweepParam{Name: opt, Values: []string{fmt.Sprint(val)}})
	}
	return nil
}

// Update saves the working config, appends it to the history and notifies
// any attached websocket so open pages refresh.
func (e *Experiment) Update(conf hp.Config) error {
	conf.ExpName = e.Name
	if err := conf.Save(e.Name + ".conf"); err != nil {
		return err
	}
	e.Conf = conf
	e.Hist.Add(conf)
	if err := e.Hist.Save(); err != nil {
		return err
	}
	e.notify()
	return nil
}

// Reset restores the default settings: the registered preset when there is
// one, else the saved .default artifact.
func (e *Experiment) Reset() error {
	conf, err := hp.Resolve(e.Name)
	if _, missing := err.(*hp.NotFoundError); missing {
		conf, err = hp.LoadConfig(e.Name + ".default")
	}
	if err != nil {
		return err
	}
	return e.Update(conf)
}

// Export writes the config in yaml or json format.
func (e *Experiment) Export(w io.Writer, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e.Conf); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e.Conf)
}

func (e *Experiment) notify() {
	if e.conn == nil {
		return
	}
	err := e.conn.WriteMessage(websocket.TextMessage, []byte("saved:"+e.Name))
	if err != nil {
		log.Println("notify: error writing to websocket", err)
	}
}

