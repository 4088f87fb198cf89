package web

import (
	"fmt"
	"github.com/gorilla/sessions"
	"html/template"
	"log"
	"net/http"
	"os"
	"strings"
)

// AssetDir holds the html templates and static files. Set TRACTSEG_ASSETS to
// override.
var AssetDir = assetDir()

func assetDir() string {
	if dir := os.Getenv("TRACTSEG_ASSETS"); dir != "" {
		return dir
	}
	return "assets"
}

var authKey = []byte("Oogh4bailee9weiX")

const sessionName = "tractseg"

// Template and main menu definition
type Templates struct {
	*template.Template
	Menu    []Link
	Options []Link
	Message string
	store   sessions.Store
}

type Link struct {
	Url      string
	Name     string
	Selected bool
	Submit   bool
}

// Load and parse templates and initialise main menu
func NewTemplates() (*Templates, error) {
	var err error
	t := &Templates{Menu: []Link{}, Options: []Link{}}
	t.Template, err = template.ParseGlob(AssetDir + "/*.html")
	if err != nil {
		return nil, err
	}
	t.store = sessions.NewCookieStore(authKey)
	t.AddMenuItem(Link{Url: "/exps", Name: "experiments"})
	t.AddMenuItem(Link{Url: "/config", Name: "config"})
	t.AddMenuItem(Link{Url: "/schedule", Name: "schedule"})
	t.AddMenuItem(Link{Url: "/sweep", Name: "sweep"})
	return t, err
}

func (t *Templates) Clone() *Templates {
	return &Templates{
		Template: t.Template,
		Menu:     append([]Link{}, t.Menu...),
		Options:  append([]Link{}, t.Options...),
		store:    t.store,
	}
}

func (t *Templates) Select(url string) *Templates {
	for i, key := range t.Menu {
		t.Menu[i].Selected = strings.HasPrefix(key.Url, url)
	}
	return t
}

func (t *Templates) AddMenuItem(l Link) *Templates {
	t.Menu = append(t.Menu, l)
	return t
}

func (t *Templates) AddOption(l Link) *Templates {
	t.Options = append(t.Options, l)
	return t
}

func (t *Templates) SelectOptions(names []string) *Templates {
	for i, key := range t.Options {
		t.Options[i].Selected = false
		for _, name := range names {
			if key.Name == name {
				t.Options[i].Selected = true
			}
		}
	}
	return t
}

func (t *Templates) session(r *http.Request) *sessions.Session {
	s, err := t.store.Get(r, sessionName)
	if err != nil {
		log.Println("session error:", err)
	}
	return s
}

// AddFlash queues a notice to show on the next page load.
func (t *Templates) AddFlash(w http.ResponseWriter, r *http.Request, msg string) {
	s := t.session(r)
	s.AddFlash(msg)
	if err := s.Save(r, w); err != nil {
		log.Println("session save error:", err)
	}
}

// LoadFlashes pops queued notices into the Message field.
func (t *Templates) LoadFlashes(w http.ResponseWriter, r *http.Request) {
	s := t.session(r)
	t.Message = ""
	for _, f := range s.Flashes() {
		if msg, ok := f.(string); ok {
			if t.Message != "" {
				t.Message += "; "
			}
			t.Message += msg
		}
	}
	if err := s.Save(r, w); err != nil {
		log.Println("session save error:", err)
	}
}

// GetPref returns a per user flag from the session cookie.
func (t *Templates) GetPref(r *http.Request, key string) bool {
	val, ok := t.session(r).Values[key].(bool)
	return ok && val
}

// SetPref stores a per user flag in the session cookie.
func (t *Templates) SetPref(w http.ResponseWriter, r *http.Request, key string, on bool) {
	s := t.session(r)
	s.Values[key] = on
	if err := s.Save(r, w); err != nil {
		log.Println("session save error:", err)
	}
}

func logError(w http.ResponseWriter, err error) {
	log.Println(err)
	http.Error(w, fmt.Sprint(err), http.StatusInternalServerError)
}
