package main

import (
	"flag"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	_ "github.com/bacaron/TractSeg/presets"
	"github.com/bacaron/TractSeg/web"
	"github.com/gorilla/mux"
	"log"
	"net/http"
	"os"
	"strings"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Println("usage: hpweb [opts] <experiment>")
		os.Exit(1)
	}
	name := os.Args[len(os.Args)-1]
	port := flag.Int("port", 8080, "web server port")
	auth := flag.Bool("auth", false, "require login with pam authentication")
	users := flag.String("users", "", "comma separated list of accounts allowed to log in")
	flag.Parse()

	exp, err := web.NewExperiment(name)
	hp.CheckErr(err)

	t, err := web.NewTemplates()
	hp.CheckErr(err)

	expsPage := web.NewExpsPage(t.Clone(), exp)
	configPage := web.NewConfigPage(t.Clone(), exp)
	schedulePage := web.NewSchedulePage(t.Clone(), exp)
	sweepPage := web.NewSweepPage(t.Clone(), exp)

	r := mux.NewRouter()
	r.Handle("/", http.RedirectHandler("/exps", http.StatusFound))
	r.PathPrefix("/static/").Handler(http.FileServer(http.Dir(web.AssetDir)))

	r.HandleFunc("/exps", expsPage.Base())
	r.HandleFunc("/exps/retired", expsPage.Toggle())
	r.HandleFunc("/exps/select", expsPage.Select())

	r.HandleFunc("/config", configPage.Base())
	r.HandleFunc("/config/load", configPage.Load())
	r.HandleFunc("/config/save", configPage.Save()).Methods("POST")
	r.HandleFunc("/config/reset", configPage.Reset())
	r.HandleFunc("/config/export/{format:(?:yaml|json)}", configPage.Export())

	r.HandleFunc("/schedule", schedulePage.Base())
	r.HandleFunc("/schedule/save", schedulePage.Save()).Methods("POST")
	r.HandleFunc("/ws", schedulePage.Websocket())

	r.HandleFunc("/sweep", sweepPage.Base())
	r.HandleFunc("/sweep/generate", sweepPage.Generate()).Methods("POST")
	r.HandleFunc("/sweep/save", sweepPage.Save())

	var handler http.Handler = r
	if *auth {
		mw := web.NewAuthMiddleware(strings.FieldsFunc(*users, func(c rune) bool { return c == ',' })...)
		handler = mw.Middleware(r)
	}
	fmt.Printf("serving web page at http://localhost:%d\n", *port)
	http.ListenAndServe(fmt.Sprintf(":%d", *port), handler)
}
