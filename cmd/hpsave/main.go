package main

import (
	"flag"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	_ "github.com/bacaron/TractSeg/presets"
	"os"
)

func main() {
	all := flag.Bool("all", false, "save every registered preset")
	retired := flag.Bool("retired", false, "include retired presets with -all")
	quiet := flag.Bool("q", false, "don't print each config")
	flag.Parse()

	names := flag.Args()
	if *all {
		names = hp.Names(*retired)
	}
	if len(names) == 0 {
		fmt.Println("usage: hpsave [opts] <preset>...")
		flag.PrintDefaults()
		os.Exit(1)
	}
	for _, name := range names {
		conf, err := hp.Resolve(name)
		hp.CheckErr(err)
		if !*quiet {
			fmt.Println(conf)
		}
		err = conf.SaveDefault(name)
		hp.CheckErr(err)
	}
}
