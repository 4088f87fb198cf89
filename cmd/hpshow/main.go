package main

import (
	"flag"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	_ "github.com/bacaron/TractSeg/presets"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: hpshow [opts] <experiment>")
		os.Exit(1)
	}
	name := os.Args[len(os.Args)-1]
	conf, err := hp.Working(name)
	hp.CheckErr(err)

	// override config settings from command line
	flag.Float64Var(&conf.Eta, "eta", conf.Eta, "learning rate")
	flag.Float64Var(&conf.Lambda, "lambda", conf.Lambda, "weight decay parameter")
	flag.Float64Var(&conf.LossWeight, "weight", conf.LossWeight, "starting loss weighting factor")
	flag.IntVar(&conf.LossWeightLen, "weightlen", conf.LossWeightLen, "epochs to anneal the loss weight over")
	flag.IntVar(&conf.NumEpochs, "epochs", conf.NumEpochs, "number of training epochs")
	flag.IntVar(&conf.BatchSize, "batch", conf.BatchSize, "training batch size")
	flag.Int64Var(&conf.RandSeed, "seed", conf.RandSeed, "random number seed")
	flag.IntVar(&conf.DebugLevel, "debug", conf.DebugLevel, "debug logging level")
	every := flag.Int("schedule", 0, "print the loss weight every n epochs")
	out := flag.String("o", "", "export config to <file>.yaml or <file>.json under the data dir")
	flag.Parse()

	fmt.Println(conf)
	if *every > 0 {
		weights, err := conf.Weights()
		hp.CheckErr(err)
		for i := 0; i < len(weights); i += *every {
			fmt.Printf("epoch %4d: weight %.3f\n", i+1, weights[i])
		}
	}
	if *out != "" {
		err = conf.Save(*out)
		hp.CheckErr(err)
	}
}
