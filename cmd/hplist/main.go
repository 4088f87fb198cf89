package main

import (
	"flag"
	"fmt"
	"github.com/bacaron/TractSeg/hp"
	_ "github.com/bacaron/TractSeg/presets"
	"github.com/bacaron/TractSeg/stats"
	"github.com/olekukonko/tablewriter"
	"os"
)

var columns = []string{"NumPeaks", "Gradients", "Resolution", "Eta", "LossWeight", "LossWeightLen", "NumEpochs"}

func main() {
	retired := flag.Bool("retired", false, "include retired presets")
	summary := flag.Bool("stats", false, "add mean and spread of each column")
	flag.Parse()

	names, err := hp.List(*retired)
	hp.CheckErr(err)
	if len(names) == 0 {
		fmt.Println("no experiments found")
		return
	}

	avgs := make([]stats.Average, len(columns))
	var rows [][]string
	for _, name := range names {
		conf, err := hp.Working(name)
		hp.CheckErr(err)
		row := []string{name, base(name)}
		for i, col := range columns {
			val, err := conf.Get(col)
			hp.CheckErr(err)
			row = append(row, fmt.Sprint(val))
			if x, ok := numeric(val); ok {
				avgs[i].Add(x)
			}
		}
		rows = append(rows, row)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(append([]string{"NAME", "BASE"}, columns...))
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	if *summary {
		foot := []string{fmt.Sprintf("%d exps", len(names)), ""}
		for _, avg := range avgs {
			if avg.Count > 0 {
				foot = append(foot, avg.String())
			} else {
				foot = append(foot, "")
			}
		}
		table.SetFooter(foot)
		table.SetFooterAlignment(tablewriter.ALIGN_LEFT)
	}
	table.Render()
}

// base preset name, or blank for roots and unregistered artifacts
func base(name string) string {
	if p, ok := hp.Lookup(name); ok {
		return p.Base
	}
	return ""
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
