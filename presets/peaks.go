package presets

import (
	"github.com/bacaron/TractSeg/hp"
)

func init() {
	hp.MustRegister(hp.Preset{
		Name: "Peaks20_12g90g270g_125mm",
		Base: "PeakReg",
		Desc: "20 peaks from all shells at 1.25mm, loss weight annealed over 400 epochs",
		Override: map[string]string{
			"LossWeight":    "10",
			"LossWeightLen": "400",
			"NumEpochs":     "500",
		},
	})
	hp.MustRegister(hp.Preset{
		Name:     "Peaks20_12g90g270g_25mm",
		Base:     "PeakReg",
		Desc:     "input downsampled to 2.5mm resolution",
		Override: map[string]string{"Resolution": "2.5"},
	})
	hp.MustRegister(hp.Preset{
		Name:     "Peaks20_270g_125mm",
		Base:     "PeakReg",
		Desc:     "single shell with 270 gradient directions",
		Override: map[string]string{"Gradients": "270g"},
	})
	// kept so old artifacts still resolve under the name they were saved with
	hp.MustRegister(hp.Preset{
		Name:    "Peaks20_12g90g270g_ALLoss",
		Base:    "Peaks20_12g90g270g_125mm",
		Desc:    "former name of Peaks20_12g90g270g_125mm",
		Retired: true,
	})
}
