// Package presets registers the built in experiment definitions: root
// presets carrying the complete default settings plus named refinements
// which override a few fields each. Importing the package populates the
// hp registry.
package presets

import (
	"github.com/bacaron/TractSeg/hp"
)

// PeakReg returns the default settings for peak regression experiments:
// predict the principal fibre directions per voxel from multi shell
// diffusion data.
func PeakReg() hp.Config {
	return hp.Config{
		DataSet:    "HCP",
		ClassSet:   "All",
		NumClasses: 72,
		NumPeaks:   20,
		Gradients:  "12g90g270g",
		Resolution: 1.25,
		Model:      "UNet",
		Optimizer:  "adamax",
		Eta:        0.001,
		BatchSize:  44,
		LossFunc:   "weightedMSE",
		LossWeight: 1,
		NumEpochs:  250,
		Threshold:  0.5,
		Normalise:  true,
		Shuffle:    true,
		RandSeed:   42,
		LogEvery:   1,
	}
}

func init() {
	conf := PeakReg()
	hp.MustRegister(hp.Preset{
		Name:     "PeakReg",
		Desc:     "peak regression base settings",
		Defaults: &conf,
	})
}
