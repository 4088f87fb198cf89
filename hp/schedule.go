package hp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Schedule gives the loss weighting factor applied at each training epoch.
// Epochs are numbered from 1.
type Schedule interface {
	WeightAt(c Config, epoch int) float64
	ToString() string
}

type ConfigSchedule interface {
	Marshal() ScheduleConfig
}

// Loss weight schedule configuration details
type ScheduleConfig struct {
	Type string
	Data json.RawMessage `json:",omitempty" yaml:",omitempty"`
}

// Unmarshal JSON data and construct the schedule. An unset schedule is
// linear, so LossWeightLen takes effect without further settings. An
// unrecognised type gives a *FieldError since the value may come from an
// edited artifact.
func (s ScheduleConfig) Unmarshal() (Schedule, error) {
	switch s.Type {
	case "const":
		return Const{}, nil
	case "", "linear":
		cfg := new(Linear)
		if err := unmarshal(s.Data, cfg); err != nil {
			return nil, &FieldError{Field: "Schedule", Reason: err.Error()}
		}
		return *cfg, nil
	case "exp":
		cfg := new(Exp)
		if err := unmarshal(s.Data, cfg); err != nil {
			return nil, &FieldError{Field: "Schedule", Reason: err.Error()}
		}
		return *cfg, nil
	default:
		return nil, &FieldError{Field: "Schedule", Reason: "invalid schedule type " + strconv.Quote(s.Type)}
	}
}

func (s ScheduleConfig) String() string {
	sched, err := s.Unmarshal()
	if err != nil {
		return s.Type + "?"
	}
	return sched.ToString()
}

// Const schedule keeps the weight at LossWeight for the whole run, ignoring
// LossWeightLen.
type Const struct{}

func (s Const) Marshal() ScheduleConfig {
	return ScheduleConfig{Type: "const"}
}

func (s Const) ToString() string {
	return "const"
}

func (s Const) WeightAt(c Config, epoch int) float64 {
	return c.LossWeight
}

// Linear schedule anneals the weight from LossWeight down to Floor over the
// first LossWeightLen epochs, then holds it there. Floor defaults to 1. When
// LossWeightLen is unset there is nothing to anneal over and the weight stays
// at LossWeight.
type Linear struct {
	Floor float64
}

func (s Linear) Marshal() ScheduleConfig {
	if s.Floor == 0 {
		s.Floor = 1
	}
	return ScheduleConfig{Type: "linear", Data: marshal(s)}
}

func (s Linear) ToString() string {
	return fmt.Sprintf("linear %+v", s)
}

func (s Linear) WeightAt(c Config, epoch int) float64 {
	if c.LossWeightLen <= 0 {
		return c.LossWeight
	}
	floor := s.Floor
	if floor == 0 {
		floor = 1
	}
	if epoch >= c.LossWeightLen {
		return floor
	}
	frac := float64(epoch-1) / float64(c.LossWeightLen)
	return c.LossWeight - (c.LossWeight-floor)*frac
}

// Exp schedule decays the excess over Floor by half every HalfLife epochs.
// HalfLife defaults to LossWeightLen / 8.
type Exp struct {
	Floor    float64
	HalfLife int
}

func (s Exp) Marshal() ScheduleConfig {
	if s.Floor == 0 {
		s.Floor = 1
	}
	return ScheduleConfig{Type: "exp", Data: marshal(s)}
}

func (s Exp) ToString() string {
	return fmt.Sprintf("exp %+v", s)
}

func (s Exp) WeightAt(c Config, epoch int) float64 {
	floor := s.Floor
	if floor == 0 {
		floor = 1
	}
	halfLife := s.HalfLife
	if halfLife <= 0 {
		halfLife = c.LossWeightLen / 8
	}
	if halfLife <= 0 {
		return floor
	}
	decay := math.Pow(2, -float64(epoch-1)/float64(halfLife))
	return floor + (c.LossWeight-floor)*decay
}

// SetSchedule replaces the loss weight schedule, returning the updated config.
func (c Config) SetSchedule(s ConfigSchedule) Config {
	c.Schedule = s.Marshal()
	return c
}

func (c Config) weightSchedule() (Schedule, error) {
	return c.Schedule.Unmarshal()
}

// WeightAt returns the loss weighting factor applied at the given epoch.
func (c Config) WeightAt(epoch int) (float64, error) {
	sched, err := c.weightSchedule()
	if err != nil {
		return 0, err
	}
	return sched.WeightAt(c, epoch), nil
}

// Weights evaluates the schedule for each epoch of the run. A run with no
// epochs has no weights.
func (c Config) Weights() ([]float64, error) {
	sched, err := c.weightSchedule()
	if err != nil {
		return nil, err
	}
	if c.NumEpochs <= 0 {
		return nil, nil
	}
	weights := make([]float64, c.NumEpochs)
	for i := range weights {
		weights[i] = sched.WeightAt(c, i+1)
	}
	return weights, nil
}

func marshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func unmarshal(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
