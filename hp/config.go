// Package hp manages hyperparameter configurations for tract segmentation
// training experiments. Each experiment is a named refinement of a base
// preset: the base supplies every field and the experiment overrides a few.
package hp

import (
	"encoding/json"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// DataDir holds saved config artifacts. Set TRACTSEG_DIR to override, either
// in the environment or in a .env file in the current directory.
var DataDir = dataDir()

func dataDir() string {
	godotenv.Load()
	if dir := os.Getenv("TRACTSEG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tractseg"
	}
	return path.Join(home, ".tractseg")
}

// Experiment configuration settings. A Config is a plain value: helpers which
// update fields return a modified copy, so a resolved config is safe to read
// from any number of goroutines.
type Config struct {
	ExpName       string
	DataSet       string
	ClassSet      string
	NumClasses    int
	NumPeaks      int
	Gradients     string
	Resolution    float64
	Model         string
	Optimizer     string
	Eta           float64
	Lambda        float64
	Momentum      float64
	BatchSize     int
	LossFunc      string
	LossWeight    float64
	LossWeightLen int
	NumEpochs     int
	Threshold     float64
	Normalise     bool
	Shuffle       bool
	RandSeed      int64
	LogEvery      int
	DebugLevel    int
	Schedule      ScheduleConfig
}

// Load config artifact from file under DataDir. The experiment name is taken
// from the file name, not from the stored record, so a renamed artifact
// renames the experiment.
func LoadConfig(name string) (c Config, err error) {
	filePath := path.Join(DataDir, name)
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return c, &NotFoundError{Name: name}
		}
		return c, err
	}
	defer f.Close()
	fmt.Println("loading config from", name)
	if isYAML(name) {
		err = yaml.NewDecoder(f).Decode(&c)
	} else {
		err = json.NewDecoder(f).Decode(&c)
	}
	if err != nil {
		return c, fmt.Errorf("%s: %v", name, err)
	}
	c.ExpName = ExpName(name)
	return c, nil
}

// Save default config and overwrite the current working copy
func (c Config) SaveDefault(name string) error {
	err := c.Save(name + ".default")
	if err != nil {
		return err
	}
	return c.Save(name + ".conf")
}

// Save config to file under DataDir, creating the directory if needed. The
// format is chosen from the file extension: .yaml or .yml for YAML, anything
// else is JSON.
func (c Config) Save(name string) error {
	if err := os.MkdirAll(DataDir, 0755); err != nil {
		return err
	}
	filePath := path.Join(DataDir, "."+name)
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	fmt.Println("saving config to", name)
	if isYAML(name) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err = enc.Encode(c); err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(c)
	}
	if err != nil {
		f.Close()
		return err
	}
	f.Close()
	return os.Rename(filePath, path.Join(DataDir, name))
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// Check if file exists under DataDir
func FileExists(name string) bool {
	filePath := path.Join(DataDir, name)
	_, err := os.Stat(filePath)
	return err == nil
}

// Field names in declaration order, excluding the schedule sub-record.
func (c Config) Fields() []string {
	st := reflect.TypeOf(c)
	fld := make([]string, st.NumField()-1)
	for i := range fld {
		fld[i] = st.Field(i).Name
	}
	return fld
}

// Get field value by name.
func (c Config) Get(key string) (interface{}, error) {
	s := reflect.ValueOf(c)
	f := s.FieldByName(key)
	if !f.IsValid() {
		return nil, &FieldError{Field: key, Reason: "no such field"}
	}
	return f.Interface(), nil
}

// Number of input channels fed to the model: each peak is a 3-vector.
func (c Config) InChannels() int {
	return c.NumPeaks * 3
}

func (c Config) configString() string {
	fields := c.Fields()
	str := []string{"== Config =="}
	for _, key := range fields {
		val, _ := c.Get(key)
		str = append(str, fmt.Sprintf("%-14s: %v", key, val))
	}
	return strings.Join(str, "\n")
}

func (c Config) String() string {
	s := c.configString()
	sched, err := c.weightSchedule()
	if err == nil {
		s += fmt.Sprintf("\n%-14s: %s", "Schedule", sched.ToString())
	}
	return s
}

// Set the named field from its string representation, returning the updated
// config. Unknown fields and unparseable values give a *FieldError.
func (c Config) SetString(key, val string) (Config, error) {
	s := reflect.ValueOf(&c).Elem()
	f := s.FieldByName(key)
	if !f.IsValid() {
		return c, &FieldError{Field: key, Reason: "no such field"}
	}
	switch f.Type().Kind() {
	case reflect.Int, reflect.Int64:
		x, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return c, &FieldError{Field: key, Reason: "invalid integer " + strconv.Quote(val)}
		}
		f.SetInt(x)
	case reflect.Float64:
		x, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return c, &FieldError{Field: key, Reason: "invalid number " + strconv.Quote(val)}
		}
		f.SetFloat(x)
	case reflect.String:
		f.SetString(val)
	default:
		return c, &FieldError{Field: key, Reason: fmt.Sprintf("invalid type for SetString: %v", f.Type().Kind())}
	}
	return c, nil
}

// Set the named boolean field, returning the updated config.
func (c Config) SetBool(key string, val bool) (Config, error) {
	s := reflect.ValueOf(&c).Elem()
	f := s.FieldByName(key)
	if !f.IsValid() {
		return c, &FieldError{Field: key, Reason: "no such field"}
	}
	if f.Type().Kind() != reflect.Bool {
		return c, &FieldError{Field: key, Reason: fmt.Sprintf("invalid type for SetBool: %v", f.Type().Kind())}
	}
	f.SetBool(val)
	return c, nil
}

// Apply field overrides to the config, returning the merged copy. Fields not
// named in the map are left unchanged, overridden fields are replaced. Keys
// are applied in sorted order so errors are reported deterministically.
func (c Config) Apply(over map[string]string) (Config, error) {
	keys := make([]string, 0, len(over))
	for key := range over {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var err error
	for _, key := range keys {
		val := over[key]
		s := reflect.ValueOf(c)
		f := s.FieldByName(key)
		if f.IsValid() && f.Type().Kind() == reflect.Bool {
			b, perr := strconv.ParseBool(val)
			if perr != nil {
				return c, &FieldError{Field: key, Reason: "invalid boolean " + strconv.Quote(val)}
			}
			c, err = c.SetBool(key, b)
		} else {
			c, err = c.SetString(key, val)
		}
		if err != nil {
			return c, err
		}
	}
	return c, nil
}
