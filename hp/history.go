package hp

import (
	"encoding/gob"
	"log"
	"os"
	"path"
	"time"
)

// HistoryData records one materialised config and when it was produced.
type HistoryData struct {
	Stamp time.Time
	Conf  Config
}

// History is the audit trail of configs saved for one experiment, oldest
// entry first.
type History struct {
	ExpName string
	Entries []HistoryData
}

// Read back gob encoded history file, if not found start a new empty history.
func LoadHistory(name string) (*History, error) {
	h := &History{ExpName: name, Entries: []HistoryData{}}
	filePath := path.Join(DataDir, name+".hist")
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, err
	}
	defer f.Close()
	log.Println("loading history from", name+".hist")
	if err = gob.NewDecoder(f).Decode(h); err != nil {
		return nil, err
	}
	h.ExpName = name
	return h, nil
}

// Add appends an entry stamped with the current time.
func (h *History) Add(conf Config) {
	h.Entries = append(h.Entries, HistoryData{Stamp: time.Now(), Conf: conf})
}

// Latest returns the most recent entry.
func (h *History) Latest() (HistoryData, bool) {
	if len(h.Entries) == 0 {
		return HistoryData{}, false
	}
	return h.Entries[len(h.Entries)-1], true
}

// Encode history in gob format and save to file under DataDir
func (h *History) Save() error {
	if err := os.MkdirAll(DataDir, 0755); err != nil {
		return err
	}
	filePath := path.Join(DataDir, h.ExpName+".hist")
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(*h)
}
