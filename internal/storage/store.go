package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sway/internal/telemetry"
)

var ErrNotFound = errors.New("capture not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Capture describes one recorded telemetry session.
type Capture struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source"`
	Rate      float64            `json:"rate"`
	Frames    int                `json:"frames"`
	Params    map[string]float64 `json:"params"`
}

// Sample is one frame and the time it was taken, in seconds from the
// start of the capture.
type Sample struct {
	T     float64
	Frame telemetry.Frame
}

var header = []string{
	"t", "lfoPhase", "lfoValue", "stereoPhaseL", "stereoPhaseR",
	"modDepthL", "modDepthR", "voice0", "voice1", "voice2", "voice3", "mode",
}

// Save writes a capture directory holding metadata.json and frames.csv
// and returns the new capture id.
func (s *Store) Save(source string, rate float64, params map[string]float64, samples []Sample) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d", source, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Capture{
		ID:        id,
		Timestamp: now,
		Source:    source,
		Rate:      rate,
		Frames:    len(samples),
		Params:    params,
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, smp := range samples {
		if err := w.Write(row(smp)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return id, nil
}

func row(smp Sample) []string {
	f := smp.Frame
	vals := []float64{
		smp.T, f.LFOPhase, f.LFOValue, f.StereoPhaseL, f.StereoPhaseR,
		f.ModDepthL, f.ModDepthR,
		f.VoicePhases[0], f.VoicePhases[1], f.VoicePhases[2], f.VoicePhases[3],
	}
	out := make([]string, 0, len(header))
	for _, v := range vals {
		out = append(out, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return append(out, strconv.Itoa(f.Mode))
}

// List returns every readable capture, newest first.
func (s *Store) List() ([]Capture, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Capture{}, nil
		}
		return nil, err
	}

	caps := make([]Capture, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		caps = append(caps, *meta)
	}

	sort.Slice(caps, func(i, j int) bool {
		return caps[i].Timestamp.After(caps[j].Timestamp)
	})
	return caps, nil
}

func (s *Store) Load(id string) (*Capture, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta Capture
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("capture %s: %w", id, err)
	}
	return &meta, nil
}

// LoadFrames reads the samples of a capture. Rows that do not parse are
// skipped.
func (s *Store) LoadFrames(id string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		smp, ok := parseRow(rec)
		if !ok {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseRow(rec []string) (Sample, bool) {
	if len(rec) != len(header) {
		return Sample{}, false
	}
	vals := make([]float64, len(rec)-1)
	for i := range vals {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return Sample{}, false
		}
		vals[i] = v
	}
	mode, err := strconv.Atoi(rec[len(rec)-1])
	if err != nil {
		return Sample{}, false
	}

	return Sample{
		T: vals[0],
		Frame: telemetry.Frame{
			LFOPhase:     vals[1],
			LFOValue:     vals[2],
			StereoPhaseL: vals[3],
			StereoPhaseR: vals[4],
			ModDepthL:    vals[5],
			ModDepthR:    vals[6],
			VoicePhases:  [telemetry.VoiceCount]float64{vals[7], vals[8], vals[9], vals[10]},
			Mode:         mode,
		},
	}, true
}

// Trace pulls one named column out of a capture's samples, for plotting.
func Trace(samples []Sample, column string) ([]float64, error) {
	idx := -1
	for i, h := range header {
		if h == column {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return nil, fmt.Errorf("unknown column %q", column)
	}

	out := make([]float64, len(samples))
	for i, smp := range samples {
		r := row(smp)
		v, _ := strconv.ParseFloat(r[idx], 64)
		out[i] = v
	}
	return out, nil
}

// Columns lists the plottable column names.
func Columns() []string {
	return append([]string(nil), header[1:]...)
}
