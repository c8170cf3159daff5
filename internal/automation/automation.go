package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sway/internal/clock"
	"github.com/san-kum/sway/internal/config"
	"github.com/san-kum/sway/internal/params"
)

const DefaultResolution = 10 * time.Millisecond

// Script is a timed list of host-side parameter changes.
type Script struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Loop        bool          `yaml:"loop"`
	Resolution  time.Duration `yaml:"resolution"`
	Steps       []Step        `yaml:"steps"`
}

// Step changes one parameter at At, either at once or as a linear ramp
// from whatever the host holds when the step starts. A step naming a
// preset loads the whole preset instead.
type Step struct {
	At     time.Duration `yaml:"at"`
	Param  string        `yaml:"param,omitempty"`
	Value  float64       `yaml:"value,omitempty"`
	Ramp   time.Duration `yaml:"ramp,omitempty"`
	Preset string        `yaml:"preset,omitempty"`
}

// Target is the host the script plays against.
type Target interface {
	Set(id string, scaled float64) error
	Value(id string) (float64, error)
	ApplyPreset(values map[string]float64) error
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	if s.Resolution <= 0 {
		s.Resolution = DefaultResolution
	}
	return &s, nil
}

func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if st.At < 0 || st.Ramp < 0 {
			return fmt.Errorf("step %d: negative time", i+1)
		}
		if st.Preset != "" {
			if _, err := config.GetPreset(st.Preset); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			continue
		}
		if _, err := params.Lookup(st.Param); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Length is the time the last step finishes.
func (s *Script) Length() time.Duration {
	var end time.Duration
	for _, st := range s.Steps {
		end = max(end, st.At+st.Ramp)
	}
	return end
}

type ramp struct {
	from, to   float64
	start, dur time.Duration
}

// Playback is the state of one pass through a script. Advance is driven
// with the elapsed time since the pass began.
type Playback struct {
	script *Script
	target Target
	next   int
	ramps  map[string]*ramp
	log    *slog.Logger
}

func NewPlayback(s *Script, t Target, log *slog.Logger) *Playback {
	if log == nil {
		log = slog.Default()
	}
	return &Playback{script: s, target: t, ramps: make(map[string]*ramp), log: log}
}

// Advance fires every step due by elapsed and moves running ramps. It
// reports whether the pass has finished.
func (p *Playback) Advance(elapsed time.Duration) (bool, error) {
	for p.next < len(p.script.Steps) && p.script.Steps[p.next].At <= elapsed {
		st := p.script.Steps[p.next]
		p.next++
		if err := p.fire(st); err != nil {
			return false, err
		}
	}

	for id, r := range p.ramps {
		frac := 1.0
		if r.dur > 0 {
			frac = min(1, float64(elapsed-r.start)/float64(r.dur))
		}
		if err := p.target.Set(id, r.from+(r.to-r.from)*frac); err != nil {
			return false, err
		}
		if frac >= 1 {
			delete(p.ramps, id)
		}
	}

	return p.next == len(p.script.Steps) && len(p.ramps) == 0, nil
}

func (p *Playback) fire(st Step) error {
	if st.Preset != "" {
		values, err := config.GetPreset(st.Preset)
		if err != nil {
			return err
		}
		p.log.Debug("automation preset", "preset", st.Preset, "at", st.At)
		return p.target.ApplyPreset(values)
	}

	if st.Ramp == 0 {
		delete(p.ramps, st.Param)
		p.log.Debug("automation set", "param", st.Param, "value", st.Value, "at", st.At)
		return p.target.Set(st.Param, st.Value)
	}

	from, err := p.target.Value(st.Param)
	if err != nil {
		return err
	}
	p.ramps[st.Param] = &ramp{from: from, to: st.Value, start: st.At, dur: st.Ramp}
	return nil
}

// Reset rewinds to the start of the script.
func (p *Playback) Reset() {
	p.next = 0
	clear(p.ramps)
}

// Play runs s against t on c until it ends, or forever when the script
// loops, or until ctx is done.
func Play(ctx context.Context, s *Script, t Target, c clock.Clock, log *slog.Logger) error {
	if c == nil {
		c = clock.Real()
	}
	pb := NewPlayback(s, t, log)
	pb.log.Info("automation started", "script", s.Name, "steps", len(s.Steps), "loop", s.Loop)

	res := s.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	ticker := c.NewTicker(res)
	defer ticker.Stop()

	start := c.Now()
	for {
		done, err := pb.Advance(c.Now().Sub(start))
		if err != nil {
			return fmt.Errorf("automation %s: %w", s.Name, err)
		}
		if done {
			if !s.Loop || len(s.Steps) == 0 {
				pb.log.Info("automation finished", "script", s.Name)
				return nil
			}
			pb.Reset()
			start = c.Now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
