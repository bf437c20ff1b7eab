package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/reaction"
)

// Scenario is a scripted sequence of phases run against one simulator.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Phases      []Phase `yaml:"phases"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Phase switches parameters, applies injections, then runs Steps steps.
// Unset fields leave the simulator as the previous phase left it.
type Phase struct {
	Name         string  `yaml:"name"`
	Preset       string  `yaml:"preset"`
	Steps        int     `yaml:"steps"`
	SampleEvery  int     `yaml:"sample_every"`
	Inject       []Point `yaml:"inject"`
	InjectRandom int     `yaml:"inject_random"`
	Perturb      *bool   `yaml:"perturb"`
	Reset        bool    `yaml:"reset"`
}

type PhaseResult struct {
	Phase  Phase
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return fmt.Errorf("scenario %q has no phases", s.Name)
	}
	for i, p := range s.Phases {
		if p.Steps < 0 || p.InjectRandom < 0 {
			return fmt.Errorf("phase %d: %w: negative step or injection count", i+1, reaction.ErrParameterBounds)
		}
		if p.Preset != "" {
			if _, err := reaction.LookupPreset(p.Preset); err != nil {
				return fmt.Errorf("phase %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// RunScenario executes every phase in order. The simulator keeps its fields
// across phases unless a phase asks for a reset.
func RunScenario(ctx context.Context, sim *reaction.Simulator, scenario *Scenario, logger *slog.Logger) ([]PhaseResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]PhaseResult, 0, len(scenario.Phases))

	for i, phase := range scenario.Phases {
		logger.Info("running phase", "phase", i+1, "of", len(scenario.Phases), "name", phase.Name, "preset", phase.Preset)

		if phase.Reset {
			sim.Reset()
		}
		if phase.Preset != "" {
			if err := sim.ApplyPreset(phase.Preset); err != nil {
				return results, fmt.Errorf("phase %d: %w", i+1, err)
			}
		}
		if phase.Perturb != nil {
			sim.SetPerturbation(*phase.Perturb)
		}
		for _, p := range phase.Inject {
			if err := sim.Inject(p.X, p.Y); err != nil {
				return results, fmt.Errorf("phase %d: %w", i+1, err)
			}
		}
		if phase.InjectRandom > 0 {
			sim.InjectRandom(phase.InjectRandom)
		}

		exp := experiment.New(sim, experiment.Config{Steps: phase.Steps, SampleEvery: phase.SampleEvery})
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("phase %d run: %w", i+1, err)
		}
		results = append(results, PhaseResult{Phase: phase, Result: res})
	}

	return results, nil
}
