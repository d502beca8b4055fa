// Package config describes a set of stochastic parameters in YAML and builds
// the matching parameter container.
//
//	workers: 4
//	parameters:
//	  - name: k
//	    distribution: normal
//	    degree: 3
//	    mu: 5.0
//	    sigma: 0.5
//	  - name: m
//	    distribution: deterministic
//	    value: 1.0
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gpc/parameter"
	"github.com/notargets/gpc/pchaos"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid parameter set configuration")

// WorkersEnv overrides the worker count of a loaded file
const WorkersEnv = "GPC_WORKERS"

// ParameterSetConfig is the top level document
type ParameterSetConfig struct {
	Workers    int               `yaml:"workers"`
	Parameters []ParameterConfig `yaml:"parameters"`
}

// ParameterConfig describes one parameter. Only the constants of the named
// distribution are read.
type ParameterConfig struct {
	Name         string  `yaml:"name"`
	Distribution string  `yaml:"distribution"` // deterministic, normal, uniform or exponential
	Degree       int     `yaml:"degree"`       // Retained basis degrees, random parameters only
	Value        float64 `yaml:"value"`
	Mu           float64 `yaml:"mu"`
	Sigma        float64 `yaml:"sigma"`
	A            float64 `yaml:"a"`
	B            float64 `yaml:"b"`
	Beta         float64 `yaml:"beta"`
}

// Load reads and validates a YAML file, then applies environment overrides
func Load(path string) (cfg *ParameterSetConfig, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter set: %w", err)
	}
	if cfg, err = Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if v := os.Getenv(WorkersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, WorkersEnv, v)
		}
		cfg.Workers = n
	}
	return
}

// Parse decodes and validates a YAML document
func Parse(data []byte) (cfg *ParameterSetConfig, err error) {
	cfg = &ParameterSetConfig{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return
}

// Validate checks the distribution constants the parameter factory accepts
// without checking
func (c *ParameterSetConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if len(c.Parameters) == 0 {
		return fmt.Errorf("%w: no parameters", ErrInvalidConfig)
	}
	names := make(map[string]bool, len(c.Parameters))
	for i, pc := range c.Parameters {
		if pc.Name == "" {
			return fmt.Errorf("%w: parameter %d has no name", ErrInvalidConfig, i)
		}
		if names[pc.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidConfig, pc.Name)
		}
		names[pc.Name] = true
		if err := pc.validate(); err != nil {
			return fmt.Errorf("%w: parameter %q: %v", ErrInvalidConfig, pc.Name, err)
		}
	}
	return nil
}

func (pc ParameterConfig) validate() error {
	dist, err := pc.distribution()
	if err != nil {
		return err
	}
	if dist == parameter.None {
		return nil
	}
	if pc.Degree < 1 {
		return fmt.Errorf("degree must be >= 1, got %d", pc.Degree)
	}
	switch dist {
	case parameter.Normal:
		if pc.Sigma <= 0 {
			return fmt.Errorf("sigma must be > 0, got %g", pc.Sigma)
		}
	case parameter.Uniform:
		if pc.B <= pc.A {
			return fmt.Errorf("b must be > a, got [%g, %g]", pc.A, pc.B)
		}
	case parameter.Exponential:
		if pc.Beta <= 0 {
			return fmt.Errorf("beta must be > 0, got %g", pc.Beta)
		}
	}
	return nil
}

func (pc ParameterConfig) distribution() (parameter.Distribution, error) {
	switch strings.ToLower(pc.Distribution) {
	case "deterministic", "none", "":
		return parameter.None, nil
	case "normal":
		return parameter.Normal, nil
	case "uniform":
		return parameter.Uniform, nil
	case "exponential":
		return parameter.Exponential, nil
	default:
		return 0, fmt.Errorf("unknown distribution %q", pc.Distribution)
	}
}

// Build creates the parameters in document order and registers them in an
// initialized container. Options are applied after the configured worker
// count. The returned map is keyed by parameter name.
func (c *ParameterSetConfig) Build(opts ...pchaos.Option) (pc *pchaos.ParameterContainer,
	byName map[string]*parameter.Parameter, err error) {
	if err = c.Validate(); err != nil {
		return
	}
	f := parameter.NewFactory()
	pc = pchaos.NewParameterContainer(append([]pchaos.Option{pchaos.WithWorkers(c.Workers)}, opts...)...)
	byName = make(map[string]*parameter.Parameter, len(c.Parameters))
	for _, pcfg := range c.Parameters {
		var p *parameter.Parameter
		dist, _ := pcfg.distribution()
		switch dist {
		case parameter.None:
			p = f.CreateDeterministicParameter(pcfg.Name, pcfg.Value)
		case parameter.Normal:
			p = f.CreateNormalParameter(pcfg.Name, parameter.NormalParams{Mu: pcfg.Mu, Sigma: pcfg.Sigma}, pcfg.Degree)
		case parameter.Uniform:
			p = f.CreateUniformParameter(pcfg.Name, parameter.UniformParams{A: pcfg.A, B: pcfg.B}, pcfg.Degree)
		case parameter.Exponential:
			p = f.CreateExponentialParameter(pcfg.Name, parameter.ExponentialParams{Mu: pcfg.Mu, Beta: pcfg.Beta}, pcfg.Degree)
		}
		if err = pc.AddParameter(p); err != nil {
			return nil, nil, err
		}
		byName[pcfg.Name] = p
	}
	if err = pc.Initialize(); err != nil {
		return nil, nil, err
	}
	return
}
