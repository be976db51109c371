// Package neatconfig provides YAML configuration loading for the neat
// engine: an embedded set of defaults, optionally overridden by a
// user-supplied file, converted into a neat.Config.
package neatconfig

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/neatcore/neat"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// weightDistribution is the YAML-friendly shadow of neat.WeightDistribution,
// whose fields are unexported and so cannot be unmarshaled directly.
type weightDistribution struct {
	Fixed  bool    `yaml:"fixed"`
	Value  float64 `yaml:"value"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

func (w weightDistribution) toNEAT() neat.WeightDistribution {
	if w.Fixed {
		return neat.FixedWeight(w.Value)
	}
	return neat.NormalWeight(w.Mean, w.StdDev)
}

type evaluationConfig struct {
	Bias       float64 `yaml:"bias"`
	Activation string  `yaml:"activation"`
}

func (e evaluationConfig) toNEAT() (neat.EvaluationConfig, error) {
	act, err := parseActivation(e.Activation)
	if err != nil {
		return neat.EvaluationConfig{}, err
	}
	return neat.EvaluationConfig{Bias: e.Bias, Activation: act}, nil
}

func parseActivation(s string) (neat.Activation, error) {
	switch s {
	case "identity", "":
		return neat.Identity, nil
	case "sigmoid":
		return neat.Sigmoid, nil
	case "relu":
		return neat.Relu, nil
	default:
		return 0, fmt.Errorf("neatconfig: unknown activation %q", s)
	}
}

type distanceConfig struct {
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`
	C3 float64 `yaml:"c3"`
}

func (d distanceConfig) toNEAT() neat.DistanceConfig {
	return neat.DistanceConfig{C1: d.C1, C2: d.C2, C3: d.C3}
}

type crossoverConfig struct {
	DisableConnectionProb float64 `yaml:"disable_connection_prob"`
	WeightStrategy        string  `yaml:"weight_strategy"`
}

func (c crossoverConfig) toNEAT() (neat.CrossoverConfig, error) {
	var strategy neat.WeightStrategy
	switch c.WeightStrategy {
	case "random":
		strategy = neat.WeightRandom
	case "better", "":
		strategy = neat.WeightBetter
	case "mean":
		strategy = neat.WeightMean
	default:
		return neat.CrossoverConfig{}, fmt.Errorf("neatconfig: unknown crossover weight strategy %q", c.WeightStrategy)
	}
	return neat.CrossoverConfig{DisableConnectionProb: c.DisableConnectionProb, WeightStrategy: strategy}, nil
}

type mutationConfig struct {
	ChangeWeightProb        float64             `yaml:"change_weight_prob"`
	ShiftWeightProb         float64             `yaml:"shift_weight_prob"`
	ShiftWeightDist         weightDistribution  `yaml:"shift_weight_dist"`
	RandomWeightDist        weightDistribution  `yaml:"random_weight_dist"`
	AddNodeProb             float64             `yaml:"add_node_prob"`
	AddConnectionProb       float64             `yaml:"add_connection_prob"`
	AddConnectionRetryCount int                 `yaml:"add_connection_retry_count"`
	NewConnectionWeight     weightDistribution  `yaml:"new_connection_weight"`
	ToggleConnectionProb    float64             `yaml:"toggle_connection_prob"`
}

func (m mutationConfig) toNEAT() neat.MutationConfig {
	return neat.MutationConfig{
		ChangeWeightProb:        m.ChangeWeightProb,
		ShiftWeightProb:         m.ShiftWeightProb,
		ShiftWeightDist:         m.ShiftWeightDist.toNEAT(),
		RandomWeightDist:        m.RandomWeightDist.toNEAT(),
		AddNodeProb:             m.AddNodeProb,
		AddConnectionProb:       m.AddConnectionProb,
		AddConnectionRetryCount: m.AddConnectionRetryCount,
		NewConnectionWeight:     m.NewConnectionWeight.toNEAT(),
		ToggleConnectionProb:    m.ToggleConnectionProb,
	}
}

type speciesConfig struct {
	Representative           string  `yaml:"representative"`
	Fitness                  string  `yaml:"fitness"`
	SpeciesDistanceTolerance float64 `yaml:"species_distance_tolerance"`
}

func (s speciesConfig) toNEAT() (neat.SpeciesConfig, error) {
	var rep neat.RepresentativeSelection
	switch s.Representative {
	case "first", "":
		rep = neat.RepresentativeFirst
	case "random":
		rep = neat.RepresentativeRandom
	default:
		return neat.SpeciesConfig{}, fmt.Errorf("neatconfig: unknown representative selection %q", s.Representative)
	}

	var fit neat.FitnessStrategy
	switch s.Fitness {
	case "mean", "":
		fit = neat.FitnessMean
	case "best":
		fit = neat.FitnessBest
	default:
		return neat.SpeciesConfig{}, fmt.Errorf("neatconfig: unknown fitness strategy %q", s.Fitness)
	}

	return neat.SpeciesConfig{
		Representative:           rep,
		Fitness:                  fit,
		SpeciesDistanceTolerance: s.SpeciesDistanceTolerance,
	}, nil
}

type reproductionConfig struct {
	OrganismCount    int             `yaml:"organism_count"`
	MinSpeciesSize   int             `yaml:"min_species_size"`
	KillRatio        float64         `yaml:"kill_ratio"`
	MutationRatio    float64         `yaml:"mutation_ratio"`
	AllowElitism     bool            `yaml:"allow_elitism"`
	ElitismLimit     int             `yaml:"elitism_limit"`
	ElitismCount     int             `yaml:"elitism_count"`
	LargeSpeciesSize int             `yaml:"large_species_size"`
	Crossover        crossoverConfig `yaml:"crossover"`
	SmallIntensity   mutationConfig  `yaml:"small_intensity"`
	LargeIntensity   mutationConfig  `yaml:"large_intensity"`
}

func (r reproductionConfig) toNEAT() (neat.ReproductionConfig, error) {
	crossover, err := r.Crossover.toNEAT()
	if err != nil {
		return neat.ReproductionConfig{}, err
	}
	return neat.ReproductionConfig{
		OrganismCount:    r.OrganismCount,
		MinSpeciesSize:   r.MinSpeciesSize,
		KillRatio:        r.KillRatio,
		MutationRatio:    r.MutationRatio,
		AllowElitism:     r.AllowElitism,
		ElitismLimit:     r.ElitismLimit,
		ElitismCount:     r.ElitismCount,
		SpeciesStrategy:  neat.SpeciesStrategyRandom,
		LargeSpeciesSize: r.LargeSpeciesSize,
		Crossover:        crossover,
		SmallIntensity:   r.SmallIntensity.toNEAT(),
		LargeIntensity:   r.LargeIntensity.toNEAT(),
	}, nil
}

// Config is the YAML-serializable mirror of neat.Config.
type Config struct {
	TargetFitness         float64            `yaml:"target_fitness"`
	MaxGenerations        int                `yaml:"max_generations"`
	Seed                  int64              `yaml:"seed"`
	InitialOrganismWeight weightDistribution `yaml:"initial_organism_weight"`
	Distance              distanceConfig     `yaml:"distance"`
	Species               speciesConfig      `yaml:"species"`
	Evaluation            evaluationConfig   `yaml:"evaluation"`
	Reproduction          reproductionConfig `yaml:"reproduction"`
}

// ToNEAT converts the loaded YAML config into a neat.Config. It does
// not validate the result; call Validate on the returned config (or
// let neat.NewPopulation do so) before use.
func (c Config) ToNEAT() (neat.Config, error) {
	species, err := c.Species.toNEAT()
	if err != nil {
		return neat.Config{}, err
	}
	evaluation, err := c.Evaluation.toNEAT()
	if err != nil {
		return neat.Config{}, err
	}
	reproduction, err := c.Reproduction.toNEAT()
	if err != nil {
		return neat.Config{}, err
	}

	return neat.Config{
		TargetFitness:         c.TargetFitness,
		MaxGenerations:        c.MaxGenerations,
		Seed:                  c.Seed,
		InitialOrganismWeight: c.InitialOrganismWeight.toNEAT(),
		Distance:              c.Distance.toNEAT(),
		Species:               species,
		Evaluation:            evaluation,
		Reproduction:          reproduction,
	}, nil
}

// global holds the loaded configuration.
var global *neat.Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("neatconfig: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *neat.Config {
	if global == nil {
		panic("neatconfig: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults, and converts it into a validated neat.Config. If path is
// empty, only embedded defaults are used.
func Load(path string) (*neat.Config, error) {
	shadow := Config{}
	if err := yaml.Unmarshal(defaultsYAML, &shadow); err != nil {
		return nil, fmt.Errorf("neatconfig: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("neatconfig: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &shadow); err != nil {
			return nil, fmt.Errorf("neatconfig: parsing config file: %w", err)
		}
	}

	cfg, err := shadow.ToNEAT()
	if err != nil {
		return nil, fmt.Errorf("neatconfig: converting config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteYAML serializes the config to a YAML file at path, so the
// knobs that drove a run can be reloaded with Load later.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("neatconfig: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("neatconfig: writing config file: %w", err)
	}
	return nil
}
