package neat

import (
	"strings"
	"testing"
)

func xorPopulationConfig(organismCount int) Config {
	mc := MutationConfig{
		ChangeWeightProb:        0.8,
		ShiftWeightProb:         0.9,
		ShiftWeightDist:         NormalWeight(0, 0.3),
		RandomWeightDist:        NormalWeight(0, 1),
		AddNodeProb:             0.03,
		AddConnectionProb:       0.08,
		AddConnectionRetryCount: 20,
		NewConnectionWeight:     NormalWeight(0, 1),
	}
	return Config{
		TargetFitness:         3.9,
		MaxGenerations:        5,
		InitialOrganismWeight: NormalWeight(0, 1),
		Distance:              DistanceConfig{C1: 1, C2: 1, C3: 0.4},
		Species:               SpeciesConfig{SpeciesDistanceTolerance: 3.0},
		Evaluation:            EvaluationConfig{Activation: Sigmoid},
		Reproduction: ReproductionConfig{
			OrganismCount:    organismCount,
			MinSpeciesSize:   1,
			KillRatio:        0.5,
			MutationRatio:    0.25,
			AllowElitism:     true,
			ElitismLimit:     5,
			ElitismCount:     1,
			LargeSpeciesSize: 10,
			Crossover:        CrossoverConfig{WeightStrategy: WeightRandom, DisableConnectionProb: 0.75},
			SmallIntensity:   mc,
			LargeIntensity:   mc,
		},
		Seed: 123,
	}
}

func TestNewPopulationRejectsInvalidConfig(t *testing.T) {
	cfg := xorPopulationConfig(10)
	cfg.Reproduction.OrganismCount = 0

	pool := NewDense(3, 1)
	_, err := NewPopulation(pool, cfg)
	if err == nil {
		t.Fatal("expected a ConfigError for organism_count == 0")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
}

func TestNewPopulationBuildsInitialGeneration(t *testing.T) {
	cfg := xorPopulationConfig(25)
	pool := NewDense(3, 1)

	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}
	if len(pop.Organisms()) != 25 {
		t.Errorf("organism count = %d, want 25", len(pop.Organisms()))
	}
	if len(pop.Species()) == 0 {
		t.Error("initial population should already be speciated")
	}
	if pop.Generation() != 0 {
		t.Errorf("initial generation = %d, want 0", pop.Generation())
	}
}

// constantFitness assigns every organism the same fitness value, so
// whether Evolve reaches target_fitness depends only on that value.
func constantFitness(value float64) func([]*Organism) {
	return func(organisms []*Organism) {
		for _, o := range organisms {
			o.SetFitness(value)
		}
	}
}

func TestEvolveStopsAtMaxGenerations(t *testing.T) {
	cfg := xorPopulationConfig(20)
	cfg.MaxGenerations = 4
	cfg.TargetFitness = 1000 // unreachable, forces the generation bound
	pool := NewDense(3, 1)

	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}

	pop.Evolve(constantFitness(0.5))
	if pop.Generation() != cfg.MaxGenerations-1 {
		t.Errorf("generation at stop = %d, want %d", pop.Generation(), cfg.MaxGenerations-1)
	}
}

func TestEvolveStopsAtTargetFitness(t *testing.T) {
	cfg := xorPopulationConfig(20)
	cfg.MaxGenerations = 0 // unbounded: must stop via target_fitness
	cfg.TargetFitness = 2.0
	pool := NewDense(3, 1)

	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}

	best := pop.Evolve(constantFitness(2.0))
	f, ok := best.Fitness()
	if !ok || f < cfg.TargetFitness {
		t.Errorf("Evolve should stop once best fitness reaches target, got fitness=%v ok=%v", f, ok)
	}
}

func TestEvolveMinimalDenseIdentityScaling(t *testing.T) {
	// Every organism is scored by how close its single weight is to
	// exactly doubling its input, exercising a full evaluate+evolve
	// cycle against a known closed-form optimum.
	cfg := xorPopulationConfig(40)
	cfg.Evaluation = EvaluationConfig{Activation: Identity}
	cfg.TargetFitness = 1e9 // force MaxGenerations bound
	cfg.MaxGenerations = 10
	cfg.Reproduction.Crossover.WeightStrategy = WeightBetter
	pool := NewDense(1, 1)

	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}

	fitnessFn := func(organisms []*Organism) {
		for _, o := range organisms {
			out := o.Evaluate([]float64{1.0})
			diff := out[0] - 2.0
			score := 100.0 - diff*diff
			if score < 0 {
				score = 0
			}
			o.SetFitness(score)
		}
	}

	best := pop.Evolve(fitnessFn)
	f, ok := best.Fitness()
	if !ok {
		t.Fatal("best organism should have a fitness set")
	}
	if f <= 0 {
		t.Errorf("best fitness after evolving toward a known optimum = %v, want > 0", f)
	}
}

func TestPopulationBestPanicsWithoutFitness(t *testing.T) {
	cfg := xorPopulationConfig(5)
	pool := NewDense(3, 1)
	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Best() before any fitness is set should panic")
		}
	}()
	pop.Best()
}

func TestPopulationLoggerReceivesPerGenerationLine(t *testing.T) {
	cfg := xorPopulationConfig(10)
	cfg.MaxGenerations = 2
	cfg.TargetFitness = 1000
	pool := NewDense(3, 1)
	pop, err := NewPopulation(pool, cfg)
	if err != nil {
		t.Fatalf("NewPopulation failed: %v", err)
	}

	var buf strings.Builder
	pop.SetLogger(&buf)
	pop.Evolve(constantFitness(1.0))

	if !strings.Contains(buf.String(), "generation") {
		t.Errorf("expected per-generation log lines, got: %q", buf.String())
	}
}
