package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/neatcore/neat"
)

// GenerationStats holds aggregated fitness and topology statistics
// for one generation of a population.
type GenerationStats struct {
	Generation    int     `csv:"generation"`
	SpeciesCount  int     `csv:"species_count"`
	OrganismCount int     `csv:"organism_count"`
	FitnessMean   float64 `csv:"fitness_mean"`
	FitnessStd    float64 `csv:"fitness_std"`
	FitnessP10    float64 `csv:"fitness_p10"`
	FitnessP50    float64 `csv:"fitness_p50"`
	FitnessP90    float64 `csv:"fitness_p90"`
	BestFitness   float64 `csv:"best_fitness"`
	BestNodeCount int     `csv:"best_node_count"`
	BestConnCount int     `csv:"best_connection_count"`
}

// Percentile calculates the p-th percentile of a sorted slice via
// gonum/stat's empirical CDF quantile (the smallest sample value whose
// cumulative fraction reaches p). p should be in [0, 1]. Returns 0 if
// slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeFitnessStats calculates mean, standard deviation, and
// percentiles across a generation's fitness values using gonum/stat.
func ComputeFitnessStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	if len(values) == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Summarize builds GenerationStats for population's current
// generation. Every organism in population must already have a
// fitness set.
func Summarize(population *neat.Population) GenerationStats {
	organisms := population.Organisms()
	fitnesses := make([]float64, len(organisms))
	for i, o := range organisms {
		fitnesses[i], _ = o.Fitness()
	}
	mean, std, p10, p50, p90 := ComputeFitnessStats(fitnesses)

	best := population.Best()
	bestFitness, _ := best.Fitness()

	return GenerationStats{
		Generation:    population.Generation(),
		SpeciesCount:  len(population.Species()),
		OrganismCount: len(organisms),
		FitnessMean:   mean,
		FitnessStd:    std,
		FitnessP10:    p10,
		FitnessP50:    p50,
		FitnessP90:    p90,
		BestFitness:   bestFitness,
		BestNodeCount: best.Genome.NodeCount(),
		BestConnCount: best.Genome.ConnectionCount(),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("species_count", s.SpeciesCount),
		slog.Int("organism_count", s.OrganismCount),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Int("best_node_count", s.BestNodeCount),
		slog.Int("best_connection_count", s.BestConnCount),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
