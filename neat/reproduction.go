package neat

import (
	"math"
	"math/rand"
	"sort"
)

// idGenerator hands out dense, monotonically increasing genome ids.
// Identity only; innovation numbers are the GenePool's job.
type idGenerator struct {
	nextID int
}

func newIDGenerator() *idGenerator { return &idGenerator{} }

func (g *idGenerator) next() int {
	id := g.nextID
	g.nextID++
	return id
}

// intensityFor picks the mutation config a species of the given size
// should use. Larger species explore with a stronger mutation
// intensity than small, still-forming ones.
func intensityFor(speciesSize int, cfg ReproductionConfig) MutationConfig {
	if speciesSize >= cfg.LargeSpeciesSize {
		return cfg.LargeIntensity
	}
	return cfg.SmallIntensity
}

// Reproduce replaces an entire population's organisms with the next
// generation's, allocating offspring across species in proportion to
// each species' adjusted fitness share, then filling each species'
// quota with elitism, pure mutation, and crossover-plus-mutation in
// that order. Quotas are rounded independently per species and then
// clamped up to MinSpeciesSize, so the new generation's size lands
// within rounding tolerance of OrganismCount, at most OrganismCount +
// #species * MinSpeciesSize.
func Reproduce(species []*Species, pool *GenePool, cfg ReproductionConfig, evalCfg EvaluationConfig, fitnessStrategy FitnessStrategy, rng *rand.Rand, ids *idGenerator, generation int) []*Organism {
	if len(species) == 0 {
		return nil
	}

	adjusted := make([]float64, len(species))
	var total float64
	for i, s := range species {
		adjusted[i] = s.AdjustedFitness(fitnessStrategy)
		total += adjusted[i]
	}

	quotas := allocateQuotas(adjusted, total, cfg.OrganismCount)
	clampQuotasToMinSize(quotas, cfg.MinSpeciesSize)

	var offspring []*Organism
	for i, s := range species {
		offspring = append(offspring, reproduceSpecies(s, pool, cfg, evalCfg, quotas[i], rng, ids, generation)...)
	}
	return offspring
}

// allocateQuotas gives each species round(adjusted/total * target)
// offspring, rounded independently per species, so the quota total can
// drift from target by at most half an organism per species. A total
// of zero (a degenerate all-zero-fitness population) is treated as 1:
// every quota rounds to zero and the min-size clamp keeps each species
// progressing.
func allocateQuotas(adjusted []float64, total float64, target int) []int {
	if total <= 0 {
		total = 1
	}
	quotas := make([]int, len(adjusted))
	for i, a := range adjusted {
		quotas[i] = int(math.Round(float64(target) * a / total))
	}
	return quotas
}

// clampQuotasToMinSize raises every quota below minSize up to it, so
// a surviving species is never starved to zero purely because its
// fitness share rounded down. Each clamp is independent: no offspring
// slots are taken from other species, so the quota total may exceed
// the configured organism count by up to #species * minSize.
func clampQuotasToMinSize(quotas []int, minSize int) {
	for i, q := range quotas {
		if q < minSize {
			quotas[i] = minSize
		}
	}
}

// reproduceSpecies fills one species' offspring quota: up to
// ElitismCount unmutated clones of its fittest members (only once the
// species has reached ElitismLimit members), then a MutationRatio
// share of pure-mutation offspring, then crossover-plus-mutation
// offspring for the remainder.
func reproduceSpecies(s *Species, pool *GenePool, cfg ReproductionConfig, evalCfg EvaluationConfig, quota int, rng *rand.Rand, ids *idGenerator, generation int) []*Organism {
	if quota <= 0 || s.Size() == 0 {
		return nil
	}

	// Ascending by fitness: members[0] is the weakest.
	members := append([]*Organism(nil), s.Members()...)
	sort.Slice(members, func(i, j int) bool { return members[i].Less(members[j]) })

	// limit = max(len*kill_ratio, len-1): the bottom kill_ratio
	// fraction is excluded from parent selection, but at least one
	// parent (the fittest) is always eligible. For any len >= 2 this
	// limit is dominated by len-1 unless kill_ratio is close to 1, so
	// in practice only the single fittest member is usually eligible.
	limit := int(float64(len(members)) * cfg.KillRatio)
	if len(members)-1 > limit {
		limit = len(members) - 1
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(members)-1 {
		limit = len(members) - 1
	}
	eligible := append([]*Organism(nil), members[limit:]...)
	// Descending order (fittest first) for elitism's top-N selection below.
	for i, j := 0, len(members)-1; i < j; i, j = i+1, j-1 {
		members[i], members[j] = members[j], members[i]
	}

	offspring := make([]*Organism, 0, quota)
	remaining := quota

	if cfg.AllowElitism && s.Size() >= cfg.ElitismLimit {
		elitismCount := cfg.ElitismCount
		if elitismCount > remaining {
			elitismCount = remaining
		}
		if elitismCount > len(members) {
			elitismCount = len(members)
		}
		for i := 0; i < elitismCount; i++ {
			offspring = append(offspring, members[i].Clone())
		}
		remaining -= elitismCount
	}
	if remaining <= 0 {
		return offspring
	}

	mutationCount := int(math.Floor(float64(remaining) * cfg.MutationRatio))
	if mutationCount > remaining {
		mutationCount = remaining
	}
	crossoverCount := remaining - mutationCount

	intensity := intensityFor(s.Size(), cfg)

	for i := 0; i < mutationCount; i++ {
		parent := selectParent(eligible, rng)
		child := parent.Genome.Clone()
		id := ids.next()
		child.Mutate(pool, intensity, rng, id, generation)
		offspring = append(offspring, NewOrganism(child, evalCfg))
	}

	for i := 0; i < crossoverCount; i++ {
		a := selectParent(eligible, rng)
		b := selectParent(eligible, rng)
		fitter, other := a, b
		if fitter.Less(other) {
			fitter, other = other, fitter
		}
		id := ids.next()
		child := fitter.Genome.Crossover(other.Genome, pool, cfg.Crossover, rng, id, generation)
		child.Mutate(pool, intensity, rng, id, generation)
		offspring = append(offspring, NewOrganism(child, evalCfg))
	}

	return offspring
}

// selectParent draws one organism from eligible. SpeciesStrategyRandom
// is the only strategy defined so far; it picks uniformly at random.
func selectParent(eligible []*Organism, rng *rand.Rand) *Organism {
	return eligible[rng.Intn(len(eligible))]
}
