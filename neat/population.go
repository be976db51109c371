package neat

import (
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Population drives the full generational loop: an evolving set of
// organisms sharing one GenePool, grouped into species, evaluated and
// reproduced one generation at a time.
type Population struct {
	pool   *GenePool
	config Config

	organisms []*Organism
	species   []*Species

	rng           *rand.Rand
	ids           *idGenerator
	nextSpeciesID int
	generation    int

	logWriter io.Writer
}

// NewPopulation validates cfg and builds an initial generation of
// cfg.Reproduction.OrganismCount organisms, each a fresh dense genome
// out of pool, already speciated.
func NewPopulation(pool *GenePool, cfg Config) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	p := &Population{
		pool:   pool,
		config: cfg,
		rng:    rng,
		ids:    newIDGenerator(),
	}

	p.organisms = make([]*Organism, cfg.Reproduction.OrganismCount)
	for i := range p.organisms {
		genome := pool.NewGenome(cfg.InitialOrganismWeight, p.rng, p.ids.next(), 0)
		p.organisms[i] = NewOrganism(genome, cfg.Evaluation)
	}

	p.speciate()
	return p, nil
}

// SetLogger directs per-generation progress lines to w. A nil writer
// (the default) disables logging.
func (p *Population) SetLogger(w io.Writer) { p.logWriter = w }

func (p *Population) logf(format string, args ...any) {
	if p.logWriter == nil {
		return
	}
	fmt.Fprintf(p.logWriter, format+"\n", args...)
}

// Generation returns the index of the generation currently held in
// Organisms.
func (p *Population) Generation() int { return p.generation }

// Organisms returns the current generation's organisms. The returned
// slice must not be mutated by the caller.
func (p *Population) Organisms() []*Organism { return p.organisms }

// Species returns the current speciation. The returned slice must not
// be mutated by the caller.
func (p *Population) Species() []*Species { return p.species }

// Best returns the fittest organism in the current generation. Every
// organism must have a fitness set; panics via contractViolation
// otherwise, same as Organism.Less.
func (p *Population) Best() *Organism {
	if len(p.organisms) == 0 {
		contractViolation("population: no organisms")
	}
	best := p.organisms[0]
	for _, o := range p.organisms[1:] {
		if best.Less(o) {
			best = o
		}
	}
	return best
}

// Evolve runs the generational loop: evaluate the current generation
// with fitnessFn (which must call SetFitness on every organism it is
// given), stop if the best organism reaches TargetFitness or
// MaxGenerations elapses, otherwise reproduce and speciate the next
// generation and repeat. Returns the best organism seen at the point
// the loop stopped.
func (p *Population) Evolve(fitnessFn func([]*Organism)) *Organism {
	for {
		fitnessFn(p.organisms)
		best := p.Best()
		bestFitness, _ := best.Fitness()
		p.logf("generation %d: %d species, best fitness %v", p.generation, len(p.species), bestFitness)

		if bestFitness >= p.config.TargetFitness {
			return best
		}
		if p.config.MaxGenerations > 0 && p.generation+1 >= p.config.MaxGenerations {
			return best
		}

		p.reproduce()
	}
}

// speciate assigns every current organism to a species, carrying
// forward existing species' representatives (reset to no members)
// and creating new species as needed. Species left empty after
// assignment are dropped.
func (p *Population) speciate() {
	for _, s := range p.species {
		s.Reset()
	}
	var survivors []*Species
	survivors, p.nextSpeciesID = Speciate(p.organisms, p.species, p.config.Species, p.config.Distance, p.nextSpeciesID)
	p.species = survivors
}

// reproduce replaces Organisms with the next generation, selects new
// representatives for the species that survive, and re-speciates.
func (p *Population) reproduce() {
	p.organisms = Reproduce(p.species, p.pool, p.config.Reproduction, p.config.Evaluation, p.config.Species.Fitness, p.rng, p.ids, p.generation+1)
	for _, s := range p.species {
		s.SelectNewRepresentative(p.config.Species.Representative, p.rng)
	}
	p.generation++
	p.speciate()
}
