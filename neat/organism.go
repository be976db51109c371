package neat

// Organism pairs a genome with its fitness (once evaluated) and the
// evaluation config shared by every organism in a population.
type Organism struct {
	Genome    *Genome
	fitness   float64
	evaluated bool
	eval      EvaluationConfig
}

// NewOrganism wraps genome for evaluation under cfg. The organism has
// no fitness until SetFitness is called.
func NewOrganism(genome *Genome, cfg EvaluationConfig) *Organism {
	return &Organism{Genome: genome, eval: cfg}
}

// Fitness returns the organism's fitness and whether it has been set.
// An organism with no fitness is incomparable to any other organism.
func (o *Organism) Fitness() (float64, bool) { return o.fitness, o.evaluated }

// SetFitness assigns the organism's fitness directly, bypassing
// Evaluate. Used by callers that score organisms with logic beyond a
// plain feed-forward pass (e.g. running a genome across several
// scenarios before aggregating).
func (o *Organism) SetFitness(fitness float64) {
	o.fitness = fitness
	o.evaluated = true
}

// Evaluate runs the organism's genome against input and returns its
// output, without itself assigning a fitness. Callers combine one or
// more Evaluate calls into a fitness via SetFitness.
func (o *Organism) Evaluate(input []float64) []float64 {
	return o.Genome.Evaluate(input, o.eval)
}

// Less reports whether o is strictly less fit than other. Both
// organisms must have a fitness set; comparing an unevaluated organism
// is a contract violation.
func (o *Organism) Less(other *Organism) bool {
	if !o.evaluated || !other.evaluated {
		contractViolation("organism: cannot compare organisms without fitness")
	}
	return o.fitness < other.fitness
}

// Clone returns a deep copy of the organism, including its genome.
func (o *Organism) Clone() *Organism {
	return &Organism{
		Genome:    o.Genome.Clone(),
		fitness:   o.fitness,
		evaluated: o.evaluated,
		eval:      o.eval,
	}
}
