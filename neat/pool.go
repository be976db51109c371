package neat

import "math/rand"

const (
	inputNodeDepth  = 0.0
	outputNodeDepth = 1.0
)

// NodeKind distinguishes the three roles a pool node can play.
type NodeKind uint8

const (
	// KindHidden marks a node interposed between two others by an
	// add-node mutation.
	KindHidden NodeKind = iota
	// KindInput marks one of the genome's input slots.
	KindInput
	// KindOutput marks one of the genome's output slots.
	KindOutput
)

// Node is a pool-level node: the shared structural record every
// genome referencing it agrees on. Id is dense and equals the node's
// insertion index into the pool.
type Node struct {
	ID   int
	Kind NodeKind
	// Ordinal is the position among inputs (Kind == KindInput) or
	// outputs (Kind == KindOutput); meaningless for hidden nodes.
	Ordinal int
	// Depth is a strictly-ordered rank in [0,1]. Inputs are 0,
	// outputs are 1, hidden nodes sit strictly between the depths of
	// the two endpoints they were interposed on.
	Depth float64
	// VerticalPlacement is a presentation-only scalar; it never
	// affects evaluation, distance, or mutation semantics.
	VerticalPlacement float64
}

// Connection is a pool-level connection: From, To are node ids and
// Innovation is the connection's dense insertion index, monotonically
// assigned and never reused.
type Connection struct {
	From       int
	To         int
	Innovation int
}

// GenePool is the global, append-only registry of structural
// innovation for one evolutionary run. Every genome in that run
// references a subset of the pool's nodes and connections by id.
// Entries are only ever appended; innovation numbers are never
// reused, and a (from,to) pair that already exists is deduplicated to
// its original innovation number.
type GenePool struct {
	nodes       []Node
	connections []Connection
	// connIndex maps (from,to) to an index into connections, giving
	// O(1) dedup for CreateConnection.
	connIndex map[[2]int]int

	inputCount  int
	outputCount int
}

// NewGenePool returns an empty pool with no nodes or connections.
func NewGenePool() *GenePool {
	return &GenePool{
		connIndex: make(map[[2]int]int),
	}
}

// NewDense builds the standard starting topology: inputCount input
// nodes, outputCount output nodes, and every input→output cross
// connection.
func NewDense(inputCount, outputCount int) *GenePool {
	pool := NewGenePool()
	pool.nodes = make([]Node, 0, inputCount+outputCount)
	pool.connections = make([]Connection, 0, inputCount*outputCount)

	inputIDs := make([]int, inputCount)
	for i := 0; i < inputCount; i++ {
		inputIDs[i] = pool.CreateInputNode(1.0 / float64(inputCount))
	}
	outputIDs := make([]int, outputCount)
	for i := 0; i < outputCount; i++ {
		outputIDs[i] = pool.CreateOutputNode(1.0 / float64(outputCount))
	}

	for _, from := range inputIDs {
		for _, to := range outputIDs {
			pool.CreateConnection(from, to)
		}
	}

	return pool
}

// NodeCount returns the number of nodes registered in the pool.
func (p *GenePool) NodeCount() int { return len(p.nodes) }

// ConnectionCount returns the number of connections registered in the
// pool.
func (p *GenePool) ConnectionCount() int { return len(p.connections) }

// InputCount returns the number of input nodes created so far.
func (p *GenePool) InputCount() int { return p.inputCount }

// OutputCount returns the number of output nodes created so far.
func (p *GenePool) OutputCount() int { return p.outputCount }

// Node returns the pool node with the given id.
func (p *GenePool) Node(id int) Node { return p.nodes[id] }

// Connection returns the pool connection with the given innovation
// number.
func (p *GenePool) Connection(innovation int) Connection { return p.connections[innovation] }

// CreateInputNode appends a new input node at depth 0 and returns its
// id. verticalPlacement only positions the node when a genome is
// drawn; it carries no semantics.
func (p *GenePool) CreateInputNode(verticalPlacement float64) int {
	id := len(p.nodes)
	p.nodes = append(p.nodes, Node{
		ID:                id,
		Kind:              KindInput,
		Ordinal:           p.inputCount,
		Depth:             inputNodeDepth,
		VerticalPlacement: verticalPlacement,
	})
	p.inputCount++
	return id
}

// CreateOutputNode appends a new output node at depth 1 and returns
// its id. verticalPlacement only positions the node when a genome is
// drawn; it carries no semantics.
func (p *GenePool) CreateOutputNode(verticalPlacement float64) int {
	id := len(p.nodes)
	p.nodes = append(p.nodes, Node{
		ID:                id,
		Kind:              KindOutput,
		Ordinal:           p.outputCount,
		Depth:             outputNodeDepth,
		VerticalPlacement: verticalPlacement,
	})
	p.outputCount++
	return id
}

// CreateHiddenNodeBetween interposes a new hidden node on the edge
// from a to b. The caller guarantees depth(a) < depth(b); the new
// node's depth is their midpoint, which under IEEE-754 is always
// strictly between two distinct finite depths, so acyclicity can
// never be violated by an interposition.
func (p *GenePool) CreateHiddenNodeBetween(a, b int) int {
	depthA := p.nodes[a].Depth
	depthB := p.nodes[b].Depth
	mid := (depthA + depthB) / 2.0

	id := len(p.nodes)
	p.nodes = append(p.nodes, Node{
		ID:                id,
		Kind:              KindHidden,
		Depth:             mid,
		VerticalPlacement: mid,
	})
	return id
}

// CreateConnection registers a connection from->to, or returns the
// existing one if this pair was already registered. Returns (conn,
// true) on success, or (zero, false) if depth(from) >= depth(to),
// which would violate the pool's acyclicity invariant.
func (p *GenePool) CreateConnection(from, to int) (Connection, bool) {
	key := [2]int{from, to}
	if idx, ok := p.connIndex[key]; ok {
		return p.connections[idx], true
	}
	if p.nodes[from].Depth >= p.nodes[to].Depth {
		return Connection{}, false
	}
	conn := Connection{From: from, To: to, Innovation: len(p.connections)}
	p.connections = append(p.connections, conn)
	p.connIndex[key] = conn.Innovation
	return conn, true
}

// NewGenome materializes a genome containing every node and
// connection currently in the pool, with weights drawn per
// weightDist (using rng as entropy source) and every connection
// enabled. id and generation stamp the new genome's identity.
func (p *GenePool) NewGenome(weightDist WeightDistribution, rng *rand.Rand, id, generation int) *Genome {
	g := NewGenome(id, generation, p.inputCount, p.outputCount)

	// NewGenome above already seeded the I/O node genes; add_node is
	// idempotent so re-adding them here would be a no-op, but we still
	// need the remaining nodes (none exist yet in a fresh pool) plus
	// every connection.
	for _, node := range p.nodes {
		g.addNode(node.ID)
	}
	for _, conn := range p.connections {
		g.addConnection(conn, weightDist.Sample(rng), true)
	}
	return g
}

// Clone returns a deep copy of the pool, independent of the original.
// Useful for snapshotting a pool before a speculative batch of
// mutations.
func (p *GenePool) Clone() *GenePool {
	clone := &GenePool{
		nodes:       append([]Node(nil), p.nodes...),
		connections: append([]Connection(nil), p.connections...),
		connIndex:   make(map[[2]int]int, len(p.connIndex)),
		inputCount:  p.inputCount,
		outputCount: p.outputCount,
	}
	for k, v := range p.connIndex {
		clone.connIndex[k] = v
	}
	return clone
}
