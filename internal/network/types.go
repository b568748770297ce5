package network

// BusType classifies a bus for power-flow purposes.
type BusType string

const (
	RefBus BusType = "ref"
	PVBus  BusType = "pv"
	PQBus  BusType = "pq"
)

// IndexSets holds the disjoint bus index sets used by the solvers.
// Every bus belongs to exactly one set and membership is fixed for a run.
type IndexSets struct {
	Ref []int
	PV  []int
	PQ  []int
}

// PVPQ returns the concatenation pv‖pq, the angle-unknown buses.
func (s IndexSets) PVPQ() []int {
	out := make([]int, 0, len(s.PV)+len(s.PQ))
	out = append(out, s.PV...)
	out = append(out, s.PQ...)
	return out
}

// N returns the total bus count across the three sets.
func (s IndexSets) N() int { return len(s.Ref) + len(s.PV) + len(s.PQ) }
