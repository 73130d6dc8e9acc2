package node

// Store is the node's mutable state: the local envelope counter, every
// broadcast value received and the last topology. It is owned by a single
// dispatch loop and is not safe for concurrent use.
type Store struct {
	localID  uint64
	values   []int64
	topology map[string][]string
}

func NewStore() *Store {
	return &Store{
		values:   make([]int64, 0),
		topology: make(map[string][]string),
	}
}

// RecordBroadcast appends v. Duplicates are kept.
func (s *Store) RecordBroadcast(v int64) {
	s.values = append(s.values, v)
}

// Values returns a copy of the recorded values in arrival order.
func (s *Store) Values() []int64 {
	out := make([]int64, len(s.values))
	copy(out, s.values)
	return out
}

// SetTopology replaces the topology wholesale.
func (s *Store) SetTopology(topology map[string][]string) {
	next := make(map[string][]string, len(topology))
	for node, neighbors := range topology {
		next[node] = append([]string(nil), neighbors...)
	}
	s.topology = next
}

// Topology returns the mapping set by the last topology request.
func (s *Store) Topology() map[string][]string {
	return s.topology
}

// Neighbors returns id's adjacency list from the current topology.
func (s *Store) Neighbors(id string) []string {
	return s.topology[id]
}

// NextLocalID returns the counter and advances it.
func (s *Store) NextLocalID() uint64 {
	id := s.localID
	s.localID++
	return id
}

// LocalID returns the id the next envelope will carry.
func (s *Store) LocalID() uint64 {
	return s.localID
}
