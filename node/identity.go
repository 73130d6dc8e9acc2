package node

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Identity is the node's own name, adopted from the first init and
// immutable afterwards, along with the seed derived from it.
type Identity struct {
	set     bool
	id      string
	nodeIDs []string
	seed    uint64
}

// Adopt takes nodeID as the identity if none is set yet and reports whether
// it did. Later calls are no-ops.
func (i *Identity) Adopt(nodeID *string, nodeIDs []string) (bool, error) {
	if i.set {
		return false, nil
	}
	if nodeID == nil {
		return false, missing(TypeInit, "node_id")
	}
	i.set = true
	i.id = *nodeID
	i.nodeIDs = append([]string(nil), nodeIDs...)
	i.seed = DeriveSeed(i.id)
	return true, nil
}

func (i *Identity) isSet() bool { return i.set }

// ID returns the adopted name, or "" before the first init.
func (i *Identity) ID() string { return i.id }

// NodeIDs returns the cluster members listed in the first init.
func (i *Identity) NodeIDs() []string { return i.nodeIDs }

func (i *Identity) Seed() uint64 { return i.seed }

// DeriveSeed hashes id, keeps the low 32 bits of the hash as the seed of a
// PCG generator and returns the generator's first 64-bit draw.
func DeriveSeed(id string) uint64 {
	salt := uint32(xxhash.Sum64String(id))
	rng := rand.New(rand.NewPCG(uint64(salt), 0))
	return rng.Uint64()
}
