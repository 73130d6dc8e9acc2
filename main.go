package main

import (
	"errors"
	"log"

	"github.com/melizalde-ds/maelstrom-training/handlers"
	"github.com/melizalde-ds/maelstrom-training/node"
)

func main() {
	n := node.NewNode()
	h := handlers.New(n)

	// Start Echo workload
	n.Handle(node.TypeEcho, h.Echo)
	// End Echo workload

	// Start Unique ID Generation workload
	n.Handle(node.TypeGenerate, h.Generate)
	// End Unique ID Generation workload

	// Start Broadcast workload
	// Note: values are kept on this node only, topology is recorded but not used
	n.Handle(node.TypeBroadcast, h.Broadcast)
	n.Handle(node.TypeRead, h.Read)
	n.Handle(node.TypeTopology, h.Topology)
	// End Broadcast workload

	if err := n.Run(); err != nil {
		var nerr *node.Error
		if errors.As(err, &nerr) {
			log.Fatal(nerr.RPCError())
		}
		log.Fatal(err)
	}
}
