package main

import (
	"log"

	"github.com/melizalde-ds/maelstrom-training/handlers"
	"github.com/melizalde-ds/maelstrom-training/node"
)

func main() {
	n := node.NewNode()
	h := handlers.New(n)

	// Single-node broadcast: same handler set as the original variant
	n.Handle(node.TypeEcho, h.Echo)
	n.Handle(node.TypeGenerate, h.Generate)
	n.Handle(node.TypeBroadcast, h.Broadcast)
	n.Handle(node.TypeRead, h.Read)
	n.Handle(node.TypeTopology, h.Topology)

	if err := n.Run(); err != nil {
		log.Fatal(err)
	}
}
