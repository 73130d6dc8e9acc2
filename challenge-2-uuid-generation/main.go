package main

import (
	"log"

	"github.com/melizalde-ds/maelstrom-training/handlers"
	"github.com/melizalde-ds/maelstrom-training/node"
)

func main() {
	n := node.NewNode()
	h := handlers.New(n)

	n.Handle(node.TypeEcho, h.Echo)
	// ids are the per-node seed offset by the local envelope counter
	n.Handle(node.TypeGenerate, h.Generate)

	if err := n.Run(); err != nil {
		log.Fatal(err)
	}
}
