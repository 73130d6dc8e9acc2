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

	if err := n.Run(); err != nil {
		log.Fatal(err)
	}
}
