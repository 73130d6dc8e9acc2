package handlers

import (
	"github.com/melizalde-ds/maelstrom-training/node"
)

type Handler struct {
	Node    *node.Node
	Storage *node.Store
}

// New binds a Handler to n and its store.
func New(n *node.Node) *Handler {
	return &Handler{
		Node:    n,
		Storage: n.Store(),
	}
}
