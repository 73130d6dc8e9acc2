package handlers

import (
	"github.com/melizalde-ds/maelstrom-training/node"
)

// Broadcast stores the value locally. Nothing is forwarded to neighbours.
func (h *Handler) Broadcast(msg node.Message) error {
	var body node.BroadcastRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	h.Storage.RecordBroadcast(*body.Message)
	return h.Node.Reply(msg, &node.BroadcastOK{})
}

func (h *Handler) Read(msg node.Message) error {
	var body node.ReadRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	return h.Node.Reply(msg, &node.ReadOK{Messages: h.Storage.Values()})
}

func (h *Handler) Topology(msg node.Message) error {
	var body node.TopologyRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	h.Storage.SetTopology(body.Topology)
	return h.Node.Reply(msg, &node.TopologyOK{})
}
