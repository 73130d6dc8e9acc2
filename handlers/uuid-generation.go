package handlers

import (
	"github.com/melizalde-ds/maelstrom-training/node"
)

// Generate replies with the node's seed offset by the id of the envelope
// carrying the reply. The counter is shared with every other reply type, so
// any envelope sent advances it.
func (h *Handler) Generate(msg node.Message) error {
	var body node.GenerateRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	id := h.Storage.LocalID() + h.Node.Seed()
	return h.Node.Reply(msg, &node.GenerateOK{ID: id})
}
