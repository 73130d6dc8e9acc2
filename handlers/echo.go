package handlers

import (
	"github.com/melizalde-ds/maelstrom-training/node"
)

func (h *Handler) Echo(msg node.Message) error {
	var body node.EchoRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	return h.Node.Reply(msg, &node.EchoOK{Echo: body.Echo})
}
