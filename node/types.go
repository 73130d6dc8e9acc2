package node

import (
	"encoding/json"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
)

const (
	TypeInit      = "init"
	TypeEcho      = "echo"
	TypeGenerate  = "generate"
	TypeBroadcast = "broadcast"
	TypeRead      = "read"
	TypeTopology  = "topology"

	TypeInitOK      = TypeInit + "_ok"
	TypeEchoOK      = TypeEcho + "_ok"
	TypeGenerateOK  = TypeGenerate + "_ok"
	TypeBroadcastOK = TypeBroadcast + "_ok"
	TypeReadOK      = TypeRead + "_ok"
	TypeTopologyOK  = TypeTopology + "_ok"
)

// initPlaceholderNodeID is what init_ok reports as node_id. The harness learns
// the real identity from the envelope's src.
const initPlaceholderNodeID = "node_id"

// Message is one envelope on the wire. ID is the sender's local sequence
// number; it is only meaningful on envelopes this node emits.
type Message struct {
	ID uint64 `json:"id"`
	maelstrom.Message

	typ string
}

// Type returns the body's "type", as read by Decode. Unlike the embedded
// maelstrom.Message.Type it does not depend on the rest of the body fitting
// maelstrom's own body struct.
func (m Message) Type() string {
	if m.typ != "" {
		return m.typ
	}
	var body struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(m.Body, &body)
	return body.Type
}

// MarshalJSON always writes src, dest and body, even when empty.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   uint64          `json:"id"`
		Src  string          `json:"src"`
		Dest string          `json:"dest"`
		Body json.RawMessage `json:"body"`
	}{m.ID, m.Src, m.Dest, m.Body})
}

// Request is implemented by every inbound body variant.
type Request interface {
	validate() error
}

// header holds the fields common to every inbound body.
type header struct {
	Type  string  `json:"type"`
	MsgID *uint64 `json:"msg_id"`
}

func (h header) requireMsgID() error {
	if h.MsgID == nil {
		return missing(h.Type, "msg_id")
	}
	return nil
}

type InitRequest struct {
	header
	NodeID  *string  `json:"node_id"`
	NodeIDs []string `json:"node_ids,omitempty"`
}

// node_id is checked by Identity.Adopt: a duplicate init without one is
// still accepted.
func (r *InitRequest) validate() error { return r.requireMsgID() }

type EchoRequest struct {
	header
	Echo json.RawMessage `json:"echo"`
}

func (r *EchoRequest) validate() error {
	if err := r.requireMsgID(); err != nil {
		return err
	}
	if len(r.Echo) == 0 {
		return missing(r.Type, "echo")
	}
	return nil
}

type GenerateRequest struct {
	header
}

func (r *GenerateRequest) validate() error { return r.requireMsgID() }

type BroadcastRequest struct {
	header
	Message *int64 `json:"message"`
}

func (r *BroadcastRequest) validate() error {
	if err := r.requireMsgID(); err != nil {
		return err
	}
	if r.Message == nil {
		return missing(r.Type, "message")
	}
	return nil
}

type ReadRequest struct {
	header
}

func (r *ReadRequest) validate() error { return r.requireMsgID() }

type TopologyRequest struct {
	header
	Topology map[string][]string `json:"topology"`
}

func (r *TopologyRequest) validate() error {
	if err := r.requireMsgID(); err != nil {
		return err
	}
	if r.Topology == nil {
		return missing(r.Type, "topology")
	}
	return nil
}

// Reply is implemented by every outbound body variant. Reply fills in the
// header before encoding.
type Reply interface {
	Type() string
	replyHeader() *ReplyHeader
}

type ReplyHeader struct {
	Tag       string `json:"type"`
	InReplyTo uint64 `json:"in_reply_to"`
}

func (h *ReplyHeader) replyHeader() *ReplyHeader { return h }

type InitOK struct {
	ReplyHeader
	NodeID string `json:"node_id"`
}

func (*InitOK) Type() string { return TypeInitOK }

type EchoOK struct {
	ReplyHeader
	Echo json.RawMessage `json:"echo"`
}

func (*EchoOK) Type() string { return TypeEchoOK }

type GenerateOK struct {
	ReplyHeader
	ID uint64 `json:"id"`
}

func (*GenerateOK) Type() string { return TypeGenerateOK }

type BroadcastOK struct {
	ReplyHeader
}

func (*BroadcastOK) Type() string { return TypeBroadcastOK }

type ReadOK struct {
	ReplyHeader
	Messages []int64 `json:"messages"`
}

func (*ReadOK) Type() string { return TypeReadOK }

type TopologyOK struct {
	ReplyHeader
}

func (*TopologyOK) Type() string { return TypeTopologyOK }
