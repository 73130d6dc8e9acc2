package node

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

// HandlerFunc handles one request. A returned error stops the node.
type HandlerFunc func(msg Message) error

// Node reads requests from Stdin, hands them to the registered handlers one
// at a time and writes replies to Stdout. Every line in and out is mirrored
// to Stderr.
type Node struct {
	identity Identity
	store    *Store
	session  uuid.UUID
	handlers map[string]HandlerFunc

	out  *bufio.Writer
	diag *log.Logger

	// Stdin is for reading messages in from the Maelstrom network.
	Stdin io.Reader

	// Stdout is for writing messages out to the Maelstrom network.
	Stdout io.Writer

	// Stderr receives the Received:/Sending: diagnostic mirror.
	Stderr io.Writer
}

// NewNode returns a new instance of Node connected to the process's
// standard streams.
func NewNode() *Node {
	return &Node{
		store:    NewStore(),
		session:  uuid.New(),
		handlers: make(map[string]HandlerFunc),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// ID returns the identity adopted from init, or "" before init.
func (n *Node) ID() string { return n.identity.ID() }

// NodeIDs returns the cluster members listed in the first init.
func (n *Node) NodeIDs() []string { return n.identity.NodeIDs() }

func (n *Node) Seed() uint64 { return n.identity.Seed() }

func (n *Node) Store() *Store { return n.store }

// Session identifies this process run on the diagnostic stream.
func (n *Node) Session() uuid.UUID { return n.session }

// Handle registers fn for messages of type typ. Registering the same type
// twice panics.
func (n *Node) Handle(typ string, fn HandlerFunc) {
	if _, ok := n.handlers[typ]; ok {
		panic("duplicate message handler for " + typ + " message type")
	}
	n.handlers[typ] = fn
}

// Run processes requests until the input ends or a blank line is read, in
// which case it returns nil. It returns the first decode or handler error
// and writes nothing further.
func (n *Node) Run() error {
	n.out = bufio.NewWriter(n.Stdout)
	n.diag = log.New(n.Stderr, "", 0)
	n.diag.Printf("Session: %s", n.session)

	r := bufio.NewReader(n.Stdin)
	for {
		line, readErr := r.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			return nil
		}
		n.diag.Printf("Received: %s", line)

		if err := n.dispatch(line); err != nil {
			return err
		}
		if readErr != nil {
			// io.EOF after a final unterminated line.
			return nil
		}
	}
}

func (n *Node) dispatch(line []byte) error {
	msg, err := Decode(line)
	if err != nil {
		return err
	}

	typ := msg.Type()
	if typ == TypeInit {
		if err := n.handleInitMessage(msg); err != nil {
			return err
		}
	}

	h, ok := n.handlers[typ]
	if !ok {
		if typ == TypeInit {
			return nil
		}
		return &Error{Kind: UnknownMessageType, Type: typ}
	}
	return h(msg)
}

func (n *Node) handleInitMessage(msg Message) error {
	var body InitRequest
	if err := msg.DecodeBody(&body); err != nil {
		return err
	}
	if _, err := n.identity.Adopt(body.NodeID, body.NodeIDs); err != nil {
		return err
	}
	return n.Reply(msg, &InitOK{NodeID: initPlaceholderNodeID})
}

// Reply sends body back to the sender of req. The envelope takes the next
// local id and body.in_reply_to is set to req's msg_id.
func (n *Node) Reply(req Message, body Reply) error {
	inReplyTo, err := req.msgID()
	if err != nil {
		return err
	}
	h := body.replyHeader()
	h.Tag = body.Type()
	h.InReplyTo = inReplyTo

	line, err := encodeReply(n.identity.ID(), req.Src, n.store.NextLocalID(), body)
	if err != nil {
		return err
	}
	return n.send(line)
}

func (n *Node) send(line []byte) error {
	if n.out == nil {
		n.out = bufio.NewWriter(n.Stdout)
	}
	if _, err := n.out.Write(line); err != nil {
		return err
	}
	if err := n.out.WriteByte('\n'); err != nil {
		return err
	}
	if err := n.out.Flush(); err != nil {
		return err
	}
	if n.diag != nil {
		n.diag.Printf("Sending: %s", line)
	}
	return nil
}
