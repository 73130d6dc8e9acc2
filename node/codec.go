package node

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// wireMessage is the decode-side shape of an envelope. Pointers tell an
// absent field apart from a zero one.
type wireMessage struct {
	ID   *uint64         `json:"id"`
	Src  *string         `json:"src"`
	Dest *string         `json:"dest"`
	Body json.RawMessage `json:"body"`
}

// Decode parses one input line into an envelope. Any shape violation is a
// MalformedInput error.
func Decode(line []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(line, &w); err != nil {
		return Message{}, malformed(err)
	}
	switch {
	case w.ID == nil:
		return Message{}, malformed(errors.New(`envelope has no "id"`))
	case w.Src == nil:
		return Message{}, malformed(errors.New(`envelope has no "src"`))
	case w.Dest == nil:
		return Message{}, malformed(errors.New(`envelope has no "dest"`))
	case len(w.Body) == 0 || bytes.Equal(w.Body, []byte("null")):
		return Message{}, malformed(errors.New(`envelope has no "body"`))
	}

	var body struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(w.Body, &body); err != nil {
		return Message{}, malformed(fmt.Errorf("body: %w", err))
	}
	if body.Type == nil {
		return Message{}, malformed(errors.New(`body has no "type"`))
	}

	msg := Message{ID: *w.ID, typ: *body.Type}
	msg.Src = *w.Src
	msg.Dest = *w.Dest
	msg.Body = w.Body
	return msg, nil
}

// Encode serializes an envelope as a single line without the trailing
// newline.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeBody unmarshals the envelope body into the request variant and
// checks its required fields.
func (m Message) DecodeBody(req Request) error {
	if err := json.Unmarshal(m.Body, req); err != nil {
		return malformed(fmt.Errorf("%s body: %w", m.Type(), err))
	}
	return req.validate()
}

// msgID returns the msg_id of the envelope's body.
func (m Message) msgID() (uint64, error) {
	var h header
	if err := json.Unmarshal(m.Body, &h); err != nil {
		return 0, malformed(fmt.Errorf("%s body: %w", m.Type(), err))
	}
	if err := h.requireMsgID(); err != nil {
		return 0, err
	}
	return *h.MsgID, nil
}

func encodeReply(src, dest string, id uint64, body Reply) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	msg := Message{ID: id}
	msg.Src = src
	msg.Dest = dest
	msg.Body = raw
	return Encode(msg)
}
