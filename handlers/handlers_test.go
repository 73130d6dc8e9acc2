package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/melizalde-ds/maelstrom-training/handlers"
	"github.com/melizalde-ds/maelstrom-training/node"
)

type reply struct {
	ID   uint64 `json:"id"`
	Src  string `json:"src"`
	Dest string `json:"dest"`
	Body struct {
		Type      string          `json:"type"`
		InReplyTo *uint64         `json:"in_reply_to"`
		MsgID     *uint64         `json:"msg_id"`
		NodeID    *string         `json:"node_id"`
		Echo      json.RawMessage `json:"echo"`
		ID        *uint64         `json:"id"`
		Messages  []int64         `json:"messages"`
	} `json:"body"`
}

func request(id int, typ string, fields string) string {
	body := fmt.Sprintf(`"type":%q,"msg_id":%d`, typ, id)
	if fields != "" {
		body += "," + fields
	}
	return fmt.Sprintf(`{"id":%d,"src":"c1","dest":"n1","body":{%s}}`, id, body)
}

// run feeds lines to a node with every workload registered and returns the
// decoded replies along with the error Run returned.
func run(t *testing.T, lines ...string) (*node.Node, []reply, error) {
	t.Helper()
	var stdout bytes.Buffer
	n := node.NewNode()
	n.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	n.Stdout = &stdout
	n.Stderr = &bytes.Buffer{}

	h := handlers.New(n)
	n.Handle(node.TypeEcho, h.Echo)
	n.Handle(node.TypeGenerate, h.Generate)
	n.Handle(node.TypeBroadcast, h.Broadcast)
	n.Handle(node.TypeRead, h.Read)
	n.Handle(node.TypeTopology, h.Topology)

	err := n.Run()

	var replies []reply
	dec := json.NewDecoder(&stdout)
	for dec.More() {
		var r reply
		if derr := dec.Decode(&r); derr != nil {
			t.Fatalf("decode reply: %v", derr)
		}
		replies = append(replies, r)
	}
	return n, replies, err
}

func initRequest() string {
	return request(1, "init", `"node_id":"n1","node_ids":["n1"]`)
}

func TestInitReply(t *testing.T) {
	_, replies, err := run(t, initRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	r := replies[0]
	if r.Body.Type != "init_ok" || *r.Body.InReplyTo != 1 || r.Src != "n1" || r.Dest != "c1" {
		t.Fatalf("unexpected init reply: %+v", r)
	}
	if r.Body.NodeID == nil || *r.Body.NodeID != "node_id" {
		t.Fatalf("init_ok node_id = %v", r.Body.NodeID)
	}
}

func TestEcho(t *testing.T) {
	_, replies, err := run(t,
		initRequest(),
		request(2, "echo", `"echo":"hello"`),
		request(3, "echo", `"echo":{"nested":[1,"two"]}`),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(replies) != 3 {
		t.Fatalf("got %d replies, want 3", len(replies))
	}

	r := replies[1]
	if r.Body.Type != "echo_ok" || *r.Body.InReplyTo != 2 || string(r.Body.Echo) != `"hello"` {
		t.Fatalf("unexpected echo reply: %+v", r)
	}
	if r.Body.MsgID != nil {
		t.Fatalf("echo_ok carries msg_id %d", *r.Body.MsgID)
	}
	if got := string(replies[2].Body.Echo); got != `{"nested":[1,"two"]}` {
		t.Fatalf("echo = %s", got)
	}
}

func TestEnvelopeIDsIncreaseAcrossReplyTypes(t *testing.T) {
	_, replies, err := run(t,
		initRequest(),
		request(2, "echo", `"echo":1`),
		request(3, "topology", `"topology":{"n1":[]}`),
		request(4, "read", ""),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(replies) != 4 {
		t.Fatalf("got %d replies, want 4", len(replies))
	}
	for i, r := range replies {
		if r.ID != uint64(i) {
			t.Fatalf("reply %d has id %d", i, r.ID)
		}
	}
}

func TestGenerate(t *testing.T) {
	n, replies, err := run(t,
		initRequest(),
		request(2, "generate", ""),
		request(3, "echo", `"echo":"x"`),
		request(4, "generate", ""),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	seed := node.DeriveSeed("n1")
	if n.Seed() != seed {
		t.Fatalf("Seed() = %d, want %d", n.Seed(), seed)
	}

	if len(replies) != 4 {
		t.Fatalf("got %d replies, want 4", len(replies))
	}
	first, second := replies[1], replies[3]
	if first.Body.Type != "generate_ok" || second.Body.Type != "generate_ok" {
		t.Fatalf("unexpected reply types %q, %q", first.Body.Type, second.Body.Type)
	}
	// the generated id is the seed offset by the envelope's own id
	if *first.Body.ID != seed+1 || *second.Body.ID != seed+3 {
		t.Fatalf("ids = %d, %d; want %d, %d", *first.Body.ID, *second.Body.ID, seed+1, seed+3)
	}
	if *first.Body.ID == *second.Body.ID {
		t.Fatalf("consecutive generate ids collide")
	}
}

func TestBroadcastRead(t *testing.T) {
	_, replies, err := run(t,
		initRequest(),
		request(2, "broadcast", `"message":5`),
		request(3, "broadcast", `"message":7`),
		request(4, "broadcast", `"message":5`),
		request(5, "read", ""),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(replies) != 5 {
		t.Fatalf("got %d replies, want 5", len(replies))
	}
	for _, r := range replies[1:4] {
		if r.Body.Type != "broadcast_ok" {
			t.Fatalf("unexpected reply %+v", r)
		}
	}

	read := replies[4]
	if read.Body.Type != "read_ok" || *read.Body.InReplyTo != 5 {
		t.Fatalf("unexpected read reply: %+v", read)
	}
	got := append([]int64(nil), read.Body.Messages...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if !reflect.DeepEqual(got, []int64{5, 5, 7}) {
		t.Fatalf("messages = %v", read.Body.Messages)
	}
}

func TestReadBeforeBroadcastIsEmptyList(t *testing.T) {
	var stdout bytes.Buffer
	n := node.NewNode()
	n.Stdin = strings.NewReader(initRequest() + "\n" + request(2, "read", "") + "\n")
	n.Stdout = &stdout
	n.Stderr = &bytes.Buffer{}
	h := handlers.New(n)
	n.Handle(node.TypeRead, h.Read)
	if err := n.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), `"messages":[]`) {
		t.Fatalf("read_ok without empty list: %s", stdout.String())
	}
}

func TestTopologyKeepsLatest(t *testing.T) {
	n, replies, err := run(t,
		initRequest(),
		request(2, "topology", `"topology":{"n1":["n2","n3"],"n2":["n1"]}`),
		request(3, "topology", `"topology":{"n1":["n4"]}`),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(replies) != 3 {
		t.Fatalf("got %d replies, want 3", len(replies))
	}
	if replies[2].Body.Type != "topology_ok" {
		t.Fatalf("unexpected reply %+v", replies[2])
	}
	want := map[string][]string{"n1": {"n4"}}
	if !reflect.DeepEqual(n.Store().Topology(), want) {
		t.Fatalf("Topology() = %v, want %v", n.Store().Topology(), want)
	}
	if got := n.Store().Neighbors(n.ID()); !reflect.DeepEqual(got, []string{"n4"}) {
		t.Fatalf("Neighbors = %v", got)
	}
}

func TestUnknownTypeStopsOutput(t *testing.T) {
	_, replies, err := run(t,
		initRequest(),
		request(2, "unknown_type", ""),
		request(3, "echo", `"echo":"late"`),
	)
	var nerr *node.Error
	if !errors.As(err, &nerr) || nerr.Kind != node.UnknownMessageType || nerr.Type != "unknown_type" {
		t.Fatalf("expected UnknownMessageType, got %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("got %d replies after unknown type, want 1", len(replies))
	}
}

func TestBroadcastWithoutMessageIsFatal(t *testing.T) {
	n, replies, err := run(t,
		initRequest(),
		request(2, "broadcast", ""),
	)
	var nerr *node.Error
	if !errors.As(err, &nerr) || nerr.Kind != node.MissingField || nerr.Field != "message" {
		t.Fatalf("expected missing message, got %v", err)
	}
	if len(replies) != 1 || len(n.Store().Values()) != 0 {
		t.Fatalf("broadcast without message changed state or replied")
	}
}

func TestDispatchIgnoresUnrelatedBodyFields(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		inReplyTo uint64
	}{
		{
			name:      "msg_id above int64",
			line:      `{"id":2,"src":"c1","dest":"n1","body":{"type":"echo","msg_id":9223372036854775808,"echo":"hi"}}`,
			inReplyTo: 9223372036854775808,
		},
		{
			name:      "numeric text field",
			line:      `{"id":2,"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"hi","text":7}}`,
			inReplyTo: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, replies, err := run(t, initRequest(), tt.line)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if len(replies) != 2 {
				t.Fatalf("got %d replies, want 2", len(replies))
			}
			r := replies[1]
			if r.Body.Type != "echo_ok" || string(r.Body.Echo) != `"hi"` {
				t.Fatalf("unexpected echo reply: %+v", r)
			}
			if *r.Body.InReplyTo != tt.inReplyTo {
				t.Fatalf("in_reply_to = %d, want %d", *r.Body.InReplyTo, tt.inReplyTo)
			}
		})
	}
}
