package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type captureBroadcaster struct {
	frames   []string
	payloads []json.RawMessage
}

func (c *captureBroadcaster) Broadcast(frameType string, payload json.RawMessage) error {
	c.frames = append(c.frames, frameType)
	c.payloads = append(c.payloads, payload)
	return nil
}

func TestPGListener_ForwardsJSONPayloads(t *testing.T) {
	target := &captureBroadcaster{}
	l := NewPGListener("postgres://unused", "lead_changes", target, zap.NewNop())

	l.forward(`{"op":"INSERT","id":"8c5a"}`)
	l.forward(`not json`)

	assert.Equal(t, []string{FrameLeadChanged}, target.frames)
	assert.JSONEq(t, `{"op":"INSERT","id":"8c5a"}`, string(target.payloads[0]))
}
