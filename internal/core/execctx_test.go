package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwtch_PingPong(t *testing.T) {
	var trace []string
	root := newRootContext()
	var child *execContext
	child = newContext(nil, func() {
		trace = append(trace, "child-1")
		swtch(child, root)
		trace = append(trace, "child-2")
		exitTo(root)
	})

	trace = append(trace, "root-1")
	swtch(root, child)
	trace = append(trace, "root-2")
	swtch(root, child)
	trace = append(trace, "root-3")

	assert.Equal(t, []string{"root-1", "child-1", "root-2", "child-2", "root-3"}, trace)
	assert.True(t, child.started)
}

func TestActivate_BeforePark(t *testing.T) {
	c := newRootContext()
	c.activate()
	select {
	case <-c.resume:
	default:
		t.Fatal("resume token should be buffered")
	}
}
