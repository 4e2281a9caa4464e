package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("file:///notes/launch.md#0")
	id2 := IDFromContent("file:///notes/launch.md#0")
	assert.Equal(t, id1, id2)
}

func TestIDFromContent_DifferentContent(t *testing.T) {
	id1 := IDFromContent("chat://abc123#0")
	id2 := IDFromContent("chat://abc123#1")
	assert.NotEqual(t, id1, id2)
}

func TestIDFromContent_EmptyString(t *testing.T) {
	// Empty input still hashes to a stable, non-panicking value.
	id1 := IDFromContent("")
	id2 := IDFromContent("")
	assert.Equal(t, id1, id2)
}

func TestFactTuple(t *testing.T) {
	tests := []struct {
		name     string
		fact     Fact
		expected string
	}{
		{
			name:     "full tuple",
			fact:     Fact{Project: "p1", Kind: "deadline", Key: "launch"},
			expected: "(p1,deadline,launch)",
		},
		{
			name:     "empty project",
			fact:     Fact{Kind: "goal", Key: "q4"},
			expected: "(,goal,q4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fact.Tuple())
		})
	}
}

func TestFactTuple_IdentityCollision(t *testing.T) {
	// Facts with the same tuple hash to the same ID; different tuples do not.
	a := Fact{Project: "p1", Kind: "deadline", Key: "launch"}
	b := Fact{Project: "p1", Kind: "deadline", Key: "launch"}
	c := Fact{Project: "p2", Kind: "deadline", Key: "launch"}

	assert.Equal(t, IDFromContent(a.Tuple()), IDFromContent(b.Tuple()))
	assert.NotEqual(t, IDFromContent(a.Tuple()), IDFromContent(c.Tuple()))
}
