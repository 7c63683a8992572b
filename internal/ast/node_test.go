package ast

import "testing"

func TestKindStringKnownAndUnknown(t *testing.T) {
	if got := KindConstDecl.String(); got != "ConstDecl" {
		t.Errorf("KindConstDecl.String() = %q, want %q", got, "ConstDecl")
	}
	if got := KindPatLiteral.String(); got != "PatLiteral" {
		t.Errorf("KindPatLiteral.String() = %q, want %q", got, "PatLiteral")
	}
	unknown := Kind(len(kindNames) + 10)
	if got := unknown.String(); got != "KindUnknown" {
		t.Errorf("out-of-range Kind.String() = %q, want %q", got, "KindUnknown")
	}
}

func TestNodeStringNilNode(t *testing.T) {
	var n *Node
	if got := n.String(); got != "<nil node>" {
		t.Errorf("nil Node.String() = %q, want %q", got, "<nil node>")
	}
}

func TestNodeStringWithoutData(t *testing.T) {
	n := &Node{Kind: KindBlock}
	if got := n.String(); got != "Block" {
		t.Errorf("Node.String() = %q, want %q", got, "Block")
	}
}

func TestNodeStringWithStringData(t *testing.T) {
	n := &Node{Kind: KindIdentifier, Data: "answer"}
	if got := n.String(); got != "Identifier:answer" {
		t.Errorf("Node.String() = %q, want %q", got, "Identifier:answer")
	}
}

func TestNodeStringWithStringerData(t *testing.T) {
	n := &Node{Kind: KindConstDecl, Data: KindBlock}
	if got := n.String(); got != "ConstDecl:Block" {
		t.Errorf("Node.String() = %q, want %q", got, "ConstDecl:Block")
	}
}

func TestNodeStringWithUnrecognizedDataFallsBackToQuestionMark(t *testing.T) {
	n := &Node{Kind: KindIntLit, Data: 42}
	if got := n.String(); got != "IntLit:?" {
		t.Errorf("Node.String() = %q, want %q", got, "IntLit:?")
	}
}
