package resolver

import "testing"

func TestAddAndFind(t *testing.T) {
	g := New()
	n := g.AddNode(Node{Group: "com.squareup.retrofit2", Artifact: "retrofit", Version: "2.11.0", Scope: "compile"})

	found, ok := g.Find(n.Key())
	if !ok {
		t.Fatal("expected node to be found")
	}
	if found.Version != "2.11.0" {
		t.Errorf("Version = %q, want 2.11.0", found.Version)
	}
}

func TestDuplicateAddReturnsSameNode(t *testing.T) {
	g := New()
	first := g.AddNode(Node{Group: "com.squareup.okhttp3", Artifact: "okhttp", Version: "4.9.0"})
	second := g.AddNode(Node{Group: "com.squareup.okhttp3", Artifact: "okhttp", Version: "4.12.0"})

	if second.Version != "4.9.0" {
		t.Errorf("expected first-inserted version to win, got %q", second.Version)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
	_ = first
}

func TestAddEdgeDedupesRepeatedEdges(t *testing.T) {
	g := New()
	a := g.AddNode(Node{Group: "g", Artifact: "a", Version: "1.0"})
	b := g.AddNode(Node{Group: "g", Artifact: "b", Version: "1.0"})

	g.AddEdge(a.Key(), b.Key(), Edge{Scope: "compile"})
	g.AddEdge(a.Key(), b.Key(), Edge{Scope: "compile"})

	if got := len(g.DependenciesOf(a.Key())); got != 1 {
		t.Errorf("DependenciesOf(a) has %d edges, want 1", got)
	}
}

func TestSetRootExcludesFromAllNodes(t *testing.T) {
	g := New()
	root := g.AddNode(Node{Group: "proj", Artifact: "app", Version: "0.1.0"})
	g.SetRoot(root.Key())
	g.AddNode(Node{Group: "g", Artifact: "a", Version: "1.0"})

	nodes := g.AllNodes()
	if len(nodes) != 1 {
		t.Fatalf("AllNodes() has %d entries, want 1", len(nodes))
	}
	if nodes[0].Artifact != "a" {
		t.Errorf("AllNodes()[0] = %+v, want artifact a", nodes[0])
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (root excluded)", g.Len())
	}
}
