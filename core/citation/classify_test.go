package citation

import (
	"testing"

	"github.com/pericope/citesync/core/doc"
)

const classifyXML = `<article>
  <body id="body">
    <p id="p1"><xref id="x1" ref-type="bibr" rid="b1"/></p>
    <p id="p2"><xref id="x2" ref-type="fig" rid="fig1"/></p>
  </body>
  <back id="back">
    <ref-list id="refs">
      <ref id="r1" rid="b1"/>
    </ref-list>
  </back>
</article>`

func classifyFixture(t *testing.T) *Classifier {
	t.Helper()
	d, err := doc.Parse([]byte(classifyXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return NewClassifier(d)
}

func TestClassifierCreateDelete(t *testing.T) {
	c := classifyFixture(t)

	tests := []struct {
		name string
		op   doc.MutationOp
		want bool
	}{
		{
			"create bibliography marker",
			doc.MutationOp{Kind: doc.OpCreate, NodeID: "x9", NodeType: "xref",
				Attrs: map[string]string{"ref-type": "bibr", "rid": "b1"}},
			true,
		},
		{
			"delete bibliography marker",
			doc.MutationOp{Kind: doc.OpDelete, NodeID: "x9", NodeType: "xref",
				Attrs: map[string]string{"ref-type": "bibr", "rid": "b1"}},
			true,
		},
		{
			"create figure marker",
			doc.MutationOp{Kind: doc.OpCreate, NodeID: "x9", NodeType: "xref",
				Attrs: map[string]string{"ref-type": "fig", "rid": "fig1"}},
			false,
		},
		{
			"create paragraph",
			doc.MutationOp{Kind: doc.OpCreate, NodeID: "p9", NodeType: "p",
				Attrs: map[string]string{}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Relevant([]doc.MutationOp{tt.op}); got != tt.want {
				t.Errorf("Relevant = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifierRefKindChange(t *testing.T) {
	c := classifyFixture(t)

	tests := []struct {
		name     string
		old, new string
		want     bool
	}{
		{"entering scope", "fig", "bibr", true},
		{"leaving scope", "bibr", "fig", true},
		{"unrelated kinds", "fig", "table", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "x2",
				Path: "ref-type", Old: tt.old, New: tt.new}
			if got := c.Relevant([]doc.MutationOp{op}); got != tt.want {
				t.Errorf("Relevant = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifierRIDChange(t *testing.T) {
	c := classifyFixture(t)

	// rid change on an in-scope marker is relevant.
	op := doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "x1",
		Path: "rid", Old: "b1", New: "b2"}
	if !c.Relevant([]doc.MutationOp{op}) {
		t.Error("rid change on in-scope marker should be relevant")
	}

	// rid change on an out-of-scope marker is not.
	op = doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "x2",
		Path: "rid", Old: "fig1", New: "fig2"}
	if c.Relevant([]doc.MutationOp{op}) {
		t.Error("rid change on out-of-scope marker should not be relevant")
	}

	// rid change on a bibliography entry (not a marker) is not.
	op = doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "r1",
		Path: "rid", Old: "b1", New: "b2"}
	if c.Relevant([]doc.MutationOp{op}) {
		t.Error("rid change on a ref entry should not be relevant")
	}
}

func TestClassifierUnrelatedAttribute(t *testing.T) {
	c := classifyFixture(t)

	op := doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "x1",
		Path: "style", Old: "", New: "bold"}
	if c.Relevant([]doc.MutationOp{op}) {
		t.Error("formatting attribute change should never be relevant")
	}
}

func TestClassifierDeletedNodeTolerated(t *testing.T) {
	c := classifyFixture(t)

	// A rid change on a node that no longer exists is skipped, but
	// scanning continues to later operations.
	gone := doc.MutationOp{Kind: doc.OpSetAttr, NodeID: "deleted",
		Path: "rid", Old: "b1", New: "b2"}

	if c.Relevant([]doc.MutationOp{gone}) {
		t.Error("rid change on a missing node should not be relevant alone")
	}

	create := doc.MutationOp{Kind: doc.OpCreate, NodeID: "x9", NodeType: "xref",
		Attrs: map[string]string{"ref-type": "bibr", "rid": "b1"}}
	if !c.Relevant([]doc.MutationOp{gone, create}) {
		t.Error("batch with a later relevant op should be relevant")
	}
}

func TestClassifierEmptyBatch(t *testing.T) {
	c := classifyFixture(t)
	if c.Relevant(nil) {
		t.Error("empty batch should not be relevant")
	}
}
