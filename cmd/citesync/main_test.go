package main

import (
	"path/filepath"
	"testing"

	"github.com/pericope/citesync/core/doc"
	"github.com/pericope/citesync/core/docstore"
)

const testSnapshot = `<article>
  <body id="body">
    <p id="p1"><xref id="x1" ref-type="bibr" rid="b2 b1"/></p>
  </body>
  <back id="back">
    <ref-list id="refs">
      <ref id="r1" rid="b1"/>
      <ref id="r2" rid="b2"/>
    </ref-list>
  </back>
</article>`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	d, err := doc.Parse([]byte(testSnapshot))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "doc.xml")
	if err := docstore.Save(path, d); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return path
}

func TestRecomputeCmd(t *testing.T) {
	CLI.DB = ""
	CLI.Style = "[1,2-4]"

	cmd := RecomputeCmd{Snapshot: writeSnapshot(t)}
	if err := cmd.Run(); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
}

func TestBibCmd(t *testing.T) {
	CLI.DB = ""
	CLI.Style = "1,2"

	cmd := BibCmd{Snapshot: writeSnapshot(t), JSON: true}
	if err := cmd.Run(); err != nil {
		t.Fatalf("bib failed: %v", err)
	}
}

func TestUpdateRefsCmd(t *testing.T) {
	CLI.DB = ""
	CLI.Style = "[1,2-4]"
	path := writeSnapshot(t)

	cmd := UpdateRefsCmd{Snapshot: path, RIDs: []string{"b2", "b3"}}
	if err := cmd.Run(); err != nil {
		t.Fatalf("update-refs failed: %v", err)
	}

	// The rewritten snapshot reflects the new reference list.
	d, err := docstore.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	refs := d.FindAll("//ref")
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Attr("rid") != "b2" || refs[1].Attr("rid") != "b3" {
		t.Errorf("rids = [%s, %s], want [b2, b3]", refs[0].Attr("rid"), refs[1].Attr("rid"))
	}
}

func TestInvalidStyle(t *testing.T) {
	CLI.DB = ""
	CLI.Style = "not a style"

	cmd := RecomputeCmd{Snapshot: writeSnapshot(t)}
	if err := cmd.Run(); err == nil {
		t.Error("recompute with invalid style template did not fail")
	}
}
