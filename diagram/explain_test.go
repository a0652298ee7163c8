package diagram

import (
	"strings"
	"testing"
)

func TestExplain_Example(t *testing.T) {
	steps := []Step{
		PlainStep{Text: "Gather requirements"},
		PlainStep{Text: "Design system"},
		DecisionStep{Condition: "If tests pass", Branches: []string{"Deploy", "Rollback"}},
	}

	want := "Explanation of the diagram:\n" +
		"Step 1: Gather requirements\n" +
		"Step 2: Design system\n" +
		"Decision at Step 3: If tests pass with paths Deploy, Rollback\n"

	if got := Explain(steps); got != want {
		t.Errorf("Explain() =\n%s\nwant\n%s", got, want)
	}
}

func TestExplain_OneLinePerStepInOrder(t *testing.T) {
	steps := []Step{
		PlainStep{Text: "a"},
		DecisionStep{Condition: "If b", Branches: []string{"c"}},
		PlainStep{Text: "d"},
	}

	lines := strings.Split(strings.TrimSuffix(Explain(steps), "\n"), "\n")
	if len(lines) != len(steps)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(steps)+1)
	}
	if lines[0] != ExplanationHeader {
		t.Errorf("header = %q", lines[0])
	}
	want := []string{"Step 1: a", "Decision at Step 2: If b with paths c", "Step 3: d"}
	for i, w := range want {
		if lines[i+1] != w {
			t.Errorf("line %d = %q, want %q", i+1, lines[i+1], w)
		}
	}
}
