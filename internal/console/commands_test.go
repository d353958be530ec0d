package console

import "testing"

func TestResolve(t *testing.T) {
	cases := map[string]Action{
		"1":                ActionConstruct,
		"8":                ActionExit,
		"0":                ActionNone,
		"9":                ActionNone,
		"":                 ActionNone,
		"Build":            ActionConstruct,
		"biuld":            ActionConstruct,
		"demolish":         ActionDemolish,
		"demolsh":          ActionDemolish,
		"stok":             ActionStock,
		"exot":             ActionExit,
		"q":                ActionExit,
		"reverse":          ActionPrintReverse,
		"expanded-reverse": ActionPrintExpandedReverse,
		"shw":              ActionPrint,
		"xyzzy":            ActionNone,
		"zz":               ActionNone,
	}
	for in, want := range cases {
		if got := Resolve(in); got != want {
			t.Fatalf("Resolve(%q) = %d want %d", in, got, want)
		}
	}
}

func TestMenuNumbersMatchActions(t *testing.T) {
	for i, c := range commands {
		if int(c.action) != i+1 {
			t.Fatalf("command %q listed at %d has action %d", c.label, i+1, c.action)
		}
	}
}
