package color

import "testing"

func TestColorize(t *testing.T) {
	defer EnableColor(IsColorEnabled())

	tests := []struct {
		enabled  bool
		render   func(string) string
		input    string
		expected string
	}{
		{true, Index, "#1", Cyan + "#1" + Reset},
		{true, Address, "0x401136", Yellow + "0x401136" + Reset},
		{true, Anchor, "0xc000012345", Gray + "0xc000012345" + Reset},
		{false, Index, "#1", "#1"},
		{false, Address, "0x401136", "0x401136"},
		{false, BoldText, "x", "x"},
	}

	for _, test := range tests {
		EnableColor(test.enabled)
		if got := test.render(test.input); got != test.expected {
			t.Errorf("color=%v %q: expected %q, got %q", test.enabled, test.input, test.expected, got)
		}
	}
}
