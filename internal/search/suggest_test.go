package search

import "testing"

func TestClosest(t *testing.T) {
	t.Parallel()

	levels := []string{"unaware", "problem_aware", "solution_aware", "product_aware", "most_aware"}
	emotions := []string{"fear_of_missing_out", "relief", "pride"}

	tests := []struct {
		input      string
		candidates []string
		want       string
	}{
		{"problem_aware", levels, "problem_aware"},
		{"problem aware", levels, "problem_aware"},
		{"PROBLEM_AWARE", levels, "problem_aware"},
		{"fear of missing out", emotions, "fear_of_missing_out"},
		{"fear missing", emotions, "fear_of_missing_out"},
		{"relie", emotions, "relief"},
		{"zzz", emotions, ""},
		{"", emotions, ""},
	}
	for _, tt := range tests {
		if got := Closest(tt.input, tt.candidates); got != tt.want {
			t.Fatalf("Closest(%q)=%q, want %q", tt.input, got, tt.want)
		}
	}
}
