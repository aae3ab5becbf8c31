package miu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRule1Applicable(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"I", true},
		{"U", false},
		{"UI", true},
		{"IU", false},
		{"IIIIU", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRule1Applicable(MustParse(tt.input)))
		})
	}
}

func TestEndAnchoredRules(t *testing.T) {
	th := MustParse("IUI")

	assert.Equal(t, Rule{Number: RuleAppend, Start: 3}, Rule1(th))
	assert.Equal(t, Rule{Number: RuleDuplicate, Start: 3}, Rule2(th))
	assert.Equal(t, Rule{Number: RuleDuplicate, Start: 0}, Rule2(Theorem{}))
}

func TestFindRule3Instances(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		starts []int
	}{
		{"empty", "", nil},
		{"too short", "II", nil},
		{"exact", "III", []int{0}},
		{"overlapping", "IIII", []int{0, 1}},
		{"split by U", "IIIUIII", []int{0, 4}},
		{"none", "IIUII", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := MustParse(tt.input)
			rules := FindRule3Instances(th)
			assert.NotNil(t, rules)
			assert.Len(t, rules, len(tt.starts))
			for i, r := range rules {
				assert.Equal(t, RuleCollapse, r.Number)
				assert.Equal(t, tt.starts[i], r.Start)
				assert.Equal(t, Theorem{Filled, Filled, Filled}, th[r.Start:r.End()])
			}
		})
	}
}

func TestFindRule4Instances(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		starts []int
	}{
		{"empty", "", nil},
		{"single", "U", nil},
		{"exact", "UU", []int{0}},
		{"overlapping", "UUU", []int{0, 1}},
		{"inside", "IUUI", []int{1}},
		{"none", "UIU", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := MustParse(tt.input)
			rules := FindRule4Instances(th)
			assert.Len(t, rules, len(tt.starts))
			for i, r := range rules {
				assert.Equal(t, RuleDrop, r.Number)
				assert.Equal(t, tt.starts[i], r.Start)
				assert.Equal(t, Theorem{Empty, Empty}, th[r.Start:r.End()])
			}
		})
	}
}

func TestFindAllSpanRuleInstances(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Rule
	}{
		{"axiom has none", "I", []Rule{}},
		{
			name:  "merged and sorted",
			input: "UUIII",
			want: []Rule{
				{Number: RuleDrop, Start: 0, Row: 0},
				{Number: RuleCollapse, Start: 2, Row: 0},
			},
		},
		{
			name:  "adjacent rows cycle modulo three",
			input: "IIIIII",
			want: []Rule{
				{Number: RuleCollapse, Start: 0, Row: 0},
				{Number: RuleCollapse, Start: 1, Row: 1},
				{Number: RuleCollapse, Start: 2, Row: 2},
				{Number: RuleCollapse, Start: 3, Row: 0},
			},
		},
		{
			name:  "adjacency across rule kinds",
			input: "IIIUUU",
			want: []Rule{
				{Number: RuleCollapse, Start: 0, Row: 0},
				{Number: RuleDrop, Start: 3, Row: 0},
				{Number: RuleDrop, Start: 4, Row: 1},
			},
		},
		{
			name:  "gap resets row",
			input: "IIIIUUU",
			want: []Rule{
				{Number: RuleCollapse, Start: 0, Row: 0},
				{Number: RuleCollapse, Start: 1, Row: 1},
				{Number: RuleDrop, Start: 4, Row: 0},
				{Number: RuleDrop, Start: 5, Row: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAllSpanRuleInstances(MustParse(tt.input))
			assert.Equal(t, tt.want, got)
			for i := 1; i < len(got); i++ {
				assert.Less(t, got[i-1].Start, got[i].Start, "starts strictly ascending")
			}
		})
	}
}

func TestRuleEnd(t *testing.T) {
	assert.Equal(t, 5, Rule{Number: RuleCollapse, Start: 2}.End())
	assert.Equal(t, 4, Rule{Number: RuleDrop, Start: 2}.End())
	assert.Equal(t, 7, Rule{Number: RuleAppend, Start: 7}.End())
	assert.Equal(t, "rule 3 at 2", Rule{Number: RuleCollapse, Start: 2}.String())
	assert.Equal(t, "rule 2", Rule{Number: RuleDuplicate, Start: 9}.String())
}
