package shader

import (
	"regexp"
	"strings"
)

// Rule names, in table order.
const (
	RuleDirective     = "directive"
	RuleBlockEdge     = "block-edge"
	RuleBrace         = "brace"
	RuleControlHeader = "control-header"
	RuleStructOpen    = "struct-open"
	RuleFunctionDef   = "function-def"
	RuleAssignment    = "assignment"
	RuleReturn        = "return"
	RuleCall          = "call"
	RuleOther         = "other"
)

// Rule is one row of the terminator policy table.
// Match is evaluated on trimmed, comment-stripped text.
type Rule struct {
	Name              string
	RequiresSemicolon bool
	Match             func(text string) bool
}

var (
	directiveRE     = regexp.MustCompile(`^(shader_type|render_mode)\s`)
	controlHeaderRE = regexp.MustCompile(`^(if|else\s+if|else|for|while|do|switch)\s*\(`)
	structOpenRE    = regexp.MustCompile(`^struct\s+\w+\s*\{`)
	functionDefRE   = regexp.MustCompile(`^(void|float|int|uint|bool|[iub]?vec[234]|mat\d|sampler\w*)\s+\w+\s*\(`)
	comparisonRE    = regexp.MustCompile(`==|!=|<=|>=`)
	returnRE        = regexp.MustCompile(`\breturn\b`)
	callTailRE      = regexp.MustCompile(`\w\s*\([^)]*\)\s*$`)
)

// rules is ordered; the first match decides. Keep the control-flow row ahead
// of the assignment row, otherwise `for (int i = 0; ...)` reads as a statement.
var rules = []Rule{
	{
		Name: RuleDirective,
		Match: func(text string) bool {
			return directiveRE.MatchString(text) || strings.HasPrefix(text, "#")
		},
	},
	{
		Name: RuleBlockEdge,
		Match: func(text string) bool {
			return strings.HasSuffix(text, "{") ||
				strings.HasSuffix(text, "}") ||
				strings.HasSuffix(text, "};") ||
				strings.HasSuffix(text, ",")
		},
	},
	{
		Name: RuleBrace,
		Match: func(text string) bool {
			return text == "{" || text == "}"
		},
	},
	{
		Name: RuleControlHeader,
		Match: func(text string) bool {
			return controlHeaderRE.MatchString(text) || text == "else"
		},
	},
	{
		Name:  RuleStructOpen,
		Match: structOpenRE.MatchString,
	},
	{
		Name:  RuleFunctionDef,
		Match: functionDefRE.MatchString,
	},
	{
		Name:              RuleAssignment,
		RequiresSemicolon: true,
		Match: func(text string) bool {
			return strings.Contains(text, "=") && !comparisonRE.MatchString(text)
		},
	},
	{
		Name:              RuleReturn,
		RequiresSemicolon: true,
		Match:             returnRE.MatchString,
	},
	{
		Name:              RuleCall,
		RequiresSemicolon: true,
		Match:             callTailRE.MatchString,
	},
}

// Rules returns a copy of the ordered rule table. The implicit fallback row
// (RuleOther, no semicolon) is not included.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// ClassifyLine decides whether text requires a terminating semicolon and
// names the rule that decided it. text must already be trimmed and free of
// comments.
func ClassifyLine(text string) (requires bool, rule string) {
	if text == "" {
		return false, RuleOther
	}
	for i := range rules {
		if rules[i].Match(text) {
			return rules[i].RequiresSemicolon, rules[i].Name
		}
	}
	return false, RuleOther
}
