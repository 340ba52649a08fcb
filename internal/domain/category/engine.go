package category

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/secondary/internal/domain/model"
	"github.com/okian/secondary/internal/domain/tier"
)

// tierSet is a bitmask of allowed tiers; zero means any.
type tierSet uint8

func (s tierSet) has(t tier.Tier) bool { return s == 0 || s&(1<<uint(t)) != 0 }

type cut struct {
	score model.Score
	value float64
}

type compiled struct {
	label            string
	athletic         tierSet
	college          tierSet
	nfl              tierSet
	cuts             []cut
	compositeAtLeast float64
	hasComposite     bool
	require          []Flag
	forbid           []Flag
}

// Engine evaluates a compiled policy. It is immutable and safe for
// concurrent use.
type Engine struct {
	name   string
	gate   bool
	rules  []compiled
	labels []string
}

// Compile validates p against th and returns an Engine. Any problem with the
// policy itself is an ErrConfiguration.
func Compile(p Policy, th tier.Thresholds) (*Engine, error) {
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("%w: policy %q has no rules", ErrConfiguration, p.Name)
	}
	e := &Engine{name: p.Name, gate: p.GateNFLOnSample, rules: make([]compiled, 0, len(p.Rules))}
	seen := make(map[string]struct{}, len(p.Rules))
	defaults := 0
	for i, r := range p.Rules {
		c, err := compileRule(r, th)
		if err != nil {
			return nil, fmt.Errorf("%w: policy %q rule %d: %v", ErrConfiguration, p.Name, i+1, err)
		}
		if r.Default {
			defaults++
			if i != len(p.Rules)-1 {
				return nil, fmt.Errorf("%w: policy %q catch-all %q must be the last rule", ErrConfiguration, p.Name, r.Label)
			}
		}
		e.rules = append(e.rules, c)
		if _, ok := seen[c.label]; !ok {
			seen[c.label] = struct{}{}
			e.labels = append(e.labels, c.label)
		}
	}
	if defaults != 1 {
		return nil, fmt.Errorf("%w: policy %q needs exactly one catch-all rule, found %d", ErrConfiguration, p.Name, defaults)
	}
	return e, nil
}

func compileRule(r Rule, th tier.Thresholds) (compiled, error) {
	c := compiled{label: strings.TrimSpace(r.Label)}
	if c.label == "" {
		return c, errors.New("empty label")
	}
	var err error
	if c.athletic, err = parseTiers(r.Athletic); err != nil {
		return c, err
	}
	if c.college, err = parseTiers(r.College); err != nil {
		return c, err
	}
	if c.nfl, err = parseTiers(r.NFL); err != nil {
		return c, err
	}
	for name, cutName := range r.AtLeast {
		s, err := parseScore(name)
		if err != nil {
			return c, err
		}
		v, err := th.Cut(cutName)
		if err != nil {
			return c, err
		}
		c.cuts = append(c.cuts, cut{score: s, value: v})
	}
	sort.Slice(c.cuts, func(i, j int) bool { return c.cuts[i].score < c.cuts[j].score })
	if r.CompositeAtLeast != nil {
		v := *r.CompositeAtLeast
		if v < 0 || v > 100 {
			return c, fmt.Errorf("composite_at_least %v out of range", v)
		}
		c.compositeAtLeast, c.hasComposite = v, true
	}
	if c.require, err = parseFlags(r.Require); err != nil {
		return c, err
	}
	if c.forbid, err = parseFlags(r.Forbid); err != nil {
		return c, err
	}

	conditional := c.athletic != 0 || c.college != 0 || c.nfl != 0 ||
		len(c.cuts) > 0 || c.hasComposite || len(c.require) > 0 || len(c.forbid) > 0
	switch {
	case r.Default && conditional:
		return c, fmt.Errorf("catch-all %q must not carry conditions", c.label)
	case !r.Default && !conditional:
		return c, fmt.Errorf("rule %q has no conditions; mark it default or add a condition", c.label)
	}
	return c, nil
}

// Name returns the policy name.
func (e *Engine) Name() string { return e.name }

// Labels returns the distinct labels in rule order. The catch-all is last.
func (e *Engine) Labels() []string {
	out := make([]string, len(e.labels))
	copy(out, e.labels)
	return out
}

// Classify returns the label of the first matching rule. The catch-all
// guarantees a label for every input.
func (e *Engine) Classify(in Input) string {
	if e.gate && !in.Flags.NFLSample {
		in.Tiers.NFL = tier.Unknown
	}
	for _, r := range e.rules {
		if e.matches(r, in) {
			return r.label
		}
	}
	// Unreachable for a compiled engine; kept so the zero Engine is usable.
	return DefaultLabel
}

func (e *Engine) matches(r compiled, in Input) bool {
	if !r.athletic.has(in.Tiers.Athletic) || !r.college.has(in.Tiers.College) || !r.nfl.has(in.Tiers.NFL) {
		return false
	}
	for _, c := range r.cuts {
		if c.score == model.ScoreNFL && e.gate && !in.Flags.NFLSample {
			return false
		}
		v, ok := in.Scores.Get(c.score).Get()
		if !ok || v < c.value {
			return false
		}
	}
	if r.hasComposite {
		v, ok := in.Scores.Composite.Get()
		if !ok || v < r.compositeAtLeast {
			return false
		}
	}
	for _, f := range r.require {
		if !flag(in.Flags, f) {
			return false
		}
	}
	for _, f := range r.forbid {
		if flag(in.Flags, f) {
			return false
		}
	}
	return true
}

func flag(fs model.SampleFlags, f Flag) bool {
	switch f {
	case FlagRASPresent:
		return fs.RASPresent
	case FlagCollegeSample:
		return fs.CollegeSample
	case FlagNFLSample:
		return fs.NFLSample
	}
	return false
}

func parseTiers(names []string) (tierSet, error) {
	var s tierSet
	for _, n := range names {
		t, err := tier.Parse(n)
		if err != nil {
			return 0, err
		}
		s |= 1 << uint(t)
	}
	return s, nil
}

func parseFlags(names []string) ([]Flag, error) {
	out := make([]Flag, 0, len(names))
	for _, n := range names {
		f := Flag(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FlagRASPresent, FlagCollegeSample, FlagNFLSample:
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown flag %q", n)
		}
	}
	return out, nil
}

func parseScore(name string) (model.Score, error) {
	if s, ok := model.ParseScore(name); ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown score %q", name)
}
