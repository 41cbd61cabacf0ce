// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

// ParseManifest parses build-file syntax into state: "rule" and "build"
// statements, top-level "name = value" bindings, and "default"
// declarations. Deliberately absent from this grammar, as Non-goals of
// the single-file, single-threaded model this package implements: "pool"
// (build concurrency limiting is a scheduler concern, out of scope here),
// "subninja"/"include" (multi-file manifests), and implicit (as opposed
// to explicit) build outputs.
func ParseManifest(state *State, text string) error {
	p := &manifestParser{s: newScanner(text), state: state}
	return p.parse()
}

type manifestParser struct {
	s     *scanner
	state *State
}

func (p *manifestParser) parse() error {
	for {
		p.s.skipBlankAndCommentLines()
		if p.s.eof() {
			return nil
		}
		keyword := p.s.readIdent()
		if keyword == "" {
			return p.s.errorf("expected a statement, got %q", p.s.peek())
		}
		p.s.skipHorizontalSpace()
		var err error
		switch keyword {
		case "rule":
			err = p.parseRule()
		case "build":
			err = p.parseBuild()
		case "default":
			err = p.parseDefault()
		default:
			err = p.parseTopLevelLet(keyword)
		}
		if err != nil {
			return err
		}
	}
}

// parseIndentedBlock calls handle once per "key = value" line indented
// under the statement just parsed, stopping at the first line that starts
// at column 0 (or at EOF).
func (p *manifestParser) parseIndentedBlock(handle func(key string, val EvalString) error) error {
	for {
		save := p.s.pos
		saveLine := p.s.line
		p.s.skipBlankAndCommentLines()
		if p.s.eof() || !isIndented(p.s) {
			p.s.pos = save
			p.s.line = saveLine
			return nil
		}
		p.s.skipHorizontalSpace()
		key := p.s.readIdent()
		if key == "" {
			return p.s.errorf("expected a variable name")
		}
		p.s.skipHorizontalSpace()
		if p.s.peek() != '=' {
			return p.s.errorf("expected '=' after %q", key)
		}
		p.s.pos++
		p.s.skipHorizontalSpace()
		val, err := p.s.readLineValue()
		if err != nil {
			return err
		}
		if err := p.s.consumeNewline(); err != nil {
			return err
		}
		if err := handle(key, val); err != nil {
			return err
		}
	}
}

// isIndented reports whether the scanner, positioned at the first
// non-blank byte of a line, sits at a column greater than zero, i.e. the
// line it starts was indented in the source text.
func isIndented(s *scanner) bool {
	return s.pos > 0 && s.data[s.pos-1] != '\n'
}

func (p *manifestParser) parseRule() error {
	name := p.s.readIdent()
	if name == "" {
		return p.s.errorf("expected rule name")
	}
	if err := p.s.consumeNewline(); err != nil {
		return err
	}
	if name == phonyRuleName {
		return p.s.errorf("%q is a reserved rule name", name)
	}
	if _, exists := p.state.LookupRule(name); exists {
		return p.s.errorf("duplicate rule %q", name)
	}
	rule := NewRule(name)
	sawCommand := false
	err := p.parseIndentedBlock(func(key string, val EvalString) error {
		switch key {
		case "command":
			rule.SetCommand(val)
			sawCommand = true
		case "description":
			rule.SetDescription(val)
		case "depfile":
			rule.SetDepfile(val)
		case "rspfile":
			rule.SetRspfile(val)
		case "rspfile_content":
			rule.SetRspfileContent(val)
		case "generator":
			rule.SetGenerator(isTruthy(val))
		case "restat":
			rule.SetRestat(isTruthy(val))
		default:
			return p.s.errorf("unexpected rule binding %q", key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !sawCommand {
		return p.s.errorf("rule %q has no command", name)
	}
	p.state.AddRule(rule)
	return nil
}

// isTruthy evaluates a flag-style rule binding ("generator = 1") against
// no environment, since these never reference variables in practice; any
// non-empty result counts as set, matching Ninja's own convention.
func isTruthy(val EvalString) bool {
	return val.Evaluate(nilEnv{}) != ""
}

type nilEnv struct{}

func (nilEnv) Lookup(string) string { return "" }

type inputRegion int

const (
	regionExplicit inputRegion = iota
	regionImplicit
	regionOrderOnly
)

func (p *manifestParser) parseBuild() error {
	var outputs []EvalString
	for {
		p.s.skipHorizontalSpace()
		if p.s.peek() == ':' {
			p.s.pos++
			break
		}
		if p.s.eof() || p.s.peek() == '\n' {
			return p.s.errorf("expected ':' in build statement")
		}
		word, err := p.s.readWord()
		if err != nil {
			return err
		}
		if word.Empty() {
			return p.s.errorf("expected ':' in build statement")
		}
		outputs = append(outputs, word)
	}
	if len(outputs) == 0 {
		return p.s.errorf("build statement has no outputs")
	}

	p.s.skipHorizontalSpace()
	ruleWord, err := p.s.readWord()
	if err != nil {
		return err
	}
	ruleName := ruleWord.RawString()
	rule, ok := p.state.LookupRule(ruleName)
	if !ok {
		return p.s.errorf("unknown rule %q", ruleName)
	}

	edge := p.state.AddEdge(rule)
	edge.env = NewBindingEnv(p.state.RootEnv())
	ee := &edgeEnv{edge: edge}

	region := regionExplicit
	for {
		p.s.skipHorizontalSpace()
		if p.s.eof() || p.s.peek() == '\n' {
			break
		}
		if p.s.peek() == '|' {
			p.s.pos++
			if p.s.peek() == '|' {
				p.s.pos++
				region = regionOrderOnly
			} else {
				region = regionImplicit
			}
			continue
		}
		word, err := p.s.readWord()
		if err != nil {
			return err
		}
		if word.Empty() {
			break
		}
		path := word.Evaluate(ee)
		p.state.AddIn(edge, path)
		switch region {
		case regionImplicit:
			edge.implicitCount++
		case regionOrderOnly:
			edge.orderOnlyCount++
		}
	}
	if err := p.s.consumeNewline(); err != nil {
		return err
	}

	for _, out := range outputs {
		path := out.Evaluate(ee)
		if !p.state.AddOut(edge, path) {
			return p.s.errorf("multiple rules generate %q", path)
		}
	}

	return p.parseIndentedBlock(func(key string, val EvalString) error {
		edge.env.AddBinding(key, val.Evaluate(ee))
		return nil
	})
}

func (p *manifestParser) parseDefault() error {
	var any bool
	for {
		p.s.skipHorizontalSpace()
		if p.s.eof() || p.s.peek() == '\n' {
			break
		}
		word, err := p.s.readWord()
		if err != nil {
			return err
		}
		if word.Empty() {
			break
		}
		any = true
		path := word.Evaluate(p.state.RootEnv())
		if err := p.state.AddDefault(path); err != nil {
			return p.s.errorf("%s", err)
		}
	}
	if !any {
		return p.s.errorf("expected at least one target in default statement")
	}
	return p.s.consumeNewline()
}

func (p *manifestParser) parseTopLevelLet(name string) error {
	p.s.skipHorizontalSpace()
	if p.s.peek() != '=' {
		return p.s.errorf("expected '=' after %q", name)
	}
	p.s.pos++
	p.s.skipHorizontalSpace()
	val, err := p.s.readLineValue()
	if err != nil {
		return err
	}
	if err := p.s.consumeNewline(); err != nil {
		return err
	}
	p.state.RootEnv().AddBinding(name, val.Evaluate(p.state.RootEnv()))
	return nil
}
