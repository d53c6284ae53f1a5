package pattern

import (
	"regexp"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/variable"
)

// RegexPattern matches a subject's full rendered text against a compiled
// regular expression (`r"..."` in the pattern grammar); a partial match
// within the text is not a match — the whole subject must match the
// pattern, mirroring how a bare snippet match requires an exact structural
// match rather than a substring. Captures maps a named capture group to
// the variable slot it binds.
type RegexPattern struct {
	Re       *regexp.Regexp
	Captures map[string]variable.Index
}

func (p *RegexPattern) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	text, err := b.Text(st.FileBodies())
	if err != nil {
		return false, err
	}
	loc := p.Re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 || loc[1] != len(text) {
		return false, nil
	}

	for _, name := range p.Re.SubexpNames() {
		if name == "" {
			continue
		}
		idx, ok := p.Captures[name]
		if !ok {
			continue
		}
		i := p.Re.SubexpIndex(name)
		if i < 0 || 2*i+1 >= len(loc) || loc[2*i] < 0 {
			continue
		}
		capStart, capEnd := loc[2*i], loc[2*i+1]
		var captured model.Binding
		if b.Kind == model.BindingNode || b.Kind == model.BindingRange {
			captured = model.RangeBinding(b.File, b.Start+uint32(capStart), b.Start+uint32(capEnd))
		} else {
			captured = model.LiteralBinding(text[capStart:capEnd])
		}
		if !assign(st, idx, model.FromBinding(captured), [2]uint32{b.Start, b.End}) {
			return false, nil
		}
	}
	return true, nil
}
