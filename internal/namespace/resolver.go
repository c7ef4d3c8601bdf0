package namespace

import (
	"github.com/ncsh/ncsh/internal/invariant"
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
	"github.com/ncsh/ncsh/internal/shellfs"
)

// Position names the source line/column a token came from, threaded
// through ParseStep so the resulting node can answer Position() for
// diagnostics.
type Position struct {
	Line   int
	Column int
}

// KV is one ancestor parameter's key/value pair, as passed to the
// discovery sub-protocol: Key is "" when the ancestor had no explicit
// key.
type KV struct {
	Key   string
	Value string
}

// DiscoveryResult is what the discovery sub-protocol returns for one
// Parameter resolution.
type DiscoveryResult struct {
	LegalKeys    []string
	RequiredKeys []string
	LegalValues  []string
	Stderr       []byte
	Err          error
}

// Discoverer runs the command in -c mode and classifies its output.
// internal/discovery implements this; keeping it as an interface here
// avoids namespace depending on the process-spawning machinery, and lets
// resolver tests fake discovery output directly.
type Discoverer interface {
	Discover(cmd *Command, ancestors []KV, token string) DiscoveryResult
}

// Resolver holds the roots and PATHEXT filter needed to materialize
// Container/Command nodes from the filesystem.
type Resolver struct {
	Libexec shellfs.Root
	Sysconf shellfs.Root
	Pathext []string
}

// NewRootContainer builds the root Container node: no parent, and
// exactly the two builtins exit/quit, which exist only at the root
// container.
func (r *Resolver) NewRootContainer() (*Container, error) {
	return r.buildContainer(r.Libexec.Base, r.Sysconf.Base, nil, []string{"exit", "quit"}, nil)
}

func (r *Resolver) buildContainer(libexecPath, sysconfPath string, parent Node, builtins []string, name *string) (*Container, error) {
	listing, err := shellfs.ListContainer(libexecPath, r.Pathext)
	if err != nil {
		return nil, err
	}
	n := ""
	if name != nil {
		n = *name
	}
	return &Container{
		base:            newBase(n, parent),
		LibexecPath:     libexecPath,
		SysconfPath:     sysconfPath,
		ChildContainers: listing.Containers,
		ChildCommands:   listing.Commands,
		Builtins:        builtins,
	}, nil
}

// ParseStep resolves one argv token against parent. pos is stamped
// onto the resulting node (when non-nil) so later diagnostics can
// report the offending token's source line/column; the zero Position
// is fine for non-interactive callers that never surface positional
// errors.
func (r *Resolver) ParseStep(token string, pos Position, parent Node, completionMode bool, disco Discoverer) (Node, error) {
	invariant.NotNil(parent, "namespace: ParseStep requires a parent node")

	node, err := r.parseStep(token, parent, completionMode, disco)
	if node != nil {
		node.SetPosition(pos.Line, pos.Column)
	}
	return node, err
}

func (r *Resolver) parseStep(token string, parent Node, completionMode bool, disco Discoverer) (Node, error) {
	switch p := parent.(type) {
	case *Container:
		return r.stepContainer(token, p)
	case *Command:
		return r.stepCommand(token, p, p, nil, completionMode, disco)
	case *Parameter:
		ancestors := collectAncestors(p)
		return r.stepCommand(token, p.CommandRef, p, ancestors, completionMode, disco)
	case *Builtin:
		return &Option{base: newBase(token, p), Ref: p}, nil
	case *Option:
		return &Option{base: newBase(token, p), Ref: p}, nil
	case *Ambiguous:
		return nil, shellerr.New(shellerr.KindNotFound, "cannot descend through an ambiguous node")
	default:
		return nil, shellerr.New(shellerr.KindNotFound, "unknown parent node kind")
	}
}

func (r *Resolver) stepContainer(token string, p *Container) (Node, error) {
	if token == ".." {
		if p.Parent() == nil {
			return nil, shellerr.New(shellerr.KindAboveRoot, "already at the root container")
		}
		return p.Parent(), nil
	}

	var cands []candidate
	for _, b := range p.Builtins {
		cands = append(cands, candidate{b, catBuiltin})
	}
	for _, c := range p.ChildCommands {
		cands = append(cands, candidate{c, catCommand})
	}
	for _, c := range p.ChildContainers {
		cands = append(cands, candidate{c, catContainer})
	}

	m := matchToken(token, cands)
	switch {
	case m.exact != nil:
		return r.materialize(*m.exact, p)
	case m.unique != nil:
		return r.materialize(*m.unique, p)
	case len(m.ambiguous) > 0:
		containers, commands, builtins, _, _, _ := namesByCategory(m.ambiguous)
		names := make([]string, 0, len(m.ambiguous))
		for _, c := range m.ambiguous {
			names = append(names, c.name)
		}
		return &Ambiguous{
			base:                   newBase(token, p),
			Prefix:                 token,
			LongestCommonRemainder: longestCommonRemainder(token, names),
			Containers:             containers,
			Commands:               commands,
			Builtins:               builtins,
		}, nil
	default:
		return nil, shellerr.New(shellerr.KindNotFound, "no such container, command, or builtin: "+token)
	}
}

func (r *Resolver) materialize(c candidate, parent *Container) (Node, error) {
	switch c.cat {
	case catBuiltin:
		return &Builtin{base: newBase(c.name, parent)}, nil
	case catCommand:
		libexec, err := mustJoin(r.Libexec, parent.LibexecPath, c.name)
		if err != nil {
			return nil, err
		}
		sysconf, err := mustJoin(r.Sysconf, parent.SysconfPath, c.name)
		if err != nil {
			return nil, err
		}
		return &Command{base: newBase(c.name, parent), LibexecPath: libexec, SysconfPath: sysconf}, nil
	case catContainer:
		libexec, err := mustJoin(r.Libexec, parent.LibexecPath, c.name)
		if err != nil {
			return nil, err
		}
		sysconf, err := mustJoin(r.Sysconf, parent.SysconfPath, c.name)
		if err != nil {
			return nil, err
		}
		name := c.name
		return r.buildContainer(libexec, sysconf, parent, nil, &name)
	default:
		return nil, shellerr.New(shellerr.KindNotFound, "unexpected candidate category")
	}
}

// mustJoin joins name onto parentDir (an absolute path already known to
// be under root.Base), rejecting any result that escapes parentDir.
func mustJoin(root shellfs.Root, parentDir, name string) (string, error) {
	rebased := shellfs.Root{Base: parentDir}
	return rebased.Join(name)
}

func (r *Resolver) stepCommand(token string, cmd *Command, immediateParent Node, ancestors []KV, completionMode bool, disco Discoverer) (Node, error) {
	invariant.NotNil(cmd, "namespace: parameter chain missing its command")

	param := &Parameter{
		base:       newBase(token, immediateParent),
		CommandRef: cmd,
	}
	key, value, hasKey := splitKeyValue(token)
	param.Key, param.Value, param.HasKey = key, value, hasKey

	if !completionMode || disco == nil {
		return param, nil
	}

	result := disco.Discover(cmd, ancestors, token)
	if result.Err != nil {
		ncshlog.For("namespace").WithError(result.Err).Debug("discovery failed")
		param.Err = result.Err
		param.StderrBytes = result.Stderr
		return param, nil
	}
	param.LegalKeys = result.LegalKeys
	param.RequiredKeys = result.RequiredKeys
	param.LegalValues = result.LegalValues
	param.StderrBytes = result.Stderr

	return secondStageMatch(param, key, value, hasKey)
}

// secondStageMatch refines a Parameter against its just-fetched
// discovery result.
func secondStageMatch(param *Parameter, key, value string, hasKey bool) (Node, error) {
	if hasKey {
		m := matchToken(value, valuesCandidates(param.LegalValues))
		switch {
		case m.exact != nil:
			param.Value = m.exact.name
			return param, nil
		case m.unique != nil:
			param.Value = m.unique.name
			return param, nil
		case len(m.ambiguous) > 0:
			_, _, _, _, _, values := namesByCategory(m.ambiguous)
			names := make([]string, 0, len(m.ambiguous))
			for _, c := range m.ambiguous {
				names = append(names, c.name)
			}
			a := &Ambiguous{
				base:                   newBase(value, param),
				Prefix:                 value,
				LongestCommonRemainder: longestCommonRemainder(value, names),
				Values:                 values,
			}
			return a, nil
		default:
			return param, nil
		}
	}

	var cands []candidate
	for _, k := range param.LegalKeys {
		cands = append(cands, candidate{k, catKey})
	}
	for _, k := range param.RequiredKeys {
		cands = append(cands, candidate{k, catRequiredKey})
	}
	for _, v := range param.LegalValues {
		cands = append(cands, candidate{v, catValue})
	}

	m := matchToken(value, cands)
	switch {
	case m.exact != nil:
		return applyKeyOrValueMatch(param, *m.exact), nil
	case m.unique != nil:
		return applyKeyOrValueMatch(param, *m.unique), nil
	case len(m.ambiguous) > 0:
		_, _, _, keys, requires, values := namesByCategory(m.ambiguous)
		names := make([]string, 0, len(m.ambiguous))
		for _, c := range m.ambiguous {
			names = append(names, c.name)
		}
		return &Ambiguous{
			base:                   newBase(value, param),
			Prefix:                 value,
			LongestCommonRemainder: longestCommonRemainder(value, names),
			Keys:                   keys,
			Requires:               requires,
			Values:                 values,
		}, nil
	default:
		return param, nil
	}
}

func applyKeyOrValueMatch(param *Parameter, c candidate) *Parameter {
	switch c.cat {
	case catKey:
		param.Key, param.HasKey, param.Value = c.name, true, ""
		param.SetCompletionTail("=")
	case catRequiredKey:
		param.Key, param.HasKey, param.Value, param.Required = c.name, true, "", true
		param.SetCompletionTail("=")
	case catValue:
		param.Value = c.name
	}
	return param
}

func valuesCandidates(values []string) []candidate {
	out := make([]candidate, 0, len(values))
	for _, v := range values {
		out = append(out, candidate{v, catValue})
	}
	return out
}

// splitKeyValue splits the token at its first '=': the token is
// key=value only if it contains an '='. The token text carries no quote
// information, so an '=' that was quoted in the source splits it too.
func splitKeyValue(token string) (key, value string, hasKey bool) {
	for i := 0; i < len(token); i++ {
		if token[i] == '=' {
			return token[:i], token[i+1:], true
		}
	}
	return "", token, false
}

// collectAncestors walks a Parameter chain up to (but not including)
// its Command, gathering each ancestor's key/value pair in order.
func collectAncestors(p *Parameter) []KV {
	var chain []*Parameter
	for cur := p; cur != nil; {
		chain = append(chain, cur)
		parent, ok := cur.Parent().(*Parameter)
		if !ok {
			break
		}
		cur = parent
	}
	// chain is innermost-first; reverse to outermost-first.
	out := make([]KV, len(chain))
	for i, pm := range chain {
		out[len(chain)-1-i] = KV{Key: pm.Key, Value: pm.Value}
	}
	return out
}
