// Package namespace implements the parse-tree node types and the
// context-driven resolver: containers, commands, parameters, builtins,
// options, and the ambiguous variant that stands in whenever more than
// one descendant matches.
package namespace

// Kind discriminates the six parse-node variants.
type Kind int

const (
	KindContainer Kind = iota
	KindCommand
	KindParameter
	KindBuiltin
	KindOption
	KindAmbiguous
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindCommand:
		return "command"
	case KindParameter:
		return "parameter"
	case KindBuiltin:
		return "builtin"
	case KindOption:
		return "option"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Node is the common surface every parse-tree variant satisfies. Parent
// is a back-reference only, never owning — the resolver's caller owns
// the whole chain for the duration of one resolve: arena-owned nodes
// plus indices, never owning both directions.
type Node interface {
	Kind() Kind
	Name() string
	Parent() Node
	CompletionTail() string
	SetCompletionTail(string)
	Position() (line, column int)
	SetPosition(line, column int)
}

type base struct {
	name   string
	parent Node
	tail   string
	line   int
	column int
}

func (b *base) Name() string               { return b.name }
func (b *base) Parent() Node               { return b.parent }
func (b *base) SetCompletionTail(t string) { b.tail = t }

// Position returns the source line/column the token that produced this
// node was read from, or (0,0) if none was recorded.
func (b *base) Position() (line, column int) { return b.line, b.column }

func (b *base) SetPosition(line, column int) { b.line, b.column = line, column }

// CompletionTail defaults to a single space; a Parameter awaiting a
// value after a bare key match uses "=" instead.
func (b *base) CompletionTail() string {
	if b.tail == "" {
		return " "
	}
	return b.tail
}

// Container is a directory under the libexec tree. ChildContainers and
// ChildCommands come from a filesystem listing at construction time;
// Builtins is non-empty only at the root.
type Container struct {
	base
	LibexecPath     string
	SysconfPath     string
	ChildContainers []string
	ChildCommands   []string
	Builtins        []string
}

func (*Container) Kind() Kind { return KindContainer }

// Command is an executable file directly under a container.
type Command struct {
	base
	LibexecPath string
	SysconfPath string
}

func (*Command) Kind() Kind { return KindCommand }

// Parameter is one argv element past a command, optionally key=value.
// LegalKeys/RequiredKeys/LegalValues are populated only when the
// resolver ran the discovery sub-protocol (completion mode); Err and
// StderrBytes surface a failed discovery without aborting the parse.
type Parameter struct {
	base
	CommandRef    *Command
	Key           string
	HasKey        bool
	Value         string
	LegalKeys     []string
	RequiredKeys  []string
	LegalValues   []string
	Required      bool
	Err           error
	StderrBytes   []byte
}

func (*Parameter) Kind() Kind { return KindParameter }

// Builtin is an in-process name resolved at the root container (exit, quit).
type Builtin struct {
	base
}

func (*Builtin) Kind() Kind { return KindBuiltin }

// Option is a subsequent argv element to a builtin.
type Option struct {
	base
	Ref Node // the Builtin (or prior Option) this argument extends
}

func (*Option) Kind() Kind { return KindOption }

// Ambiguous stands in whenever more than one descendant name matches a
// unique prefix. LongestCommonRemainder is the longest string R such
// that every candidate starts with prefix+R.
type Ambiguous struct {
	base
	Prefix                 string
	LongestCommonRemainder string
	Containers             []string
	Commands               []string
	Builtins               []string
	Keys                   []string
	Requires               []string
	Values                 []string
}

func (*Ambiguous) Kind() Kind { return KindAmbiguous }

func newBase(name string, parent Node) base {
	return base{name: name, parent: parent}
}
