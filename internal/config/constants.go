package config

const SourceFileExt = ".comp"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".comp", ".cx"}

// DefaultConfigFile is read by the CLI when present in the working directory.
const DefaultConfigFile = "comp.yaml"

// MaxRecursionDepth bounds expression nesting in the parser.
const MaxRecursionDepth = 256

// Grammar keywords
const (
	ForKeyword = "for"
	InKeyword  = "in"
	IfKeyword  = "if"
)

// Built-in function names
const (
	LenFuncName       = "len"
	RangeFuncName     = "range"
	CountFuncName     = "count"
	StrFuncName       = "str"
	IntFuncName       = "int"
	FloatFuncName     = "float"
	AbsFuncName       = "abs"
	MinFuncName       = "min"
	MaxFuncName       = "max"
	SumFuncName       = "sum"
	ListFuncName      = "list"
	EnumerateFuncName = "enumerate"
	ZipFuncName       = "zip"
	UpperFuncName     = "upper"
	LowerFuncName     = "lower"
	KeysFuncName      = "keys"
	ValuesFuncName    = "values"
	QueryFuncName     = "query"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Emit modes
const (
	EmitRun  = "run"
	EmitGo   = "go"
	EmitPlan = "plan"
	EmitAST  = "ast"
)
