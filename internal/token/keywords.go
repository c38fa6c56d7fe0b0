package token

var keywords = map[string]Kind{
	"void":           KwVoid,
	"struct":         KwStruct,
	"enum":           KwEnum,
	"if":             KwIf,
	"else":           KwElse,
	"while":          KwWhile,
	"for":            KwFor,
	"return":         KwReturn,
	"break":          KwBreak,
	"continue":       KwContinue,
	"let":            KwLet,
	"own":            KwOwn,
	"view":           KwView,
	"mut":            KwMut,
	"raw":            KwRaw,
	"unsafe":         KwUnsafe,
	"borrow":         KwBorrow,
	"mut_borrow":     KwMutBorrow,
	"release_borrow": KwReleaseBorrow,
	"move":           KwMove,
	"alloc":          KwAlloc,
	"alloc_cap":      KwAllocCap,
	"true":           KwTrue,
	"false":          KwFalse,
	"union":          KwUnion,
	"goto":           KwGoto,
	"float":          KwFloat,
	"double":         KwDouble,
}

// LookupKeyword returns the keyword Kind for lexeme, if any.
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}
