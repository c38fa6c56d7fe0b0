package diag

import "fmt"

// Code is a stable, numeric diagnostic identifier. Its thousands digit
// selects the taxonomy; within v0 every
// diagnostic a user can see falls into one of E0xxx..E6xxx.
type Code uint16

const (
	UnknownCode Code = 0

	// E0xxx — parser-rejected-in-v0: lexical/syntactic failures and
	// surface constructs the language does not accept at all (unions,
	// goto, variadics, function pointers, floating point, preprocessing).
	E0LexUnknownChar        Code = 1
	E0LexUnterminatedString Code = 2
	E0LexBadNumber          Code = 3
	E0SynUnexpectedToken    Code = 10
	E0SynUnclosedDelimiter  Code = 11
	E0SynExpectType         Code = 12
	E0SynExpectExpression   Code = 13
	E0SynExpectIdentifier   Code = 14
	E0UnsupportedUnion      Code = 50
	E0UnsupportedGoto       Code = 51
	E0UnsupportedVariadic   Code = 52
	E0UnsupportedFnPointer  Code = 53
	E0UnsupportedFloat      Code = 54
	E0UnsupportedConstruct  Code = 55

	// E1xxx — ownership/move.
	E1UseAfterMove      Code = 1001
	E1MoveOfBorrowed    Code = 1002
	E1DropWhileBorrowed Code = 1003

	// E2xxx — borrow/alias.
	E2ConflictingSharedBorrow Code = 2001
	E2ConflictingUniqueBorrow Code = 2002
	E2MutBorrowOfImmutable    Code = 2003
	E2NonAddressablePlace     Code = 2004
	E2ReleaseBorrowInvalid    Code = 2005
	E2MutationWhileBorrowed   Code = 2006

	// E3xxx — lifetime.
	E3DerefAfterLifetimeEnd    Code = 3001
	E3ReturnPointerToLocal     Code = 3002
	E3StoreShortLivedInLonger  Code = 3003

	// E4xxx — bounds/provenance.
	E4IndexNotProvablyInRange Code = 4001
	E4IntToPtrInSafeCode      Code = 4002
	E4UntraceableProvenance   Code = 4003

	// E5xxx — initialization.
	E5ReadOfUninit    Code = 5001
	E5ReadOfMaybeInit Code = 5002

	// E6xxx — unsafe/capability.
	E6MissingAllocCap         Code = 6001
	E6UserCapabilityMint      Code = 6002
	E6RawDerefOutsideUnsafe   Code = 6003
	E6CapabilityTokenConsumed Code = 6004

	// Informational / non-E diagnostics.
	InfoPipeline Code = 9000
	ICEInternal  Code = 9999
)

var titles = map[Code]string{
	UnknownCode:                "unknown diagnostic",
	E0LexUnknownChar:           "unknown character",
	E0LexUnterminatedString:    "unterminated string literal",
	E0LexBadNumber:             "malformed numeric literal",
	E0SynUnexpectedToken:       "unexpected token",
	E0SynUnclosedDelimiter:     "unclosed delimiter",
	E0SynExpectType:            "expected a type",
	E0SynExpectExpression:      "expected an expression",
	E0SynExpectIdentifier:      "expected an identifier",
	E0UnsupportedUnion:         "unions are not accepted in v0",
	E0UnsupportedGoto:          "'goto' is not accepted in v0",
	E0UnsupportedVariadic:      "variadic parameters are not accepted in v0",
	E0UnsupportedFnPointer:     "function pointers are not accepted in v0",
	E0UnsupportedFloat:         "floating-point types are not accepted in v0",
	E0UnsupportedConstruct:     "construct is not accepted in v0",
	E1UseAfterMove:             "use of moved value",
	E1MoveOfBorrowed:           "cannot move out of a borrowed value",
	E1DropWhileBorrowed:        "cannot drop while borrowed",
	E2ConflictingSharedBorrow:  "conflicting shared borrow",
	E2ConflictingUniqueBorrow:  "conflicting unique borrow",
	E2MutBorrowOfImmutable:     "cannot take a mutable borrow of an immutable binding",
	E2NonAddressablePlace:      "expression is not addressable",
	E2ReleaseBorrowInvalid:     "no active borrow to release",
	E2MutationWhileBorrowed:    "cannot mutate while borrowed",
	E3DerefAfterLifetimeEnd:    "dereference of a pointer whose lifetime has ended",
	E3ReturnPointerToLocal:     "returning a pointer to a local",
	E3StoreShortLivedInLonger:  "storing a short-lived pointer into a longer-lived location",
	E4IndexNotProvablyInRange:  "cannot prove index is in bounds",
	E4IntToPtrInSafeCode:       "integer-to-pointer cast outside unsafe",
	E4UntraceableProvenance:    "pointer derivation is not traceable to an allocation",
	E5ReadOfUninit:             "read of uninitialized value",
	E5ReadOfMaybeInit:          "read of possibly-uninitialized value",
	E6MissingAllocCap:          "missing alloc_cap for raw pointer construction",
	E6UserCapabilityMint:       "user code cannot mint capability tokens",
	E6RawDerefOutsideUnsafe:    "raw pointer dereference outside unsafe",
	E6CapabilityTokenConsumed:  "capability token already consumed in this block",
	InfoPipeline:               "pipeline information",
	ICEInternal:                "internal compiler error",
}

// ID renders the stable textual identifier, e.g. "E2001" or "ICE0001".
func (c Code) ID() string {
	if c == ICEInternal {
		return "ICE0001"
	}
	switch {
	case c < 1000:
		return fmt.Sprintf("E0%03d", uint16(c))
	case c < 2000:
		return fmt.Sprintf("E1%03d", uint16(c)-1000)
	case c < 3000:
		return fmt.Sprintf("E2%03d", uint16(c)-2000)
	case c < 4000:
		return fmt.Sprintf("E3%03d", uint16(c)-3000)
	case c < 5000:
		return fmt.Sprintf("E4%03d", uint16(c)-4000)
	case c < 6000:
		return fmt.Sprintf("E5%03d", uint16(c)-5000)
	case c < 7000:
		return fmt.Sprintf("E6%03d", uint16(c)-6000)
	}
	return fmt.Sprintf("INFO%04d", uint16(c))
}

// Title returns the human-readable description of the code.
func (c Code) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return titles[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s] %s", c.ID(), c.Title())
}

// Class reports which taxonomy (0-6) the code belongs to, or -1 for
// non-E-class diagnostics (info, internal-compiler-error).
func (c Code) Class() int {
	if c >= 1000 && c < 7000 {
		return int(c / 1000)
	}
	if c < 1000 {
		return 0
	}
	return -1
}
