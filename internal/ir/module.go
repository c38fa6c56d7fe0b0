package ir

// Module is every function lowered from one Core translation unit.
type Module struct {
	Funcs []Func
}
