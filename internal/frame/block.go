package frame

// BlockType identifies the kind of structured-control region a Block
// tracks.
type BlockType int

const (
	BlockLoop BlockType = iota
	BlockSetupExcept
	BlockFinally
	BlockExceptHandler
)

func (t BlockType) String() string {
	switch t {
	case BlockLoop:
		return "loop"
	case BlockSetupExcept:
		return "setup-except"
	case BlockFinally:
		return "finally"
	case BlockExceptHandler:
		return "except-handler"
	default:
		return "?"
	}
}

// Block is a frame-local record of a structured construct: the type of
// region, where its handler lives, and the value-stack depth at the
// point it was entered (so unwinding can restore it exactly).
type Block struct {
	Type    BlockType
	Handler int
	Level   int
}
