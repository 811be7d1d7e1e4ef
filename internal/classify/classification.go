package classify

import "github.com/hailam/chesslens/internal/board"

// Classification is the tactical verdict on one candidate move.
type Classification uint8

const (
	// Safe: the moved piece cannot be taken.
	Safe Classification = iota
	// Recommended: safe and also wins material, mates, or leaves the
	// opponent without a safe reply.
	Recommended
	// FavorableCapture: the piece taken is worth more than the piece that
	// took it, so the trade pays even if it is recaptured.
	FavorableCapture
	// Unsafe: the destination is attacked but no legal reply captures.
	Unsafe
	UnsafeNeutralRetaliation
	UnsafeUnfavorableRetaliation
	UnsafeFavorableRetaliation

	numClassifications
)

var classNames = [...]string{
	"safe",
	"recommended",
	"favorable-capture",
	"unsafe",
	"unsafe-neutral-retaliation",
	"unsafe-unfavorable-retaliation",
	"unsafe-favorable-retaliation",
}

func (c Classification) String() string {
	if c < numClassifications {
		return classNames[c]
	}
	return "unknown"
}

// IsUnsafe reports whether the moved piece can be attacked after the move.
func (c Classification) IsUnsafe() bool {
	return c >= Unsafe && c < numClassifications
}

// All lists every classification in declaration order.
func All() []Classification {
	out := make([]Classification, numClassifications)
	for i := range out {
		out[i] = Classification(i)
	}
	return out
}

// MoveReport is the full evaluation behind a Classification.
type MoveReport struct {
	Move  board.Move
	Class Classification
	// Gain is the material the move wins outright, promotion bonus included.
	Gain int
	// Loss is the material the opponent's chosen reply takes back.
	Loss int
	// Reply is that chosen reply, or NoMove.
	Reply board.Move
	// After is the opponent's status once the move is played.
	After board.Status
}
