package oracle

import "github.com/hailam/chesslens/internal/board"

// ThreatLevel grades an attacked piece from its owner's point of view.
type ThreatLevel uint8

const (
	// Hanging pieces cannot be recaptured on.
	Hanging ThreatLevel = iota
	// FavorableRetaliation: taking the piece loses material for the attacker.
	FavorableRetaliation
	// NeutralRetaliation: the exchange comes out even.
	NeutralRetaliation
	// UnfavorableRetaliation: the attacker wins material despite recaptures.
	UnfavorableRetaliation
)

var threatNames = [...]string{"hanging", "favorable-retaliation", "neutral-retaliation", "unfavorable-retaliation"}

func (l ThreatLevel) String() string {
	if int(l) < len(threatNames) {
		return threatNames[l]
	}
	return "unknown"
}

// Threat describes one piece the opponent can take.
type Threat struct {
	Square board.Square
	Piece  board.Piece
	Level  ThreatLevel
	// Balance is the attacker's net gain from the best exchange on Square.
	Balance int
}

// Threats lists every non-king piece of either color that its opponent
// attacks, in square order.
func Threats(pos *board.Position) []Threat {
	var out []Threat
	for bb := pos.AllOccupied &^ (pos.Pieces[board.White][board.King] | pos.Pieces[board.Black][board.King]); bb != 0; {
		sq := bb.PopLSB()
		if t, ok := ThreatOn(pos, sq); ok {
			out = append(out, t)
		}
	}
	return out
}

// ThreatOn grades the piece on sq, reporting false when it is not attacked.
func ThreatOn(pos *board.Position, sq board.Square) (Threat, bool) {
	piece := pos.PieceAt(sq)
	if piece == board.NoPiece || piece.Type() == board.King {
		return Threat{}, false
	}
	enemy := piece.Color().Other()
	if !IsAttacked(pos, sq, enemy) {
		return Threat{}, false
	}

	t := Threat{Square: sq, Piece: piece, Balance: Exchange(pos, sq, enemy)}
	switch {
	case !IsDefended(pos, sq):
		t.Level = Hanging
	case t.Balance < 0:
		t.Level = FavorableRetaliation
	case t.Balance == 0:
		t.Level = NeutralRetaliation
	default:
		t.Level = UnfavorableRetaliation
	}
	return t, true
}
