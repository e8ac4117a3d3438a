package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

// WinCombos are the 8 winning triples: 3 rows, 3 columns, 2 diagonals.
// GetWinner scans them in this order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is a single tic-tac-toe match. It is pure state: no I/O, fully
// deterministic given the call sequence.
type Game struct {
	Board [9]string
	Turn  string
}

// NewGame returns a fresh game with an empty board. X always moves first.
func NewGame() *Game {
	return &Game{
		Board: [9]string{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		Turn:  PlayerX,
	}
}

// MakeMove places the current player's mark on the given cell and flips the
// turn. It returns false without mutating anything if the position is out of
// range or the cell is already taken.
func (that *Game) MakeMove(position int) bool {
	if position < 0 || position >= len(that.Board) {
		return false
	}

	if that.Board[position] != EmptyCell {
		return false
	}

	that.Board[position] = that.Turn
	that.Turn = toggleMark(that.Turn)

	return true
}

// GetWinner returns the mark holding a winning triple, or EmptyCell if
// nobody has won yet.
func (that *Game) GetWinner() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Game) IsBoardFull() bool {
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// BoardState returns a read-only snapshot of the board.
func (that *Game) BoardState() [9]string {
	return that.Board
}

func toggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
