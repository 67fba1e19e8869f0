package game

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	// BoardSize is the number of cells on the grid.
	BoardSize = 9
)

// WinCombos - the 8 fixed winning triples: 3 rows, 3 columns, 2 diagonals.
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

// CheckWin - reports whether any winning triple is fully occupied by mark.
func CheckWin(board [BoardSize]string, mark string) bool {
	if mark == EmptyCell {
		return false
	}

	for _, combo := range WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}

	return false
}

// CheckDraw - reports whether the board is full.
// Must be evaluated only after CheckWin: a full winning board is a win, not a draw.
func CheckDraw(board [BoardSize]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// IsLegalMove - reports whether cell is in range and still empty.
func IsLegalMove(board [BoardSize]string, cell int) bool {
	if cell < 0 || cell >= BoardSize {
		return false
	}

	return board[cell] == EmptyCell
}

// ToggleMark - returns the opposing player's mark.
func ToggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}

	return PlayerX
}
