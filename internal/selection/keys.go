package selection

// Key is a decoded keyboard action.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyToggle
	KeyToggleAll
	KeyConfirm
	KeyCancel
)

const (
	byteCtrlC     = 0x03
	byteEscape    = 0x1b
	byteReturn    = '\r'
	byteLineFeed  = '\n'
	byteSpace     = ' '
	csiIntroducer = '['
	ss3Introducer = 'O'
)

// DecodeKey maps one read from a raw terminal to a Key. Arrow keys arrive as
// escape sequences; a lone escape byte cancels.
func DecodeKey(input []byte) Key {
	if len(input) == 0 {
		return KeyNone
	}
	if input[0] == byteEscape {
		if len(input) == 1 {
			return KeyCancel
		}
		if len(input) >= 3 && (input[1] == csiIntroducer || input[1] == ss3Introducer) {
			switch input[2] {
			case 'A':
				return KeyUp
			case 'B':
				return KeyDown
			}
		}
		return KeyNone
	}
	switch input[0] {
	case 'k', 'K':
		return KeyUp
	case 'j', 'J':
		return KeyDown
	case byteSpace:
		return KeyToggle
	case 'a', 'A':
		return KeyToggleAll
	case byteReturn, byteLineFeed:
		return KeyConfirm
	case 'q', 'Q', byteCtrlC:
		return KeyCancel
	}
	return KeyNone
}
