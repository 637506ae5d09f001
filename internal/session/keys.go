package session

// KeyKind classifies a raw key code.
type KeyKind int

const (
	KeyIgnored KeyKind = iota
	KeyPrintable
	KeyBackspace
)

// Raw backspace codes.
const (
	CodeCtrlH rune = 8
	CodeDEL   rune = 127
)

// Classify maps a raw key code to its kind. Printable ASCII 32-126 advances,
// DEL and Ctrl-H retreat, everything else is ignored.
func Classify(code rune) KeyKind {
	switch {
	case code >= 32 && code <= 126:
		return KeyPrintable
	case code == CodeDEL || code == CodeCtrlH:
		return KeyBackspace
	default:
		return KeyIgnored
	}
}
