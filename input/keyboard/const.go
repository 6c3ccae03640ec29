package keyboard

import "strings"

// Code identifies a key. Scan codes and key codes share the HID usage code
// space (USB HID Keyboard/Keypad usage page).
type Code uint8

const (
	// Letters A-Z
	KeyA Code = 0x04
	KeyB Code = 0x05
	KeyC Code = 0x06
	KeyD Code = 0x07
	KeyE Code = 0x08
	KeyF Code = 0x09
	KeyG Code = 0x0A
	KeyH Code = 0x0B
	KeyI Code = 0x0C
	KeyJ Code = 0x0D
	KeyK Code = 0x0E
	KeyL Code = 0x0F
	KeyM Code = 0x10
	KeyN Code = 0x11
	KeyO Code = 0x12
	KeyP Code = 0x13
	KeyQ Code = 0x14
	KeyR Code = 0x15
	KeyS Code = 0x16
	KeyT Code = 0x17
	KeyU Code = 0x18
	KeyV Code = 0x19
	KeyW Code = 0x1A
	KeyX Code = 0x1B
	KeyY Code = 0x1C
	KeyZ Code = 0x1D

	// Numbers 1-0 (top row)
	Key1 Code = 0x1E
	Key2 Code = 0x1F
	Key3 Code = 0x20
	Key4 Code = 0x21
	Key5 Code = 0x22
	Key6 Code = 0x23
	Key7 Code = 0x24
	Key8 Code = 0x25
	Key9 Code = 0x26
	Key0 Code = 0x27

	KeyEnter        Code = 0x28
	KeyEscape       Code = 0x29
	KeyBackspace    Code = 0x2A
	KeyTab          Code = 0x2B
	KeySpace        Code = 0x2C
	KeyLeftBracket  Code = 0x2F
	KeyRightBracket Code = 0x30
	KeyBackslash    Code = 0x31
	KeySemicolon    Code = 0x33
	KeyQuote        Code = 0x34
	KeyComma        Code = 0x36
	KeyPeriod       Code = 0x37
	KeySlash        Code = 0x38

	// Arrow keys
	KeyRight Code = 0x4F
	KeyLeft  Code = 0x50
	KeyDown  Code = 0x51
	KeyUp    Code = 0x52
)

var codeNames = map[Code]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",

	KeyEnter:        "Enter",
	KeyEscape:       "Escape",
	KeyBackspace:    "Backspace",
	KeyTab:          "Tab",
	KeySpace:        "Space",
	KeyLeftBracket:  "LeftBracket",
	KeyRightBracket: "RightBracket",
	KeyBackslash:    "Backslash",
	KeySemicolon:    "Semicolon",
	KeyQuote:        "Quote",
	KeyComma:        "Comma",
	KeyPeriod:       "Period",
	KeySlash:        "Slash",

	KeyRight: "Right",
	KeyLeft:  "Left",
	KeyDown:  "Down",
	KeyUp:    "Up",
}

var namedCodes = func() map[string]Code {
	m := make(map[string]Code, len(codeNames))
	for c, n := range codeNames {
		m[strings.ToLower(n)] = c
	}
	return m
}()

// CharToKey maps terminal input bytes to key codes. Upper and lower case
// letters map to the same key.
var CharToKey = map[byte]Code{
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL, 'm': KeyM, 'n': KeyN,
	'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR, 's': KeyS, 't': KeyT, 'u': KeyU,
	'v': KeyV, 'w': KeyW, 'x': KeyX, 'y': KeyY, 'z': KeyZ,

	'A': KeyA, 'B': KeyB, 'C': KeyC, 'D': KeyD, 'E': KeyE, 'F': KeyF, 'G': KeyG,
	'H': KeyH, 'I': KeyI, 'J': KeyJ, 'K': KeyK, 'L': KeyL, 'M': KeyM, 'N': KeyN,
	'O': KeyO, 'P': KeyP, 'Q': KeyQ, 'R': KeyR, 'S': KeyS, 'T': KeyT, 'U': KeyU,
	'V': KeyV, 'W': KeyW, 'X': KeyX, 'Y': KeyY, 'Z': KeyZ,

	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,

	'[':  KeyLeftBracket,
	']':  KeyRightBracket,
	'\\': KeyBackslash,
	';':  KeySemicolon,
	'\'': KeyQuote,
	',':  KeyComma,
	'.':  KeyPeriod,
	'/':  KeySlash,

	' ':  KeySpace,
	'\r': KeyEnter,
	'\n': KeyEnter,
	'\t': KeyTab,
	0x7f: KeyBackspace,
}
