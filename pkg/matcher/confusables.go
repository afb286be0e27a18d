package matcher

// confusables lists, for each pattern character, the address characters
// accepted in its place when flexible matching is on. Entries are
// directional: pattern 'B' accepts '8' but pattern 'b' does not.
var confusables = map[byte]string{
	'1': "1iL",
	'2': "2zZ",
	'3': "3E",
	'4': "4A",
	'5': "5sS",
	'6': "6bG",
	'7': "7T",
	'8': "8B",
	'9': "9g",

	'a': "aA4",
	'b': "bB6",
	'c': "cC",
	'd': "dD",
	'e': "eE3",
	'f': "fF",
	'g': "gG69",
	'h': "hH",
	'i': "i1",
	'j': "jJ",
	'k': "kK",
	'm': "mM",
	'n': "nN",
	'o': "o",
	'p': "pP",
	'q': "qQ",
	'r': "rR",
	's': "sS5",
	't': "tT7",
	'u': "uU",
	'v': "vV",
	'w': "wW",
	'x': "xX",
	'y': "yY",
	'z': "zZ2",

	'A': "aA4",
	'B': "bB68",
	'C': "cC",
	'D': "dD",
	'E': "eE3",
	'F': "fF",
	'G': "gG69",
	'H': "hH",
	'J': "jJ",
	'K': "kK",
	'L': "L1",
	'M': "mM",
	'N': "nN",
	'P': "pP",
	'Q': "qQ",
	'R': "rR",
	'S': "sS5",
	'T': "tT7",
	'U': "uU",
	'V': "vV",
	'W': "wW",
	'X': "xX",
	'Y': "yY",
	'Z': "zZ2",
}

// flexTable[target][c] is true when address byte c is accepted for pattern
// byte target. hasEntry marks the targets present in confusables.
// Both are filled once in init and only read afterwards.
var (
	flexTable [256][256]bool
	hasEntry  [256]bool
)

func init() {
	for target, accepted := range confusables {
		hasEntry[target] = true
		for i := 0; i < len(accepted); i++ {
			flexTable[target][accepted[i]] = true
		}
	}
}

// Confusables returns the address characters accepted for the pattern
// character target under flexible matching, and whether target has a
// table entry at all.
func Confusables(target byte) (string, bool) {
	s, ok := confusables[target]
	return s, ok
}

func matchesFlexible(c, target byte) bool {
	if !hasEntry[target] {
		return equalFold(c, target)
	}
	return flexTable[target][c]
}
