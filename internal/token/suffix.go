package token

// Type suffix characters attach a declared type to a name or number:
// счётчик% то же самое, что счётчик As Integer.
var suffixTypes = map[byte]string{
	'%': "Integer",
	'&': "Long",
	'!': "Single",
	'#': "Double",
	'@': "Currency",
	'$': "String",
}

// IsSuffixChar reports whether b is a type suffix character.
func IsSuffixChar(b byte) bool {
	_, ok := suffixTypes[b]
	return ok
}

// SuffixType returns the built-in type name implied by a suffix character.
func SuffixType(b byte) (string, bool) {
	name, ok := suffixTypes[b]
	return name, ok
}
