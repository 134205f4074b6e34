package lexer

// Жёсткие границы лексера. Превышение любой из них — ошибка до
// (или вместо) выдачи токена, чтобы битый ввод не раздувал память.
const (
	// maxSourceLength bounds the whole input in bytes.
	maxSourceLength = 1 << 20 // 1 MiB: формы и модули на порядки меньше
	// maxTokenLength bounds a single token in bytes.
	maxTokenLength = 4096
	// maxTokenCount bounds the total number of produced tokens.
	maxTokenCount = 1 << 20
)
