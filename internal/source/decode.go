package source

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeLegacy transcodes non-UTF-8 input from Windows-1252.
// Классические исходники (.bas, .frm, .cls) сохранялись в CP-1252;
// валидный UTF-8 пропускаем без изменений, иначе перекодируем.
// CP-1252 отображает каждый байт, так что декодирование не падает
// на мусоре - это осознанный компромисс для старых файлов.
func decodeLegacy(content []byte) ([]byte, bool, error) {
	if utf8.Valid(content) {
		return content, false, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return nil, false, err
	}
	return decoded, true, nil
}
