package ast

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
)

// Seal вычисляет структурные хеши всего поддерева снизу вверх и
// возвращает хеш корня. Хеш покрывает Kind, Name, Text, Meta и хеши
// детей по порядку; Span и ID исключены, поэтому сдвиг кода без
// изменения структуры хеш не меняет. Повторный Seal идемпотентен.
func Seal(root *Node) uint64 {
	if root == nil {
		return 0
	}
	for _, c := range root.Children {
		Seal(c)
	}
	root.Hash = hashNode(root)
	return root.Hash
}

// hashNode хеширует собственные поля узла плюс уже посчитанные хеши
// детей. Каждое поле пишется с тегом и длиной, чтобы конкатенации
// разных полей не склеивались в одинаковые байтовые строки.
func hashNode(n *Node) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	buf[0] = byte(n.Kind)
	h.Write(buf[:1])

	writeString(h, 'n', n.Name, buf[:])
	writeString(h, 't', n.Text, buf[:])

	if len(n.Meta) > 0 {
		keys := make([]string, 0, len(n.Meta))
		for k := range n.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeString(h, 'k', k, buf[:])
			writeString(h, 'v', n.Meta[k], buf[:])
		}
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(n.Children)))
	h.Write(buf[:])
	for _, c := range n.Children {
		binary.LittleEndian.PutUint64(buf[:], c.Hash)
		h.Write(buf[:])
	}

	return h.Sum64()
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writeString(h byteWriter, tag byte, s string, buf []byte) {
	buf[0] = tag
	h.Write(buf[:1])
	binary.LittleEndian.PutUint64(buf[:8], uint64(len(s)))
	h.Write(buf[:8])
	h.Write([]byte(s))
}
