package ast

import (
	"fmt"

	"rebasic/internal/source"
)

// NodeID — стабильный идентификатор узла в пределах одного Builder.
type NodeID uint64

// NoNodeID означает «узел не строился через Builder».
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node — универсальный узел дерева. Семантика полей зависит от Kind,
// см. комментарии к константам NodeKind.
type Node struct {
	Kind NodeKind
	ID   NodeID
	// Name — имя, которое узел связывает или на которое ссылается.
	Name string
	// Text — литеральный или операторный текст.
	Text string
	Span source.Span
	// Meta — мелкие атрибуты (видимость, accessor, класс контрола).
	// nil почти всегда; ключи и значения попадают в структурный хеш.
	Meta map[string]string
	// Children в порядке исходника. Родитель владеет детьми эксклюзивно.
	Children []*Node
	// Hash — структурный хеш поддерева, 0 до вызова Seal.
	Hash uint64
}

// Child возвращает i-го ребёнка или nil, если индекс вне диапазона.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) NumChildren() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Add присоединяет детей, пропуская nil (удобно для опциональных частей).
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// SetMeta выставляет атрибут, лениво создавая карту.
func (n *Node) SetMeta(key, value string) *Node {
	if n.Meta == nil {
		n.Meta = make(map[string]string, 2)
	}
	n.Meta[key] = value
	return n
}

// MetaValue возвращает атрибут или "" для отсутствующего ключа и nil-узла.
func (n *Node) MetaValue(key string) string {
	if n == nil || n.Meta == nil {
		return ""
	}
	return n.Meta[key]
}

// FirstChild возвращает первого ребёнка данного вида или nil.
func (n *Node) FirstChild(kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Body возвращает ребёнка-блок для узлов с телом.
func (n *Node) Body() *Node { return n.FirstChild(NodeBody) }

// String — краткая форма для логов и сообщений диагностики.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch {
	case n.Name != "" && n.Text != "":
		return fmt.Sprintf("%s(%s %q)", n.Kind, n.Name, n.Text)
	case n.Name != "":
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	case n.Text != "":
		return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
	default:
		return n.Kind.String()
	}
}
