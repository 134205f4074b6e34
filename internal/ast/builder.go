package ast

import (
	"rebasic/internal/source"
)

// Builder раздаёт узлам монотонные ID. Один Builder на один разбор;
// счётчик не сбрасывается, поэтому ID воспроизводимы между запусками
// на одном и том же входе.
type Builder struct {
	nextID NodeID
}

func NewBuilder() *Builder {
	return &Builder{nextID: 1}
}

// New создаёт узел данного вида. Span можно уточнить позже через Complete.
func (b *Builder) New(kind NodeKind, sp source.Span) *Node {
	id := b.nextID
	b.nextID++
	return &Node{Kind: kind, ID: id, Span: sp}
}

// NewNamed — узел с именем (объявления, идентификаторы, member-доступ).
func (b *Builder) NewNamed(kind NodeKind, sp source.Span, name string) *Node {
	n := b.New(kind, sp)
	n.Name = name
	return n
}

// NewText — узел с текстом (литералы, операторы).
func (b *Builder) NewText(kind NodeKind, sp source.Span, text string) *Node {
	n := b.New(kind, sp)
	n.Text = text
	return n
}

// Complete расширяет span узла до конца end. Начало не трогаем:
// парсер фиксирует его при создании узла.
func (b *Builder) Complete(n *Node, end source.Span) *Node {
	if n == nil {
		return nil
	}
	n.Span = n.Span.Cover(end)
	return n
}

// Issued возвращает количество выданных ID.
func (b *Builder) Issued() uint64 {
	return uint64(b.nextID) - 1
}
