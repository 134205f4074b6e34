// Package ast определяет дерево разбора BASIC-модуля.
//
// В отличие от классических компиляторных AST здесь одна универсальная
// структура Node на все виды узлов: движку диффа нужно обходить старое и
// новое дерево в ногу, не зная конкретного вида узла. Вид кодируется
// NodeKind, имя и текст — строками, всё остальное — в Meta.
//
// Инварианты дерева:
//   - дети принадлежат родителю эксклюзивно, дерево ацикличное;
//   - ID монотонный в пределах одного Builder и никогда не переиспользуется;
//   - Hash заполняется только после Seal и покрывает Kind, Name, Text, Meta
//     и хеши детей, но не Span и не ID: равенство хешей на одинаковой
//     позиции означает семантически идентичные поддеревья.
package ast
