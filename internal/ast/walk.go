package ast

// Walk обходит дерево сверху вниз. visit получает узел и глубину;
// false останавливает спуск в детей этого узла, но не весь обход.
func Walk(root *Node, visit func(n *Node, depth int) bool) {
	walk(root, 0, visit)
}

func walk(n *Node, depth int, visit func(n *Node, depth int) bool) {
	if n == nil {
		return
	}
	if !visit(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, visit)
	}
}

// ChildAtPath спускается от root по индексам детей. Пустой путь
// возвращает сам root; выход за границы — nil.
func ChildAtPath(root *Node, path []int) *Node {
	n := root
	for _, i := range path {
		n = n.Child(i)
		if n == nil {
			return nil
		}
	}
	return n
}

// Count возвращает число узлов поддерева, включая корень.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, int) bool {
		total++
		return true
	})
	return total
}
