package vdom

import "fmt"

// Text returns a text node.
func Text(content string) *VNode { return &VNode{Kind: KindText, Text: content} }

// Textf returns a text node formatted with fmt.Sprintf.
func Textf(format string, args ...any) *VNode { return Text(fmt.Sprintf(format, args...)) }

// Comment returns a comment node.
func Comment(content string) *VNode { return &VNode{Kind: KindComment, Text: content} }

// Fragment groups children without a wrapper element. A fragment is
// spliced into whatever children list it ends up in.
func Fragment(children ...any) *VNode {
	return &VNode{Kind: KindFragment, Children: Flatten(children...)}
}

// WithKey sets the reconciliation key of an unrendered node. Keys are
// compared as strings, so 1 and "1" are the same key.
func WithKey(node *VNode, key any) *VNode {
	if node != nil {
		node.Data.Key = fmt.Sprint(key)
	}
	return node
}

// IfElse picks one of two nodes.
func IfElse(cond bool, then, otherwise *VNode) *VNode {
	if cond {
		return then
	}
	return otherwise
}

// If returns node when cond holds. The nil it returns otherwise is
// dropped by the factory.
func If(cond bool, node *VNode) *VNode { return IfElse(cond, node, nil) }

// Unless returns node when cond does not hold.
func Unless(cond bool, node *VNode) *VNode { return IfElse(cond, nil, node) }

// When builds the node lazily, only when cond holds.
func When(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Case is one arm of Switch.
type Case[T comparable] struct {
	Value     T
	Node      *VNode
	IsDefault bool
}

// Case_ matches value.
func Case_[T comparable](value T, node *VNode) Case[T] { return Case[T]{Value: value, Node: node} }

// Default matches when no other case does, wherever it appears.
func Default[T comparable](node *VNode) Case[T] { return Case[T]{Node: node, IsDefault: true} }

// Switch returns the node of the first case equal to value.
func Switch[T comparable](value T, cases ...Case[T]) *VNode {
	var fallback *VNode
	for _, c := range cases {
		switch {
		case c.IsDefault:
			if fallback == nil {
				fallback = c.Node
			}
		case c.Value == value:
			return c.Node
		}
	}
	return fallback
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i := range items {
		if n := fn(items[i], i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Repeat calls fn for 0..n-1, dropping nil results.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Range(idx, func(i, _ int) *VNode { return fn(i) })
}
