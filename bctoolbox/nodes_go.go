package bctoolbox

import "unsafe"

// goNode is a singly linked node pointing at a payload owned by the list.
type goNode struct {
	data unsafe.Pointer
	next *goNode
}

// goList is the Go provider's list structure.
type goList struct {
	head *goNode
}

func newGoList(data []unsafe.Pointer) *goList {
	l := &goList{}
	var tail *goNode
	for _, d := range data {
		n := &goNode{data: d}
		if tail == nil {
			l.head = n
		} else {
			tail.next = n
		}
		tail = n
	}
	return l
}

func (l *goList) Size() int {
	n := 0
	for node := l.head; node != nil; node = node.next {
		n++
	}
	return n
}

func (l *goList) NthData(i int) unsafe.Pointer {
	if i < 0 {
		return nil
	}
	node := l.head
	for ; node != nil && i > 0; i-- {
		node = node.next
	}
	if node == nil {
		return nil
	}
	return node.data
}
