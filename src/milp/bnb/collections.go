package bnb

import "gopkg.in/dnaeon/go-priorityqueue.v1"

// Deque holds the open nodes of the search tree. The order in which Pop
// returns them is the node selection rule.
type Deque[T any] interface {
	Push(e T)
	Pop() T
	Size() int
}

type linkedListNode[T any] struct {
	value T
	next  *linkedListNode[T]
}

type linkedList[T any] struct {
	head *linkedListNode[T]
	tail *linkedListNode[T]
	size int
}

func (l *linkedList[T]) pushFront(e T) {
	n := &linkedListNode[T]{value: e, next: l.head}
	l.head = n
	if l.size == 0 {
		l.tail = n
	}
	l.size++
}

func (l *linkedList[T]) pushBack(e T) {
	n := &linkedListNode[T]{value: e}
	if l.size == 0 {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.size++
}

func (l *linkedList[T]) popFront() T {
	if l.size == 0 {
		var zero T
		return zero
	}
	n := l.head
	l.head = n.next
	l.size--
	if l.size == 0 {
		l.tail = nil
	}
	return n.value
}

// Stack pops the most recently pushed element: depth-first search.
type Stack[T any] struct{ list linkedList[T] }

func NewStack[T any]() *Stack[T] { return &Stack[T]{} }

func (s *Stack[T]) Push(e T) { s.list.pushFront(e) }
func (s *Stack[T]) Pop() T { return s.list.popFront() }
func (s *Stack[T]) Size() int { return s.list.size }

// Queue pops the oldest element: breadth-first search.
type Queue[T any] struct{ list linkedList[T] }

func NewQueue[T any]() *Queue[T] { return &Queue[T]{} }

func (q *Queue[T]) Push(e T) { q.list.pushBack(e) }
func (q *Queue[T]) Pop() T { return q.list.popFront() }
func (q *Queue[T]) Size() int { return q.list.size }

// boundQueue pops the node with the lowest relaxation bound: best-first search.
type boundQueue struct {
	pq *priorityqueue.PriorityQueue[*node, float64]
}

func newBoundQueue() *boundQueue {
	return &boundQueue{pq: priorityqueue.New[*node, float64](priorityqueue.MinHeap)}
}

func (b *boundQueue) Push(n *node) { b.pq.Put(n, n.bound) }

func (b *boundQueue) Pop() *node {
	if b.pq.Len() == 0 {
		return nil
	}
	return b.pq.Get().Value
}

func (b *boundQueue) Size() int { return b.pq.Len() }
