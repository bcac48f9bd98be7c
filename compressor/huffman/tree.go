package huffman

import (
	"container/heap"

	"github.com/chronos-tachyon/assert"
)

// treeNode is a leaf when it has no children. Merged nodes own both children
// and carry no symbol.
type treeNode struct {
	weight      int
	seq         int
	symbol      rune
	left, right *treeNode
}

func (n *treeNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// extractsBefore reports whether n leaves the queue ahead of other. Leaves are
// numbered in symbol order before the first merge, so among equal weights a
// leaf beats any merged node and merged nodes keep their creation order.
func (n *treeNode) extractsBefore(other *treeNode) bool {
	if n.weight != other.weight {
		return n.weight < other.weight
	}
	return n.seq < other.seq
}

type nodeQueue []*treeNode

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].extractsBefore(q[j]) }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(item any) {
	*q = append(*q, item.(*treeNode))
}

func (q *nodeQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return last
}

// buildTree merges the two lightest nodes until one is left. The first node
// taken becomes the left child.
func buildTree(symbolFreq FrequencyTable) *treeNode {
	assert.Assertf(len(symbolFreq) > 0, "buildTree called with %d symbols", len(symbolFreq))
	queue := make(nodeQueue, 0, len(symbolFreq))
	for _, symbol := range symbolFreq.Symbols() {
		queue = append(queue, &treeNode{
			weight: symbolFreq[symbol],
			seq:    len(queue),
			symbol: symbol,
		})
	}
	heap.Init(&queue)
	next := queue.Len()
	for queue.Len() > 1 {
		left := heap.Pop(&queue).(*treeNode)
		right := heap.Pop(&queue).(*treeNode)
		heap.Push(&queue, &treeNode{
			weight: left.weight + right.weight,
			seq:    next,
			left:   left,
			right:  right,
		})
		next++
	}
	return heap.Pop(&queue).(*treeNode)
}
