//
// Copyright ⓒ 2024 Chakib Ben Ziane <contact@blob42.xyz> and [`mozprefs` contributors]
// (https://github.com/blob42/mozprefs/graphs/contributors).
//
// All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This file is part of mozprefs.
//
// mozprefs is free software: you can redistribute it and/or modify it under the terms of
// the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// mozprefs is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License along with
// mozprefs.  If not, see <http://www.gnu.org/licenses/>.

package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/blob42/mozprefs/pkg/logging"
	"github.com/blob42/mozprefs/pkg/prefs"
)

var log = logging.GetLogger("TREE")

// Separator of preference key segments
const Separator = "."

type NodeType int

const (
	RootNode NodeType = iota
	BranchNode
	PrefNode
)

func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case BranchNode:
		return "branch"
	case PrefNode:
		return "pref"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// A tree node. Branch nodes are key segments shared by several preferences,
// pref nodes carry a value. A key may be both a preference and the prefix of
// other keys (`a.b` and `a.b.c`), its node is then a pref node with children.
type Node struct {
	Title    string // key segment
	Type     NodeType
	Name     string // full key, empty for branches
	Value    prefs.Value
	Line     int
	Parent   *Node
	Children []*Node
}

func (node *Node) GetRoot() *Node {
	var n *Node
	if node.Type == RootNode {
		return node
	}

	if node.Parent != nil {
		n = node.Parent.GetRoot()
	}
	return n
}

// Returns the ancestor of this node
func Ancestor(node *Node) *Node {
	if node.Parent == nil {
		return node
	}
	return Ancestor(node.Parent)
}

// Path rebuilds the key prefix leading to node
func (node *Node) Path() string {
	var segs []string
	for n := node; n != nil && n.Type != RootNode; n = n.Parent {
		segs = append(segs, n.Title)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, Separator)
}

func (node *Node) child(title string) *Node {
	for _, c := range node.Children {
		if c.Title == title {
			return c
		}
	}
	return nil
}

// Finds a node and the tree starting at root
func FindNode(node *Node, root *Node) bool {
	if node == root {
		return true
	}
	for _, child := range root.Children {
		if FindNode(node, child) {
			return true
		}
	}

	return false
}

// Lookup returns the node of the full key name, nil when name is not a key
// or branch of the tree.
func Lookup(root *Node, name string) *Node {
	node := root
	for _, seg := range strings.Split(name, Separator) {
		node = node.child(seg)
		if node == nil {
			return nil
		}
	}
	return node
}

// Inserts child node into parent node. A child with the title of an existing
// child is merged into it.
func AddChild(parent *Node, child *Node) *Node {
	log.Debugf("adding child %v: <%s>", child.Type, child.Title)

	for _, n := range parent.Children {
		if n == child {
			return n
		}
		if n.Title != child.Title {
			continue
		}

		log.Debugf("merging node <%s>", child.Title)
		if child.Type == PrefNode {
			n.Type = PrefNode
			n.Name = child.Name
			n.Value = child.Value
			n.Line = child.Line
		}
		for _, c := range child.Children {
			AddChild(n, c)
		}
		return n
	}

	parent.Children = append(parent.Children, child)
	child.Parent = parent
	return child
}

// Insert adds the preference name under root, creating the branches of its
// key segments.
func Insert(root *Node, name string, v prefs.Value, line int) *Node {
	segs := strings.Split(name, Separator)
	node := root
	for _, seg := range segs[:len(segs)-1] {
		node = AddChild(node, &Node{Title: seg, Type: BranchNode})
	}
	return AddChild(node, &Node{
		Title: segs[len(segs)-1],
		Type:  PrefNode,
		Name:  name,
		Value: v,
		Line:  line,
	})
}

// Build returns the namespace tree of an override set. Children keep the
// declaration order of the first key that created them.
func Build(set *prefs.OverrideSet) *Node {
	root := &Node{Title: "user_pref", Type: RootNode}
	for _, o := range set.All() {
		Insert(root, o.Name, o.Value, o.Line)
	}
	return root
}

// Maps a func(*Node) to any node in the tree starting from node that matches
// the type nType
func MapNodeFunc(node *Node, nType NodeType, f func(*Node)) {
	if node.Type == nType {
		f(node)
	}

	for _, node := range node.Children {
		MapNodeFunc(node, nType, f)
	}
}

// Count returns the number of preferences under node, node included.
func Count(node *Node) int {
	n := 0
	MapNodeFunc(node, PrefNode, func(*Node) { n++ })
	return n
}

// Compact merges chains of branches with a single child into one node, so
// `a.b.c = 1` prints as one line instead of three nested ones.
func Compact(node *Node) {
	for _, child := range node.Children {
		for child.Type == BranchNode && len(child.Children) == 1 {
			only := child.Children[0]
			child.Title = child.Title + Separator + only.Title
			child.Type = only.Type
			child.Name = only.Name
			child.Value = only.Value
			child.Line = only.Line
			child.Children = only.Children
			for _, c := range child.Children {
				c.Parent = child
			}
		}
		Compact(child)
	}
}

func nodeLabel(node *Node) string {
	if node.Type == PrefNode {
		return fmt.Sprintf("%s = %s", node.Title, node.Value.Literal())
	}
	return node.Title
}

// Fprint writes the tree under root to w
func Fprint(w io.Writer, root *Node) error {
	var walk func(node *Node, t treeprint.Tree)
	tree := treeprint.NewWithRoot(root.Title)

	walk = func(node *Node, t treeprint.Tree) {
		if len(node.Children) > 0 {
			if node.Type == PrefNode {
				t = t.AddMetaBranch(node.Value.Literal(), node.Title)
			} else {
				t = t.AddMetaBranch(Count(node), node.Title)
			}

			for _, child := range node.Children {
				walk(child, t)
			}
		} else {
			t.AddNode(nodeLabel(node))
		}
	}

	for _, child := range root.Children {
		walk(child, tree)
	}

	_, err := io.WriteString(w, tree.String())
	return err
}

func String(root *Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, root)
	return sb.String()
}
