package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blob42/mozprefs/pkg/prefs"
)

func Test_AddChild(t *testing.T) {
	rootNode := &Node{Title: "root", Parent: nil, Type: RootNode}
	childNode := &Node{Title: "child", Type: PrefNode, Name: "child", Value: prefs.Int(1)}
	branchNode := &Node{Type: BranchNode, Title: "branch"}
	subBranchNode := &Node{Type: BranchNode, Title: "sub"}
	leafNode := &Node{Title: "leaf", Type: PrefNode, Name: "branch.sub.leaf", Value: prefs.Bool(true)}

	AddChild(branchNode, subBranchNode)
	AddChild(subBranchNode, leafNode)
	AddChild(rootNode, childNode)

	t.Run("skip duplicate children", func(t *testing.T) {
		AddChild(rootNode, childNode)
		assert.Equal(t, 1, len(rootNode.Children))
	})

	t.Run("child sees the parent", func(t *testing.T) {
		assert.Equal(t, rootNode, childNode.Parent)
	})

	t.Run("merge same title", func(t *testing.T) {
		AddChild(rootNode, branchNode)
		other := &Node{Type: BranchNode, Title: "branch"}
		AddChild(other, &Node{Title: "other", Type: PrefNode, Name: "branch.other", Value: prefs.Int(2)})

		merged := AddChild(rootNode, other)
		assert.Equal(t, branchNode, merged)
		assert.Len(t, rootNode.Children, 2)
		assert.Len(t, branchNode.Children, 2)
		assert.Equal(t, branchNode, branchNode.Children[1].Parent)
	})

	t.Run("nested node", func(t *testing.T) {
		assert.Equal(t, rootNode, leafNode.Parent.Parent.Parent)
		assert.Equal(t, rootNode, leafNode.GetRoot())
		assert.Equal(t, rootNode, Ancestor(leafNode))
		assert.Equal(t, "branch.sub.leaf", leafNode.Path())
	})
}

func TestBuild(t *testing.T) {
	set, err := prefs.Load(strings.NewReader(`user_pref("network.trr.mode", 3);
user_pref("network.trr.uri", "https://dns.quad9.net/dns-query");
user_pref("signon.rememberSignons", false);
user_pref("network.trr", true);
user_pref("network.http.referer.XOriginPolicy", 2);
`))
	require.NoError(t, err)

	root := Build(set)
	assert.Equal(t, set.Len(), Count(root))

	var titles []string
	for _, c := range root.Children {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"network", "signon"}, titles)

	trr := Lookup(root, "network.trr")
	require.NotNil(t, trr)
	assert.Equal(t, PrefNode, trr.Type)
	assert.Equal(t, prefs.Bool(true), trr.Value)
	assert.Len(t, trr.Children, 2)

	mode := Lookup(root, "network.trr.mode")
	require.NotNil(t, mode)
	assert.Equal(t, prefs.Int(3), mode.Value)
	assert.Equal(t, 1, mode.Line)
	assert.Equal(t, "network.trr.mode", mode.Path())

	assert.Nil(t, Lookup(root, "network.dns"))
	assert.Equal(t, BranchNode, Lookup(root, "network").Type)

	for _, o := range set.All() {
		assert.True(t, FindNode(Lookup(root, o.Name), root), o.Name)
	}
}

func TestCompactAndPrint(t *testing.T) {
	set, err := prefs.Load(strings.NewReader(`user_pref("a.b.c", 1);
user_pref("x.y", "z");
user_pref("x.w", true);
`))
	require.NoError(t, err)

	root := Build(set)
	Compact(root)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "a.b.c", root.Children[0].Title)
	assert.Equal(t, "a.b.c", root.Children[0].Name)
	assert.Equal(t, PrefNode, root.Children[0].Type)
	assert.Equal(t, 3, Count(root))

	out := String(root)
	assert.True(t, strings.HasPrefix(out, "user_pref\n"))
	assert.Contains(t, out, "a.b.c = 1")
	assert.Contains(t, out, "[2]  x")
	assert.Contains(t, out, `y = "z"`)
	assert.Contains(t, out, "w = true")
}
