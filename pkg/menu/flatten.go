package menu

// LayoutNode is one item of a com.canonical.dbusmenu layout
type LayoutNode struct {
	ID       int32
	Label    string
	HasLabel bool
	Children []LayoutNode
}

// GroupID addresses an org.gtk.Menus group as (subscription group, menu number)
type GroupID struct {
	Group uint32
	Menu  uint32
}

// RootGroup is where GTK menu traversal starts
var RootGroup = GroupID{0, 0}

// Entry is one item of an org.gtk.Menus group.
// Section and Submenu are traversal directives, never selectable themselves.
type Entry struct {
	Label     string
	HasLabel  bool
	Action    string
	HasAction bool
	Section   *GroupID
	Submenu   *GroupID
}

// FlattenLayout walks a dbusmenu layout depth first and returns the item id of
// every leaf keyed by its formatted label path. Items without a label don't add
// a path segment. Structural paths are remembered so a later leaf can't reuse
// one (separators inherit their parent's path and are dropped this way), and
// leaves with an empty path are dropped too. The second return value counts
// keys that overwrote an earlier entry.
func FlattenLayout(root LayoutNode) (map[string]int32, int) {
	w := layoutWalker{
		items:      make(map[string]int32),
		structural: make(map[string]struct{}),
	}
	w.walk(root, nil)
	return w.items, w.collisions
}

type layoutWalker struct {
	items      map[string]int32
	structural map[string]struct{}
	collisions int
}

func (w *layoutWalker) walk(node LayoutNode, path []string) {
	if node.HasLabel {
		path = extend(path, node.Label)
	}
	key := FormatLabelPath(path)

	if len(node.Children) == 0 {
		if _, ok := w.structural[key]; ok || key == "" {
			return
		}
		if _, ok := w.items[key]; ok {
			w.collisions++
		}
		w.items[key] = node.ID
		return
	}

	w.structural[key] = struct{}{}
	for _, child := range node.Children {
		w.walk(child, path)
	}
}

// FlattenGroups walks GTK menu groups starting at RootGroup and returns the
// action name of every labelled leaf keyed by its formatted label path.
// Sections splice their items in place; submenus add their label to the path.
// Missing groups are skipped and a group is never entered twice on one branch.
func FlattenGroups(groups map[GroupID][]Entry) (map[string]string, int) {
	w := groupWalker{
		groups: groups,
		items:  make(map[string]string),
		active: make(map[GroupID]bool),
	}
	w.walk(RootGroup, nil)
	return w.items, w.collisions
}

type groupWalker struct {
	groups     map[GroupID][]Entry
	items      map[string]string
	active     map[GroupID]bool
	collisions int
}

func (w *groupWalker) walk(id GroupID, path []string) {
	entries, ok := w.groups[id]
	if !ok || w.active[id] {
		return
	}
	w.active[id] = true
	defer delete(w.active, id)

	for _, entry := range entries {
		entryPath := path
		if entry.HasLabel {
			entryPath = extend(path, entry.Label)
		}

		if entry.HasLabel && entry.HasAction && entry.Section == nil && entry.Submenu == nil {
			if key := FormatLabelPath(entryPath); key != "" {
				if _, ok := w.items[key]; ok {
					w.collisions++
				}
				w.items[key] = entry.Action
			}
		}

		if entry.Section != nil {
			w.walk(*entry.Section, path)
		}
		if entry.Submenu != nil {
			w.walk(*entry.Submenu, entryPath)
		}
	}
}
