package tree

import (
	"os"
	"path/filepath"

	"github.com/promptdock/promptdock/internal/storage"
)

// FavoritesTree projects the favorites collection into a flat node list.
// Entries whose path no longer exists on disk are filtered out of the
// rendered list but never deleted from storage; they reappear if the path
// comes back.
type FavoritesTree struct {
	projection
	meta *storage.MetadataStore
}

// NewFavoritesTree creates a favorites tree over the metadata store.
func NewFavoritesTree(meta *storage.MetadataStore) *FavoritesTree {
	return &FavoritesTree{meta: meta}
}

// Nodes returns the favorite nodes, re-listing when an invalidation arrived
// since the last query.
func (t *FavoritesTree) Nodes() []Node {
	return t.nodesVia(t.compute)
}

func (t *FavoritesTree) compute() []Node {
	favorites, err := t.meta.Favorites()
	if err != nil {
		return []Node{}
	}

	nodes := make([]Node, 0, len(favorites))
	for _, fav := range favorites {
		if _, err := os.Stat(fav.Path); err != nil {
			continue
		}
		label := fav.Label
		if label == "" {
			label = filepath.Base(fav.Path)
		}
		nodes = append(nodes, Node{
			Label:    label,
			Path:     fav.Path,
			Kind:     KindFavorite,
			Favorite: fav,
		})
	}
	return nodes
}

// Children always returns an empty list; favorites have no children.
func (t *FavoritesTree) Children(node Node) []Node {
	return []Node{}
}
