package textbook

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// assetDir is the output subdirectory for stylesheets and scripts.
const assetDir = "assets"

// assetFile is one generated asset.
type assetFile struct {
	Path    string // slash-separated, relative to the site root
	Content []byte
}

// fingerprint names an asset after its content so that browsers can cache
// it indefinitely: assets/{name}.{hash}{ext}.
func fingerprint(name, ext string, content []byte) assetFile {
	return assetFile{
		Path:    fmt.Sprintf("%s/%s.%016x%s", assetDir, name, xxhash.Sum64(content), ext),
		Content: content,
	}
}

// assetBundle is the stylesheet and scripts every page links.
type assetBundle struct {
	Stylesheet assetFile
	Scripts    []assetFile
}

// files returns every asset in write order.
func (a *assetBundle) files() []assetFile {
	return append([]assetFile{a.Stylesheet}, a.Scripts...)
}

// scriptPaths returns the script URLs relative to the site root.
func (a *assetBundle) scriptPaths() []string {
	paths := make([]string, len(a.Scripts))
	for i, s := range a.Scripts {
		paths[i] = s.Path
	}
	return paths
}
