package hp

import (
	"path"
	"strings"
)

// ExpName derives the experiment name from a config artifact's file name:
// directory components are stripped and everything from the first dot onwards
// is removed, so "runs/Peaks20_12g90g270g_125mm.conf" gives
// "Peaks20_12g90g270g_125mm" and "foo.v2.conf" gives "foo". The cut at the
// first dot rather than the last matches the names the experiment registry
// was built with, so it must not change even for file names with embedded
// dots.
func ExpName(file string) string {
	name := path.Base(file)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if name == "/" {
		return ""
	}
	return name
}
