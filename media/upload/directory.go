package upload

import (
	"strings"
	"time"
)

// Directory composes the destination directory of an upload as
// dir[/date][/subDirs...]/. The result always ends with a slash unless it is
// empty, which addresses the root of a disk. An empty dateLayout skips the
// dated sub-directory.
func Directory(dir, dateLayout string, subDirs []string, now time.Time) string {
	out := withTrailingSlash(dir)

	if dateLayout != "" {
		out += withTrailingSlash(now.Format(dateLayout))
	}

	for _, sub := range subDirs {
		sub = strings.Trim(sub, "/")
		if sub == "" {
			continue
		}
		out += sub + "/"
	}

	return out
}

func withTrailingSlash(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}
