package sexy

import "fmt"

// Match checks actual against pattern. Atoms must be equal and of the same
// type. Lists and arrays match item by item, except that a "..." item in the
// pattern matches any run of items, and a bare "..." matches anything.
// The error names the path to the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeEllipsis {
		return nil
	}
	if pattern.Type != actual.Type {
		return mismatch(path, pattern, actual)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return mismatch(path, pattern, actual)
		}
		return nil
	}

	for i, item := range pattern.Items {
		if item.Type == NodeEllipsis {
			rest := pattern.Items[i+1:]
			if len(actual.Items)-i < len(rest) {
				return mismatch(path, pattern, actual)
			}
			tail := actual.Items[len(actual.Items)-len(rest):]
			for j := range rest {
				if err := match(rest[j], tail[j], itemPath(path, len(actual.Items)-len(rest)+j)); err != nil {
					return err
				}
			}
			return nil
		}
		if i >= len(actual.Items) {
			return mismatch(path, pattern, actual)
		}
		if err := match(item, actual.Items[i], itemPath(path, i)); err != nil {
			return err
		}
	}
	if len(actual.Items) != len(pattern.Items) {
		return mismatch(path, pattern, actual)
	}
	return nil
}

func itemPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func mismatch(path string, pattern, actual *Node) error {
	if path == "" {
		path = "root"
	}
	return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
}
