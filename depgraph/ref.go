package depgraph

import "strings"

// DepPathToRef renders depPath as the version reference stored for a
// dependency. When alias equals realName and depPath starts with
// "<realName>@", the name prefix is dropped because the alias already
// implies it. Otherwise depPath is returned unchanged. The transform is the
// same for materialized, linked and registry packages.
func DepPathToRef(depPath, alias, realName string) string {
	if alias == realName && strings.HasPrefix(depPath, realName+"@") {
		return depPath[len(realName)+1:]
	}
	return depPath
}

// NameFromDepPath returns the package name depPath starts with, keeping the
// leading '@' of scoped names. It returns "" when depPath has no version
// separator.
func NameFromDepPath(depPath string) string {
	start := 0
	if strings.HasPrefix(depPath, "@") {
		start = 1
	}
	i := strings.Index(depPath[start:], "@")
	if i < 0 {
		return ""
	}
	return depPath[:start+i]
}
