package version

import (
	"fmt"
	"strings"
	"sync"
)

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// buildCharacters are the characters allowed in appBuild
const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

// appBuild is set at link time with
// '-ldflags "-X github.com/321cherish/ckb/version.appBuild=foo"'.
var appBuild string

var (
	versionOnce sync.Once
	version     string
)

// Version returns the semantic version of the verification engine. Build
// metadata is appended only when appBuild is made of buildCharacters.
func Version() string {
	versionOnce.Do(func() {
		version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
		if isValidBuild(appBuild) {
			version += "-" + appBuild
		}
	})
	return version
}

func isValidBuild(build string) bool {
	if build == "" {
		return false
	}
	return strings.Trim(build, buildCharacters) == ""
}
