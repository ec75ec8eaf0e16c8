package util

import "runtime"

// 通过 -ldflags "-X news-hallucination/pkg/util.version=..." 注入
var (
	version   = "v0.0.0-dev"
	gitCommit = ""
	buildDate = ""
)

type Version struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

func GetVersion() Version {
	return Version{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
}
