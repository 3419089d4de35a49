package handlers

import (
	"net/http"
	"runtime"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/crucible"

	"github.com/namelens/namesmith/internal/appid"
)

// buildInfo is what /version reports about this binary.
var buildInfo = struct {
	sync.RWMutex
	version, commit, date string
	identity              *appidentity.Identity
	features              map[string]bool
}{version: "dev", commit: "unknown", date: "unknown"}

// SetVersionInfo records linker-injected build metadata.
func SetVersionInfo(version, commit, buildDate string) {
	buildInfo.Lock()
	defer buildInfo.Unlock()
	buildInfo.version, buildInfo.commit, buildInfo.date = version, commit, buildDate
}

// SetAppIdentity overrides the identity reported by /version. Nil restores
// the built-in identity.
func SetAppIdentity(identity *appidentity.Identity) {
	buildInfo.Lock()
	defer buildInfo.Unlock()
	buildInfo.identity = identity
}

// SetFeatures reports which optional components (generation, store, redis)
// this server started with.
func SetFeatures(features map[string]bool) {
	buildInfo.Lock()
	defer buildInfo.Unlock()
	buildInfo.features = features
}

type VersionResponse struct {
	App          AppInfo         `json:"app"`
	Features     map[string]bool `json:"features,omitempty"`
	Dependencies DepInfo         `json:"dependencies"`
	Runtime      RuntimeInfo     `json:"runtime"`
}

type AppInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
	Commit      string `json:"git_commit"`
	BuildDate   string `json:"build_date"`
	GoVersion   string `json:"go_version,omitempty"`
}

type DepInfo struct {
	Gofulmen string `json:"gofulmen"`
	Crucible string `json:"crucible"`
}

type RuntimeInfo struct {
	Platform      string `json:"platform"`
	NumCPU        int    `json:"num_cpu"`
	NumGoroutines int    `json:"num_goroutines"`
}

// VersionHandler serves GET /version.
func VersionHandler(w http.ResponseWriter, _ *http.Request) {
	buildInfo.RLock()
	identity := buildInfo.identity
	app := AppInfo{
		Version:   buildInfo.version,
		Commit:    buildInfo.commit,
		BuildDate: buildInfo.date,
		GoVersion: runtime.Version(),
	}
	features := buildInfo.features
	buildInfo.RUnlock()

	if identity == nil {
		identity = appid.Default()
	}
	app.Name, app.Description = identity.BinaryName, identity.Description
	deps := crucible.GetVersion()

	writeJSON(w, VersionResponse{
		App:          app,
		Features:     features,
		Dependencies: DepInfo{Gofulmen: deps.Gofulmen, Crucible: deps.Crucible},
		Runtime: RuntimeInfo{
			Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			NumCPU:        runtime.NumCPU(),
			NumGoroutines: runtime.NumGoroutine(),
		},
	})
}
