package appidentityassets

import _ "embed"

// YAML is the identity document compiled into the binary so namesmith runs
// without a `.fulmen/app.yaml` on disk.
//
//go:embed app.yaml
var YAML []byte
