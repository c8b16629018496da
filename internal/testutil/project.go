package testutil

import (
	"testing"
)

// ExampleConfig is a layerlint.yaml for ServiceTree.
const ExampleConfig = `graph: graph.yaml
discover:
  include: ["src/**", "tests/**", "scripts/**"]
boundaries:
  elements:
    - type: actionsTypes
      pattern: src/actions/<version>/<actionName>.types.ts
      mode: file
      capture: [version, actionName]
    - type: actions
      pattern: src/actions/<version>/<actionName>.ts
      mode: file
      capture: [version, actionName]
    - type: services
      pattern: src/services/<serviceName>
      mode: folder
      capture: [serviceName]
    - type: modelTypes
      pattern: src/models/<modelName>.types.ts
      mode: file
      capture: [modelName]
    - type: models
      pattern: src/models/<modelName>.ts
      mode: file
      capture: [modelName]
  rules:
    - from: actions
      allow:
        - services
        - [actionsTypes, {version: "${from.version}", actionName: "${from.actionName}"}]
    - from: services
      allow: [models, modelTypes]
    - from: models
      allow:
        - [modelTypes, {modelName: "${from.modelName}"}]
`

// ExampleGraph is the import graph of ServiceTree. Edges 4, 5 and 6 (zero-based) are
// denied: a capture mismatch, a missing allow entry and an unclassified
// importer. Edges 2 and 5 form a cycle.
const ExampleGraph = `edges:
  - from: src/actions/v1/createUser.ts
    to: src/actions/v1/createUser.types.ts
  - from: src/actions/v1/createUser.ts
    to: src/services/user/index.ts
  - from: src/services/user/index.ts
    to: src/models/user.ts
  - from: src/models/user.ts
    to: src/models/user.types.ts
  - from: src/actions/v1/createUser.ts
    to: src/actions/v2/deleteUser.types.ts
  - from: src/models/user.ts
    to: src/services/user/index.ts
  - from: scripts/seed.ts
    to: src/models/user.ts
`

// ExampleProject writes ServiceTree plus ExampleConfig and ExampleGraph to
// a temporary directory and returns it.
func ExampleProject(t testing.TB) string {
	t.Helper()

	root := t.TempDir()
	files := ServiceTree()
	files["layerlint.yaml"] = ExampleConfig
	files["graph.yaml"] = ExampleGraph
	WriteTree(t, root, files)
	return root
}
