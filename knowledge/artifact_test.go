package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/specerr"
)

const validArtifact = `
version: "2.1.0"
conflicts:
  - [ftp-server, dlp]
mandatory:
  db-server: [backup]
antipatterns:
  - id: too-many-databases
    name: 데이터베이스 과다
    description: 데이터베이스가 3대를 초과합니다
    expr: "types['db-server'] > 3"
`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArtifact(t *testing.T) {
	base, err := LoadArtifact(writeArtifact(t, validArtifact))
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", base.Version())
	assert.Contains(t, base.ConflictsWith(graph.TypeDLP), graph.TypeFTPServer)
	assert.Equal(t, []graph.ComponentType{graph.TypeBackup}, base.MandatoryDeps(graph.TypeDBServer))

	aps := base.Antipatterns()
	require.Len(t, aps, 1)
	assert.Equal(t, "too-many-databases", aps[0].ID)

	big := graphOf(graph.TypeDBServer, graph.TypeDBServer, graph.TypeDBServer, graph.TypeDBServer)
	detected, err := aps[0].Detect(big)
	require.NoError(t, err)
	assert.True(t, detected)
}

func TestLoadArtifact_MissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, specerr.CodeArtifactInvalid, specerr.CodeOf(err))
}

func TestLoadArtifact_MalformedYAML(t *testing.T) {
	_, err := LoadArtifact(writeArtifact(t, "version: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, specerr.CodeArtifactInvalid, specerr.CodeOf(err))
}

func TestBuildArtifact_RejectsUnknownType(t *testing.T) {
	_, err := BuildArtifact(&Artifact{
		Version:   "1.0.0",
		Conflicts: [][]string{{"ftp-server", "quantum-router"}},
	})
	require.Error(t, err)
	assert.Equal(t, specerr.CodeArtifactInvalid, specerr.CodeOf(err))
}

func TestBuildArtifact_RejectsOddConflictArity(t *testing.T) {
	_, err := BuildArtifact(&Artifact{
		Version:   "1.0.0",
		Conflicts: [][]string{{"ftp-server"}},
	})
	assert.Error(t, err)
}

func TestBuildArtifact_RejectsBadExpression(t *testing.T) {
	_, err := BuildArtifact(&Artifact{
		Version:      "1.0.0",
		Antipatterns: []ArtifactAntipattern{{ID: "bad", Expr: "nodes >="}},
	})
	require.Error(t, err)
	assert.Equal(t, specerr.CodeArtifactInvalid, specerr.CodeOf(err))
}

func TestBuildArtifact_RequiresIDAndExpr(t *testing.T) {
	_, err := BuildArtifact(&Artifact{
		Version:      "1.0.0",
		Antipatterns: []ArtifactAntipattern{{Name: "이름만 있음"}},
	})
	assert.Error(t, err)
}
