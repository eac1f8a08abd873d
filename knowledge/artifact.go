package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/specerr"
)

// Artifact is the on-disk shape of a knowledge.yaml file. The artifact is
// versioned; consumers must treat additions as backward-compatible and
// removals or renames as breaking.
type Artifact struct {
	Version string `yaml:"version"`

	// Conflicts lists unordered type pairs that must not coexist.
	Conflicts [][]string `yaml:"conflicts,omitempty"`

	// Mandatory maps a component type to the types it requires.
	Mandatory map[string][]string `yaml:"mandatory,omitempty"`

	// Antipatterns are CEL detector definitions.
	Antipatterns []ArtifactAntipattern `yaml:"antipatterns,omitempty"`
}

// ArtifactAntipattern is a single CEL-defined detector.
type ArtifactAntipattern struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Expr        string `yaml:"expr"`
}

// LoadArtifact reads and compiles a knowledge.yaml file into a StaticBase.
func LoadArtifact(path string) (*StaticBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, specerr.New("load-artifact", specerr.CodeArtifactInvalid,
			fmt.Sprintf("지식 아티팩트를 읽을 수 없습니다: %s", path)).WithCause(err)
	}

	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, specerr.New("load-artifact", specerr.CodeArtifactInvalid,
			"지식 아티팩트 파싱에 실패했습니다").WithCause(err)
	}

	return BuildArtifact(&artifact)
}

// BuildArtifact compiles a parsed artifact into a StaticBase. Component
// types are validated against the canonical vocabulary and every CEL
// expression must compile; a malformed artifact is rejected as a whole.
func BuildArtifact(artifact *Artifact) (*StaticBase, error) {
	fail := func(msg string, cause error) error {
		e := specerr.New("build-artifact", specerr.CodeArtifactInvalid, msg)
		if cause != nil {
			e = e.WithCause(cause)
		}
		return e
	}

	pairs := make([][2]graph.ComponentType, 0, len(artifact.Conflicts))
	for _, p := range artifact.Conflicts {
		if len(p) != 2 {
			return nil, fail(fmt.Sprintf("conflict 항목은 2개 타입이어야 합니다: %v", p), nil)
		}
		a, err := graph.ParseComponentType(p[0])
		if err != nil {
			return nil, fail("conflict 타입이 유효하지 않습니다", err)
		}
		b, err := graph.ParseComponentType(p[1])
		if err != nil {
			return nil, fail("conflict 타입이 유효하지 않습니다", err)
		}
		pairs = append(pairs, [2]graph.ComponentType{a, b})
	}

	mandatory := make(map[graph.ComponentType][]graph.ComponentType, len(artifact.Mandatory))
	for t, deps := range artifact.Mandatory {
		owner, err := graph.ParseComponentType(t)
		if err != nil {
			return nil, fail("mandatory 타입이 유효하지 않습니다", err)
		}
		for _, d := range deps {
			dep, err := graph.ParseComponentType(d)
			if err != nil {
				return nil, fail("mandatory 대상 타입이 유효하지 않습니다", err)
			}
			mandatory[owner] = append(mandatory[owner], dep)
		}
	}

	antipatterns := make([]Antipattern, 0, len(artifact.Antipatterns))
	for _, a := range artifact.Antipatterns {
		if a.ID == "" || a.Expr == "" {
			return nil, fail("antipattern 항목에 id와 expr이 필요합니다", nil)
		}
		compiled, err := CompileAntipattern(a.ID, a.Name, a.Description, a.Expr)
		if err != nil {
			return nil, fail("antipattern 컴파일에 실패했습니다", err)
		}
		antipatterns = append(antipatterns, compiled)
	}

	return NewStaticBase(artifact.Version, pairs, mandatory, antipatterns), nil
}
