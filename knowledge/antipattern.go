package knowledge

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/archsketch/engine/graph"
)

// Antipattern is a named, detectable structural condition over a graph that
// is considered undesirable. Detectors are pure predicates; a detector error
// is treated by all consumers as "not detected", never as a pipeline error.
type Antipattern struct {
	// ID is the stable identifier, reported in risk factors and warnings.
	ID string

	// Name is the display name.
	Name string

	// Description explains the condition to the user.
	Description string

	detect func(*graph.Graph) (bool, error)
}

// Detect evaluates the antipattern against the graph.
func (a Antipattern) Detect(g *graph.Graph) (bool, error) {
	if a.detect == nil {
		return false, nil
	}
	return a.detect(g)
}

// NewAntipattern builds an antipattern from a native predicate.
func NewAntipattern(id, name, description string, detect func(*graph.Graph) (bool, error)) Antipattern {
	return Antipattern{ID: id, Name: name, Description: description, detect: detect}
}

// The CEL environment exposes a structural summary of the graph, so artifact
// authors can ship new detectors without code changes:
//
//	nodes  int                       total node count
//	types  map[string]int            node count per component type
//	tiers  map[string]int            node count per assigned tier
//	edges  list of {source, target}  connection endpoints as type names
var (
	celEnvOnce sync.Once
	celEnv     *cel.Env
	celEnvErr  error
)

func antipatternEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("nodes", cel.IntType),
			cel.Variable("types", cel.MapType(cel.StringType, cel.IntType)),
			cel.Variable("tiers", cel.MapType(cel.StringType, cel.IntType)),
			cel.Variable("edges", cel.ListType(cel.MapType(cel.StringType, cel.StringType))),
		)
	})
	return celEnv, celEnvErr
}

// CompileAntipattern compiles a CEL boolean expression into an antipattern
// detector. Returns an error if the expression does not compile or does not
// produce a boolean.
func CompileAntipattern(id, name, description, expr string) (Antipattern, error) {
	env, err := antipatternEnv()
	if err != nil {
		return Antipattern{}, fmt.Errorf("antipattern env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Antipattern{}, fmt.Errorf("antipattern %q: %w", id, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return Antipattern{}, fmt.Errorf("antipattern %q: expression must produce bool, got %s", id, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return Antipattern{}, fmt.Errorf("antipattern %q: %w", id, err)
	}

	return NewAntipattern(id, name, description, func(g *graph.Graph) (bool, error) {
		out, _, err := prg.Eval(summarize(g))
		if err != nil {
			return false, err
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("antipattern %q: non-boolean result", id)
		}
		return b, nil
	}), nil
}

// MustCompileAntipattern is CompileAntipattern for the curated built-ins;
// it panics on a compile error.
func MustCompileAntipattern(id, name, description, expr string) Antipattern {
	a, err := CompileAntipattern(id, name, description, expr)
	if err != nil {
		panic(err)
	}
	return a
}

// summarize builds the CEL activation from a graph.
func summarize(g *graph.Graph) map[string]any {
	types := make(map[string]int)
	tiers := make(map[string]int)
	ids := make(map[string]string, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		types[string(n.Type)]++
		if n.Tier != "" {
			tiers[string(n.Tier)]++
		}
		ids[n.ID] = string(n.Type)
	}

	edges := make([]map[string]string, 0, len(g.Connections))
	for _, c := range g.Connections {
		src, okS := ids[c.Source]
		dst, okT := ids[c.Target]
		if !okS || !okT {
			// Dangling references are tolerated, not summarized.
			continue
		}
		edges = append(edges, map[string]string{"source": src, "target": dst})
	}

	return map[string]any{
		"nodes": len(g.Nodes),
		"types": types,
		"tiers": tiers,
		"edges": edges,
	}
}

// DefaultAntipatterns returns the curated built-in detectors.
func DefaultAntipatterns() []Antipattern {
	return []Antipattern{
		MustCompileAntipattern(
			"exposed-data-store",
			"데이터 저장소 외부 노출",
			"인터넷 노드가 내부 전용 데이터 저장소와 직접 연결되어 있습니다",
			`edges.exists(e,
				(e.source == 'internet' && e.target in ['db-server', 'san-nas', 'backup', 'ldap-ad']) ||
				(e.target == 'internet' && e.source in ['db-server', 'san-nas', 'backup', 'ldap-ad']))`,
		),
		MustCompileAntipattern(
			"missing-perimeter",
			"경계 보안 부재",
			"인터넷 구간이 있으나 방화벽/WAF가 없습니다",
			`'internet' in types && !('firewall' in types) && !('waf' in types)`,
		),
		MustCompileAntipattern(
			"unsegmented-network",
			"비분리 평면 네트워크",
			"규모에 비해 네트워크 구역이 분리되어 있지 않습니다",
			`nodes >= 8 && size(tiers) <= 1`,
		),
		MustCompileAntipattern(
			"single-web-tier",
			"단일 웹 서버 구성",
			"로드밸런서 뒤에 웹 서버가 한 대뿐입니다",
			`'load-balancer' in types && 'web-server' in types && types['web-server'] == 1`,
		),
	}
}
