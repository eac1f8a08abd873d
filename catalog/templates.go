// Package catalog holds the curated template graphs and the prompt matcher
// that selects between template lookup, component-detection synthesis, and
// the soft-failure fallback.
package catalog

import "github.com/archsketch/engine/graph"

// Template is a curated, pre-built graph keyed by id and by matching keywords.
type Template struct {
	// ID is the template identifier, also matched as a prompt substring.
	ID string

	// Name is the display name of the template.
	Name string

	// Keywords are prompt substrings that select this template.
	Keywords []string

	prebuilt *graph.Graph
}

// Graph returns a deep copy of the template's pre-built graph, so callers
// can mutate their copy freely.
func (t *Template) Graph() *graph.Graph {
	return t.prebuilt.Clone()
}

// Catalog is the ordered template collection. Keyword matching walks the
// catalog in order, so earlier templates win keyword ties.
type Catalog struct {
	templates []*Template
	byID      map[string]*Template
	fallback  *Template
}

// NewCatalog builds a catalog from templates in the given order. The
// fallbackID names the template returned by the soft-failure tier; it must
// exist in the list.
func NewCatalog(templates []*Template, fallbackID string) *Catalog {
	c := &Catalog{
		templates: templates,
		byID:      make(map[string]*Template, len(templates)),
	}
	for _, t := range templates {
		c.byID[t.ID] = t
	}
	c.fallback = c.byID[fallbackID]
	return c
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (*Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// All returns the templates in catalog order.
func (c *Catalog) All() []*Template {
	return c.templates
}

// Fallback returns the template used when nothing matches.
func (c *Catalog) Fallback() *Template {
	return c.fallback
}

func node(id string, t graph.ComponentType, label string, tier graph.Tier) graph.Component {
	return graph.Component{ID: id, Type: t, Label: label, Tier: tier}
}

func conn(source, target string, flow graph.FlowType) graph.Connection {
	return graph.Connection{Source: source, Target: target, FlowType: flow}
}

// Default returns the built-in template catalog.
func Default() *Catalog {
	threeTier := &Template{
		ID:       "three-tier-web",
		Name:     "3계층 웹 아키텍처",
		Keywords: []string{"3티어", "3계층", "three tier", "3-tier", "쓰리티어"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("user-1", graph.TypeUser, "사용자", graph.TierExternal),
				node("load-balancer-1", graph.TypeLoadBalancer, "로드밸런서", graph.TierDMZ),
				node("web-server-1", graph.TypeWebServer, "웹 서버", graph.TierDMZ),
				node("app-server-1", graph.TypeAppServer, "애플리케이션 서버", graph.TierInternal),
				node("db-server-1", graph.TypeDBServer, "데이터베이스", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("user-1", "load-balancer-1", graph.FlowRequest),
				conn("load-balancer-1", "web-server-1", graph.FlowRequest),
				conn("web-server-1", "app-server-1", graph.FlowRequest),
				conn("app-server-1", "db-server-1", graph.FlowRequest),
			},
		},
	}

	secureWeb := &Template{
		ID:       "secure-web",
		Name:     "보안 웹 아키텍처",
		Keywords: []string{"보안 웹", "보안웹", "secure web", "안전한 웹"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("user-1", graph.TypeUser, "사용자", graph.TierExternal),
				node("firewall-1", graph.TypeFirewall, "방화벽", graph.TierDMZ),
				node("waf-1", graph.TypeWAF, "웹 방화벽", graph.TierDMZ),
				node("load-balancer-1", graph.TypeLoadBalancer, "로드밸런서", graph.TierDMZ),
				node("web-server-1", graph.TypeWebServer, "웹 서버", graph.TierInternal),
				node("app-server-1", graph.TypeAppServer, "애플리케이션 서버", graph.TierInternal),
				node("db-server-1", graph.TypeDBServer, "데이터베이스", graph.TierData),
				node("backup-1", graph.TypeBackup, "백업", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("user-1", "firewall-1", graph.FlowRequest),
				conn("firewall-1", "waf-1", graph.FlowRequest),
				conn("waf-1", "load-balancer-1", graph.FlowRequest),
				conn("load-balancer-1", "web-server-1", graph.FlowRequest),
				conn("web-server-1", "app-server-1", graph.FlowRequest),
				conn("app-server-1", "db-server-1", graph.FlowEncrypted),
				conn("db-server-1", "backup-1", graph.FlowReplication),
			},
		},
	}

	dmz := &Template{
		ID:       "dmz-architecture",
		Name:     "DMZ 분리 아키텍처",
		Keywords: []string{"dmz", "디엠지", "망분리", "망 분리"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("internet-1", graph.TypeInternet, "인터넷", graph.TierExternal),
				node("firewall-1", graph.TypeFirewall, "외부 방화벽", graph.TierDMZ),
				node("web-server-1", graph.TypeWebServer, "웹 서버", graph.TierDMZ),
				node("firewall-2", graph.TypeFirewall, "내부 방화벽", graph.TierInternal),
				node("app-server-1", graph.TypeAppServer, "애플리케이션 서버", graph.TierInternal),
				node("db-server-1", graph.TypeDBServer, "데이터베이스", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("internet-1", "firewall-1", graph.FlowRequest),
				conn("firewall-1", "web-server-1", graph.FlowRequest),
				conn("web-server-1", "firewall-2", graph.FlowRequest),
				conn("firewall-2", "app-server-1", graph.FlowRequest),
				conn("app-server-1", "db-server-1", graph.FlowEncrypted),
			},
		},
	}

	microservices := &Template{
		ID:       "microservices",
		Name:     "마이크로서비스 아키텍처",
		Keywords: []string{"마이크로서비스", "마이크로 서비스", "microservice", "msa"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("user-1", graph.TypeUser, "사용자", graph.TierExternal),
				node("api-gateway-1", graph.TypeAPIGateway, "API 게이트웨이", graph.TierDMZ),
				node("microservice-1", graph.TypeMicroservice, "주문 서비스", graph.TierInternal),
				node("microservice-2", graph.TypeMicroservice, "결제 서비스", graph.TierInternal),
				node("microservice-3", graph.TypeMicroservice, "회원 서비스", graph.TierInternal),
				node("message-queue-1", graph.TypeMessageQueue, "메시지 큐", graph.TierInternal),
				node("db-server-1", graph.TypeDBServer, "데이터베이스", graph.TierData),
				node("cache-1", graph.TypeCache, "캐시", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("user-1", "api-gateway-1", graph.FlowRequest),
				conn("api-gateway-1", "microservice-1", graph.FlowRequest),
				conn("api-gateway-1", "microservice-2", graph.FlowRequest),
				conn("api-gateway-1", "microservice-3", graph.FlowRequest),
				conn("microservice-1", "message-queue-1", graph.FlowSync),
				conn("microservice-2", "message-queue-1", graph.FlowSync),
				conn("microservice-1", "db-server-1", graph.FlowRequest),
				conn("microservice-3", "cache-1", graph.FlowRequest),
			},
		},
	}

	zeroTrust := &Template{
		ID:       "zero-trust",
		Name:     "제로 트러스트 아키텍처",
		Keywords: []string{"제로트러스트", "제로 트러스트", "zero trust", "ztna"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("user-1", graph.TypeUser, "사용자", graph.TierExternal),
				node("mfa-1", graph.TypeMFA, "다중 인증", graph.TierDMZ),
				node("sso-1", graph.TypeSSO, "통합 인증", graph.TierDMZ),
				node("nac-1", graph.TypeNAC, "네트워크 접근제어", graph.TierInternal),
				node("ldap-ad-1", graph.TypeLDAPAD, "LDAP/AD", graph.TierInternal),
				node("app-server-1", graph.TypeAppServer, "애플리케이션 서버", graph.TierInternal),
				node("siem-1", graph.TypeSIEM, "통합 보안 관제", graph.TierManagement),
			},
			Connections: []graph.Connection{
				conn("user-1", "mfa-1", graph.FlowEncrypted),
				conn("mfa-1", "sso-1", graph.FlowRequest),
				conn("sso-1", "ldap-ad-1", graph.FlowSync),
				conn("sso-1", "nac-1", graph.FlowRequest),
				conn("nac-1", "app-server-1", graph.FlowEncrypted),
				conn("app-server-1", "siem-1", graph.FlowData),
			},
		},
	}

	backupDR := &Template{
		ID:       "backup-dr",
		Name:     "백업/재해복구 구성",
		Keywords: []string{"재해복구", "재해 복구", "disaster recovery", "이중화"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("app-server-1", graph.TypeAppServer, "운영 서버", graph.TierInternal),
				node("db-server-1", graph.TypeDBServer, "운영 데이터베이스", graph.TierData),
				node("db-server-2", graph.TypeDBServer, "대기 데이터베이스", graph.TierData),
				node("backup-1", graph.TypeBackup, "백업", graph.TierData),
				node("san-nas-1", graph.TypeSANNAS, "스토리지", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("app-server-1", "db-server-1", graph.FlowRequest),
				conn("db-server-1", "db-server-2", graph.FlowReplication),
				conn("db-server-1", "backup-1", graph.FlowReplication),
				conn("backup-1", "san-nas-1", graph.FlowData),
			},
		},
	}

	otNetwork := &Template{
		ID:       "ot-network",
		Name:     "OT 제어망 아키텍처",
		Keywords: []string{"scada", "스카다", "제어망", "공장", "ot망"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("hmi-1", graph.TypeHMI, "HMI", graph.TierManagement),
				node("scada-1", graph.TypeSCADA, "SCADA", graph.TierManagement),
				node("firewall-1", graph.TypeFirewall, "OT 방화벽", graph.TierInternal),
				node("plc-1", graph.TypePLC, "PLC", graph.TierInternal),
				node("historian-1", graph.TypeHistorian, "히스토리안", graph.TierData),
				node("sensor-1", graph.TypeSensor, "센서", graph.TierInternal),
			},
			Connections: []graph.Connection{
				conn("hmi-1", "scada-1", graph.FlowRequest),
				conn("scada-1", "firewall-1", graph.FlowRequest),
				conn("firewall-1", "plc-1", graph.FlowSync),
				conn("plc-1", "sensor-1", graph.FlowSync),
				conn("scada-1", "historian-1", graph.FlowData),
			},
		},
	}

	basicWeb := &Template{
		ID:       "basic-web",
		Name:     "기본 웹 구성",
		Keywords: []string{"웹사이트", "website", "홈페이지"},
		prebuilt: &graph.Graph{
			Nodes: []graph.Component{
				node("user-1", graph.TypeUser, "사용자", graph.TierExternal),
				node("web-server-1", graph.TypeWebServer, "웹 서버", graph.TierDMZ),
				node("db-server-1", graph.TypeDBServer, "데이터베이스", graph.TierData),
			},
			Connections: []graph.Connection{
				conn("user-1", "web-server-1", graph.FlowRequest),
				conn("web-server-1", "db-server-1", graph.FlowRequest),
			},
		},
	}

	return NewCatalog([]*Template{
		secureWeb, threeTier, dmz, microservices, zeroTrust, backupDR,
		otNetwork, basicWeb,
	}, "basic-web")
}
