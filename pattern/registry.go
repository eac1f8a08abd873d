// Package pattern provides the ordered component-detection rule registry and
// a cached detector that scans mixed Korean/English free text for
// infrastructure component mentions.
package pattern

import (
	"regexp"

	"github.com/archsketch/engine/graph"
)

// Rule pairs a compiled trigger pattern with the component type it detects
// and the display label used when a node is synthesized from it.
type Rule struct {
	// Type is the component type this rule detects.
	Type graph.ComponentType

	// Label is the display name for nodes created from this rule.
	Label string

	trigger  *regexp.Regexp
	keywords []string
}

// MustRule compiles a case-insensitive trigger pattern into a Rule.
// The keywords are plain substrings used by the detector's quick pre-filter;
// every input the trigger can match must contain at least one of them.
// Panics on an invalid pattern, mirroring regexp.MustCompile.
func MustRule(t graph.ComponentType, label, expr string, keywords ...string) Rule {
	return Rule{
		Type:     t,
		Label:    label,
		trigger:  regexp.MustCompile("(?i)" + expr),
		keywords: keywords,
	}
}

// Matches reports whether the trigger matches the input.
// Matching is substring-based over the raw text, not tokenized; multi-word
// Korean compounds are matched as-is.
func (r Rule) Matches(text string) bool {
	return r.trigger.MatchString(text)
}

// FindIndex returns the byte span of the first trigger match in text, in
// the regexp FindStringIndex convention, or nil when the trigger does not
// match.
func (r Rule) FindIndex(text string) []int {
	return r.trigger.FindStringIndex(text)
}

// Registry is an explicit ordered rule list. Order is a first-class,
// curated invariant: more specific rules precede more general ones so that
// the first matching rule wins in single-match mode (e.g. "WAF" must be
// consulted before "firewall").
type Registry struct {
	rules    []Rule
	keywords []string
}

// NewRegistry builds a registry from the given rules, preserving their order,
// and harvests the deduplicated quick-keyword set from them.
func NewRegistry(rules []Rule) *Registry {
	seen := make(map[string]struct{})
	var keywords []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	return &Registry{rules: rules, keywords: keywords}
}

// Rules returns the rules in registry order. The returned slice is shared;
// callers must not mutate it.
func (g *Registry) Rules() []Rule {
	return g.rules
}

// Len returns the number of rules.
func (g *Registry) Len() int {
	return len(g.rules)
}

// Keywords returns the quick-keyword set harvested from the rules.
func (g *Registry) Keywords() []string {
	return g.keywords
}

// Default returns the curated default registry.
//
// Ordering notes: WAF precedes firewall, reverse proxy precedes proxy,
// L3 switch precedes switch, and Kafka precedes the generic message queue,
// so that the more specific mention wins in first-match mode.
func Default() *Registry {
	return NewRegistry([]Rule{
		// Security, most specific first.
		MustRule(graph.TypeWAF, "웹 방화벽", `waf|웹\s*방화벽|web\s*application\s*firewall`, "waf", "방화벽", "firewall"),
		MustRule(graph.TypeFirewall, "방화벽", `firewall|방화벽`, "firewall", "방화벽"),
		MustRule(graph.TypeIDSIPS, "침입 탐지/차단", `ids|ips|침입\s*탐지|침입\s*차단|침입\s*방지`, "ids", "ips", "침입"),
		MustRule(graph.TypeVPNGateway, "VPN 게이트웨이", `vpn|브이피엔`, "vpn", "브이피엔"),
		MustRule(graph.TypeNAC, "네트워크 접근제어", `nac|네트워크\s*접근\s*제어`, "nac", "접근"),
		MustRule(graph.TypeDLP, "정보 유출 방지", `dlp|유출\s*방지`, "dlp", "유출"),
		MustRule(graph.TypeSIEM, "통합 보안 관제", `siem|보안\s*관제`, "siem", "관제"),
		MustRule(graph.TypeEDR, "엔드포인트 탐지 대응", `edr|엔드포인트\s*(탐지|보안)`, "edr", "엔드포인트"),
		MustRule(graph.TypeAntivirus, "백신", `antivirus|안티바이러스|백신`, "antivirus", "안티바이러스", "백신"),
		MustRule(graph.TypeBastion, "배스천 호스트", `bastion|배스천|점프\s*서버|jump\s*server`, "bastion", "배스천", "점프", "jump"),
		MustRule(graph.TypeHoneypot, "허니팟", `honeypot|허니팟`, "honeypot", "허니팟"),
		MustRule(graph.TypeHSM, "하드웨어 보안 모듈", `hsm|보안\s*모듈`, "hsm", "모듈"),
		MustRule(graph.TypeKMS, "키 관리 서비스", `kms|키\s*관리`, "kms", "키"),
		MustRule(graph.TypeSecretsManager, "시크릿 관리", `secrets?\s*manager|시크릿`, "secret", "시크릿"),

		// Identity and access.
		MustRule(graph.TypeLDAPAD, "LDAP/AD", `ldap|active\s*directory|\bad\b|디렉터리\s*서비스`, "ldap", "active", "ad", "디렉터리"),
		MustRule(graph.TypeSSO, "통합 인증", `sso|single\s*sign|통합\s*인증|싱글\s*사인온`, "sso", "single", "통합", "싱글"),
		MustRule(graph.TypeMFA, "다중 인증", `mfa|다중\s*인증|2차\s*인증|otp`, "mfa", "다중", "2차", "otp"),
		MustRule(graph.TypeIAM, "권한 관리", `iam|권한\s*관리`, "iam", "권한"),

		// Network, specific before generic.
		MustRule(graph.TypeAPIGateway, "API 게이트웨이", `api\s*gateway|api\s*게이트웨이`, "api"),
		MustRule(graph.TypeLoadBalancer, "로드밸런서", `load\s*balancer|로드\s*밸런서|로드밸런서|l4|l7|\blb\b`, "load", "로드", "l4", "l7", "lb"),
		MustRule(graph.TypeCDN, "CDN", `cdn|콘텐츠\s*전송`, "cdn", "콘텐츠"),
		MustRule(graph.TypeReverseProxy, "리버스 프록시", `reverse\s*proxy|리버스\s*프록시`, "reverse", "리버스"),
		MustRule(graph.TypeProxy, "프록시", `proxy|프록시`, "proxy", "프록시"),
		MustRule(graph.TypeDNSServer, "DNS 서버", `dns|네임\s*서버`, "dns", "네임"),
		MustRule(graph.TypeDHCPServer, "DHCP 서버", `dhcp`, "dhcp"),
		MustRule(graph.TypeRouter, "라우터", `router|라우터`, "router", "라우터"),
		MustRule(graph.TypeL3Switch, "L3 스위치", `l3\s*switch|l3\s*스위치|백본`, "l3", "백본"),
		MustRule(graph.TypeSwitch, "스위치", `switch|스위치`, "switch", "스위치"),
		MustRule(graph.TypeWirelessAP, "무선 AP", `wireless|무선|와이파이|wi-?fi|\bap\b`, "wireless", "무선", "와이파이", "wifi", "wi-fi", "ap"),
		MustRule(graph.TypeInternet, "인터넷", `internet|인터넷|외부\s*망`, "internet", "인터넷", "외부"),

		// Compute.
		MustRule(graph.TypeKubernetes, "쿠버네티스", `kubernetes|k8s|쿠버네티스`, "kubernetes", "k8s", "쿠버네티스"),
		MustRule(graph.TypeContainer, "컨테이너", `container|컨테이너|docker|도커`, "container", "컨테이너", "docker", "도커"),
		MustRule(graph.TypeMicroservice, "마이크로서비스", `microservice|마이크로\s*서비스|msa`, "micro", "마이크로", "msa"),
		MustRule(graph.TypeWebServer, "웹 서버", `web\s*server|웹\s*서버|웹서버|nginx|apache|홈페이지`, "web", "웹", "nginx", "apache", "홈페이지"),
		MustRule(graph.TypeAppServer, "애플리케이션 서버", `app(lication)?\s*server|앱\s*서버|애플리케이션\s*서버|was|tomcat`, "app", "앱", "애플리케이션", "was", "tomcat"),
		MustRule(graph.TypeVM, "가상 머신", `virtual\s*machine|가상\s*머신|\bvm\b`, "virtual", "가상", "vm"),
		MustRule(graph.TypeUser, "사용자", `\buser\b|사용자|고객|client|클라이언트`, "user", "사용자", "고객", "client", "클라이언트"),

		// Data, specific before generic.
		MustRule(graph.TypeKafka, "카프카", `kafka|카프카`, "kafka", "카프카"),
		MustRule(graph.TypeMessageQueue, "메시지 큐", `message\s*queue|메시지\s*큐|rabbitmq|\bmq\b`, "message", "메시지", "rabbitmq", "mq"),
		MustRule(graph.TypeCache, "캐시", `cache|캐시|redis|레디스|memcached`, "cache", "캐시", "redis", "레디스", "memcached"),
		MustRule(graph.TypeSearchEngine, "검색 엔진", `elasticsearch|검색\s*엔진`, "elastic", "검색"),
		MustRule(graph.TypeDataWarehouse, "데이터 웨어하우스", `data\s*warehouse|웨어하우스|dw`, "warehouse", "웨어하우스", "dw"),
		MustRule(graph.TypeDBServer, "데이터베이스", `database|데이터베이스|db\s*서버|\bdb\b|mysql|postgres|oracle|mariadb`, "database", "데이터베이스", "db", "mysql", "postgres", "oracle", "mariadb"),
		MustRule(graph.TypeSANNAS, "스토리지", `san|nas|스토리지|storage`, "san", "nas", "스토리지", "storage"),
		MustRule(graph.TypeBackup, "백업", `backup|백업`, "backup", "백업"),
		MustRule(graph.TypeFileServer, "파일 서버", `file\s*server|파일\s*서버`, "file", "파일"),

		// Application services.
		MustRule(graph.TypeMailServer, "메일 서버", `mail|메일`, "mail", "메일"),
		MustRule(graph.TypeFTPServer, "FTP 서버", `ftp`, "ftp"),
		MustRule(graph.TypeERP, "ERP", `erp`, "erp"),
		MustRule(graph.TypeCRM, "CRM", `crm`, "crm"),
		MustRule(graph.TypeVoIP, "인터넷 전화", `voip|인터넷\s*전화|ip\s*전화`, "voip", "전화"),

		// Observability and DevOps.
		MustRule(graph.TypeMonitoring, "모니터링", `monitoring|모니터링|관측`, "monitoring", "모니터링", "관측"),
		MustRule(graph.TypeLogging, "로그 수집", `logging|로그`, "log", "로그"),
		MustRule(graph.TypeCICD, "CI/CD", `ci/?cd|jenkins|젠킨스|파이프라인`, "ci", "jenkins", "젠킨스", "파이프라인"),
		MustRule(graph.TypeGitRepo, "소스 저장소", `git|깃|소스\s*저장소`, "git", "깃", "소스"),

		// Operational technology.
		MustRule(graph.TypeSCADA, "SCADA", `scada|스카다`, "scada", "스카다"),
		MustRule(graph.TypePLC, "PLC", `plc`, "plc"),
		MustRule(graph.TypeHMI, "HMI", `hmi`, "hmi"),
		MustRule(graph.TypeHistorian, "히스토리안", `historian|히스토리안`, "historian", "히스토리안"),
		MustRule(graph.TypeIoTGateway, "IoT 게이트웨이", `iot|사물\s*인터넷|센서\s*게이트웨이`, "iot", "사물", "센서"),
	})
}
