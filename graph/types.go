package graph

import "fmt"

// ComponentType identifies the kind of infrastructure element a node represents.
// The set of types is a versioned vocabulary shared with the knowledge artifact:
// additions are backward-compatible, removals and renames are breaking.
type ComponentType string

// Network components.
const (
	TypeInternet     ComponentType = "internet"
	TypeRouter       ComponentType = "router"
	TypeSwitch       ComponentType = "switch"
	TypeL3Switch     ComponentType = "l3-switch"
	TypeWirelessAP   ComponentType = "wireless-ap"
	TypeVPNGateway   ComponentType = "vpn-gateway"
	TypeDNSServer    ComponentType = "dns-server"
	TypeDHCPServer   ComponentType = "dhcp-server"
	TypeNTPServer    ComponentType = "ntp-server"
	TypeProxy        ComponentType = "proxy"
	TypeReverseProxy ComponentType = "reverse-proxy"
	TypeNATGateway   ComponentType = "nat-gateway"
	TypeSDWAN        ComponentType = "sd-wan"
	TypeCDN          ComponentType = "cdn"
)

// Security components.
const (
	TypeFirewall       ComponentType = "firewall"
	TypeWAF            ComponentType = "waf"
	TypeIDSIPS         ComponentType = "ids-ips"
	TypeNAC            ComponentType = "nac"
	TypeDLP            ComponentType = "dlp"
	TypeSIEM           ComponentType = "siem"
	TypeSOAR           ComponentType = "soar"
	TypeEDR            ComponentType = "edr"
	TypeAntivirus      ComponentType = "antivirus"
	TypeSandbox        ComponentType = "sandbox"
	TypeHoneypot       ComponentType = "honeypot"
	TypeScanner        ComponentType = "scanner"
	TypeBastion        ComponentType = "bastion"
	TypePAM            ComponentType = "pam"
	TypeHSM            ComponentType = "hsm"
	TypeKMS            ComponentType = "kms"
	TypeCertAuthority  ComponentType = "cert-authority"
	TypeSecretsManager ComponentType = "secrets-manager"
)

// Identity and access components.
const (
	TypeLDAPAD ComponentType = "ldap-ad"
	TypeSSO    ComponentType = "sso"
	TypeMFA    ComponentType = "mfa"
	TypeIAM    ComponentType = "iam"
	TypeRADIUS ComponentType = "radius"
)

// Compute components.
const (
	TypeUser         ComponentType = "user"
	TypeClientPC     ComponentType = "client-pc"
	TypeMobileDevice ComponentType = "mobile-device"
	TypeWebServer    ComponentType = "web-server"
	TypeAppServer    ComponentType = "app-server"
	TypeAPIGateway   ComponentType = "api-gateway"
	TypeMicroservice ComponentType = "microservice"
	TypeContainer    ComponentType = "container"
	TypeKubernetes   ComponentType = "kubernetes"
	TypeDockerHost   ComponentType = "docker-host"
	TypeVM           ComponentType = "vm"
	TypeHypervisor   ComponentType = "hypervisor"
	TypeServerless   ComponentType = "serverless"
	TypeLoadBalancer ComponentType = "load-balancer"
	TypeMainframe    ComponentType = "mainframe"
)

// Data components.
const (
	TypeDBServer      ComponentType = "db-server"
	TypeNoSQLDB       ComponentType = "nosql-db"
	TypeDataWarehouse ComponentType = "data-warehouse"
	TypeCache         ComponentType = "cache"
	TypeMessageQueue  ComponentType = "message-queue"
	TypeKafka         ComponentType = "kafka"
	TypeETL           ComponentType = "etl"
	TypeSearchEngine  ComponentType = "search-engine"
	TypeSANNAS        ComponentType = "san-nas"
	TypeObjectStorage ComponentType = "object-storage"
	TypeFileServer    ComponentType = "file-server"
	TypeBackup        ComponentType = "backup"
)

// Application services.
const (
	TypeMailServer      ComponentType = "mail-server"
	TypeFTPServer       ComponentType = "ftp-server"
	TypeCMS             ComponentType = "cms"
	TypeERP             ComponentType = "erp"
	TypeCRM             ComponentType = "crm"
	TypeVoIP            ComponentType = "voip"
	TypeVideoConference ComponentType = "video-conference"
)

// Observability components.
const (
	TypeMonitoring ComponentType = "monitoring"
	TypeLogging    ComponentType = "logging"
	TypeAPM        ComponentType = "apm"
	TypeDashboard  ComponentType = "dashboard"
)

// DevOps components.
const (
	TypeCICD             ComponentType = "cicd"
	TypeGitRepo          ComponentType = "git-repo"
	TypeArtifactRegistry ComponentType = "artifact-registry"
	TypeBuildServer      ComponentType = "build-server"
	TypeConfigManagement ComponentType = "config-management"
)

// Operational technology components.
const (
	TypeSCADA      ComponentType = "scada"
	TypePLC        ComponentType = "plc"
	TypeHMI        ComponentType = "hmi"
	TypeHistorian  ComponentType = "historian"
	TypeIoTGateway ComponentType = "iot-gateway"
	TypeSensor     ComponentType = "sensor"
)

// Cloud components.
const (
	TypeCloudVPC      ComponentType = "cloud-vpc"
	TypeCloudStorage  ComponentType = "cloud-storage"
	TypeCloudFunction ComponentType = "cloud-function"
	TypeCloudDatabase ComponentType = "cloud-database"
)

// allComponentTypes is the canonical membership set used by IsValid and AllComponentTypes.
var allComponentTypes = []ComponentType{
	TypeInternet, TypeRouter, TypeSwitch, TypeL3Switch, TypeWirelessAP,
	TypeVPNGateway, TypeDNSServer, TypeDHCPServer, TypeNTPServer, TypeProxy,
	TypeReverseProxy, TypeNATGateway, TypeSDWAN, TypeCDN,
	TypeFirewall, TypeWAF, TypeIDSIPS, TypeNAC, TypeDLP, TypeSIEM, TypeSOAR,
	TypeEDR, TypeAntivirus, TypeSandbox, TypeHoneypot, TypeScanner, TypeBastion,
	TypePAM, TypeHSM, TypeKMS, TypeCertAuthority, TypeSecretsManager,
	TypeLDAPAD, TypeSSO, TypeMFA, TypeIAM, TypeRADIUS,
	TypeUser, TypeClientPC, TypeMobileDevice, TypeWebServer, TypeAppServer,
	TypeAPIGateway, TypeMicroservice, TypeContainer, TypeKubernetes,
	TypeDockerHost, TypeVM, TypeHypervisor, TypeServerless, TypeLoadBalancer,
	TypeMainframe,
	TypeDBServer, TypeNoSQLDB, TypeDataWarehouse, TypeCache, TypeMessageQueue,
	TypeKafka, TypeETL, TypeSearchEngine, TypeSANNAS, TypeObjectStorage,
	TypeFileServer, TypeBackup,
	TypeMailServer, TypeFTPServer, TypeCMS, TypeERP, TypeCRM, TypeVoIP,
	TypeVideoConference,
	TypeMonitoring, TypeLogging, TypeAPM, TypeDashboard,
	TypeCICD, TypeGitRepo, TypeArtifactRegistry, TypeBuildServer,
	TypeConfigManagement,
	TypeSCADA, TypePLC, TypeHMI, TypeHistorian, TypeIoTGateway, TypeSensor,
	TypeCloudVPC, TypeCloudStorage, TypeCloudFunction, TypeCloudDatabase,
}

var componentTypeSet = func() map[ComponentType]struct{} {
	m := make(map[ComponentType]struct{}, len(allComponentTypes))
	for _, t := range allComponentTypes {
		m[t] = struct{}{}
	}
	return m
}()

// securityTypes are perimeter and detection controls whose removal is always
// flagged by the risk assessor.
var securityTypes = map[ComponentType]struct{}{
	TypeFirewall:   {},
	TypeWAF:        {},
	TypeIDSIPS:     {},
	TypeVPNGateway: {},
	TypeNAC:        {},
	TypeDLP:        {},
}

// authTypes are identity components whose removal is always flagged by the
// risk assessor.
var authTypes = map[ComponentType]struct{}{
	TypeLDAPAD: {},
	TypeSSO:    {},
	TypeMFA:    {},
	TypeIAM:    {},
}

// internalOnlyTypes must never be directly reachable from an internet node.
var internalOnlyTypes = map[ComponentType]struct{}{
	TypeDBServer:  {},
	TypeLDAPAD:    {},
	TypeSANNAS:    {},
	TypeBackup:    {},
	TypeCache:     {},
	TypeAppServer: {},
}

// IsValid returns true if the component type is part of the canonical vocabulary.
func (t ComponentType) IsValid() bool {
	_, ok := componentTypeSet[t]
	return ok
}

// String returns the string representation of the component type.
func (t ComponentType) String() string {
	return string(t)
}

// IsSecurity returns true for perimeter and detection control types.
func (t ComponentType) IsSecurity() bool {
	_, ok := securityTypes[t]
	return ok
}

// IsAuth returns true for identity and access control types.
func (t ComponentType) IsAuth() bool {
	_, ok := authTypes[t]
	return ok
}

// IsInternalOnly returns true for types that must not face the internet directly.
func (t ComponentType) IsInternalOnly() bool {
	_, ok := internalOnlyTypes[t]
	return ok
}

// ParseComponentType parses a string into a ComponentType.
// Returns an error if the string is not in the canonical vocabulary.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid component type: %s", s)
	}
	return t, nil
}

// AllComponentTypes returns the canonical vocabulary in declaration order.
func AllComponentTypes() []ComponentType {
	out := make([]ComponentType, len(allComponentTypes))
	copy(out, allComponentTypes)
	return out
}
