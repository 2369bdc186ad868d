package filter

import "strings"

// DefaultKeywords are the search terms used when none are configured.
var DefaultKeywords = []string{
	"devops", "cloud", "aws", "gcp", "site reliability engineer", "mlops", "platform engineer",
}

var DefaultExclude = []string{
	"software", "development", "data", ".net", "python", "quality", "security", "seguridad", "developer",
	"salesforce", "desarroll", "qa", "ruby", "test", "datos", "java", "fullstack", "sap", "hibrido",
	"qlik sense", "qliksense", "híbrido", "híbrida", "hibrida", "oracle",
}

var DefaultInclude = []string{
	"devops", "sre", "cloud", "mlops", "platform engineer", "infrastructure", "systems engineer",
	"site reliability", "ingeniero de sistemas", "ingeniero de plataforma", "nube",
	"automation", "automatización", "ci/cd", "continuous integration", "continuous delivery", "pipeline",
	"aws", "azure", "gcp", "google cloud", "amazon web services", "cloud native",
	"kubernetes", "k8s", "docker", "containerization", "contenedores", "serverless",
	"orquestación", "virtualización", "terraform", "ansible", "jenkins", "gitlab", "puppet", "chef",
	"openstack", "infrastructure as code", "iac", "configuración como código", "prometheus", "grafana",
	"observability", "observabilidad", "monitoring", "monitorización", "logging", "alerting", "alertas",
	"microservices", "microservicios", "deployment", "despliegue", "release", "escalability", "escalabilidad",
	"resilience", "resiliencia", "devsecops", "dataops", "integración continua", "entrega continua",
	"automated deployment", "pipeline de despliegue", "orquestación de contenedores", "gestión de infraestructura",
	"failover", "disaster recovery",
}

// CompactWords drops empty entries and keeps every other word exactly as
// given, surrounding spaces included: " sap " matches "sap consultant" but
// not "saprissa".
func CompactWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}

// NormalizeWords lower-cases words and drops blanks. Order is kept since
// the first matching exclude word is reported.
func NormalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = lower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
