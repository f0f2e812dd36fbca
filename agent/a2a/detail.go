package a2a

// ForwardAgentDetail tells where the forward agent of the agency is. Agents
// only carry it to their configurations.
type ForwardAgentDetail struct {
	DID      string `json:"did"`
	Verkey   string `json:"verkey"`
	Endpoint string `json:"endpoint"`
}
