package config

// Profile is the decoded, merged content of one or more profile files.
type Profile struct {
	Service Service
	Search  Search
}

// Service describes how to reach the search service.
type Service struct {
	Endpoint           *string `hcl:"endpoint,optional"`
	Transport          *string `hcl:"transport,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
}

// Search describes the search request.
type Search struct {
	StartURL  *string `hcl:"start_url,optional"`
	TargetURL *string `hcl:"target_url,optional"`
	MaxNodes  *int    `hcl:"max_nodes,optional"`
	Algorithm *string `hcl:"algorithm,optional"`
}

// merge overlays every attribute set in other onto p.
func (p *Profile) merge(other Profile) {
	overlay(&p.Service.Endpoint, other.Service.Endpoint)
	overlay(&p.Service.Transport, other.Service.Transport)
	overlay(&p.Service.InsecureSkipVerify, other.Service.InsecureSkipVerify)
	overlay(&p.Search.StartURL, other.Search.StartURL)
	overlay(&p.Search.TargetURL, other.Search.TargetURL)
	overlay(&p.Search.MaxNodes, other.Search.MaxNodes)
	overlay(&p.Search.Algorithm, other.Search.Algorithm)
}

func overlay[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
