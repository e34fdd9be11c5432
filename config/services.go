package config

import (
	"net/url"

	"github.com/kochabx/apikit/client"
	"github.com/kochabx/apikit/registry"
)

// Services is the declarative form of a service registry.
type Services struct {
	Services []Service `json:"services" mapstructure:"services" validate:"dive"`
}

// Service is one declarative service definition.
type Service struct {
	Name    string            `json:"name" mapstructure:"name" validate:"required"`
	BaseURL string            `json:"base_url" mapstructure:"base_url" validate:"required,url"`
	Headers map[string]string `json:"headers" mapstructure:"headers"`
	Query   map[string]string `json:"query" mapstructure:"query"`
}

// Apply registers every definition onto r. Re-applying replaces existing
// services of the same name, which resets their interceptor chains — wire
// interceptors from the reload callback when hot reload is in use.
func (s *Services) Apply(r *registry.Registry, opts ...client.ServiceOption) {
	for _, def := range s.Services {
		serviceOpts := make([]client.ServiceOption, 0, len(opts)+2)
		serviceOpts = append(serviceOpts, opts...)

		if len(def.Headers) > 0 {
			serviceOpts = append(serviceOpts, client.WithDefaultHeaders(def.Headers))
		}
		if len(def.Query) > 0 {
			query := make(url.Values, len(def.Query))
			for k, v := range def.Query {
				query.Set(k, v)
			}
			serviceOpts = append(serviceOpts, client.WithDefaultOptions(&client.Options{Query: query}))
		}

		r.Register(def.Name, def.BaseURL, serviceOpts...)
	}
}
