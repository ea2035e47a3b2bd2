package config

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Transport kinds supported for MCP servers.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

// MCP groups MCP server definitions. Servers may be listed inline or, when
// none are inline, loaded from URL.
type MCP struct {
	URL     string             `yaml:"url,omitempty" json:"url,omitempty" toml:"url,omitempty"`
	Servers map[string]*Server `yaml:"servers,omitempty" json:"servers,omitempty" toml:"servers,omitempty" validate:"dive"`
}

// Server describes a single MCP server. Env is injected into the environment
// of a stdio server process; Headers are sent with every HTTP request.
type Server struct {
	Name             string            `yaml:"-" json:"-" toml:"-"`
	Transport        string            `yaml:"transport,omitempty" json:"transport,omitempty" toml:"transport,omitempty" validate:"omitempty,oneof=stdio http sse"`
	Command          string            `yaml:"command,omitempty" json:"command,omitempty" toml:"command,omitempty"`
	Args             []string          `yaml:"args,omitempty" json:"args,omitempty" toml:"args,omitempty"`
	WorkingDirectory string            `yaml:"working_directory,omitempty" json:"working_directory,omitempty" toml:"working_directory,omitempty"`
	Env              map[string]string `yaml:"env,omitempty" json:"env,omitempty" toml:"env,omitempty"`
	URL              string            `yaml:"url,omitempty" json:"url,omitempty" toml:"url,omitempty" validate:"omitempty,url"`
	Headers          map[string]string `yaml:"headers,omitempty" json:"headers,omitempty" toml:"headers,omitempty"`
}

// Validate checks the section shape. Individual servers are validated once
// resolved, since inline entries may only carry secrets for servers defined
// elsewhere.
func (m *MCP) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid mcp config: %w", err)
	}
	return nil
}

// Names returns inline server names in sorted order.
func (m *MCP) Names() []string {
	names := make([]string, 0, len(m.Servers))
	for name := range m.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveServers returns the servers downloaded from URL with inline entries
// overlaid by name; inline entries unknown to URL are added as is. Entries
// that define neither a transport, command nor url are overlays without a
// target and are left out. The result is sorted by name.
func (m *MCP) ResolveServers(ctx context.Context) ([]*Server, error) {
	servers := map[string]*Server{}
	if m.URL != "" {
		fs := afs.New()
		data, err := fs.DownloadWithURL(ctx, m.URL)
		if err != nil {
			return nil, fmt.Errorf("download servers config %q: %w", m.URL, err)
		}
		if err = yaml.Unmarshal(data, &servers); err != nil {
			return nil, fmt.Errorf("parse servers config %q: %w", m.URL, err)
		}
	}
	for name, srv := range m.Servers {
		if srv == nil {
			continue
		}
		base, ok := servers[name]
		if !ok || base == nil {
			base = &Server{}
			servers[name] = base
		}
		base.merge(srv)
	}
	var result []*Server
	for name, srv := range servers {
		if srv == nil || srv.overlayOnly() {
			continue
		}
		srv.Name = name
		srv.init()
		result = append(result, srv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Add registers srv under name after validating it. An existing server is
// only replaced when replace is set.
func (m *MCP) Add(name string, srv *Server, replace bool) error {
	if name == "" {
		return fmt.Errorf("mcp server name is required")
	}
	if _, ok := m.Servers[name]; ok && !replace {
		return fmt.Errorf("mcp server %q already exists", name)
	}
	candidate := *srv
	candidate.Name = name
	candidate.init()
	if err := candidate.Validate(); err != nil {
		return err
	}
	if m.Servers == nil {
		m.Servers = make(map[string]*Server)
	}
	m.Servers[name] = srv
	return nil
}

func (m *MCP) merge(overlay *MCP) {
	setIfNotEmpty(&m.URL, overlay.URL)
	if len(overlay.Servers) == 0 {
		return
	}
	if m.Servers == nil {
		m.Servers = make(map[string]*Server, len(overlay.Servers))
	}
	for name, srv := range overlay.Servers {
		if srv == nil {
			continue
		}
		base, ok := m.Servers[name]
		if !ok || base == nil {
			base = &Server{}
			m.Servers[name] = base
		}
		base.merge(srv)
	}
}

// Validate checks that the server can be reached with its transport.
func (s *Server) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid mcp server %q: %w", s.Name, err)
	}
	switch s.Transport {
	case TransportStdio:
		if s.Command == "" {
			return fmt.Errorf("invalid mcp server %q: command is required for stdio transport", s.Name)
		}
	case TransportHTTP, TransportSSE:
		if s.URL == "" {
			return fmt.Errorf("invalid mcp server %q: url is required for %s transport", s.Name, s.Transport)
		}
	default:
		return fmt.Errorf("invalid mcp server %q: neither command nor url is set", s.Name)
	}
	return nil
}

// Environ returns Env as a sorted KEY=VALUE list.
func (s *Server) Environ() []string {
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+s.Env[k])
	}
	return result
}

// overlayOnly reports whether s carries nothing that identifies a server.
func (s *Server) overlayOnly() bool {
	return s.Transport == "" && s.Command == "" && s.URL == ""
}

func (s *Server) init() {
	if s.Transport != "" {
		return
	}
	switch {
	case s.Command != "":
		s.Transport = TransportStdio
	case s.URL != "":
		s.Transport = TransportHTTP
	}
}

func (s *Server) merge(overlay *Server) {
	setIfNotEmpty(&s.Transport, overlay.Transport)
	setIfNotEmpty(&s.Command, overlay.Command)
	setIfNotEmpty(&s.WorkingDirectory, overlay.WorkingDirectory)
	setIfNotEmpty(&s.URL, overlay.URL)
	if len(overlay.Args) > 0 {
		s.Args = append([]string{}, overlay.Args...)
	}
	s.Env = mergeMap(s.Env, overlay.Env)
	s.Headers = mergeMap(s.Headers, overlay.Headers)
}

func mergeMap(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overlay))
	}
	for k, v := range overlay {
		// an empty overlay value never blanks out a configured one
		if _, ok := base[k]; ok && v == "" {
			continue
		}
		base[k] = v
	}
	return base
}
