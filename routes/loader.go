package routes

import (
	"fmt"
	"os"
	"sort"

	"github.com/marcelsud/salessuite-connector/trigger"
	"gopkg.in/yaml.v3"
)

/* Loader manages route configuration from routes.yaml
 * Provides in-memory lookup for fast access
 */

// Config represents the structure of routes.yaml
type Config struct {
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig represents a single route in the YAML file
type RouteConfig struct {
	RouteID              string `yaml:"route_id"`
	Event                string `yaml:"event"`
	trigger.FilterParams `yaml:",inline"`
}

// Loader holds the loaded routes
type Loader struct {
	routes map[string]*Route
}

// NewLoader creates a new route loader
func NewLoader() *Loader {
	return &Loader{
		routes: make(map[string]*Route),
	}
}

// Load reads and parses the routes.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading routes file: %w", err)
	}
	return l.Parse(data)
}

// Parse validates routes from YAML content. Nothing is kept when any
// route is invalid.
func (l *Loader) Parse(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing routes YAML: %w", err)
	}

	loaded := make(map[string]*Route, len(config.Routes))
	for _, rc := range config.Routes {
		route := &Route{
			RouteID: rc.RouteID,
			Event:   trigger.Event(rc.Event),
			Filter:  rc.FilterParams,
		}
		if err := route.Validate(); err != nil {
			return fmt.Errorf("validating route: %w", err)
		}
		if _, dup := loaded[route.RouteID]; dup {
			return fmt.Errorf("validating route: duplicate route_id %s", route.RouteID)
		}
		loaded[route.RouteID] = route
	}

	for id, route := range loaded {
		l.routes[id] = route
	}
	return nil
}

// Get retrieves a route by its ID
func (l *Loader) Get(routeID string) (*Route, error) {
	route, exists := l.routes[routeID]
	if !exists {
		return nil, fmt.Errorf("route not found: %s", routeID)
	}
	return route, nil
}

// List returns all loaded routes ordered by ID
func (l *Loader) List() []*Route {
	routes := make([]*Route, 0, len(l.routes))
	for _, route := range l.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].RouteID < routes[j].RouteID })
	return routes
}

// Exists checks if a route ID exists
func (l *Loader) Exists(routeID string) bool {
	_, exists := l.routes[routeID]
	return exists
}
