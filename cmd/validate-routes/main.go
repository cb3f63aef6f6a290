package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/marcelsud/salessuite-connector/routes"
	"github.com/marcelsud/salessuite-connector/trigger"
)

/* validate-routes - Standalone CLI tool to validate routes.yaml
 * Usage: go run cmd/validate-routes/main.go [routes.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	routesFile := "routes.yaml"
	if len(os.Args) > 1 {
		routesFile = os.Args[1]
	}

	fmt.Printf("Validating routes file: %s\n", routesFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := routes.NewLoader()
	if err := loader.Load(routesFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loadedRoutes := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d route(s):\n", len(loadedRoutes))

	for i, route := range loadedRoutes {
		fmt.Printf("\n%d. Route: %s\n", i+1, route.RouteID)
		fmt.Printf("   Event:    %s\n", route.Event)
		fmt.Printf("   Callback: %s\n", trigger.CallbackURL("{PUBLIC_URL}", trigger.Production, route.RouteID))

		filter, _ := trigger.BuildFilter(route.Event, route.Filter)
		for _, key := range slices.Sorted(maps.Keys(filter)) {
			fmt.Printf("   Filter %s: %v\n", key, filter[key])
		}
	}

	fmt.Printf("\n✓ All routes are valid!\n")
	os.Exit(0)
}
