// Package instance names the running process for logs.
package instance

import (
	"os"

	"github.com/angelmondragon/inventario-backend/pkg/env"
)

// ID returns $INVENTARIO_INSTANCE_ID, then the platform dyno name, then the
// hostname, then "local".
func ID() string {
	if id, ok := env.First("INVENTARIO_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
