// Package delivery contains the transports that expose the use cases.
package delivery

import "context"

// Delivery is a transport started by the application, such as the HTTP API.
// Serve blocks until the transport stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
