// Package location supplies the position fix attached to a check-in.
package location

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("location unavailable")

type Fix struct {
	Latitude  float64
	Longitude float64
}

type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// Static always reports the same fix. It is what the command line uses,
// configured per site.
type Static struct {
	Fix Fix
}

func (s Static) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return s.Fix, nil
}

// Denied models a device where positioning permission was refused.
type Denied struct{}

func (Denied) Locate(context.Context) (Fix, error) {
	return Fix{}, ErrUnavailable
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Fix, error)

func (f LocatorFunc) Locate(ctx context.Context) (Fix, error) { return f(ctx) }
