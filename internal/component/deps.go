// internal/component/deps.go
package component

import (
	"github.com/yanizio/triomap/internal/artist"
	"github.com/yanizio/triomap/internal/live"
	"github.com/yanizio/triomap/internal/pin"
	"github.com/yanizio/triomap/internal/stats"
)

// Deps exposes the process-wide services to Components during Init.
type Deps interface {
	Pins() *pin.Service
	Artists() *artist.Service
	Stats() *stats.Service
	Hub() *live.Hub
}

// Services is the plain Deps implementation built by cmd/web.
type Services struct {
	PinSvc    *pin.Service
	ArtistSvc *artist.Service
	StatsSvc  *stats.Service
	LiveHub   *live.Hub
}

func (s *Services) Pins() *pin.Service       { return s.PinSvc }
func (s *Services) Artists() *artist.Service { return s.ArtistSvc }
func (s *Services) Stats() *stats.Service    { return s.StatsSvc }
func (s *Services) Hub() *live.Hub           { return s.LiveHub }
