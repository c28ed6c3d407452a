package encoder

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Backend names accepted by Registry.Get.
const (
	Auto   = "auto"
	Native = "native"
	CWebP  = "cwebp"
)

// Registry holds the available WebP backends in priority order.
type Registry struct {
	encoders []Encoder
}

// NewRegistry creates a registry, probing all backends for availability.
func NewRegistry() *Registry {
	return newRegistry(&CWebPEncoder{}, &WebPEncoder{})
}

func newRegistry(all ...Encoder) *Registry {
	r := &Registry{}
	for _, enc := range all {
		if enc.Available() {
			r.encoders = append(r.encoders, enc)
		}
	}
	return r
}

// Get returns the backend with the given name. "auto" (or "") selects the
// highest-priority available backend.
func (r *Registry) Get(name string) (Encoder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == Auto {
		if len(r.encoders) == 0 {
			return nil, fmt.Errorf("no webp encoder available")
		}
		enc := r.encoders[0]
		if enc.Name() == Native {
			log.Warn().Msg("cwebp not found, native encoder uses libwebp's default method instead of -m 6; install webp for smaller output")
		}
		return enc, nil
	}
	for _, enc := range r.encoders {
		if enc.Name() == name {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("webp encoder %q not available (%s)", name, r)
}

// Available returns the names of all available backends in priority order.
func (r *Registry) Available() []string {
	out := make([]string, 0, len(r.encoders))
	for _, enc := range r.encoders {
		out = append(out, enc.Name())
	}
	return out
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
